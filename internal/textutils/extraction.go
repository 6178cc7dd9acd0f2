// Package textutils provides text extraction utilities for noisy model
// output. Providers return free text that may wrap the JSON payload in
// markdown fences or surround it with prose.
package textutils

import (
	"regexp"
	"strings"
)

// jsonSpanRe matches greedily from the first '{' to the last '}', which is
// the widest span that can hold the payload. Balancing is left to the JSON
// parser; this only trims the surrounding noise.
var jsonSpanRe = regexp.MustCompile(`\{[\s\S]*\}`)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSONObject locates the JSON object embedded in raw model output.
// It returns the candidate span and whether one was found; the caller still
// has to parse it.
func ExtractJSONObject(raw string) (string, bool) {
	text := strings.TrimSpace(raw)

	// Prefer the content of a markdown fence when one is present.
	if m := fenceRe.FindStringSubmatch(text); len(m) > 1 {
		if span := jsonSpanRe.FindString(m[1]); span != "" {
			return span, true
		}
	}

	if span := jsonSpanRe.FindString(text); span != "" {
		return span, true
	}
	return "", false
}

// NormalizeDescription collapses internal whitespace in a narration so the
// same transaction re-emitted across overlapping pages produces an
// identical deduplication key.
func NormalizeDescription(description string) string {
	return strings.Join(strings.Fields(description), " ")
}
