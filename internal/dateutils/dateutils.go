// Package dateutils provides the date parsing and normalization used across
// the pipeline. Bank statements show dates in whatever layout the issuing
// bank prefers; everything downstream works on ISO calendar dates.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date layout constants.
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutEuropean  = "02-01-2006"
	DateLayoutSlash     = "02/01/2006"
	DateLayoutWithMonth = "02-Jan-2006"
)

// statementFormats lists the layouts seen on real statements, most specific
// first. Day-first layouts come before month-first: the corpus this pipeline
// targets writes 05/01/2025 for January 5th.
var statementFormats = []string{
	DateLayoutISO,              // 2025-01-05
	DateLayoutISO + "T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	DateLayoutWithMonth,        // 05-Jan-2025
	"2-Jan-2006",               // 5-Jan-2025
	"02 Jan 2006",              // 05 Jan 2025
	"2 Jan 2006",               // 5 Jan 2025
	"Jan 02, 2006",             // Jan 05, 2025
	"January 2, 2006",          // January 5, 2025
	"2 January 2006",           // 5 January 2025
	DateLayoutEuropean,         // 05-01-2025
	DateLayoutSlash,            // 05/01/2025
	"02.01.2006",               // 05.01.2025
	"2.1.2006",                 // 5.1.2025
	"2006/01/02",               // 2025/01/05
	"01/02/2006",               // US month-first, last resort
}

var spaceRe = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace in a date string.
func CleanDateString(dateStr string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDateString attempts to parse a date string using the statement
// layouts, trying each until one works.
func ParseDateString(dateStr string) (time.Time, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, format := range statementFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// NormalizeToISO converts any recognized statement date to YYYY-MM-DD.
// Strings already in ISO form pass through after a validity check.
func NormalizeToISO(dateStr string) (string, error) {
	t, err := ParseDateString(dateStr)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayoutISO), nil
}

// IsISODate reports whether s matches YYYY-MM-DD and denotes a real calendar
// date (2025-02-30 fails).
func IsISODate(s string) bool {
	if !isoShapeRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayoutISO, s)
	return err == nil
}

var isoShapeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
