package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		found    bool
	}{
		{
			name:     "bare object",
			raw:      `{"a": 1}`,
			expected: `{"a": 1}`,
			found:    true,
		},
		{
			name:     "object surrounded by prose",
			raw:      "Sure! Here you go: {\"a\": 1} Hope that helps.",
			expected: `{"a": 1}`,
			found:    true,
		},
		{
			name:     "json fence",
			raw:      "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
			found:    true,
		},
		{
			name:     "anonymous fence",
			raw:      "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
			found:    true,
		},
		{
			name:     "fence preferred over trailing prose braces",
			raw:      "```json\n{\"a\": 1}\n``` and some {stray} braces",
			expected: `{"a": 1}`,
			found:    true,
		},
		{
			name:     "nested object spans widest braces",
			raw:      `prefix {"outer": {"inner": 2}} suffix`,
			expected: `{"outer": {"inner": 2}}`,
			found:    true,
		},
		{
			name:  "no object",
			raw:   "no transactions found on this page",
			found: false,
		},
		{
			name:  "empty",
			raw:   "",
			found: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			span, found := ExtractJSONObject(tc.raw)

			assert.Equal(t, tc.found, found)
			if tc.found {
				assert.Equal(t, tc.expected, span)
			}
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  POS   0412  MERCHANT ", "POS 0412 MERCHANT"},
		{"already clean", "already clean"},
		{"tabs\tand\nnewlines", "tabs and newlines"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, NormalizeDescription(tc.input))
	}
}
