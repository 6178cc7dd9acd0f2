// Package sanitize detects and masks sensitive financial data in statement
// text before it is sent to any external model. Sanitization is a pure
// function over the input text: it never performs I/O and never fails.
//
// Pattern order matters twice over. Categories with high-specificity shapes
// (emails, PAN ids, IFSC codes, separator-grouped card numbers) run before
// the generic numeric account patterns so a card number is not swallowed by
// the account-number pass. Within a category, prefixed forms ("Account No:")
// run before bare numerics for the same reason. Each pass re-scans the
// already partially masked text, so overlapping categories cannot
// double-count a span.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

// PII category identifiers. They double as keys of Result.Summary and as the
// Type field of each Detection.
const (
	CategoryAccountNumber = "accountNumber"
	CategoryCardNumber    = "cardNumber"
	CategoryMobileNumber  = "mobileNumber"
	CategoryEmail         = "email"
	CategoryPANID         = "panId"
	CategoryCustomerID    = "customerId"
	CategoryIFSCCode      = "ifscCode"
	CategoryAddress       = "address"
	CategoryName          = "name"
)

// Config enumerates the togglable detection categories plus masking options.
type Config struct {
	AccountNumber bool
	CardNumber    bool
	MobileNumber  bool
	Email         bool
	PANID         bool
	CustomerID    bool
	IFSCCode      bool
	Address       bool
	Name          bool

	// MaskingCharacter replaces each masked rune. Defaults to "*".
	MaskingCharacter string

	// PreserveFormat keeps punctuation and spacing, masking only letters and
	// digits, so masked spans stay visually aligned with the original text.
	PreserveFormat bool
}

// DefaultConfig enables every category except Name, which relies on
// honorific heuristics and carries the highest false-positive risk.
func DefaultConfig() Config {
	return Config{
		AccountNumber:    true,
		CardNumber:       true,
		MobileNumber:     true,
		Email:            true,
		PANID:            true,
		CustomerID:       true,
		IFSCCode:         true,
		Address:          true,
		Name:             false,
		MaskingCharacter: "*",
		PreserveFormat:   true,
	}
}

// Detection records one masked span.
type Detection struct {
	Type     string `json:"type"`
	Original string `json:"-"` // never serialized: must not leave the process
	Masked   string `json:"masked"`
	Position int    `json:"position"`
}

// Result is the outcome of one sanitization pass.
type Result struct {
	SanitizedText string
	Detections    []Detection
	Summary       map[string]int
}

// rule is one detection pattern. When the pattern has a capture group only
// the group is masked, which leaves prefixes like "Account No:" readable.
type rule struct {
	category string
	pattern  *regexp.Regexp
	group    bool
}

// Rules are ordered by specificity. The generic account-number numeric runs
// last among the number-shaped categories.
var rules = []rule{
	// Email addresses.
	{CategoryEmail, regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`), false},

	// Indian PAN: five letters, four digits, one letter.
	{CategoryPANID, regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`), false},

	// IFSC: four letters, zero, six alphanumerics.
	{CategoryIFSCCode, regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`), false},

	// Card numbers: four groups of four with optional separators, and
	// partially pre-masked forms ending in the visible last four.
	{CategoryCardNumber, regexp.MustCompile(`\b(?:\d{4}[ \-]){3}\d{4}\b`), false},
	{CategoryCardNumber, regexp.MustCompile(`\b[Xx*]{4,12}\d{4}\b`), false},

	// Mobile numbers: optional +91 prefix, Indian mobile range, or the
	// 5-5 split banks print on statements.
	{CategoryMobileNumber, regexp.MustCompile(`(?:\+91[ \-]?)?\b[6-9]\d{9}\b`), false},
	{CategoryMobileNumber, regexp.MustCompile(`\b\d{5}[ \-]\d{5}\b`), false},

	// Account numbers: explicit prefixed forms first, then bare long runs.
	{CategoryAccountNumber, regexp.MustCompile(`(?i)a/?c(?:count)?[ \t]*(?:no|number|#)?[ \t]*[:.\-]?[ \t]*(\d[\dXx*]{7,18}\d)`), true},
	{CategoryAccountNumber, regexp.MustCompile(`\b\d{11,18}\b`), false},

	// Customer / CIF ids, always prefixed.
	{CategoryCustomerID, regexp.MustCompile(`(?i)(?:cust(?:omer)?[ \t]*id|cif(?:[ \t]*no)?)[ \t]*[:.\-]?[ \t]*([A-Za-z0-9]{4,12})`), true},

	// Address lines introduced by a label.
	{CategoryAddress, regexp.MustCompile(`(?i)(?:address|addr)[ \t]*[:.\-][ \t]*([^\n]{10,80})`), true},

	// Honorific-based names. Highest false-positive risk, off by default.
	{CategoryName, regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Shri|Smt)\.?[ \t]+[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){0,2}`), false},
}

// Sanitize masks every enabled PII category in text and reports what was
// masked. It is total: text without matches yields the input unchanged with
// an empty detection list.
func Sanitize(text string, cfg Config) Result {
	if cfg.MaskingCharacter == "" {
		cfg.MaskingCharacter = "*"
	}

	result := Result{
		SanitizedText: text,
		Summary:       make(map[string]int),
	}

	for _, r := range rules {
		if !categoryEnabled(cfg, r.category) {
			continue
		}
		result.SanitizedText = applyRule(result.SanitizedText, r, cfg, &result)
	}

	return result
}

func categoryEnabled(cfg Config, category string) bool {
	switch category {
	case CategoryAccountNumber:
		return cfg.AccountNumber
	case CategoryCardNumber:
		return cfg.CardNumber
	case CategoryMobileNumber:
		return cfg.MobileNumber
	case CategoryEmail:
		return cfg.Email
	case CategoryPANID:
		return cfg.PANID
	case CategoryCustomerID:
		return cfg.CustomerID
	case CategoryIFSCCode:
		return cfg.IFSCCode
	case CategoryAddress:
		return cfg.Address
	case CategoryName:
		return cfg.Name
	}
	return false
}

// applyRule masks every match of one rule over the current text state and
// records the detections.
func applyRule(text string, r rule, cfg Config, result *Result) string {
	matches := r.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		// With a capture group, mask only the captured value.
		if r.group && len(m) >= 4 && m[2] >= 0 {
			start, end = m[2], m[3]
		}
		if start < last {
			continue
		}

		original := text[start:end]
		masked := maskValue(original, cfg.MaskingCharacter, cfg.PreserveFormat)

		b.WriteString(text[last:start])
		b.WriteString(masked)
		last = end

		result.Detections = append(result.Detections, Detection{
			Type:     r.category,
			Original: original,
			Masked:   masked,
			Position: start,
		})
		result.Summary[r.category]++
	}

	b.WriteString(text[last:])
	return b.String()
}

// maskValue replaces a detected span. With preserveFormat only letters and
// digits are replaced, so the masked span keeps the original length and
// punctuation either way.
func maskValue(s, maskChar string, preserveFormat bool) string {
	var b strings.Builder
	for _, r := range s {
		if !preserveFormat || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteString(maskChar)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
