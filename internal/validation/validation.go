// Package validation holds the per-record checks applied after
// normalization and the optional JSON-schema check applied to the raw model
// payload. Records failing the checks are filtered, never raised as errors:
// a handful of malformed entries must not fail a whole page.
package validation

import (
	_ "embed"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"fjacquet/stmt-extract/internal/dateutils"
	"fjacquet/stmt-extract/internal/models"
)

// IsValidTransaction reports whether a normalized record is usable: the date
// is a real ISO calendar date and the description is non-empty. Amounts are
// already decimal by this point; category and currency are defaulted
// upstream, never rejected here.
func IsValidTransaction(t models.Transaction) bool {
	if !dateutils.IsISODate(t.Date) {
		return false
	}
	if strings.TrimSpace(t.Description) == "" {
		return false
	}
	return true
}

//go:embed payload_schema.json
var payloadSchemaJSON string

var payloadSchema = jsonschema.MustCompileString("payload_schema.json", payloadSchemaJSON)

// ValidatePayload checks the extracted JSON span against the documented
// extraction schema. Callers treat a failure as advisory: normalization
// still runs its lenient path so schema drift degrades instead of aborting.
func ValidatePayload(v interface{}) error {
	return payloadSchema.Validate(v)
}
