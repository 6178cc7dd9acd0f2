// Package extracterror defines the error taxonomy shared by all provider
// adapters, so callers can react to a failure class without knowing which
// backend produced it.
package extracterror

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a provider failure into one of the caller-facing classes.
type Kind string

const (
	KindInvalidCredentials Kind = "invalid_credentials"
	KindNetworkUnreachable Kind = "network_unreachable"
	KindQuotaExceeded      Kind = "quota_exceeded"
	KindPermissionDenied   Kind = "permission_denied"
	KindModelNotFound      Kind = "model_not_found"
	KindMalformedRequest   Kind = "malformed_request"
	KindUnknown            Kind = "unknown_provider_error"
)

// ProviderError represents a failure raised by an LLM backend, normalized
// from backend-specific signals (HTTP status codes, error message phrasing).
type ProviderError struct {
	Provider   string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure class of err, or KindUnknown when err is not a
// ProviderError.
func KindOf(err error) Kind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// IsProviderError reports whether err carries a provider failure class.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// Classify maps an HTTP status code and response body onto the taxonomy.
// The body is inspected for the quota and model-not-found phrasings several
// backends use instead of (or on top of) the expected status code.
func Classify(provider string, statusCode int, body string, err error) *ProviderError {
	kind := KindUnknown
	lower := strings.ToLower(body)

	switch statusCode {
	case 400:
		kind = KindMalformedRequest
	case 401:
		kind = KindInvalidCredentials
	case 403:
		kind = KindPermissionDenied
	case 404:
		kind = KindModelNotFound
	case 429:
		kind = KindQuotaExceeded
	default:
		switch {
		case strings.Contains(lower, "api key") || strings.Contains(lower, "api_key"):
			kind = KindInvalidCredentials
		case strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit"):
			kind = KindQuotaExceeded
		case strings.Contains(lower, "not found"):
			kind = KindModelNotFound
		case strings.Contains(lower, "permission"):
			kind = KindPermissionDenied
		}
	}

	if err == nil {
		err = errors.New(strings.TrimSpace(body))
	}
	return &ProviderError{Provider: provider, Kind: kind, StatusCode: statusCode, Err: err}
}

// Network wraps a transport-level failure (DNS, refused connection, timeout)
// where no HTTP status was ever received.
func Network(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: KindNetworkUnreachable, Err: err}
}

// MissingVariablesError reports every required template placeholder absent
// from the variable map of a Build call. It is a programmer error and is
// raised before any substitution happens.
type MissingVariablesError struct {
	TemplateID string
	Missing    []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("template %q: missing required variables: %s",
		e.TemplateID, strings.Join(e.Missing, ", "))
}

// UnknownTemplateError is returned when a template id was never registered.
type UnknownTemplateError struct {
	TemplateID string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("template %q is not registered", e.TemplateID)
}
