package extracterror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_StatusCodes(t *testing.T) {
	tests := []struct {
		status   int
		expected Kind
	}{
		{400, KindMalformedRequest},
		{401, KindInvalidCredentials},
		{403, KindPermissionDenied},
		{404, KindModelNotFound},
		{429, KindQuotaExceeded},
		{500, KindUnknown},
		{0, KindUnknown},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			err := Classify("openai", tc.status, "", errors.New("boom"))

			assert.Equal(t, tc.expected, err.Kind)
			assert.Equal(t, "openai", err.Provider)
			assert.Equal(t, tc.status, err.StatusCode)
		})
	}
}

func TestClassify_BodyPhrases(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Kind
	}{
		{"api key phrase", "Invalid API key provided", KindInvalidCredentials},
		{"api_key phrase", `{"error": "missing api_key parameter"}`, KindInvalidCredentials},
		{"quota phrase", "You exceeded your current quota", KindQuotaExceeded},
		{"rate limit phrase", "Rate limit reached, try again in 2s", KindQuotaExceeded},
		{"model not found phrase", "The model `gpt-oops` was not found", KindModelNotFound},
		{"permission phrase", "you do not have permission to use this model", KindPermissionDenied},
		{"unrecognized body", "internal server error", KindUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Status 500 forces the body-phrase fallback.
			err := Classify("deepseek", 500, tc.body, nil)

			assert.Equal(t, tc.expected, err.Kind)
		})
	}
}

func TestClassify_StatusOutranksBody(t *testing.T) {
	err := Classify("groq", 401, "quota exceeded", nil)

	assert.Equal(t, KindInvalidCredentials, err.Kind)
}

func TestClassify_BodyBecomesErrorWhenNilErr(t *testing.T) {
	err := Classify("openai", 429, "  too many requests  ", nil)

	assert.EqualError(t, err.Unwrap(), "too many requests")
}

func TestProviderError_Error(t *testing.T) {
	withStatus := &ProviderError{Provider: "openai", Kind: KindQuotaExceeded, StatusCode: 429, Err: errors.New("slow down")}
	assert.Equal(t, "openai: quota_exceeded (status 429): slow down", withStatus.Error())

	withoutStatus := &ProviderError{Provider: "gemini", Kind: KindNetworkUnreachable, Err: errors.New("no route")}
	assert.Equal(t, "gemini: network_unreachable: no route", withoutStatus.Error())
}

func TestProviderError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	wrapped := fmt.Errorf("calling backend: %w", &ProviderError{Provider: "groq", Kind: KindQuotaExceeded, Err: inner})

	assert.True(t, errors.Is(wrapped, inner))
	assert.Equal(t, KindQuotaExceeded, KindOf(wrapped))
	assert.True(t, IsProviderError(wrapped))
}

func TestKindOf_NonProviderError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.False(t, IsProviderError(errors.New("plain")))
}

func TestNetwork(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := Network("openai", inner)

	assert.Equal(t, KindNetworkUnreachable, err.Kind)
	assert.Zero(t, err.StatusCode)
	assert.True(t, errors.Is(err, inner))
}

func TestMissingVariablesError(t *testing.T) {
	err := &MissingVariablesError{TemplateID: "extraction", Missing: []string{"a", "b"}}

	assert.Equal(t, `template "extraction": missing required variables: a, b`, err.Error())
}

func TestUnknownTemplateError(t *testing.T) {
	err := &UnknownTemplateError{TemplateID: "ghost"}

	assert.Equal(t, `template "ghost" is not registered`, err.Error())
}
