// Package provider contains the interchangeable LLM backend adapters. Every
// adapter implements the same contract: sanitize the page, build the prompt,
// invoke the backend, and normalize the response. Callers select a backend
// through the factory and never see backend-specific types or errors.
package provider

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/stmt-extract/internal/config"
	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/models"
	"fjacquet/stmt-extract/internal/normalize"
	"fjacquet/stmt-extract/internal/prompt"
	"fjacquet/stmt-extract/internal/sanitize"
)

// Request is one page-extraction call. PreviousBalance, when known, is the
// closing balance of the preceding page and feeds both the prompt context
// and the balance-delta sign policy.
type Request struct {
	PageText        string
	UserCategories  []models.UserCategory
	PreviousBalance *decimal.Decimal
}

// DocumentCheck is the outcome of a bank-statement validation call.
type DocumentCheck struct {
	IsBankStatement bool   `json:"is_bank_statement"`
	Confidence      int    `json:"confidence"`
	DocumentType    string `json:"document_type"`
}

// Provider is the contract every backend adapter implements.
type Provider interface {
	// ExtractTransactions runs the full pipeline for one page of statement
	// text. Provider-level failures propagate; model output problems are
	// absorbed into an empty result by the normalizer.
	ExtractTransactions(ctx context.Context, req Request) (*models.ExtractionResult, error)

	// ValidateDocument asks the backend whether text is a bank statement.
	ValidateDocument(ctx context.Context, text string) (*DocumentCheck, error)

	// TestConnection performs a minimal round-trip. It never returns an
	// error: health checks report failure as data.
	TestConnection(ctx context.Context) models.ConnectionStatus

	// Name returns the provider type name for logging.
	Name() string
}

// Deps bundles the pipeline collaborators every adapter shares.
type Deps struct {
	Registry    *prompt.Registry
	Normalizer  *normalize.Normalizer
	SanitizeCfg sanitize.Config
	Logger      logging.Logger
}

// ErrUnknownProvider is returned by New for an unrecognized provider type.
var ErrUnknownProvider = fmt.Errorf("unknown provider type")

// New builds the provider selected in cfg. The groq variant is wrapped in
// the bounded rate-limit retrier; all other variants fail fast.
func New(cfg *config.Config, deps Deps) (Provider, error) {
	if deps.Logger == nil {
		deps.Logger = logging.Nop{}
	}
	timeout := cfg.Provider.TimeoutSeconds

	switch cfg.Provider.Type {
	case "gemini":
		return newGeminiProvider(cfg.Provider.Gemini, deps), nil
	case "openai":
		return newRESTProvider("openai", cfg.Provider.OpenAI, timeout, deps), nil
	case "deepseek":
		return newRESTProvider("deepseek", cfg.Provider.DeepSeek, timeout, deps), nil
	case "groq":
		rest := newRESTProvider("groq", cfg.Provider.Groq, timeout, deps)
		return newRateLimitedProvider(rest, deps.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider.Type)
	}
}
