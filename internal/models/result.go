package models

import (
	"github.com/shopspring/decimal"
)

// UserCategory is a caller-supplied category label. The pipeline treats the
// set as opaque: it is injected into prompts and matched against model
// output, never interpreted.
type UserCategory struct {
	Name string `json:"name"`
}

// CategoryNames flattens a category set into its names.
func CategoryNames(categories []UserCategory) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// ExtractionUsage counts the tokens one provider call consumed.
type ExtractionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Add accumulates another call's usage into this one.
func (u *ExtractionUsage) Add(other ExtractionUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
}

// BalanceData carries the running-balance figures the model read off one
// page. All balances are nullable: statements frequently show only a subset.
// Confidence is the model's own 0-100 self-assessment and is prompt-level
// guidance, not something the pipeline verifies.
type BalanceData struct {
	OpeningBalance   *decimal.Decimal `json:"opening_balance"`
	ClosingBalance   *decimal.Decimal `json:"closing_balance"`
	AvailableBalance *decimal.Decimal `json:"available_balance"`
	CurrentBalance   *decimal.Decimal `json:"current_balance"`
	Confidence       int              `json:"balance_confidence"`
	Notes            string           `json:"balance_notes"`
}

// BestClosing returns the most specific closing figure present: closing,
// then current, then available balance.
func (b *BalanceData) BestClosing() *decimal.Decimal {
	if b == nil {
		return nil
	}
	switch {
	case b.ClosingBalance != nil:
		return b.ClosingBalance
	case b.CurrentBalance != nil:
		return b.CurrentBalance
	default:
		return b.AvailableBalance
	}
}

// ExtractionResult is the normalized outcome of one provider call on one
// page of statement text.
type ExtractionResult struct {
	Transactions      []Transaction   `json:"transactions"`
	BalanceData       *BalanceData    `json:"balance_data,omitempty"`
	Usage             ExtractionUsage `json:"usage"`
	SecurityBreakdown map[string]int  `json:"security_breakdown,omitempty"`
}

// PageResult is the caller-facing record for one processed page. A failed
// page still produces a PageResult, with empty transactions and the failure
// described in ProcessingNotes, so a multi-page job can continue.
type PageResult struct {
	PageNumber                int              `json:"page_number"`
	TotalPages                int              `json:"total_pages"`
	Transactions              []Transaction    `json:"transactions"`
	BalanceData               *BalanceData     `json:"balance_data"`
	PageEndingBalance         *decimal.Decimal `json:"page_ending_balance"`
	ProcessingNotes           string           `json:"processing_notes"`
	HasIncompleteTransactions bool             `json:"has_incomplete_transactions"`
	SecurityBreakdown         map[string]int   `json:"security_breakdown,omitempty"`
	Usage                     ExtractionUsage  `json:"usage"`
}

// AggregatedStatement is the deduplicated, ordered union of all page results
// for one statement upload. It is owned exclusively by the orchestration
// loop that builds it; concurrent uploads must each use their own instance.
type AggregatedStatement struct {
	Transactions      []Transaction    `json:"transactions"`
	RunningBalance    *decimal.Decimal `json:"running_balance"`
	PagesProcessed    int              `json:"pages_processed"`
	TotalInputTokens  int              `json:"total_input_tokens"`
	TotalOutputTokens int              `json:"total_output_tokens"`
}

// ConnectionStatus is the result of a provider health check. It is always a
// value, never an error: health checks must not take the error path.
type ConnectionStatus struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
