package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/stmt-extract/internal/categories"
	"fjacquet/stmt-extract/internal/models"
)

func newTestNormalizer() *Normalizer {
	return New("INR", categories.DefaultTaxonomy(), nil)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNormalize_CleanPayload(t *testing.T) {
	raw := `{
		"transactions": [
			{"date": "2025-01-05", "description": "UPI-SWIGGY-ORDER", "amount": -450.00, "suggested_category": "food", "currency": "INR"},
			{"date": "2025-01-06", "description": "NEFT SALARY CR", "amount": 85000, "suggested_category": "salary"}
		],
		"balance_data": {"opening_balance": 10000, "closing_balance": 94550, "balance_confidence": 95}
	}`

	result := newTestNormalizer().Normalize(raw, nil, nil, models.ExtractionUsage{PromptTokens: 12, CompletionTokens: 34})

	require.Len(t, result.Transactions, 2)

	first := result.Transactions[0]
	assert.Equal(t, "2025-01-05", first.Date)
	assert.Equal(t, "UPI-SWIGGY-ORDER", first.Description)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("-450")))
	assert.Equal(t, "food", first.Category)
	assert.Equal(t, "INR", first.Currency)
	assert.Equal(t, models.TypeExpense, first.Type)

	second := result.Transactions[1]
	assert.Equal(t, models.TypeIncome, second.Type)
	// Currency falls back to the configured default when omitted.
	assert.Equal(t, "INR", second.Currency)

	require.NotNil(t, result.BalanceData)
	assert.True(t, result.BalanceData.ClosingBalance.Equal(decimal.RequireFromString("94550")))
	assert.Equal(t, 95, result.BalanceData.Confidence)
	assert.Equal(t, 12, result.Usage.PromptTokens)
}

func TestNormalize_MarkdownFencedPayload(t *testing.T) {
	raw := "Here is the extraction:\n```json\n" +
		`{"transactions": [{"date": "2025-01-05", "description": "ATM WDL", "amount": "-2,000.00"}]}` +
		"\n```\nLet me know if you need anything else."

	result := newTestNormalizer().Normalize(raw, nil, nil, models.ExtractionUsage{})

	require.Len(t, result.Transactions, 1)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.RequireFromString("-2000")))
}

func TestNormalize_SignCorrectedFromBalanceDelta(t *testing.T) {
	// The narration reads like a credit but the running balance fell: the
	// delta decides, so the amount comes out as -510.00 even though the model
	// reported a positive figure.
	raw := `{"transactions": [
		{"date": "2025-01-05", "description": "CHQ DEP RETURN 510", "amount": 510.00, "balance": 136472.64}
	]}`

	prev := dec("136982.64")
	result := newTestNormalizer().Normalize(raw, prev, nil, models.ExtractionUsage{})

	require.Len(t, result.Transactions, 1)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.RequireFromString("-510")),
		"got %s", result.Transactions[0].Amount)
	assert.Equal(t, models.TypeExpense, result.Transactions[0].Type)
}

func TestNormalize_ConcatenatedReferenceDigitsCorrected(t *testing.T) {
	// The model glued a reference number onto the amount; the balance delta
	// restores the real magnitude.
	raw := `{"transactions": [
		{"date": "2025-01-05", "description": "NEFT UTR 9000000000", "amount": -9000000510.00, "balance": 136472.64}
	]}`

	prev := dec("136982.64")
	result := newTestNormalizer().Normalize(raw, prev, nil, models.ExtractionUsage{})

	require.Len(t, result.Transactions, 1)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.RequireFromString("-510")))
}

func TestNormalize_OpeningBalanceSeedsRunningBalance(t *testing.T) {
	// balance_data.opening_balance outranks the carried-over balance.
	raw := `{
		"transactions": [
			{"date": "2025-01-05", "description": "PURCHASE", "amount": 100, "balance": 900}
		],
		"balance_data": {"opening_balance": 1000, "balance_confidence": 90}
	}`

	result := newTestNormalizer().Normalize(raw, dec("5000"), nil, models.ExtractionUsage{})

	require.Len(t, result.Transactions, 1)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.RequireFromString("-100")))
}

func TestNormalize_BalanceChainAcrossRows(t *testing.T) {
	raw := `{"transactions": [
		{"date": "2025-01-05", "description": "FIRST", "amount": -100, "balance": 900},
		{"date": "2025-01-06", "description": "SECOND", "amount": 50, "balance": 850}
	]}`

	result := newTestNormalizer().Normalize(raw, dec("1000"), nil, models.ExtractionUsage{})

	require.Len(t, result.Transactions, 2)
	// Second row's delta is computed against the first row's balance.
	assert.True(t, result.Transactions[1].Amount.Equal(decimal.RequireFromString("-50")))
}

func TestNormalize_GarbageInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose only", "I could not find any transactions on this page."},
		{"broken JSON", `{"transactions": [{"date": "2025-`},
		{"wrong shape", `{"transactions": "none"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := newTestNormalizer().Normalize(tc.raw, nil, nil, models.ExtractionUsage{})

			require.NotNil(t, result)
			assert.Empty(t, result.Transactions)
			assert.Nil(t, result.BalanceData)
		})
	}
}

func TestNormalize_DropsInvalidRecords(t *testing.T) {
	raw := `{"transactions": [
		{"date": "2025-01-05", "description": "KEEP ME", "amount": -10},
		{"date": "someday", "description": "BAD DATE", "amount": -10},
		{"date": "2025-01-05", "description": "", "amount": -10},
		{"date": "2025-01-05", "description": "NO AMOUNT"}
	]}`

	result := newTestNormalizer().Normalize(raw, nil, nil, models.ExtractionUsage{})

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "KEEP ME", result.Transactions[0].Description)
}

func TestNormalize_DateFormatsNormalized(t *testing.T) {
	raw := `{"transactions": [
		{"date": "05-Jan-2025", "description": "A", "amount": -1},
		{"date": "05/01/2025", "description": "B", "amount": -1}
	]}`

	result := newTestNormalizer().Normalize(raw, nil, nil, models.ExtractionUsage{})

	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "2025-01-05", result.Transactions[0].Date)
	assert.Equal(t, "2025-01-05", result.Transactions[1].Date)
}

func TestNormalize_CurrencyStringAmounts(t *testing.T) {
	raw := `{"transactions": [
		{"date": "2025-01-05", "description": "A", "amount": "INR 1,234.56"},
		{"date": "2025-01-05", "description": "B", "amount": "₹500"}
	]}`

	result := newTestNormalizer().Normalize(raw, nil, nil, models.ExtractionUsage{})

	require.Len(t, result.Transactions, 2)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.RequireFromString("1234.56")))
	assert.True(t, result.Transactions[1].Amount.Equal(decimal.RequireFromString("500")))
}

func TestNormalize_UserCategoriesResolved(t *testing.T) {
	raw := `{"transactions": [
		{"date": "2025-01-05", "description": "BIG BAZAAR", "amount": -300, "suggested_category": "Grocery"}
	]}`

	userCategories := []models.UserCategory{{Name: "Groceries"}}
	result := newTestNormalizer().Normalize(raw, nil, userCategories, models.ExtractionUsage{})

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Groceries", result.Transactions[0].Category)
}

func TestNormalize_DescriptionWhitespaceCollapsed(t *testing.T) {
	raw := `{"transactions": [
		{"date": "2025-01-05", "description": "  POS   0412  MERCHANT ", "amount": -1}
	]}`

	result := newTestNormalizer().Normalize(raw, nil, nil, models.ExtractionUsage{})

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "POS 0412 MERCHANT", result.Transactions[0].Description)
}

func TestNormalize_ConfidenceClamped(t *testing.T) {
	raw := `{
		"transactions": [],
		"balance_data": {"closing_balance": 10, "balance_confidence": 250}
	}`

	result := newTestNormalizer().Normalize(raw, nil, nil, models.ExtractionUsage{})

	require.NotNil(t, result.BalanceData)
	assert.Equal(t, 100, result.BalanceData.Confidence)
}
