// Package normalize turns raw model output into the pipeline's transaction
// contract. Model output is free text that usually embeds one JSON object;
// parsing is lenient end to end so that one bad page yields an empty result
// instead of failing a multi-page job.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/stmt-extract/internal/categories"
	"fjacquet/stmt-extract/internal/dateutils"
	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/models"
	"fjacquet/stmt-extract/internal/textutils"
	"fjacquet/stmt-extract/internal/validation"
)

// rawTransaction mirrors the loose shapes models actually emit. Amounts and
// balances arrive as numbers or strings depending on the backend and run.
type rawTransaction struct {
	Date              string      `json:"date"`
	Description       string      `json:"description"`
	Amount            interface{} `json:"amount"`
	Balance           interface{} `json:"balance"`
	SuggestedCategory string      `json:"suggested_category"`
	Category          string      `json:"category"`
	Currency          interface{} `json:"currency"`
}

type rawBalanceData struct {
	OpeningBalance   interface{} `json:"opening_balance"`
	ClosingBalance   interface{} `json:"closing_balance"`
	AvailableBalance interface{} `json:"available_balance"`
	CurrentBalance   interface{} `json:"current_balance"`
	Confidence       interface{} `json:"balance_confidence"`
	Notes            string      `json:"balance_notes"`
}

type rawPayload struct {
	Transactions []rawTransaction `json:"transactions"`
	BalanceData  *rawBalanceData  `json:"balance_data"`
}

// Normalizer coerces raw model output into ExtractionResults.
type Normalizer struct {
	defaultCurrency string
	taxonomy        categories.Taxonomy
	logger          logging.Logger
}

// New creates a Normalizer. defaultCurrency fills records where the model
// omitted or garbled the currency; taxonomy constrains categories when the
// caller supplied no category set of their own.
func New(defaultCurrency string, taxonomy categories.Taxonomy, logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Normalizer{
		defaultCurrency: defaultCurrency,
		taxonomy:        taxonomy,
		logger:          logger,
	}
}

// Normalize parses raw model output and returns the page's extraction
// result. previousBalance seeds the running-balance cross-check when the
// page's own opening balance is unknown; userCategories constrain category
// resolution. Normalize never returns an error: unparseable output yields an
// empty-transactions result.
func (n *Normalizer) Normalize(raw string, previousBalance *decimal.Decimal, userCategories []models.UserCategory, usage models.ExtractionUsage) *models.ExtractionResult {
	result := &models.ExtractionResult{
		Transactions: []models.Transaction{},
		Usage:        usage,
	}

	payload, ok := n.parsePayload(raw)
	if !ok {
		return result
	}

	balanceData := n.coerceBalanceData(payload.BalanceData)
	result.BalanceData = balanceData

	running := previousBalance
	if balanceData != nil && balanceData.OpeningBalance != nil {
		running = balanceData.OpeningBalance
	}

	resolver := categories.NewResolver(userCategories, n.taxonomy, n.logger)

	for _, rec := range payload.Transactions {
		tx, rowBalance, ok := n.coerceTransaction(rec, resolver)
		if !ok {
			continue
		}

		// Balance deltas outrank keyword heuristics: when the running
		// balance around a row is known, the delta fixes both the sign and
		// the magnitude, which also catches amounts the model concatenated
		// with adjacent reference digits.
		if rowBalance != nil && running != nil {
			delta := rowBalance.Sub(*running)
			if !delta.IsZero() && !delta.Equal(tx.Amount) {
				n.logger.Debug("Amount corrected from balance delta",
					logging.Field{Key: "reported", Value: tx.Amount.String()},
					logging.Field{Key: "delta", Value: delta.String()})
				tx.Amount = delta
			}
		}
		if rowBalance != nil {
			running = rowBalance
		}

		tx.Type = models.DeriveType(tx.Amount)

		if !validation.IsValidTransaction(tx) {
			n.logger.Debug("Dropping invalid record",
				logging.Field{Key: "date", Value: tx.Date},
				logging.Field{Key: "description", Value: tx.Description})
			continue
		}

		result.Transactions = append(result.Transactions, tx)
	}

	return result
}

// parsePayload extracts and parses the JSON object embedded in raw output.
func (n *Normalizer) parsePayload(raw string) (rawPayload, bool) {
	var payload rawPayload

	span, found := textutils.ExtractJSONObject(raw)
	if !found {
		span = strings.TrimSpace(raw)
	}
	if span == "" {
		return payload, false
	}

	// Schema check is advisory: it flags drift in model output without
	// blocking the lenient path below.
	var generic interface{}
	if err := json.Unmarshal([]byte(span), &generic); err != nil {
		n.logger.Warn("Model output is not valid JSON",
			logging.Field{Key: "snippet", Value: snippet(raw)})
		return payload, false
	}
	if err := validation.ValidatePayload(generic); err != nil {
		n.logger.Debug("Model payload deviates from schema",
			logging.Field{Key: logging.FieldReason, Value: err.Error()})
	}

	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		n.logger.Warn("Model payload has unexpected shape",
			logging.Field{Key: logging.FieldReason, Value: err.Error()})
		return rawPayload{}, false
	}
	return payload, true
}

// coerceTransaction converts one raw record. The bool result is false when
// the record lacks a parseable amount; date problems are left to the
// validator so the drop is logged in one place.
func (n *Normalizer) coerceTransaction(rec rawTransaction, resolver *categories.Resolver) (models.Transaction, *decimal.Decimal, bool) {
	amount, ok := toDecimal(rec.Amount)
	if !ok {
		return models.Transaction{}, nil, false
	}

	date := rec.Date
	if iso, err := dateutils.NormalizeToISO(rec.Date); err == nil {
		date = iso
	}

	category := rec.SuggestedCategory
	if category == "" {
		category = rec.Category
	}
	if category == "" {
		category = models.CategoryUncategorized
	}

	description := textutils.NormalizeDescription(rec.Description)

	currency := n.defaultCurrency
	if s, isString := rec.Currency.(string); isString && strings.TrimSpace(s) != "" {
		currency = strings.ToUpper(strings.TrimSpace(s))
	}

	tx := models.Transaction{
		Date:        date,
		Description: description,
		Amount:      *amount,
		Category:    resolver.Resolve(category, description),
		Currency:    currency,
	}

	rowBalance, _ := toDecimal(rec.Balance)
	return tx, rowBalance, true
}

func (n *Normalizer) coerceBalanceData(raw *rawBalanceData) *models.BalanceData {
	if raw == nil {
		return nil
	}

	bd := &models.BalanceData{Notes: raw.Notes}
	bd.OpeningBalance, _ = toDecimal(raw.OpeningBalance)
	bd.ClosingBalance, _ = toDecimal(raw.ClosingBalance)
	bd.AvailableBalance, _ = toDecimal(raw.AvailableBalance)
	bd.CurrentBalance, _ = toDecimal(raw.CurrentBalance)

	if conf, ok := toDecimal(raw.Confidence); ok {
		c := int(conf.IntPart())
		if c < 0 {
			c = 0
		}
		if c > 100 {
			c = 100
		}
		bd.Confidence = c
	}

	if bd.OpeningBalance == nil && bd.ClosingBalance == nil &&
		bd.AvailableBalance == nil && bd.CurrentBalance == nil {
		return nil
	}
	return bd
}

// toDecimal coerces the numeric shapes models emit: JSON numbers, plain
// strings, and strings with thousands separators or a currency prefix.
func toDecimal(v interface{}) (*decimal.Decimal, bool) {
	switch value := v.(type) {
	case nil:
		return nil, false
	case float64:
		d := decimal.NewFromFloat(value)
		return &d, true
	case json.Number:
		d, err := decimal.NewFromString(value.String())
		if err != nil {
			return nil, false
		}
		return &d, true
	case string:
		cleaned := strings.TrimSpace(value)
		cleaned = strings.TrimPrefix(cleaned, "INR")
		cleaned = strings.TrimPrefix(cleaned, "Rs.")
		cleaned = strings.TrimPrefix(cleaned, "₹")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			return nil, false
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return nil, false
		}
		return &d, true
	default:
		return nil, false
	}
}

// snippet bounds the raw output quoted in logs.
func snippet(raw string) string {
	const max = 120
	raw = strings.TrimSpace(raw)
	if len(raw) > max {
		return raw[:max] + "..."
	}
	return raw
}
