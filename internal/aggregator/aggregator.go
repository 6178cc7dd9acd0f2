// Package aggregator merges per-page extraction results into one statement.
// Pages of a single statement overlap at boundaries (a transaction split
// across a page break is often reported on both pages), so the aggregator
// deduplicates while preserving first-seen order, and threads the running
// balance from page to page.
package aggregator

import (
	"sort"

	"github.com/shopspring/decimal"

	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/models"
)

// lowConfidenceThreshold marks balance data too uncertain to trust for
// continuity, though it is still recorded.
const lowConfidenceThreshold = 40

// Aggregator accumulates page results for one statement. It is not safe for
// concurrent use; each statement upload owns its own instance.
type Aggregator struct {
	logger logging.Logger

	seen         map[string]struct{}
	transactions []models.Transaction
	running      *decimal.Decimal
	confidence   int
	pages        int
	duplicates   int
	usage        models.ExtractionUsage
}

func New(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Aggregator{
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

// RunningBalance returns the closing balance carried from the last page that
// reported one, for seeding the next page's extraction prompt. Nil until a
// page reports a usable balance.
func (a *Aggregator) RunningBalance() *decimal.Decimal {
	return a.running
}

// Duplicates returns how many transactions were dropped as page-boundary
// repeats.
func (a *Aggregator) Duplicates() int {
	return a.duplicates
}

// AddPage folds one page's result into the statement. Pages must be added in
// statement order for balance continuity to hold. A duplicate transaction
// keeps its first occurrence; later copies are dropped.
func (a *Aggregator) AddPage(page models.PageResult) {
	a.pages++
	a.usage.Add(page.Usage)

	for _, tx := range page.Transactions {
		key := tx.DedupKey()
		if _, ok := a.seen[key]; ok {
			a.duplicates++
			a.logger.Debug("Dropping duplicate transaction",
				logging.Field{Key: logging.FieldPage, Value: page.PageNumber},
				logging.Field{Key: "key", Value: key})
			continue
		}
		a.seen[key] = struct{}{}
		a.transactions = append(a.transactions, tx)
	}

	a.advanceBalance(page)
}

// advanceBalance updates the running balance from the page's reported
// figures. A later page's balance replaces an earlier one unless the new
// figure is markedly less confident than what we already hold.
func (a *Aggregator) advanceBalance(page models.PageResult) {
	closing := page.PageEndingBalance
	confidence := 0
	if page.BalanceData != nil {
		confidence = page.BalanceData.Confidence
		if closing == nil {
			closing = page.BalanceData.BestClosing()
		}
	}
	if closing == nil {
		return
	}

	if a.running != nil && confidence < lowConfidenceThreshold && a.confidence >= lowConfidenceThreshold {
		a.logger.Debug("Keeping prior balance over low-confidence update",
			logging.Field{Key: logging.FieldPage, Value: page.PageNumber},
			logging.Field{Key: "confidence", Value: confidence})
		return
	}

	v := *closing
	a.running = &v
	a.confidence = confidence
}

// Finalize returns the aggregated statement. Transactions are ordered by
// date; within a date the first-seen (page) order is preserved, which keeps
// same-day transactions in statement order.
func (a *Aggregator) Finalize() *models.AggregatedStatement {
	txs := make([]models.Transaction, len(a.transactions))
	copy(txs, a.transactions)
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date < txs[j].Date
	})

	a.logger.Info("Statement aggregation complete",
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: "duplicates_dropped", Value: a.duplicates},
		logging.Field{Key: "pages", Value: a.pages})

	return &models.AggregatedStatement{
		Transactions:      txs,
		RunningBalance:    a.running,
		PagesProcessed:    a.pages,
		TotalInputTokens:  a.usage.PromptTokens,
		TotalOutputTokens: a.usage.CompletionTokens,
	}
}
