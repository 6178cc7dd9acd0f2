// Package extractor drives the page-by-page extraction loop for one
// statement: provider call per page, balance threading between pages, and
// cross-page aggregation. Pages are processed sequentially because each
// page's prompt carries the closing balance of the page before it.
package extractor

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/stmt-extract/internal/aggregator"
	"fjacquet/stmt-extract/internal/extracterror"
	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/models"
	"fjacquet/stmt-extract/internal/provider"
)

// StatementExtractor turns the pages of one statement into page results and
// an aggregated statement.
type StatementExtractor struct {
	provider provider.Provider
	logger   logging.Logger
}

func New(p provider.Provider, logger logging.Logger) *StatementExtractor {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &StatementExtractor{provider: p, logger: logger}
}

// ExtractStatement processes every page in order. A page failure does not
// abort the statement: the page gets an empty result with the failure in its
// processing notes and the loop continues. Only context cancellation stops
// the loop early.
func (e *StatementExtractor) ExtractStatement(ctx context.Context, pages []string, userCategories []models.UserCategory) (*models.AggregatedStatement, []models.PageResult, error) {
	agg := aggregator.New(e.logger)
	results := make([]models.PageResult, 0, len(pages))
	total := len(pages)

	for i, text := range pages {
		if err := ctx.Err(); err != nil {
			return nil, results, err
		}

		page := e.extractPage(ctx, text, i+1, total, userCategories, agg.RunningBalance())
		results = append(results, page)
		agg.AddPage(page)
	}

	return agg.Finalize(), results, nil
}

// extractPage runs one provider call and shapes the outcome into a
// PageResult, error or not.
func (e *StatementExtractor) extractPage(ctx context.Context, text string, pageNumber, totalPages int, userCategories []models.UserCategory, previousBalance *decimal.Decimal) models.PageResult {
	e.logger.Info("Extracting page",
		logging.Field{Key: logging.FieldProvider, Value: e.provider.Name()},
		logging.Field{Key: logging.FieldPage, Value: pageNumber},
		logging.Field{Key: logging.FieldTotalPages, Value: totalPages})

	result, err := e.provider.ExtractTransactions(ctx, provider.Request{
		PageText:        text,
		UserCategories:  userCategories,
		PreviousBalance: previousBalance,
	})
	if err != nil {
		e.logger.Error("Page extraction failed",
			logging.Field{Key: logging.FieldPage, Value: pageNumber},
			logging.Field{Key: logging.FieldError, Value: err})
		return models.PageResult{
			PageNumber:      pageNumber,
			TotalPages:      totalPages,
			Transactions:    []models.Transaction{},
			ProcessingNotes: pageFailureNote(pageNumber, err),
		}
	}

	page := models.PageResult{
		PageNumber:        pageNumber,
		TotalPages:        totalPages,
		Transactions:      result.Transactions,
		BalanceData:       result.BalanceData,
		PageEndingBalance: result.BalanceData.BestClosing(),
		SecurityBreakdown: result.SecurityBreakdown,
		Usage:             result.Usage,
	}

	// A non-final page that yields transactions but no closing figure may
	// have cut a transaction at the page break.
	if pageNumber < totalPages && len(page.Transactions) > 0 && page.PageEndingBalance == nil {
		page.HasIncompleteTransactions = true
	}
	if result.BalanceData != nil && result.BalanceData.Confidence > 0 && result.BalanceData.Confidence < 40 {
		page.ProcessingNotes = fmt.Sprintf("low balance confidence (%d)", result.BalanceData.Confidence)
	}

	return page
}

// pageFailureNote distinguishes backend failures, which the caller can act
// on (fix credentials, switch provider), from everything else.
func pageFailureNote(pageNumber int, err error) string {
	if extracterror.IsProviderError(err) {
		return fmt.Sprintf("page %d skipped: LLM service/configuration error: %v", pageNumber, err)
	}
	return fmt.Sprintf("page %d skipped: processing error: %v", pageNumber, err)
}
