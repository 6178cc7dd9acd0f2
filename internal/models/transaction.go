// Package models defines the data contracts shared by every stage of the
// statement extraction pipeline: transactions, balance data, per-page results
// and the aggregated statement built across pages.
package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Transaction is one extracted statement line, already normalized: the date
// is an ISO calendar date, the amount carries its sign, and Type is derived
// from that sign rather than being independently settable.
type Transaction struct {
	Date        string          `json:"date" csv:"Date"`
	Description string          `json:"description" csv:"Description"`
	Amount      decimal.Decimal `json:"amount" csv:"Amount"`
	Category    string          `json:"category" csv:"Category"`
	Currency    string          `json:"currency" csv:"Currency"`
	Type        string          `json:"type" csv:"Type"`
}

// DeriveType returns the transaction type implied by an amount's sign.
// A positive amount is income; zero and negative amounts are expenses.
func DeriveType(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return TypeIncome
	}
	return TypeExpense
}

// DedupKey builds the cross-page deduplication key. The concatenation is
// exact and case-sensitive: inputs are normalized upstream, so two records
// differing here are genuinely different transactions.
func (t Transaction) DedupKey() string {
	return fmt.Sprintf("%s_%s_%s", t.Date, t.Description, t.Amount.String())
}

// IsIncome reports whether the transaction is a credit.
func (t Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// IsExpense reports whether the transaction is a debit.
func (t Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}
