package models

// Transaction types, derived from amount sign only.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Category sentinels.
const (
	// CategoryUncategorized is the fallback when the model cannot map a
	// transaction into the user's closed category set.
	CategoryUncategorized = "Uncategorized"

	// CategoryOthers is the catch-all bucket of the built-in taxonomy used
	// when the caller supplied no categories of their own.
	CategoryOthers = "others"
)
