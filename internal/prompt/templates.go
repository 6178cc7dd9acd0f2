package prompt

// Registered template ids.
const (
	TemplateTransactionExtraction = "transaction_extraction"
	TemplateBankValidation        = "bank_validation"
	TemplateConnectionTest        = "connection_test"
)

// Variable names used by the registered templates.
const (
	VarCategoriesDescription     = "categoriesDescription"
	VarCategorizationGuidelines  = "categorizationGuidelines"
	VarSanitizedPageText         = "sanitizedPageText"
	VarDocumentText              = "documentText"
)

// NewDefaultRegistry returns a registry with the three production templates.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Template{
		ID: TemplateTransactionExtraction,
		RequiredVariables: []string{
			VarCategoriesDescription,
			VarCategorizationGuidelines,
			VarSanitizedPageText,
		},
		Body: transactionExtractionBody,
	})
	r.Register(Template{
		ID:                TemplateBankValidation,
		RequiredVariables: []string{VarDocumentText},
		Body:              bankValidationBody,
	})
	r.Register(Template{
		ID:   TemplateConnectionTest,
		Body: connectionTestBody,
	})
	return r
}

const transactionExtractionBody = `You are a precise bank statement analyst. Extract every transaction from the statement page below into structured JSON.

OUTPUT FORMAT
Return ONLY one JSON object, no markdown fences, no commentary:
{
  "transactions": [
    {
      "date": "YYYY-MM-DD",
      "description": "string",
      "amount": -510.00,
      "balance": 136472.64,
      "suggested_category": "string",
      "currency": "INR"
    }
  ],
  "balance_data": {
    "opening_balance": 137492.64,
    "closing_balance": 136472.64,
    "available_balance": null,
    "current_balance": null,
    "balance_confidence": 95,
    "balance_notes": "string"
  }
}

AMOUNT AND SIGN RULES
1. Credits (money in) are positive; debits (money out) are negative.
2. When the running balance column is visible, the balance delta decides the
   sign: if the balance rises after a row the amount is positive, if it falls
   the amount is negative, even when the narration wording suggests otherwise.
3. Never merge reference numbers, cheque numbers or UTR digits printed next
   to an amount into the amount itself. Cross-check every amount against the
   balance delta of its row: if balance moves from 136982.64 to 136472.64,
   the amount is -510.00, not a concatenation of adjacent digits.
4. Dates must be calendar-valid and formatted YYYY-MM-DD whatever format the
   statement uses.
5. When a row shows the balance after the transaction, report it in the
   row's "balance" field; omit the field when no balance is printed.

BALANCE CONFIDENCE
Report balance_confidence 0-100: 90+ when an explicit labelled balance is
printed, 70-89 when read from a running balance column, 40-69 when inferred
from partial figures, below 40 when guessing. Leave a balance field null
rather than inventing a number.

CATEGORIES
{{categoriesDescription}}

{{categorizationGuidelines}}

STATEMENT PAGE (sensitive data already masked)
{{sanitizedPageText}}`

const bankValidationBody = `You are a document classifier. Decide whether the text below is a page of a bank account statement (a document listing dated account transactions and balances).

Return ONLY one JSON object:
{
  "is_bank_statement": true,
  "confidence": 90,
  "document_type": "bank_statement"
}

Use document_type values like "bank_statement", "credit_card_statement",
"invoice", "receipt", "other".

DOCUMENT TEXT
{{documentText}}`

const connectionTestBody = `Respond with exactly the single word: OK`
