package prompt

import (
	"strings"

	"fjacquet/stmt-extract/internal/models"
)

// Guidance is the category-related prompt material for one extraction call.
type Guidance struct {
	CategoriesDescription    string
	CategorizationGuidelines string
}

// BuildGuidance produces the category text injected into the extraction
// prompt. With user categories the model is restricted to that closed set
// with an "Uncategorized" escape hatch; without them it uses the built-in
// taxonomy ending in "others". Pure function, no I/O.
func BuildGuidance(userCategories []models.UserCategory) Guidance {
	if len(userCategories) > 0 {
		return userCategoryGuidance(models.CategoryNames(userCategories))
	}
	return defaultTaxonomyGuidance()
}

func userCategoryGuidance(names []string) Guidance {
	joined := strings.Join(names, ", ")

	var b strings.Builder
	b.WriteString("Assign each transaction to exactly one of the user's preferred categories listed above. Match semantically, not literally: bank narrations are abbreviated and noisy.\n")
	b.WriteString("Examples of the expected matching:\n")
	b.WriteString("- \"SUPERMARKET PURCHASE XYZ\" -> \"Groceries\" (a supermarket sells groceries)\n")
	b.WriteString("- \"UPI-SWIGGY-ORDER\" -> \"Food & Dining\" (food delivery)\n")
	b.WriteString("- \"IRCTC E-TICKET\" -> \"Travel\" (train booking)\n")
	b.WriteString("- \"ATM WDL\" -> \"Cash\" (cash withdrawal)\n")
	b.WriteString("- \"NEFT SALARY CR\" -> \"Salary\" (salary credit)\n")
	b.WriteString("Only use a listed category when the match is confident. When no listed category fits, use exactly \"" + models.CategoryUncategorized + "\". Never invent a category outside the list.")

	return Guidance{
		CategoriesDescription:    "Categorize each transaction as one of the user's preferred categories: " + joined,
		CategorizationGuidelines: b.String(),
	}
}

// defaultTaxonomyGuidance enumerates the built-in taxonomy. The keyword
// lists here mirror categories.DefaultTaxonomy so prompt guidance and
// post-hoc keyword resolution agree.
func defaultTaxonomyGuidance() Guidance {
	var b strings.Builder
	b.WriteString("Assign each transaction a suggested_category from this fixed taxonomy, based on merchant and keyword patterns in the narration:\n")
	b.WriteString("- transport: uber, ola, metro, fuel, petrol, irctc, cab, toll\n")
	b.WriteString("- food: swiggy, zomato, restaurant, cafe, bakery, dining\n")
	b.WriteString("- shopping: amazon, flipkart, myntra, mall, store, supermarket\n")
	b.WriteString("- utilities: electricity, water, gas, broadband, mobile recharge, dth\n")
	b.WriteString("- cash_withdrawal: atm, cash wdl, self cheque\n")
	b.WriteString("- salary: salary, payroll, monthly credit from an employer\n")
	b.WriteString("- investment: mutual fund, sip, zerodha, groww, shares, fd booking\n")
	b.WriteString("- insurance: lic, premium, policy\n")
	b.WriteString("- transfer: neft, imps, rtgs, upi transfers to individuals\n")
	b.WriteString("- interest: interest credit, int.pd\n")
	b.WriteString("- fees: charges, gst, amc, penalty, sms charges\n")
	b.WriteString("- healthcare: hospital, pharmacy, clinic, diagnostics\n")
	b.WriteString("When none of these fit, use exactly \"" + models.CategoryOthers + "\". Do not invent category names outside this taxonomy.")

	return Guidance{
		CategoriesDescription:    "Suggest a concise expense/income category for each transaction.",
		CategorizationGuidelines: b.String(),
	}
}
