// Package categories resolves the category strings a model returns into the
// caller's category set, or into the built-in keyword taxonomy when the
// caller supplied none.
package categories

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordRule maps narration keywords onto one taxonomy category.
type KeywordRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy is the ordered fallback category list. Order matters: the first
// rule whose keyword matches wins.
type Taxonomy struct {
	Rules []KeywordRule `yaml:"categories"`
}

// DefaultTaxonomy returns the built-in taxonomy. It mirrors the guidance
// text injected into the extraction prompt, so model output and local
// resolution agree on the category vocabulary.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{Rules: []KeywordRule{
		{Category: "transport", Keywords: []string{"uber", "ola", "metro", "fuel", "petrol", "irctc", "cab", "toll"}},
		{Category: "food", Keywords: []string{"swiggy", "zomato", "restaurant", "cafe", "bakery", "dining"}},
		{Category: "shopping", Keywords: []string{"amazon", "flipkart", "myntra", "mall", "store", "supermarket"}},
		{Category: "utilities", Keywords: []string{"electricity", "water", "gas", "broadband", "recharge", "dth"}},
		{Category: "cash_withdrawal", Keywords: []string{"atm", "cash wdl", "self cheque", "withdrawal"}},
		{Category: "salary", Keywords: []string{"salary", "payroll"}},
		{Category: "investment", Keywords: []string{"mutual fund", "sip", "zerodha", "groww", "shares", "fd booking"}},
		{Category: "insurance", Keywords: []string{"lic", "premium", "policy"}},
		{Category: "transfer", Keywords: []string{"neft", "imps", "rtgs", "upi"}},
		{Category: "interest", Keywords: []string{"interest", "int.pd"}},
		{Category: "fees", Keywords: []string{"charges", "gst", "amc", "penalty", "fee"}},
		{Category: "healthcare", Keywords: []string{"hospital", "pharmacy", "clinic", "diagnostics"}},
	}}
}

// LoadTaxonomy reads a taxonomy from a YAML file. A missing path falls back
// to the built-in taxonomy; a present but unreadable file is an error.
func LoadTaxonomy(path string) (Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTaxonomy(), nil
		}
		return Taxonomy{}, fmt.Errorf("could not read taxonomy file %s: %w", path, err)
	}

	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Taxonomy{}, fmt.Errorf("could not parse taxonomy file %s: %w", path, err)
	}
	if len(t.Rules) == 0 {
		return DefaultTaxonomy(), nil
	}
	return t, nil
}

// Names returns the taxonomy category names in rule order.
func (t Taxonomy) Names() []string {
	names := make([]string, 0, len(t.Rules))
	for _, r := range t.Rules {
		names = append(names, r.Category)
	}
	return names
}
