package categories

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/models"
)

// maxEditDistance bounds the fuzzy match between a model-returned category
// and a user category. Two edits cover the usual singular/plural and
// casing-plus-typo variance without letting "fees" match "food".
const maxEditDistance = 2

// Resolver maps model-returned category strings onto the caller's category
// set, or onto the taxonomy when no user set exists. The model is already
// instructed to stay inside the vocabulary; the resolver guarantees it.
type Resolver struct {
	userCategories []string
	taxonomy       Taxonomy
	logger         logging.Logger
}

// NewResolver creates a resolver for one extraction run.
func NewResolver(userCategories []models.UserCategory, taxonomy Taxonomy, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Resolver{
		userCategories: models.CategoryNames(userCategories),
		taxonomy:       taxonomy,
		logger:         logger,
	}
}

// Resolve returns the canonical category for a model-suggested category and
// the transaction description it belongs to. The result is always a member
// of the user set plus "Uncategorized", or of the taxonomy plus "others".
func (r *Resolver) Resolve(suggested, description string) string {
	if len(r.userCategories) > 0 {
		return r.resolveUser(suggested)
	}
	return r.resolveTaxonomy(suggested, description)
}

func (r *Resolver) resolveUser(suggested string) string {
	suggested = strings.TrimSpace(suggested)
	if suggested == "" || strings.EqualFold(suggested, models.CategoryUncategorized) {
		return models.CategoryUncategorized
	}

	for _, name := range r.userCategories {
		if name == suggested {
			return name
		}
	}
	for _, name := range r.userCategories {
		if strings.EqualFold(name, suggested) {
			return name
		}
	}

	// Fuzzy pass catches near misses like "Grocery" vs "Groceries".
	lowered := strings.ToLower(suggested)
	for _, name := range r.userCategories {
		if len(name) < 4 {
			continue
		}
		if levenshtein.ComputeDistance(strings.ToLower(name), lowered) <= maxEditDistance {
			r.logger.Debug("Fuzzy-matched model category to user category",
				logging.Field{Key: "suggested", Value: suggested},
				logging.Field{Key: logging.FieldCategory, Value: name})
			return name
		}
	}

	r.logger.Debug("Model category outside user set",
		logging.Field{Key: "suggested", Value: suggested})
	return models.CategoryUncategorized
}

func (r *Resolver) resolveTaxonomy(suggested, description string) string {
	suggested = strings.TrimSpace(suggested)
	for _, rule := range r.taxonomy.Rules {
		if strings.EqualFold(rule.Category, suggested) {
			return rule.Category
		}
	}

	// The model went off-vocabulary; fall back to local keyword matching
	// over the narration.
	lowered := strings.ToLower(description)
	for _, rule := range r.taxonomy.Rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule.Category
			}
		}
	}

	return models.CategoryOthers
}
