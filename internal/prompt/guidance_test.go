package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fjacquet/stmt-extract/internal/models"
)

func TestBuildGuidance_UserCategories(t *testing.T) {
	g := BuildGuidance([]models.UserCategory{
		{Name: "Groceries"},
		{Name: "Travel"},
	})

	assert.Contains(t, g.CategoriesDescription, "Groceries, Travel")
	assert.Contains(t, g.CategorizationGuidelines, models.CategoryUncategorized)
	assert.Contains(t, g.CategorizationGuidelines, "Never invent a category outside the list")
}

func TestBuildGuidance_DefaultTaxonomy(t *testing.T) {
	g := BuildGuidance(nil)

	assert.Contains(t, g.CategorizationGuidelines, "transport")
	assert.Contains(t, g.CategorizationGuidelines, "cash_withdrawal")
	assert.Contains(t, g.CategorizationGuidelines, models.CategoryOthers)
	assert.NotContains(t, g.CategorizationGuidelines, models.CategoryUncategorized)
}

func TestBuildGuidance_EmptySliceUsesTaxonomy(t *testing.T) {
	withNil := BuildGuidance(nil)
	withEmpty := BuildGuidance([]models.UserCategory{})

	assert.Equal(t, withNil, withEmpty)
}
