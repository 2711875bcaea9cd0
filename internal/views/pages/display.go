package pages

import (
	"fmt"
	"strings"

	"recipeserver/internal/recipe"
)

// DefaultDash returns an em dash when the provided value is empty or whitespace.
func DefaultDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

// IngredientCountLabel describes how many ingredients a recipe lists.
func IngredientCountLabel(n int) string {
	switch {
	case n <= 0:
		return "No ingredients"
	case n == 1:
		return "1 ingredient"
	default:
		return fmt.Sprintf("%d ingredients", n)
	}
}

// PageTitle is the document title for a recipe page.
func PageTitle(r recipe.Recipe) string {
	if strings.TrimSpace(r.Title) == "" {
		return "Recipes"
	}
	return r.Title + " · Recipes"
}
