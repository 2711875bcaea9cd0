package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var fixtureValidator = validator.New(validator.WithRequiredStructEnabled())

// FixtureRecipe is one entry of the seed fixture.
type FixtureRecipe struct {
	Title       string   `json:"title" yaml:"title" validate:"required,max=250"`
	Ingredients []string `json:"ingredients" yaml:"ingredients" validate:"dive,required,max=250"`
}

// LoadFixture reads an ordered list of recipes from a JSON file, or from YAML
// when the extension is .yaml or .yml. Every failure is a *FixtureError.
func LoadFixture(path string) ([]Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FixtureError{Path: path, Err: err}
	}
	return ParseFixture(path, data)
}

// ParseFixture decodes fixture bytes; path selects the format and labels errors.
func ParseFixture(path string, data []byte) ([]Recipe, error) {
	var entries []FixtureRecipe
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, &FixtureError{Path: path, Err: fmt.Errorf("decode yaml: %w", err)}
		}
	default:
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, &FixtureError{Path: path, Err: fmt.Errorf("decode json: %w", err)}
		}
	}

	recipes := make([]Recipe, 0, len(entries))
	for idx := range entries {
		entry := entries[idx]
		entry.Title = strings.TrimSpace(entry.Title)
		entry.Ingredients = cleanIngredients(entry.Ingredients)
		if err := fixtureValidator.Struct(entry); err != nil {
			return nil, &FixtureError{Path: path, Err: fmt.Errorf("entry %d: %w", idx+1, err)}
		}
		recipes = append(recipes, Recipe{Title: entry.Title, Ingredients: entry.Ingredients})
	}
	return recipes, nil
}
