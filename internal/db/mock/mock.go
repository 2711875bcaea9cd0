package mock

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipeserver/internal/db"
	applog "recipeserver/internal/log"
	"recipeserver/internal/recipe"
)

// SampleRecipes is the data loaded into every mock database, in id order.
var SampleRecipes = []recipe.Recipe{
	{Title: "Buttered Toast", Ingredients: []string{"Bread", "Butter"}},
	{Title: "Garden Salad", Ingredients: []string{"Lettuce", "Tomato", "Cucumber", "Olive oil"}},
	{Title: "Scrambled Eggs", Ingredients: []string{"Eggs", "Butter", "Salt", "Chives"}},
	{Title: "Lemonade", Ingredients: []string{"Lemons", "Sugar", "Water"}},
}

// New returns an in-memory sqlite database seeded with SampleRecipes.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := db.OpenSQLite("file:recipeserver-mock?mode=memory&cache=shared", logger.Silent)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	store := recipe.NewGormStore(database)

	recipes, ingredients, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if recipes > 0 || ingredients > 0 {
		applog.Debug(ctx, "mock database already seeded", "recipes", recipes)
		return nil
	}

	applog.Debug(ctx, "seeding mock database")
	if _, err := recipe.NewSeeder(store).Seed(ctx, SampleRecipes); err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
