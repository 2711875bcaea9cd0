package recipe

import (
	"context"
	"errors"
	"fmt"

	applog "recipeserver/internal/log"
)

// Seeder loads fixture recipes into a Store.
type Seeder struct {
	store Store
}

// NewSeeder builds a Seeder writing to store.
func NewSeeder(store Store) *Seeder {
	return &Seeder{store: store}
}

// Seed inserts recipes in order, one transaction each, and stops at the first
// failure. It returns how many recipes were committed.
func (s *Seeder) Seed(ctx context.Context, recipes []Recipe) (int, error) {
	inserted := 0
	for idx, r := range recipes {
		id, err := s.store.Insert(ctx, r)
		if err != nil {
			return inserted, fmt.Errorf("seed recipe %d (%s): %w", idx+1, r.Title, err)
		}
		applog.Debug(ctx, "seeded recipe", "id", id, "title", r.Title, "ingredients", len(r.Ingredients))
		inserted++
	}
	return inserted, nil
}

// SeedFromFile loads the fixture at path and seeds it. An unreadable or
// malformed fixture is logged and seeds nothing; store failures are returned.
func (s *Seeder) SeedFromFile(ctx context.Context, path string) (int, error) {
	recipes, err := LoadFixture(path)
	if err != nil {
		var fixtureErr *FixtureError
		if !errors.As(err, &fixtureErr) {
			return 0, err
		}
		applog.Error(ctx, "seed fixture unusable, seeding zero recipes", "path", path, "error", err)
		return 0, nil
	}

	applog.Info(ctx, "seeding recipes", "path", path, "count", len(recipes))
	inserted, err := s.Seed(ctx, recipes)
	if err != nil {
		return inserted, err
	}
	applog.Info(ctx, "seeding complete", "inserted", inserted)
	return inserted, nil
}
