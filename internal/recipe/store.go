package recipe

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipeserver/models"
)

// Store is the persistence contract used by the Navigator and the Seeder.
type Store interface {
	Insert(ctx context.Context, r Recipe) (int64, error)
	FetchByID(ctx context.Context, id int64) (Recipe, error)
	FetchRandom(ctx context.Context) (Recipe, error)
	FetchNextAfter(ctx context.Context, id int64) (Recipe, error)
	FetchPrevBefore(ctx context.Context, id int64) (Recipe, error)
}

// GormStore implements Store on top of the recipes and ingredients tables.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm handle. The handle's pool is shared by all callers.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Insert stores the recipe and its ingredients in a single transaction and
// returns the generated id. Nothing is persisted when any row fails.
func (s *GormStore) Insert(ctx context.Context, r Recipe) (int64, error) {
	if s.db == nil {
		return 0, &StoreError{Op: "insert", Err: gorm.ErrInvalidDB}
	}

	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.Recipe{Name: r.Title}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("insert recipe %q: %w", r.Title, err)
		}

		if len(r.Ingredients) > 0 {
			ingredients := make([]models.Ingredient, 0, len(r.Ingredients))
			for _, name := range r.Ingredients {
				ingredients = append(ingredients, models.Ingredient{RecipeID: row.ID, Name: name})
			}
			if err := tx.Create(&ingredients).Error; err != nil {
				return fmt.Errorf("insert ingredients for %q: %w", r.Title, err)
			}
		}

		id = row.ID
		return nil
	})
	if err != nil {
		return 0, &StoreError{Op: "insert", Err: err}
	}
	return int64(id), nil
}

// FetchByID returns the recipe with the given id or ErrNotFound.
func (s *GormStore) FetchByID(ctx context.Context, id int64) (Recipe, error) {
	return s.take(ctx, "fetch_by_id", func(q *gorm.DB) *gorm.DB {
		return q.Where("id = ?", id)
	})
}

// FetchRandom picks one recipe uniformly at random.
func (s *GormStore) FetchRandom(ctx context.Context) (Recipe, error) {
	return s.take(ctx, "fetch_random", func(q *gorm.DB) *gorm.DB {
		return q.Order("RANDOM()")
	})
}

// FetchNextAfter returns the recipe with the smallest id greater than id,
// wrapping around to the smallest id overall.
func (s *GormStore) FetchNextAfter(ctx context.Context, id int64) (Recipe, error) {
	found, err := s.take(ctx, "fetch_next_after", func(q *gorm.DB) *gorm.DB {
		return q.Where("id > ?", id).Order("id asc")
	})
	if !errors.Is(err, ErrNotFound) {
		return found, err
	}
	return s.take(ctx, "fetch_next_after", func(q *gorm.DB) *gorm.DB {
		return q.Order("id asc")
	})
}

// FetchPrevBefore returns the recipe with the largest id smaller than id,
// wrapping around to the largest id overall.
func (s *GormStore) FetchPrevBefore(ctx context.Context, id int64) (Recipe, error) {
	found, err := s.take(ctx, "fetch_prev_before", func(q *gorm.DB) *gorm.DB {
		return q.Where("id < ?", id).Order("id desc")
	})
	if !errors.Is(err, ErrNotFound) {
		return found, err
	}
	return s.take(ctx, "fetch_prev_before", func(q *gorm.DB) *gorm.DB {
		return q.Order("id desc")
	})
}

// Delete removes a recipe. Its ingredients go with it through the
// ON DELETE CASCADE foreign key.
func (s *GormStore) Delete(ctx context.Context, id int64) error {
	if s.db == nil {
		return &StoreError{Op: "delete", Err: gorm.ErrInvalidDB}
	}
	result := s.db.WithContext(ctx).Delete(&models.Recipe{}, id)
	if result.Error != nil {
		return &StoreError{Op: "delete", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count reports the number of recipe and ingredient rows.
func (s *GormStore) Count(ctx context.Context) (recipes, ingredients int64, err error) {
	if s.db == nil {
		return 0, 0, &StoreError{Op: "count", Err: gorm.ErrInvalidDB}
	}
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Count(&recipes).Error; err != nil {
		return 0, 0, &StoreError{Op: "count", Err: err}
	}
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Count(&ingredients).Error; err != nil {
		return 0, 0, &StoreError{Op: "count", Err: err}
	}
	return recipes, ingredients, nil
}

// Ping checks that the underlying connection pool can reach the database.
func (s *GormStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return &StoreError{Op: "ping", Err: gorm.ErrInvalidDB}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	return nil
}

// take loads one recipe row selected by scope, then its ingredients in id order.
func (s *GormStore) take(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB) (Recipe, error) {
	if s.db == nil {
		return Recipe{}, &StoreError{Op: op, Err: gorm.ErrInvalidDB}
	}

	var row models.Recipe
	query := scope(s.db.WithContext(ctx).Model(&models.Recipe{})).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		})
	if err := query.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Recipe{}, ErrNotFound
		}
		return Recipe{}, &StoreError{Op: op, Err: err}
	}

	return fromModel(row), nil
}

func fromModel(row models.Recipe) Recipe {
	ingredients := make([]string, 0, len(row.Ingredients))
	for _, ingredient := range row.Ingredients {
		ingredients = append(ingredients, ingredient.Name)
	}
	return Recipe{
		ID:          int64(row.ID),
		Title:       row.Name,
		Ingredients: ingredients,
	}
}
