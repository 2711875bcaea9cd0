package recipe

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipeserver/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Recipe{}, &models.Ingredient{}))
	return db
}

func seedStore(t *testing.T, store *GormStore, recipes ...Recipe) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		id, err := store.Insert(context.Background(), r)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestGormStoreInsertAndFetchExample(t *testing.T) {
	store := NewGormStore(newTestDB(t))
	ctx := context.Background()

	ids := seedStore(t, store,
		Recipe{Title: "Toast", Ingredients: []string{"Bread"}},
		Recipe{Title: "Salad", Ingredients: []string{"Lettuce", "Tomato"}},
	)
	require.Equal(t, []int64{1, 2}, ids)

	toast, err := store.FetchByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Recipe{ID: 1, Title: "Toast", Ingredients: []string{"Bread"}}, toast)

	next, err := store.FetchNextAfter(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.ID)
	assert.Equal(t, []string{"Lettuce", "Tomato"}, next.Ingredients)

	wrapped, err := store.FetchNextAfter(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), wrapped.ID)
}

func TestGormStoreNavigationWrapsAround(t *testing.T) {
	store := NewGormStore(newTestDB(t))
	ctx := context.Background()

	ids := seedStore(t, store,
		Recipe{Title: "Pancakes", Ingredients: []string{"Flour", "Milk", "Egg"}},
		Recipe{Title: "Omelette", Ingredients: []string{"Egg"}},
		Recipe{Title: "Tea"},
	)
	i1, i2, i3 := ids[0], ids[1], ids[2]

	tests := []struct {
		name  string
		fetch func(context.Context, int64) (Recipe, error)
		from  int64
		want  int64
	}{
		{"next of first", store.FetchNextAfter, i1, i2},
		{"next of last wraps", store.FetchNextAfter, i3, i1},
		{"prev of last", store.FetchPrevBefore, i3, i2},
		{"prev of first wraps", store.FetchPrevBefore, i1, i3},
		{"next of unknown high id wraps", store.FetchNextAfter, i3 + 100, i1},
		{"prev of unknown low id wraps", store.FetchPrevBefore, -1, i3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fetch(ctx, tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestGormStoreRandomWithSingleRecipe(t *testing.T) {
	store := NewGormStore(newTestDB(t))
	ids := seedStore(t, store, Recipe{Title: "Porridge", Ingredients: []string{"Oats", "Water"}})

	for i := 0; i < 5; i++ {
		got, err := store.FetchRandom(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ids[0], got.ID)
		assert.Equal(t, []string{"Oats", "Water"}, got.Ingredients)
	}
}

func TestGormStoreRandomReturnsStoredRecipes(t *testing.T) {
	store := NewGormStore(newTestDB(t))
	ids := seedStore(t, store, Recipe{Title: "A"}, Recipe{Title: "B"}, Recipe{Title: "C"})

	for i := 0; i < 10; i++ {
		got, err := store.FetchRandom(context.Background())
		require.NoError(t, err)
		assert.Contains(t, ids, got.ID)
		assert.NotNil(t, got.Ingredients)
	}
}

func TestGormStoreEmptyReturnsNotFound(t *testing.T) {
	store := NewGormStore(newTestDB(t))
	ctx := context.Background()

	_, err := store.FetchRandom(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.FetchNextAfter(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.FetchPrevBefore(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.FetchByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreFetchByIDMissing(t *testing.T) {
	store := NewGormStore(newTestDB(t))
	seedStore(t, store, Recipe{Title: "Toast", Ingredients: []string{"Bread"}})

	_, err := store.FetchByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreInsertIsAtomic(t *testing.T) {
	db := newTestDB(t)
	store := NewGormStore(db)
	require.NoError(t, db.Migrator().DropTable(&models.Ingredient{}))

	_, err := store.Insert(context.Background(), Recipe{Title: "Broken", Ingredients: []string{"Nothing"}})
	require.Error(t, err)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "insert", storeErr.Op)

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count, "recipe row must be rolled back with its ingredients")
}

func TestGormStoreDeleteCascadesToIngredients(t *testing.T) {
	db := newTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	ids := seedStore(t, store,
		Recipe{Title: "Toast", Ingredients: []string{"Bread", "Butter"}},
		Recipe{Title: "Salad", Ingredients: []string{"Lettuce"}},
	)

	require.NoError(t, store.Delete(ctx, ids[0]))

	recipes, ingredients, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), recipes)
	assert.Equal(t, int64(1), ingredients)

	var orphans int64
	require.NoError(t, db.Model(&models.Ingredient{}).Where("recipe_id = ?", ids[0]).Count(&orphans).Error)
	assert.Zero(t, orphans)

	assert.ErrorIs(t, store.Delete(ctx, ids[0]), ErrNotFound)
}

func TestGormStoreNilDatabase(t *testing.T) {
	store := NewGormStore(nil)
	ctx := context.Background()

	_, err := store.FetchRandom(ctx)
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "fetch_random", storeErr.Op)

	_, err = store.Insert(ctx, Recipe{Title: "x"})
	require.ErrorAs(t, err, &storeErr)
	assert.Error(t, store.Ping(ctx))
}

func TestGormStorePing(t *testing.T) {
	store := NewGormStore(newTestDB(t))
	assert.NoError(t, store.Ping(context.Background()))
}
