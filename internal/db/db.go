package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipeserver/internal/config"
	applog "recipeserver/internal/log"
	"recipeserver/internal/recipe"
	"recipeserver/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Initialize opens the database named by cfg.URL. postgres:// and host=...
// URLs use the postgres driver; sqlite://, file: and bare paths use sqlite.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("database URL must not be empty")
	}

	dialector, err := dialectorFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, gormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	return db, nil
}

func gormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(level),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// OpenSQLite opens a sqlite database with foreign key enforcement enabled.
func OpenSQLite(dsn string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN(dsn)), gormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return db, nil
}

func dialectorFor(rawURL string) (gorm.Dialector, error) {
	url := strings.TrimSpace(rawURL)
	lower := strings.ToLower(url)

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return postgres.Open(url), nil
	case strings.Contains(lower, "host=") && !strings.Contains(lower, "://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(lower, "sqlite://"):
		return sqlite.Open(sqliteDSN(url[len("sqlite://"):])), nil
	case strings.HasPrefix(lower, "file:"):
		return sqlite.Open(sqliteDSN(url)), nil
	case strings.Contains(lower, "://"):
		return nil, fmt.Errorf("unsupported database URL scheme: %s", url[:strings.Index(url, "://")])
	default:
		return sqlite.Open(sqliteDSN(url)), nil
	}
}

// sqliteDSN turns on foreign key enforcement so ingredient rows cascade with
// their recipe.
func sqliteDSN(dsn string) string {
	lower := strings.ToLower(dsn)
	if strings.Contains(lower, "_foreign_keys=") || strings.Contains(lower, "_fk=") {
		return dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + "_foreign_keys=on"
}

// AutoMigrate creates or updates the recipes and ingredients tables.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	return db.AutoMigrate(
		&models.Recipe{},
		&models.Ingredient{},
	)
}

// Bootstrap migrates the schema and seeds the fixture at fixturePath, but only
// when the recipes table did not exist before. It returns the number of
// recipes seeded.
func Bootstrap(ctx context.Context, db *gorm.DB, fixturePath string) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("database handle is nil")
	}

	fresh := !db.WithContext(ctx).Migrator().HasTable(&models.Recipe{})

	if err := AutoMigrate(db.WithContext(ctx)); err != nil {
		return 0, fmt.Errorf("auto migrate: %w", err)
	}

	if !fresh {
		applog.Info(ctx, "database already exists, skipping seed")
		return 0, nil
	}

	applog.Info(ctx, "populating new database", "fixture", fixturePath)
	seeded, err := recipe.NewSeeder(recipe.NewGormStore(db)).SeedFromFile(ctx, fixturePath)
	if err != nil {
		return seeded, fmt.Errorf("seed database: %w", err)
	}
	return seeded, nil
}

// Configure opens the configured database and bootstraps it.
func Configure(ctx context.Context, cfg config.DatabaseConfig, fixturePath string) (*gorm.DB, error) {
	database, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := Bootstrap(ctx, database, fixturePath); err != nil {
		if sqlDB, dbErr := database.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}

	return database, nil
}

// MustConfigure is Configure for callers that cannot continue without a database.
func MustConfigure(ctx context.Context, cfg config.DatabaseConfig, fixturePath string) *gorm.DB {
	database, err := Configure(ctx, cfg, fixturePath)
	if err != nil {
		panic(err)
	}

	return database
}
