package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"recipeserver/internal/config"
	"recipeserver/internal/db"
	applog "recipeserver/internal/log"
	"recipeserver/internal/recipe"
)

type rootOptions struct {
	DatabaseURL string
	LogLevel    string
	cfg         config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "recipectl",
		Short: "Administer the recipe store",
		Long: `Seed, inspect and prune the recipe store used by the recipe server.

Connection settings come from the same environment (and .env file) as the
server; --database-url overrides DATABASE_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if strings.TrimSpace(opts.DatabaseURL) != "" {
				cfg.Database.URL = opts.DatabaseURL
			}
			opts.cfg = cfg
			return applog.SetLevel(opts.LogLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", "", "database URL (defaults to DATABASE_URL or "+config.DefaultDatabaseURL+")")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newDeleteCommand(opts))
	cmd.AddCommand(newCountCommand(opts))

	return cmd
}

func (o *rootOptions) withStore(ctx context.Context, fn func(*gorm.DB, *recipe.GormStore) error) error {
	database, err := db.Initialize(o.cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	}()
	return fn(database.WithContext(ctx), recipe.NewGormStore(database))
}

type seedOptions struct {
	*rootOptions
	Fixture string
	Force   bool
}

func newSeedCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &seedOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load the fixture",
		Long: `Create the recipes and ingredients tables and load the fixture.

Without --force the fixture is only loaded into a store that did not exist
yet. With --force it is loaded regardless, one transaction per recipe,
stopping at the first failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "fixture file (defaults to SEED_FIXTURE)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "seed even when the store already exists")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	fixture := opts.Fixture
	if strings.TrimSpace(fixture) == "" {
		fixture = opts.cfg.Seed.FixturePath
	}
	ctx := cmd.Context()

	return opts.withStore(ctx, func(database *gorm.DB, store *recipe.GormStore) error {
		if !opts.Force {
			seeded, err := db.Bootstrap(ctx, database, fixture)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d recipes\n", seeded)
			return nil
		}

		if err := db.AutoMigrate(database); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		recipes, err := recipe.LoadFixture(fixture)
		if err != nil {
			return err
		}
		seeded, err := recipe.NewSeeder(store).Seed(ctx, recipes)
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d recipes\n", seeded)
		return err
	})
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a recipe as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withStore(cmd.Context(), func(_ *gorm.DB, store *recipe.GormStore) error {
				found, err := store.FetchByID(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("recipe %d: %w", id, err)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(found)
			})
		},
	}
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe and its ingredients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withStore(cmd.Context(), func(_ *gorm.DB, store *recipe.GormStore) error {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("recipe %d: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted recipe %d\n", id)
				return nil
			})
		},
	}
}

func newCountCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print recipe and ingredient row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(cmd.Context(), func(_ *gorm.DB, store *recipe.GormStore) error {
				recipes, ingredients, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "recipes: %d\ningredients: %d\n", recipes, ingredients)
				return nil
			})
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("recipe id must be a positive integer")
	}
	return id, nil
}
