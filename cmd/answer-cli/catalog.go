package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/printworks/answer-engine/internal/app"
	"github.com/printworks/answer-engine/internal/catalog"
	"github.com/printworks/answer-engine/internal/config"
)

// newCatalogCmd creates the catalog subcommand group.
func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the answer catalog",
	}
	cmd.AddCommand(newCatalogImportCmd())
	cmd.AddCommand(newCatalogValidateCmd())
	cmd.AddCommand(newCatalogStatsCmd())
	return cmd
}

// newCatalogImportCmd imports CSV files into the configured SQL store.
func newCatalogImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file.csv ...]",
		Short: "Import CSV catalog files into the configured database",
		Long: `Import reads one or more CSV catalog files and upserts their entries
into the configured SQLite or Postgres store. The category of each file is
its base name without extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Database.Driver == "csv" {
				return fmt.Errorf("import requires a sqlite or postgres database driver")
			}

			entries, err := loadCSVArgs(args)
			if err != nil {
				return err
			}

			repo, closeFn, err := openRepository(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			bar := newProgressBar(int64(len(entries)), "importing")
			imported, skipped := 0, 0
			for i := range entries {
				e := &entries[i]
				if err := e.Validate(); err != nil {
					warnf("skipping %s: %v", e.ID, err)
					skipped++
					_ = bar.Add(1)
					continue
				}
				if err := repo.Upsert(cmd.Context(), e); err != nil {
					return fmt.Errorf("upsert %s: %w", e.ID, err)
				}
				imported++
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			successf("imported %d entries (%d skipped)", imported, skipped)
			return nil
		},
	}
	return cmd
}

// newCatalogValidateCmd validates CSV files without touching the store.
func newCatalogValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file.csv ...]",
		Short: "Validate CSV catalog files without importing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadCSVArgs(args)
			if err != nil {
				return err
			}

			valid, invalid := 0, 0
			for i := range entries {
				if err := entries[i].Validate(); err != nil {
					errorf("%s: %v", entries[i].ID, err)
					invalid++
					continue
				}
				valid++
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d entries invalid", invalid, valid+invalid)
			}
			successf("%d entries valid", valid)
			return nil
		},
	}
	return cmd
}

// newCatalogStatsCmd reports entry counts per category.
func newCatalogStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}
			defer engine.Close()

			snap := engine.Holder.Current()
			counts := snap.CountByCategory()

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"total":       snap.Len(),
					"by_category": counts,
					"version":     snap.Version(),
				})
			}

			categories := make([]string, 0, len(counts))
			for c := range counts {
				categories = append(categories, c)
			}
			sort.Strings(categories)

			fmt.Printf("catalog version %d, %d entries\n", snap.Version(), snap.Len())
			for _, c := range categories {
				fmt.Printf("  %-20s %d\n", c, counts[c])
			}
			return nil
		},
	}
	return cmd
}

// loadCSVArgs parses the given CSV files, deriving each category from the
// file's base name.
func loadCSVArgs(paths []string) ([]catalog.Entry, error) {
	files := make(map[string]string, len(paths))
	for _, p := range paths {
		category := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		files[category] = p
	}
	return catalog.LoadCSVFiles(files)
}

// openRepository opens the configured SQL store and initializes its schema.
func openRepository(ctx context.Context, cfg *config.Config) (*catalog.Repository, func() error, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Database.Driver {
	case "sqlite":
		db, err = catalog.OpenSQLite(catalog.SQLiteOptions{
			Path:        cfg.Database.SQLite.Path,
			JournalMode: cfg.Database.SQLite.JournalMode,
		})
	case "postgres":
		db, err = catalog.OpenPostgres(catalog.PostgresOptions{
			DSN:             cfg.Database.Postgres.DSN,
			MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Database.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.Postgres.ConnMaxLifetime,
		})
	default:
		return nil, nil, fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	repo := catalog.NewRepository(db)
	if err := repo.Init(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, db.Close, nil
}
