// Package app assembles the answer engine from configuration. Both the API
// server and the CLI build their pipeline through it.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/printworks/answer-engine/internal/answer"
	"github.com/printworks/answer-engine/internal/cache"
	"github.com/printworks/answer-engine/internal/catalog"
	"github.com/printworks/answer-engine/internal/config"
	"github.com/printworks/answer-engine/internal/intent"
	"github.com/printworks/answer-engine/internal/observability"
	"github.com/printworks/answer-engine/internal/ranking"
	"github.com/printworks/answer-engine/internal/retriever"
)

// App holds the assembled engine and its closable resources.
type App struct {
	Config   *config.Config
	Logger   *observability.Logger
	Holder   *catalog.Holder
	Cache    cache.Client
	Service  *answer.Service
	Analyzer *intent.Analyzer

	db   *sql.DB
	repo *catalog.Repository
}

// Build assembles every component from configuration: catalog store, cache,
// retriever chain, analyzer, selector, formatter and the service.
func Build(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*App, error) {
	if logger == nil {
		logger = observability.NewLogger(observability.LogConfig{
			Level:       cfg.Observability.LogLevel,
			Format:      cfg.Observability.LogFormat,
			ServiceName: cfg.Observability.ServiceName,
		})
	}

	a := &App{Config: cfg, Logger: logger}

	holder, err := a.loadCatalog(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.Holder = holder

	cacheClient, err := buildCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("build cache: %w", err)
	}
	a.Cache = cacheClient

	var r retriever.Retriever = retriever.NewHTTPClient(retriever.HTTPConfig{
		Endpoint:      cfg.Retriever.Endpoint,
		Timeout:       cfg.Retriever.Timeout,
		MinSimilarity: cfg.Retriever.MinSimilarity,
	})
	if cfg.Retriever.CacheResults {
		r = retriever.NewCachedRetriever(r, cacheClient, cfg.Cache.TTL, logger)
	}

	a.Analyzer = intent.NewAnalyzer(cfg.Intent.WeightOverrides)

	scorer := ranking.NewScorer(cfg.Ranking.RelevanceFloor)
	selector := ranking.NewSelector(scorer, ranking.SelectorConfig{
		MinSimilarity: cfg.Retriever.MinSimilarity,
		MaxUpsell:     cfg.Ranking.MaxUpsell,
	}, logger)

	formatter := answer.NewFormatter(cfg.Formatter.DefaultLanguage)

	a.Service = answer.NewService(a.Analyzer, r, holder, selector, formatter, answer.ServiceConfig{
		TopK:            cfg.Retriever.TopK,
		MaxUpsell:       cfg.Ranking.MaxUpsell,
		DefaultLanguage: cfg.Formatter.DefaultLanguage,
	}, logger)

	return a, nil
}

// Reload rebuilds the catalog snapshot from the configured store and swaps
// it in. In-flight requests keep the snapshot they started with.
func (a *App) Reload(ctx context.Context) error {
	holder, err := a.loadCatalog(ctx, a.Config)
	if err != nil {
		return err
	}
	a.Holder.Swap(holder.Current())
	return nil
}

// Close releases held resources.
func (a *App) Close() error {
	var firstErr error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = err
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Holder, error) {
	var (
		entries []catalog.Entry
		err     error
	)

	switch cfg.Database.Driver {
	case "csv":
		entries, err = catalog.LoadCSVFiles(cfg.Database.CSV.Files)
	case "sqlite", "postgres":
		if a.repo == nil {
			if err = a.openRepository(ctx, cfg); err != nil {
				return nil, err
			}
		}
		entries, err = a.repo.ListAll(ctx)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	snap, malformed := catalog.NewSnapshot(nextVersion(a.Holder), entries)
	for _, merr := range malformed {
		a.Logger.Warn().Err(merr).Msg("malformed catalog entry skipped")
	}
	a.Logger.Info().
		Int("entries", snap.Len()).
		Int("malformed", len(malformed)).
		Int64("version", snap.Version()).
		Msg("catalog loaded")

	return catalog.NewHolder(snap), nil
}

func (a *App) openRepository(ctx context.Context, cfg *config.Config) error {
	var err error
	if cfg.Database.Driver == "sqlite" {
		a.db, err = catalog.OpenSQLite(catalog.SQLiteOptions{
			Path:        cfg.Database.SQLite.Path,
			JournalMode: cfg.Database.SQLite.JournalMode,
		})
	} else {
		a.db, err = catalog.OpenPostgres(catalog.PostgresOptions{
			DSN:             cfg.Database.Postgres.DSN,
			MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Database.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.Postgres.ConnMaxLifetime,
		})
	}
	if err != nil {
		return err
	}
	a.repo = catalog.NewRepository(a.db)
	return a.repo.Init(ctx)
}

func nextVersion(h *catalog.Holder) int64 {
	if h == nil {
		return 1
	}
	if cur := h.Current(); cur != nil {
		return cur.Version() + 1
	}
	return 1
}

func buildCache(cfg *config.Config) (cache.Client, error) {
	if cfg.Cache.Driver == "redis" {
		return cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
	}
	return cache.NewMemoryClient(cfg.Cache.MaxEntries), nil
}
