// Package config provides unified configuration loading for the answer engine.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the answer engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Cache         CacheConfig         `yaml:"cache"`
	Retriever     RetrieverConfig     `yaml:"retriever"`
	Intent        IntentConfig        `yaml:"intent"`
	Ranking       RankingConfig       `yaml:"ranking"`
	Formatter     FormatterConfig     `yaml:"formatter"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// DatabaseConfig holds catalog store settings.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"` // sqlite, postgres or csv
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	CSV      CSVConfig      `yaml:"csv"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	JournalMode  string `yaml:"journal_mode"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CSVConfig holds CSV catalog settings. Files maps a category name to the
// CSV file holding that category's entries.
type CSVConfig struct {
	Files map[string]string `yaml:"files"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// RetrieverConfig holds similarity-retriever settings.
type RetrieverConfig struct {
	Endpoint      string        `yaml:"endpoint"`
	Timeout       time.Duration `yaml:"timeout"`
	TopK          int           `yaml:"top_k"`
	MinSimilarity float64       `yaml:"min_similarity"`
	CacheResults  bool          `yaml:"cache_results"`
}

// IntentConfig holds intent analyzer settings.
type IntentConfig struct {
	// WeightOverrides replaces the built-in weight for the named tags.
	WeightOverrides map[string]float64 `yaml:"weight_overrides"`
}

// RankingConfig holds scorer and selector settings.
type RankingConfig struct {
	RelevanceFloor float64 `yaml:"relevance_floor"`
	MaxUpsell      int     `yaml:"max_upsell"`
}

// FormatterConfig holds response formatter settings.
type FormatterConfig struct {
	DefaultLanguage string `yaml:"default_language"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{
				Path:         "/tmp/answer-engine.db",
				MaxOpenConns: 1,
				JournalMode:  "WAL",
			},
			Postgres: PostgresConfig{
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Retriever: RetrieverConfig{
			Endpoint:      "http://localhost:8091",
			Timeout:       3 * time.Second,
			TopK:          5,
			MinSimilarity: 0.0,
			CacheResults:  true,
		},
		Intent: IntentConfig{},
		Ranking: RankingConfig{
			RelevanceFloor: 0.3,
			MaxUpsell:      2,
		},
		Formatter: FormatterConfig{
			DefaultLanguage: "uk",
		},
		Observability: ObservabilityConfig{
			LogLevel:    "debug",
			LogFormat:   "json",
			ServiceName: "answer-engine",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres", "csv":
	default:
		return fmt.Errorf("invalid database driver: %s", c.Database.Driver)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Retriever.Timeout <= 0 {
		return fmt.Errorf("retriever timeout must be positive")
	}

	if c.Retriever.TopK < 1 || c.Retriever.TopK > 50 {
		return fmt.Errorf("retriever top_k must be between 1 and 50")
	}

	if c.Ranking.RelevanceFloor < 0 || c.Ranking.RelevanceFloor > 2.0 {
		return fmt.Errorf("relevance_floor must be between 0 and 2.0")
	}

	if c.Ranking.MaxUpsell < 0 {
		return fmt.Errorf("max_upsell must not be negative")
	}

	for tag, w := range c.Intent.WeightOverrides {
		if w <= 0 {
			return fmt.Errorf("intent weight for %q must be positive", tag)
		}
	}

	return nil
}

// DatabaseDSN returns the appropriate catalog connection string.
func (c *Config) DatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.SQLite.Path
	}
	return c.Database.Postgres.DSN
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "sqlite:") {
			cfg.Database.Driver = "sqlite"
			cfg.Database.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.Database.Driver = "postgres"
			cfg.Database.Postgres.DSN = v
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("RETRIEVER_ENDPOINT"); v != "" {
		cfg.Retriever.Endpoint = v
	}

	if v := os.Getenv("RETRIEVER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Retriever.Timeout = d
		}
	}

	if v := os.Getenv("DEFAULT_LANGUAGE"); v != "" {
		cfg.Formatter.DefaultLanguage = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
