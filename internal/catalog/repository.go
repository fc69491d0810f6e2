package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates a missing catalog record.
var ErrNotFound = errors.New("catalog entry not found")

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Repository persists catalog entries in SQLite or Postgres. Both drivers
// accept $n placeholders, so the queries are shared.
type Repository struct {
	db DB
}

// NewRepository creates a repository over an open connection.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// SQLiteOptions holds SQLite open options.
type SQLiteOptions struct {
	Path        string
	JournalMode string
}

// OpenSQLite opens a SQLite-backed catalog store.
func OpenSQLite(opts SQLiteOptions) (*sql.DB, error) {
	mode := opts.JournalMode
	if mode == "" {
		mode = "WAL"
	}
	dsn := fmt.Sprintf("file:%s?_journal_mode=%s", opts.Path, mode)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// PostgresOptions holds Postgres open options.
type PostgresOptions struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OpenPostgres opens a Postgres-backed catalog store.
func OpenPostgres(opts PostgresOptions) (*sql.DB, error) {
	db, err := sql.Open("postgres", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, nil
}

// Init creates the entries table when missing.
func (r *Repository) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS entries (
			id            TEXT PRIMARY KEY,
			category      TEXT NOT NULL,
			group_name    TEXT NOT NULL,
			keywords      TEXT NOT NULL DEFAULT '',
			answer_uk     TEXT NOT NULL DEFAULT '',
			answer_ru     TEXT NOT NULL DEFAULT '',
			priority      INTEGER NOT NULL DEFAULT 10,
			triggers      TEXT NOT NULL DEFAULT '',
			base_price    DOUBLE PRECISION,
			upsell_price  DOUBLE PRECISION,
			price_suffix  TEXT NOT NULL DEFAULT '',
			sort_order    INTEGER NOT NULL DEFAULT 0
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create entries table: %w", err)
	}
	return nil
}

// Upsert inserts or replaces one entry.
func (r *Repository) Upsert(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO entries (id, category, group_name, keywords, answer_uk, answer_ru,
			priority, triggers, base_price, upsell_price, price_suffix, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			category = EXCLUDED.category,
			group_name = EXCLUDED.group_name,
			keywords = EXCLUDED.keywords,
			answer_uk = EXCLUDED.answer_uk,
			answer_ru = EXCLUDED.answer_ru,
			priority = EXCLUDED.priority,
			triggers = EXCLUDED.triggers,
			base_price = EXCLUDED.base_price,
			upsell_price = EXCLUDED.upsell_price,
			price_suffix = EXCLUDED.price_suffix,
			sort_order = EXCLUDED.sort_order
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Category, e.Group, strings.Join(e.Keywords, ","),
		e.Answers["uk"], e.Answers["ru"],
		e.Priority, strings.Join(e.Triggers, ","),
		e.BasePrice, e.UpsellPrice, e.PriceSuffix, e.SortOrder,
	)
	return err
}

// GetByID retrieves one entry.
func (r *Repository) GetByID(ctx context.Context, id string) (*Entry, error) {
	query := selectColumns + ` WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// ListAll returns every entry in catalog order.
func (r *Repository) ListAll(ctx context.Context) ([]Entry, error) {
	query := selectColumns + ` ORDER BY category, sort_order, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ListByCategory returns one category's entries in catalog order.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]Entry, error) {
	query := selectColumns + ` WHERE category = $1 ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("list entries by category: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

const selectColumns = `
	SELECT id, category, group_name, keywords, answer_uk, answer_ru,
		priority, triggers, base_price, upsell_price, price_suffix, sort_order
	FROM entries`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		e                   Entry
		keywords, triggers  string
		answerUK, answerRU  string
		basePrc, upsellPrc  sql.NullFloat64
	)

	err := row.Scan(
		&e.ID, &e.Category, &e.Group, &keywords, &answerUK, &answerRU,
		&e.Priority, &triggers, &basePrc, &upsellPrc, &e.PriceSuffix, &e.SortOrder,
	)
	if err != nil {
		return nil, err
	}

	e.Keywords = splitList(keywords)
	e.Triggers = splitList(triggers)
	e.Answers = map[string]string{}
	if answerUK != "" {
		e.Answers["uk"] = answerUK
	}
	if answerRU != "" {
		e.Answers["ru"] = answerRU
	}
	if basePrc.Valid {
		e.BasePrice = &basePrc.Float64
	}
	if upsellPrc.Valid {
		e.UpsellPrice = &upsellPrc.Float64
	}

	return &e, nil
}
