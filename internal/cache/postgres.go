package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS translation_cache (
	hash        TEXT PRIMARY KEY,
	source_lang TEXT NOT NULL,
	target_lang TEXT NOT NULL,
	source_text TEXT NOT NULL,
	translated  TEXT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps translations in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect opens a pool to databaseURL and makes sure the table exists.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := NewPostgresStore(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Lookup(ctx context.Context, hash string) (string, bool, error) {
	var translated string
	err := s.pool.QueryRow(ctx, `SELECT translated FROM translation_cache WHERE hash = $1`, hash).Scan(&translated)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup translation: %w", err)
	}
	return translated, true, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, e Entry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO translation_cache (hash, source_lang, target_lang, source_text, translated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (hash) DO UPDATE SET translated = EXCLUDED.translated, updated_at = now()`,
		e.Hash, e.Source, e.Target, e.Text, e.Translated)
	if err != nil {
		return fmt.Errorf("upsert translation: %w", err)
	}
	return nil
}

func (s *PostgresStore) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT hash, source_lang, target_lang, source_text, translated FROM translation_cache`)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Hash, &e.Source, &e.Target, &e.Text, &e.Translated); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
