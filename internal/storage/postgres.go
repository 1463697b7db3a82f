package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/chrisvdg/trivia-backend/internal/logger"
)

// Schema creates the single documents table used by the Postgres backend.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
	key TEXT PRIMARY KEY,
	doc JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresStore is a DocStore backed by a single jsonb table.
//
// Update runs inside a transaction with SELECT ... FOR UPDATE, so the
// read-modify-write is atomic on this backend and concurrent updates to
// the same key serialize instead of losing history entries.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a PostgresStore over an existing connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the documents table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT doc FROM documents WHERE key = $1`

	var doc []byte
	err := s.db.GetContext(ctx, &doc, query, key)

	logger.Log.Debugw("store get",
		"query", strings.Join(strings.Fields(query), " "),
		"key", key,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *PostgresStore) Scan(ctx context.Context, prefix string) ([][]byte, error) {
	const query = `SELECT doc FROM documents WHERE key LIKE $1 || '%' ORDER BY key`

	var docs [][]byte
	err := s.db.SelectContext(ctx, &docs, query, prefix)

	logger.Log.Debugw("store scan",
		"query", strings.Join(strings.Fields(query), " "),
		"prefix", prefix,
		"count", len(docs),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, doc []byte) error {
	const query = `
		INSERT INTO documents (key, doc, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET doc = EXCLUDED.doc,
		    updated_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, key, doc)

	logger.Log.Debugw("store put",
		"query", strings.Join(strings.Fields(query), " "),
		"key", key,
		"error", err,
	)

	return err
}

func (s *PostgresStore) Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current []byte
	err = tx.GetContext(ctx, &current, `SELECT doc FROM documents WHERE key = $1 FOR UPDATE`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE documents SET doc = $2, updated_at = NOW() WHERE key = $1`, key, next); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.Log.Debugw("store update", "key", key)
	return next, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) (bool, error) {
	const query = `DELETE FROM documents WHERE key = $1`

	res, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return false, err
	}
	rows, _ := res.RowsAffected()

	logger.Log.Debugw("store delete", "key", key, "deleted", rows > 0)
	return rows > 0, nil
}
