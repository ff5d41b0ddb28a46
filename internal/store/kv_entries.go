package store

import (
	"context"
	"database/sql"
	"earn-server/internal/kv"
	"earn-server/internal/observability"
	"errors"
	"fmt"
	"time"
)

// KVEntry is one persisted JSON document
type KVEntry struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

const sqlCreateKVEntries = `
CREATE TABLE IF NOT EXISTS kv_entries (
    key        TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)
`

// Migrate creates the kv_entries table when it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqlCreateKVEntries); err != nil {
		return fmt.Errorf("failed to create kv_entries: %w", err)
	}
	return nil
}

const sqlGetKVEntry = `
SELECT key, value, updated_at
FROM kv_entries
WHERE key = $1
`

// Get retrieves the raw JSON value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KVEntry
	err := s.db.GetContext(ctx, &entry, sqlGetKVEntry, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get kv entry: %w", err)
	}
	return entry.Value, nil
}

const sqlUpsertKVEntry = `
INSERT INTO kv_entries (key, value, updated_at)
VALUES ($1, $2, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = CURRENT_TIMESTAMP
`

// PutBatch upserts every entry inside one transaction
func (s *Store) PutBatch(ctx context.Context, entries map[string][]byte) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.logger.Error(ctx, "failed to rollback kv batch", err)
		}
	}()

	for key, value := range entries {
		if _, err := tx.ExecContext(ctx, sqlUpsertKVEntry, key, value); err != nil {
			ctx = observability.WithFields(ctx, observability.Field{Key: "kv_key", Value: key})
			s.logger.Error(ctx, "failed to upsert kv entry", err)
			return fmt.Errorf("failed to upsert kv entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit kv batch: %w", err)
	}
	return nil
}

const sqlCountKVEntriesByPrefix = `
SELECT COUNT(*)
FROM kv_entries
WHERE key LIKE $1 || '%'
`

// CountByPrefix counts entries whose key starts with prefix
func (s *Store) CountByPrefix(ctx context.Context, prefix string) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, sqlCountKVEntriesByPrefix, prefix); err != nil {
		return 0, fmt.Errorf("failed to count kv entries: %w", err)
	}
	return count, nil
}
