package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/syndtr/goleveldb/leveldb"
)

var _ Store = (*LevelDBStore)(nil)

// LevelDBStore is an embedded, single-process backend.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) a LevelDB database at the provided path.
func OpenLevelDB(path string) (*LevelDBStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("leveldb path required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve leveldb path: %w", err)
	}
	db, err := leveldb.OpenFile(abs, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb store: %w", err)
	}
	return &LevelDBStore{db: db}, nil
}

func (l *LevelDBStore) Get(_ context.Context, key string) ([]byte, error) {
	if l == nil || l.db == nil {
		return nil, fmt.Errorf("leveldb store not configured")
	}
	v, err := l.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leveldb get %s: %w", key, err)
	}
	return v, nil
}

func (l *LevelDBStore) PutBatch(ctx context.Context, entries map[string][]byte) error {
	if l == nil || l.db == nil {
		return fmt.Errorf("leveldb store not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	for k, v := range entries {
		batch.Put([]byte(k), v)
	}
	if err := l.db.Write(batch, nil); err != nil {
		return fmt.Errorf("leveldb write batch: %w", err)
	}
	return nil
}

// Close releases the underlying LevelDB resources.
func (l *LevelDBStore) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
