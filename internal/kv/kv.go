// Package kv is the persistent key/value layer that holds every user's
// records as JSON documents.
package kv

//go:generate go run go.uber.org/mock/mockgen@latest -source=kv.go -destination=mocks_test.go -package=kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrCorrupt  = errors.New("stored value is not valid JSON")
)

// Store is implemented by every backend. PutBatch must apply all entries or none.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutBatch(ctx context.Context, entries map[string][]byte) error
}

// Load decodes the JSON value under key into a copy of def. When the key is
// absent def is returned unchanged.
func Load[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to load %s: %w", key, err)
	}

	out := def
	if err := json.Unmarshal(raw, &out); err != nil {
		return def, fmt.Errorf("%s: %w: %v", key, ErrCorrupt, err)
	}
	return out, nil
}

// Save serializes value and writes it under key.
func Save(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.PutBatch(ctx, map[string][]byte{key: raw})
}

// Batch collects JSON entries that are written together.
type Batch struct {
	entries map[string][]byte
	err     error
}

func NewBatch() *Batch {
	return &Batch{entries: make(map[string][]byte)}
}

// Set marshals value into the batch. The first marshal error sticks and is
// returned by Commit.
func (b *Batch) Set(key string, value any) *Batch {
	if b.err != nil {
		return b
	}
	raw, err := json.Marshal(value)
	if err != nil {
		b.err = fmt.Errorf("failed to marshal %s: %w", key, err)
		return b
	}
	b.entries[key] = raw
	return b
}

// Commit writes every entry in one PutBatch call.
func (b *Batch) Commit(ctx context.Context, s Store) error {
	if b.err != nil {
		return b.err
	}
	if len(b.entries) == 0 {
		return nil
	}
	return s.PutBatch(ctx, b.entries)
}

type scoped struct {
	parent Store
	prefix string
}

// Scoped namespaces every key of s under prefix.
func Scoped(s Store, prefix string) Store {
	return &scoped{parent: s, prefix: prefix}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.parent.Get(ctx, s.prefix+key)
}

func (s *scoped) PutBatch(ctx context.Context, entries map[string][]byte) error {
	prefixed := make(map[string][]byte, len(entries))
	for k, v := range entries {
		prefixed[s.prefix+k] = v
	}
	return s.parent.PutBatch(ctx, prefixed)
}

// UserScope is the prefix under which one Telegram user's records live.
func UserScope(userID string) string {
	return "u:" + userID + ":"
}
