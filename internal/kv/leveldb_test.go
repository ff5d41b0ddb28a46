package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDBStore_RoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "earn")

	s, err := OpenLevelDB(path)
	require.NoError(t, err)

	err = NewBatch().
		Set("u:1:userData", sample{Name: "a", Count: 1}).
		Set("u:1:userStats", sample{Name: "b", Count: 2}).
		Commit(ctx, s)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := OpenLevelDB(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := Load(ctx, reopened, "u:1:userStats", sample{})
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "b", Count: 2}, got)

	_, err = reopened.Get(ctx, "u:1:missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenLevelDB_EmptyPath(t *testing.T) {
	_, err := OpenLevelDB("  ")
	assert.Error(t, err)
}
