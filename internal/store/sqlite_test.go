package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}

// commit upserts and deletes in one batch, reopening keeps the data and skips applied migrations
func TestSQLiteCommitAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)

	key := string([]byte{0x05, 'h', 'i', 0x00})
	tx := Begin(ctx, s)
	tx.Set("dao", key, "15")
	tx.Set("dao", "gone", "x")
	require.NoError(t, tx.Commit())

	tx = Begin(ctx, s)
	tx.Set("dao", key, "60")
	tx.Delete("dao", "gone")
	require.NoError(t, tx.Commit())
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "dao", key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "60", *got)
	gone, err := s.Get(ctx, "dao", "gone")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

// namespaces do not leak into each other
func TestSQLiteNamespaces(t *testing.T) {
	ctx := context.Background()
	s := openTempSQLite(t)
	v := "1"
	require.NoError(t, s.Commit(ctx, []Write{{NS: "a", Key: "k", Value: &v}}))
	got, err := s.Get(ctx, "b", "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
