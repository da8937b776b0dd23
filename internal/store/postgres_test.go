package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// needs a scratch database, e.g. COLLECTIVE_TEST_POSTGRES_DSN=postgres://localhost/collective_test
func TestPostgresCommitAndGet(t *testing.T) {
	dsn := os.Getenv("COLLECTIVE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("COLLECTIVE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	p, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer p.Close()

	key := string([]byte{0x10, 0x01, 0x00})
	tx := Begin(ctx, p)
	tx.Set(t.Name(), key, "passed")
	require.NoError(t, tx.Commit())

	got, err := p.Get(ctx, t.Name(), key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "passed", *got)

	tx = Begin(ctx, p)
	tx.Delete(t.Name(), key)
	require.NoError(t, tx.Commit())
	got, err = p.Get(ctx, t.Name(), key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	_, err := OpenPostgres(context.Background(), " ")
	assert.Error(t, err)
}
