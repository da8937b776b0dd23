// Package store holds the durable key/value state contracts and the ledger
// live in, plus the per-call transaction overlay on top of it.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownBackend = errors.New("unknown state backend")

// Write is one committed mutation. A nil Value deletes the key.
type Write struct {
	NS    string
	Key   string
	Value *string
}

// Backend is committed state. Commit applies a batch atomically.
type Backend interface {
	Get(ctx context.Context, ns, key string) (*string, error)
	Commit(ctx context.Context, writes []Write) error
	Close() error
}

type Options struct {
	Backend      string
	SQLitePath   string
	PostgresDSN  string
	SnapshotFile string
}

// Open picks the backend named in opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "memory":
		return OpenMemory(opts.SnapshotFile)
	case "sqlite":
		return OpenSQLite(opts.SQLitePath)
	case "postgres":
		return OpenPostgres(ctx, opts.PostgresDSN)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
