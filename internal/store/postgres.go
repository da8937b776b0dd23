package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"collective_dao/internal/store/migrations"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	db *pgxpool.Pool
}

// OpenPostgres connects a pool and applies embedded migrations.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := applyPostgresMigrations(ctx, pool, migrations.FS, "postgres"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Postgres{db: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, ns, key string) (*string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	var v []byte
	err := p.db.QueryRow(ctx, `SELECT v FROM kv WHERE ns = $1 AND k = $2`, ns, []byte(key)).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", ns, err)
	}
	val := string(v)
	return &val, nil
}

func (p *Postgres) Commit(ctx context.Context, writes []Write) error {
	ctx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()
	batch := &pgx.Batch{}
	for _, w := range writes {
		if w.Value == nil {
			batch.Queue(`DELETE FROM kv WHERE ns = $1 AND k = $2`, w.NS, []byte(w.Key))
			continue
		}
		batch.Queue(`
        INSERT INTO kv (ns, k, v) VALUES ($1, $2, $3)
        ON CONFLICT (ns, k) DO UPDATE SET v = EXCLUDED.v
    `, w.NS, []byte(w.Key), []byte(*w.Value))
	}
	return pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
		return nil
	})
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}
