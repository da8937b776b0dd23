package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"collective_dao/internal/store/migrations"

	_ "modernc.org/sqlite"
)

// SQLite persists state in a single kv table.
type SQLite struct {
	sqlDB *sql.DB
}

// OpenSQLite opens the database file and applies embedded migrations.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applySQLiteMigrations(sqlDB, migrations.FS, "sqlite"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLite{sqlDB: sqlDB}, nil
}

func (s *SQLite) Get(ctx context.Context, ns, key string) (*string, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	var v []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT v FROM kv WHERE ns = ? AND k = ?`, ns, []byte(key)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", ns, err)
	}
	val := string(v)
	return &val, nil
}

func (s *SQLite) Commit(ctx context.Context, writes []Write) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	for _, w := range writes {
		if w.Value == nil {
			_, err = tx.ExecContext(ctx, `DELETE FROM kv WHERE ns = ? AND k = ?`, w.NS, []byte(w.Key))
		} else {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO kv (ns, k, v) VALUES (?, ?, ?)
				 ON CONFLICT (ns, k) DO UPDATE SET v = excluded.v`,
				w.NS, []byte(w.Key), []byte(*w.Value),
			)
		}
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write %s: %w", w.NS, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (s *SQLite) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
