package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stephenafamo/bob"
	_ "modernc.org/sqlite"

	"github.com/carson-networks/ledger-import/internal/config"
)

// Storage owns the single-writer SQLite ledger. The pool is capped at one
// connection so a load's reads and writes share its transaction and any
// second writer waits on the pool instead of racing for the file lock.
type Storage struct {
	DB *sql.DB
	db bob.DB
}

func NewStorage(env *config.Config) (*Storage, error) {
	return Open(env.DatabasePath)
}

// Open opens (creating if needed) the database file at path.
func Open(path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}

	return &Storage{
		DB: db,
		db: bob.NewDB(db),
	}, nil
}

// Read returns readers that run outside any write transaction.
func (s *Storage) Read() *Reader {
	return NewReader(s.db)
}

// Write begins a transaction. The caller must Commit or Rollback the writer.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	writer := NewWriter(tx)
	return &writer, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
