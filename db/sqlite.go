package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"chapterquiz-server/utils"
)

// SQLiteBackend keeps one row per record set in a local SQLite database.
type SQLiteBackend struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteBackend opens (or creates) the database at path and its
// record_sets table.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path == "" {
		path = "quiz.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time keeps SQLITE_BUSY out of concurrent requests
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS record_sets (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create record_sets table: %w", err)
	}
	log.Printf("Using SQLite record store at %s", path)
	return &SQLiteBackend{db: sqlDB}, nil
}

func (s *SQLiteBackend) Load(ctx context.Context, set string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM record_sets WHERE name = ?`, set).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", set, err)
	}
	return payload, nil
}

func (s *SQLiteBackend) Save(ctx context.Context, set string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `INSERT INTO record_sets(name, payload, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		set, payload, utils.Timestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", set, err)
	}
	return nil
}

func (s *SQLiteBackend) Close() error { return s.db.Close() }

