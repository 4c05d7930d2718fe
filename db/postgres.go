package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InitDB initializes the PostgreSQL database connection pool
func InitDB(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Ping the database to verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL database!")
	return pool, nil
}

// CreateSchema sets up the record_sets table. Each row holds one whole set.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS record_sets (
		name VARCHAR(64) PRIMARY KEY,
		payload JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	// Seed empty sets so the table lists everything the server owns
	for _, set := range RecordSets {
		_, err := pool.Exec(ctx, `
			INSERT INTO record_sets (name, payload)
			VALUES ($1, '[]'::jsonb)
			ON CONFLICT (name) DO NOTHING;
		`, set)
		if err != nil {
			log.Printf("Warning: Failed to seed record set %s: %v", set, err)
		}
	}
	return nil
}

// PostgresBackend stores record sets as JSONB rows.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend connects, creates the schema and returns the backend.
func NewPostgresBackend(ctx context.Context, connString string) (*PostgresBackend, error) {
	pool, err := InitDB(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := CreateSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresBackend{pool: pool}, nil
}

func (p *PostgresBackend) Load(ctx context.Context, set string) ([]byte, error) {
	var payload string
	err := p.pool.QueryRow(ctx, "SELECT payload::text FROM record_sets WHERE name = $1", set).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", set, err)
	}
	return []byte(payload), nil
}

func (p *PostgresBackend) Save(ctx context.Context, set string, payload []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO record_sets (name, payload, updated_at)
		VALUES ($1, $2::jsonb, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`, set, string(payload))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", set, err)
	}
	return nil
}

func (p *PostgresBackend) Close() error {
	p.pool.Close()
	return nil
}
