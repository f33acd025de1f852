package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"alumni/session"
)

func OpenDB(dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 0
	config.MaxConnIdleTime = 20 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

const createSessionsTable = `CREATE TABLE IF NOT EXISTS client_sessions (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, key)
);`

// EnsureSchema creates the client_sessions table if it is missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("create client_sessions: %w", err)
	}
	return nil
}

// PostgresStorage keeps session items as rows of client_sessions, one
// namespace per client.
type PostgresStorage struct {
	db        *pgxpool.Pool
	namespace string
}

func NewPostgresStorage(db *pgxpool.Pool, namespace string) *PostgresStorage {
	if namespace == "" {
		namespace = "default"
	}
	return &PostgresStorage{db: db, namespace: namespace}
}

func (s *PostgresStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := "SELECT value FROM client_sessions WHERE namespace = $1 AND key = $2;"
	var value string
	err := s.db.QueryRow(ctx, stmt, s.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStorage) SetItem(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := `INSERT INTO client_sessions (namespace, key, value) VALUES ($1, $2, $3)
ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();`
	if _, err := s.db.Exec(ctx, stmt, s.namespace, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStorage) RemoveItem(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := "DELETE FROM client_sessions WHERE namespace = $1 AND key = $2;"
	if _, err := s.db.Exec(ctx, stmt, s.namespace, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

var _ session.Storage = (*PostgresStorage)(nil)
