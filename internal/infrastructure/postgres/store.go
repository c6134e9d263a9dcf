// Package postgres provides a PostgreSQL persistence backend for
// deployments that already run a database server.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var dbTracer = otel.Tracer("lifeos.ledger.db")

// Store implements ledger.Persistence on a ledger_collections table.
type Store struct {
	db *sql.DB
}

// New connects to the database, verifies the connection, and ensures the
// schema exists.
func New(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ledger_collections (
			key        TEXT PRIMARY KEY,
			data       BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

// Load returns the blob stored under key, or nil when the key is absent.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, span := dbTracer.Start(ctx, "db.Load")
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("ledger.collection", key),
	)
	defer span.End()

	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM ledger_collections WHERE key = $1`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return blob, nil
}

// Save upserts the blob under key.
func (s *Store) Save(ctx context.Context, key string, blob []byte) error {
	ctx, span := dbTracer.Start(ctx, "db.Save")
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("ledger.collection", key),
	)
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_collections (key, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		key, blob)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
