package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSnapshotsTable = `
	CREATE TABLE IF NOT EXISTS cart_snapshots (
		key        TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Postgres stores values in the cart_snapshots table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and ensures the schema exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	store := &Postgres{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("create cart_snapshots table: %w", err)
	}
	return nil
}

// Get returns the payload stored under key.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx, `SELECT payload FROM cart_snapshots WHERE key = $1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

// Set upserts the payload stored under key. value must be valid JSON.
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO cart_snapshots (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			payload = $2,
			updated_at = now()`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are ignored.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM cart_snapshots WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}
