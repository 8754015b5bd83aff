// Package pg provides a Postgres-backed object store using pgxpool
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures pgxpool for the object store
type Config struct {
	URL       string
	Container string
	MaxConns  int32
}

// Client stores objects as rows in the raw_objects table
// each put is a single insert, so readers never observe partial objects
type Client struct {
	pool      *pgxpool.Pool
	container string
}

var newPool = pgxpool.NewWithConfig // seam for tests

// Open creates a new object store client with the given config
func Open(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Container == "" {
		return nil, fmt.Errorf("pg: container is required")
	}
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &Client{pool: pool, container: cfg.Container}, nil
}

// EnsureSchema creates the raw_objects table when missing
func (c *Client) EnsureSchema(ctx context.Context) error {
	_, err := c.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS raw_objects (
			container    text        NOT NULL,
			path         text        NOT NULL,
			body         bytea       NOT NULL,
			content_type text        NOT NULL DEFAULT 'application/octet-stream',
			written_at   timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (container, path)
		)`)
	if err != nil {
		return fmt.Errorf("pg: ensure schema: %w", err)
	}
	return nil
}

// Put stores body at path
func (c *Client) Put(ctx context.Context, path string, body []byte, contentType string) error {
	if path == "" {
		return fmt.Errorf("pg: empty object path")
	}
	tag, err := c.pool.Exec(ctx,
		`INSERT INTO raw_objects (container, path, body, content_type) VALUES ($1, $2, $3, $4)`,
		c.container, path, body, contentType,
	)
	if err != nil {
		return fmt.Errorf("pg: put %s: %w", path, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("pg: put %s affected %d rows", path, tag.RowsAffected())
	}
	return nil
}

// Exists reports whether the raw_objects table is reachable
func (c *Client) Exists(ctx context.Context) (bool, error) {
	var ok bool
	err := c.pool.QueryRow(ctx, `SELECT to_regclass('raw_objects') IS NOT NULL`).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("pg: exists: %w", err)
	}
	return ok, nil
}

// URI returns the durable address of an object at path
func (c *Client) URI(path string) string {
	return fmt.Sprintf("pg://%s/%s", c.container, path)
}

// Ping verifies connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close closes the pool
func (c *Client) Close() error {
	if c != nil && c.pool != nil {
		c.pool.Close()
	}
	return nil
}
