// Package ch provides a clickhouse-backed event bus
// publishing appends one row per event to an append-only topic table that
// downstream pipeline consumers read; this gives durable fan-in without a
// separate broker
package ch

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
)

// Config configures clickhouse connectivity
type Config struct {
	URL string

	ClientName string
	ClientTag  string
}

// Client publishes events into clickhouse topic tables
type Client struct {
	conn driver.Conn
}

// topicRE restricts topic names to safe table identifiers
var topicRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open connects to clickhouse
func Open(ctx context.Context, cfg Config) (*Client, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	return &Client{conn: conn}, nil
}

// EnsureTopic creates the topic table when missing
func (c *Client) EnsureTopic(ctx context.Context, topic string) error {
	if !topicRE.MatchString(topic) {
		return fmt.Errorf("ch: invalid topic %q", topic)
	}
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			message_id   UUID,
			body         String,
			attributes   Map(String, String),
			published_at DateTime64(3, 'UTC')
		) ENGINE = MergeTree ORDER BY published_at`, topic)
	if err := c.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ch: ensure topic %s: %w", topic, err)
	}
	return nil
}

// Publish appends one event row to topic and returns the message id
// the caller bounds the wait via ctx
func (c *Client) Publish(ctx context.Context, topic string, body []byte, attrs map[string]string) (string, error) {
	if !topicRE.MatchString(topic) {
		return "", fmt.Errorf("ch: invalid topic %q", topic)
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	id := uuid.NewString()
	query := fmt.Sprintf(
		`INSERT INTO %s (message_id, body, attributes, published_at) VALUES (?, ?, ?, ?)`, topic)
	if err := c.conn.Exec(ctx, query, id, string(body), attrs, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("ch: publish to %s: %w", topic, err)
	}
	return id, nil
}

// Ping verifies connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes resources
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
