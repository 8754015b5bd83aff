//go:build integration_pg
// +build integration_pg

package pg

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func TestPutExistsURI_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	c, err := Open(ctx, Config{URL: dsn, Container: "risk-raw-data"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	// table absent before EnsureSchema
	ok, err := c.Exists(ctx)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatal("Exists before schema = true")
	}

	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	ok, err = c.Exists(ctx)
	if err != nil || !ok {
		t.Fatalf("Exists after schema = %v, %v", ok, err)
	}

	path := "core-banking/transactions/2026-08-29/abc.json"
	body := []byte(`{"source":"core-banking"}`)
	if err := c.Put(ctx, path, body, "application/json"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got []byte
	var ct string
	err = c.pool.QueryRow(ctx,
		`SELECT body, content_type FROM raw_objects WHERE container = $1 AND path = $2`,
		"risk-raw-data", path,
	).Scan(&got, &ct)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != string(body) || ct != "application/json" {
		t.Fatalf("read back = %q %q", got, ct)
	}

	// duplicate path collides on the primary key; fresh uuid path segments
	// make this unreachable in normal operation
	if err := c.Put(ctx, path, body, "application/json"); err == nil {
		t.Fatal("duplicate Put should fail")
	}

	if want := "pg://risk-raw-data/" + path; c.URI(path) != want {
		t.Fatalf("URI = %q, want %q", c.URI(path), want)
	}
}
