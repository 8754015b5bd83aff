package store

import (
	"context"
	"fmt"
	"time"

	"riskgate/internal/platform/store/blob/fs"
	"riskgate/internal/platform/store/blob/pg"
	"riskgate/internal/platform/store/bus/ch"
)

// openBlob opens the configured object-store backend
func openBlob(ctx context.Context, cfg Config, s *Store) (Blob, error) {
	switch cfg.Blob.Backend {
	case BlobBackendFS, "":
		return fs.Open(fs.Config{
			Root:      cfg.Blob.FSRoot,
			Container: cfg.Blob.Container,
		})
	case BlobBackendPG:
		return openPGBlob(ctx, cfg, s)
	default:
		return nil, fmt.Errorf("store: unknown blob backend %q", cfg.Blob.Backend)
	}
}

func openPGBlob(ctx context.Context, cfg Config, s *Store) (Blob, error) {
	p, err := pg.Open(ctx, pg.Config{
		URL:       cfg.Blob.PGURL,
		Container: cfg.Blob.Container,
		MaxConns:  cfg.Blob.MaxConns,
	})
	if err != nil {
		return nil, err
	}

	// Connection guardrails: ping with retry/backoff before publishing the handle
	maxAttempts := cfg.Blob.ConnectRetries
	if maxAttempts <= 0 {
		maxAttempts = 20
	}
	pingTimeout := cfg.Blob.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Ping(toCtx)
		cancel()

		if lastErr == nil {
			return p, nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		time.Sleep(backoff)
		if backoff < backoffCeiling {
			backoff *= 2
			if backoff > backoffCeiling {
				backoff = backoffCeiling
			}
		}
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", maxAttempts, lastErr)
}

func openBus(ctx context.Context, cfg Config, _ *Store) (Bus, error) {
	return ch.Open(ctx, ch.Config{
		URL:        cfg.Bus.URL,
		ClientName: cfg.Bus.ClientName,
		ClientTag:  cfg.Bus.ClientTag,
	})
}
