// Package store provides a unified interface to the gateway's storage backends
package store

import (
	"context"
	"errors"
	"fmt"

	"riskgate/internal/platform/logger"
)

// Store is the facade over the durable object store and the event bus
// handles are opened once at process start and shared read-only for the
// process lifetime; both seams are safe for concurrent use
type Store struct {
	// Log is the logger used by subclients
	Log logger.Logger

	// Blob is the durable object store seam, nil when disabled
	Blob Blob

	// Bus is the event publish seam, nil when disabled
	Bus Bus
}

// Blob is the narrow object-storage port the writer depends on
type Blob interface {
	// Put stores body at path as a single atomic object
	Put(ctx context.Context, path string, body []byte, contentType string) error
	// Exists reports whether the configured container is reachable
	Exists(ctx context.Context) (bool, error)
	// URI returns the durable address of an object at path
	URI(path string) string
}

// Bus is the narrow publish port the notifier depends on
type Bus interface {
	// Publish emits body to topic with attributes and returns a message id
	// the caller bounds the wait via ctx
	Publish(ctx context.Context, topic string, body []byte, attrs map[string]string) (string, error)
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the requested backends
// backends not enabled in cfg remain nil on the Store
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// defaults for zero logger to avoid nil checks
	s.Log = s.Log.With().Logger()

	if cfg.Blob.Enabled {
		b, err := openBlob(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.Blob = b
	}

	if cfg.Bus.Enabled {
		b, err := openBus(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.Bus = b
	}

	return s, nil
}

// Close releases backend resources
func (s *Store) Close(_ context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if c, ok := s.Blob.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("blob close: %w", err))
		}
	}
	if s.Bus != nil {
		if err := s.Bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("bus close: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Bootstrap creates backend schema objects that are missing
// safe to run on every boot; topics and tables are created idempotently
func (s *Store) Bootstrap(ctx context.Context, topic string) error {
	if m, ok := s.Blob.(interface{ EnsureSchema(context.Context) error }); ok {
		if err := m.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("blob schema: %w", err)
		}
	}
	if m, ok := s.Bus.(interface {
		EnsureTopic(context.Context, string) error
	}); ok && topic != "" {
		if err := m.EnsureTopic(ctx, topic); err != nil {
			return fmt.Errorf("bus topic: %w", err)
		}
	}
	return nil
}

// Ping checks readiness of every opened backend
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil store")
	}
	if p, ok := s.Blob.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("blob ping: %w", err)
		}
	}
	if p, ok := s.Bus.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("bus ping: %w", err)
		}
	}
	return nil
}
