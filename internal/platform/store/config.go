package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	Blob BlobConfig
	Bus  BusConfig
}

// BlobBackend names a durable object store implementation
type BlobBackend string

const (
	// BlobBackendFS stores objects under a local directory root (development)
	BlobBackendFS BlobBackend = "fs"

	// BlobBackendPG stores objects in a Postgres table via pgx
	BlobBackendPG BlobBackend = "pg"
)

// BlobConfig configures the object store
type BlobConfig struct {
	Enabled   bool
	Backend   BlobBackend
	Container string

	// FS backend
	FSRoot string

	// PG backend
	PGURL    string
	MaxConns int32

	// Guard/boot knobs
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// BusConfig configures the clickhouse-backed event bus
type BusConfig struct {
	Enabled bool
	URL     string

	ClientName string
	ClientTag  string
}
