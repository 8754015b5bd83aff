package domain

import "context"

// VerifierPort evaluates a bearer credential against the auth cascade
// no caching: tokens are re-verified on every call since expiration is
// time-dependent
type VerifierPort interface {
	Verify(credential string) (VerifiedIdentity, error)
}

// WriterPort durably persists a validated batch as one object
type WriterPort interface {
	Write(ctx context.Context, batch Batch, recordType RecordType) (StoredObjectReference, error)
}

// NotifierPort publishes a storage-referencing event, best effort
// returns the message id, or "" when the publish failed; never errors
type NotifierPort interface {
	Publish(ctx context.Context, ref StoredObjectReference, source string, recordType RecordType, recordCount int) string
}

// IngestPort runs the full pipeline for one batch
type IngestPort interface {
	Ingest(ctx context.Context, credential string, batch Batch, recordType RecordType) (IngestionResult, error)
}

// HealthPort reports backend reachability without mutating state
type HealthPort interface {
	Check(ctx context.Context) HealthStatus
}

// HealthStatus is the health endpoint payload
type HealthStatus struct {
	Status    string `json:"status"`
	Container string `json:"container"`
	Topic     string `json:"topic"`
	Blob      string `json:"blob"`
	Bus       string `json:"bus"`
}
