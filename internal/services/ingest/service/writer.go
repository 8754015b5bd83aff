// Package service implements the ingestion pipeline stages
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	perr "riskgate/internal/platform/errors"
	"riskgate/internal/platform/logger"
	"riskgate/internal/platform/store"
	"riskgate/internal/services/ingest/domain"

	"github.com/google/uuid"
)

// Writer persists one batch per object in the durable store
type Writer struct {
	blob store.Blob
	now  func() time.Time
}

// NewWriter constructs the batch writer over a blob seam
func NewWriter(blob store.Blob) *Writer {
	return &Writer{blob: blob, now: time.Now}
}

// WithClock overrides the writer clock; used by tests
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// ObjectPath builds {source}/{recordType}/{date}/{uuid}.json
// the fresh uuid segment guarantees concurrent writers from the same source
// on the same day never collide
func ObjectPath(source string, recordType domain.RecordType, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s/%s.json", source, recordType, at.UTC().Format("2006-01-02"), uuid.NewString())
}

// Write implements domain.WriterPort
// the put is a single atomic call; any storage error surfaces as a
// service-unavailable class failure and the caller must not notify
func (w *Writer) Write(
	ctx context.Context,
	batch domain.Batch,
	recordType domain.RecordType,
) (domain.StoredObjectReference, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return domain.StoredObjectReference{}, perr.Wrap(err, perr.ErrorCodeUnknown, "serialize batch")
	}

	at := w.now().UTC()
	path := ObjectPath(batch.BatchSource(), recordType, at)

	if err := w.blob.Put(ctx, path, body, "application/json"); err != nil {
		return domain.StoredObjectReference{}, perr.Wrap(err, perr.ErrorCodeStorage, "storage put failed")
	}

	ref := domain.StoredObjectReference{URI: w.blob.URI(path), WrittenAt: at}
	logger.C(ctx).Info().
		Str("uri", ref.URI).
		Str("source", batch.BatchSource()).
		Str("record_type", string(recordType)).
		Int("records", batch.RecordCount()).
		Msg("batch written")
	return ref, nil
}
