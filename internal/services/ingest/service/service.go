// Package service implements the ingestion pipeline: verify the caller,
// persist the batch, then notify downstream consumers.
package service

import (
	"context"
	"time"

	"riskgate/internal/platform/logger"
	"riskgate/internal/platform/store"
	"riskgate/internal/services/ingest/domain"
)

// Service orchestrates one ingestion request end to end
// ordering is the core guarantee: Write must succeed before Publish is
// attempted, and a Publish failure never unwinds the stored object
type Service struct {
	verifier domain.VerifierPort
	writer   domain.WriterPort
	notifier domain.NotifierPort
	now      func() time.Time
}

// NewService wires the pipeline from its three seams
func NewService(v domain.VerifierPort, w domain.WriterPort, n domain.NotifierPort) *Service {
	return &Service{verifier: v, writer: w, notifier: n, now: time.Now}
}

// WithClock overrides the service clock; used by tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Ingest implements domain.IngestPort
func (s *Service) Ingest(
	ctx context.Context,
	credential string,
	batch domain.Batch,
	recordType domain.RecordType,
) (domain.IngestionResult, error) {
	ident, err := s.verifier.Verify(credential)
	if err != nil {
		return domain.IngestionResult{}, err
	}
	log := logger.C(ctx).With().
		Str("subject", ident.Subject).
		Str("auth_method", string(ident.Method)).
		Str("source", batch.BatchSource()).
		Str("record_type", string(recordType)).
		Logger()

	ref, err := s.writer.Write(ctx, batch, recordType)
	if err != nil {
		// writer errors already carry the storage code
		return domain.IngestionResult{}, err
	}

	// storage succeeded; everything past this point reports success
	msgID := s.notifier.Publish(ctx, ref, batch.BatchSource(), recordType, batch.RecordCount())

	log.Info().
		Str("uri", ref.URI).
		Int("record_count", batch.RecordCount()).
		Bool("notified", msgID != "").
		Msg("batch ingested")

	return domain.IngestionResult{
		Status:      domain.StatusSuccess,
		ObjectURI:   ref.URI,
		MessageID:   msgID,
		RecordType:  recordType,
		RecordCount: batch.RecordCount(),
		IngestedAt:  ref.WrittenAt,
	}, nil
}

// Health probes backend reachability for the health endpoint
type Health struct {
	st        *store.Store
	container string
	topic     string
}

// NewHealth builds the health checker over the opened store
func NewHealth(st *store.Store, container, topic string) *Health {
	return &Health{st: st, container: container, topic: topic}
}

// Check implements domain.HealthPort
// any backend failure degrades the report but the endpoint itself stays 200:
// load balancers read the status field, not the code
func (h *Health) Check(ctx context.Context) domain.HealthStatus {
	out := domain.HealthStatus{
		Status:    "healthy",
		Container: h.container,
		Topic:     h.topic,
		Blob:      "ok",
		Bus:       "ok",
	}
	if h.st.Blob != nil {
		if ok, err := h.st.Blob.Exists(ctx); err != nil || !ok {
			out.Blob = "unreachable"
			out.Status = "degraded"
		}
	} else {
		out.Blob = "disabled"
	}
	if h.st.Bus != nil {
		if p, ok := h.st.Bus.(store.Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				out.Bus = "unreachable"
				out.Status = "degraded"
			}
		}
	} else {
		out.Bus = "disabled"
	}
	return out
}
