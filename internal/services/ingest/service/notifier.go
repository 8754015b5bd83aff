package service

import (
	"context"
	"encoding/json"
	"time"

	"riskgate/internal/platform/logger"
	"riskgate/internal/platform/store"
	"riskgate/internal/services/ingest/domain"
)

// DefaultPublishWait bounds a single publish attempt
const DefaultPublishWait = 10 * time.Second

// Notifier publishes ingestion events to the bus, best effort
// it never retries and never fails the request: by the time it runs the
// batch is already durable, and retry/dead-letter policy lives downstream
type Notifier struct {
	bus   store.Bus
	topic string
	wait  time.Duration
	now   func() time.Time
}

// NewNotifier constructs the event notifier over a bus seam
func NewNotifier(bus store.Bus, topic string, wait time.Duration) *Notifier {
	if wait <= 0 {
		wait = DefaultPublishWait
	}
	return &Notifier{bus: bus, topic: topic, wait: wait, now: time.Now}
}

// WithClock overrides the notifier clock; used by tests
func (n *Notifier) WithClock(now func() time.Time) *Notifier {
	n.now = now
	return n
}

// Publish implements domain.NotifierPort
// returns the broker message id, or "" when the attempt failed
func (n *Notifier) Publish(
	ctx context.Context,
	ref domain.StoredObjectReference,
	source string,
	recordType domain.RecordType,
	recordCount int,
) string {
	if n.bus == nil {
		logger.C(ctx).Debug().Msg("bus disabled; skipping notify")
		return ""
	}

	evt := domain.IngestionEvent{
		ObjectURI:   ref.URI,
		Source:      source,
		RecordType:  recordType,
		RecordCount: recordCount,
		OccurredAt:  n.now().UTC(),
		EventType:   domain.EventTypeIngestionCompleted,
	}
	body, err := json.Marshal(evt)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("event serialization failed; skipping notify")
		return ""
	}

	pubCtx, cancel := context.WithTimeout(ctx, n.wait)
	defer cancel()

	id, err := n.bus.Publish(pubCtx, n.topic, body, map[string]string{
		"source":      source,
		"record_type": string(recordType),
	})
	if err != nil {
		// data is already durable; notification is explicitly best effort
		logger.C(ctx).Warn().Err(err).
			Str("topic", n.topic).
			Str("uri", ref.URI).
			Msg("publish failed; continuing without notification")
		return ""
	}
	logger.C(ctx).Info().Str("message_id", id).Str("topic", n.topic).Msg("event published")
	return id
}
