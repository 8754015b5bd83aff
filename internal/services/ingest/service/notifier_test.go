package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"riskgate/internal/services/ingest/domain"
)

type fakeBus struct {
	mu     sync.Mutex
	calls  int
	topic  string
	body   []byte
	attrs  map[string]string
	err    error
	nextID string
}

func (f *fakeBus) Publish(_ context.Context, topic string, body []byte, attrs map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.topic = topic
	f.body = body
	f.attrs = attrs
	if f.err != nil {
		return "", f.err
	}
	return f.nextID, nil
}

func (f *fakeBus) Close() error { return nil }

func testRef() domain.StoredObjectReference {
	return domain.StoredObjectReference{
		URI:       "fake://bucket/core-banking/transactions/2026-03-01/x.json",
		WrittenAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNotifierPublish(t *testing.T) {
	bus := &fakeBus{nextID: "msg-42"}
	n := NewNotifier(bus, "ingestion-events", time.Second).WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC)
	})

	id := n.Publish(context.Background(), testRef(), "core-banking", domain.RecordTypeTransactions, 3)
	if id != "msg-42" {
		t.Fatalf("message id: got %q", id)
	}
	if bus.topic != "ingestion-events" {
		t.Fatalf("topic: got %q", bus.topic)
	}
	if bus.attrs["source"] != "core-banking" || bus.attrs["record_type"] != "transactions" {
		t.Fatalf("attrs: got %v", bus.attrs)
	}

	var evt domain.IngestionEvent
	if err := json.Unmarshal(bus.body, &evt); err != nil {
		t.Fatalf("event body: %v", err)
	}
	if evt.EventType != domain.EventTypeIngestionCompleted {
		t.Fatalf("event type: got %q", evt.EventType)
	}
	if evt.ObjectURI != testRef().URI || evt.RecordCount != 3 {
		t.Fatalf("event payload: %+v", evt)
	}
}

func TestNotifierPublishFailureReturnsEmpty(t *testing.T) {
	bus := &fakeBus{err: errors.New("broker down")}
	n := NewNotifier(bus, "ingestion-events", time.Second)

	id := n.Publish(context.Background(), testRef(), "core-banking", domain.RecordTypeTransactions, 1)
	if id != "" {
		t.Fatalf("expected empty message id on failure, got %q", id)
	}
	if bus.calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", bus.calls)
	}
}
