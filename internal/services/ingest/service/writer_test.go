package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	perr "riskgate/internal/platform/errors"
	"riskgate/internal/services/ingest/domain"
)

type fakeBlob struct {
	mu        sync.Mutex
	puts      map[string][]byte
	err       error
	existsErr error
	types     map[string]string
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{puts: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBlob) Put(_ context.Context, path string, body []byte, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts[path] = body
	f.types[path] = contentType
	return nil
}

func (f *fakeBlob) Exists(context.Context) (bool, error) {
	return f.existsErr == nil, f.existsErr
}
func (f *fakeBlob) URI(path string) string               { return "fake://bucket/" + path }

func testBatch(n int) domain.TransactionBatch {
	txns := make([]domain.Transaction, n)
	for i := range txns {
		txns[i] = domain.Transaction{
			TransactionID:   "t-1",
			AccountID:       "a-1",
			Amount:          decimal.RequireFromString("10.50"),
			Currency:        "USD",
			TransactionType: "debit",
			PostedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	return domain.TransactionBatch{Source: "core-banking", Transactions: txns}
}

func TestObjectPathShape(t *testing.T) {
	at := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	p := ObjectPath("core-banking", domain.RecordTypeTransactions, at)
	if !strings.HasPrefix(p, "core-banking/transactions/2026-03-01/") {
		t.Fatalf("unexpected path prefix: %q", p)
	}
	if !strings.HasSuffix(p, ".json") {
		t.Fatalf("expected .json suffix: %q", p)
	}
}

func TestObjectPathConcurrentUniqueness(t *testing.T) {
	const n = 10000
	at := time.Now()

	var mu sync.Mutex
	seen := make(map[string]struct{}, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := ObjectPath("src", domain.RecordTypeTransactions, at)
			mu.Lock()
			seen[p] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != n {
		t.Fatalf("collisions: got %d unique paths, want %d", len(seen), n)
	}
}

func TestWriterWrite(t *testing.T) {
	blob := newFakeBlob()
	w := NewWriter(blob).WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	})

	ref, err := w.Write(context.Background(), testBatch(2), domain.RecordTypeTransactions)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(ref.URI, "fake://bucket/core-banking/transactions/2026-03-01/") {
		t.Fatalf("unexpected URI: %q", ref.URI)
	}
	if len(blob.puts) != 1 {
		t.Fatalf("expected exactly one object written, got %d", len(blob.puts))
	}
	for p, ct := range blob.types {
		if ct != "application/json" {
			t.Fatalf("content type for %s: got %q", p, ct)
		}
	}
}

func TestWriterWriteStorageFailure(t *testing.T) {
	blob := newFakeBlob()
	blob.err = errors.New("disk full")
	w := NewWriter(blob)

	_, err := w.Write(context.Background(), testBatch(1), domain.RecordTypeTransactions)
	if err == nil {
		t.Fatal("expected error")
	}
	if perr.CodeOf(err) != perr.ErrorCodeStorage {
		t.Fatalf("code: got %v, want storage", perr.CodeOf(err))
	}
}
