package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenRequiresContainer(t *testing.T) {
	if _, err := Open(Config{Root: t.TempDir()}); err == nil {
		t.Fatal("Open without container should fail")
	}
}

func TestPutAndURI(t *testing.T) {
	root := t.TempDir()
	c, err := Open(Config{Root: root, Container: "risk-raw-data"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	path := "core-banking/transactions/2026-08-29/abc.json"
	if err := c.Put(context.Background(), path, []byte(`{"ok":true}`), "application/json"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(root, "risk-raw-data", filepath.FromSlash(path)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != `{"ok":true}` {
		t.Fatalf("read back = %q", b)
	}

	uri := c.URI(path)
	if !strings.HasPrefix(uri, "file://") || !strings.HasSuffix(uri, path) {
		t.Fatalf("URI = %q", uri)
	}
}

func TestPutRejectsEscapes(t *testing.T) {
	c, err := Open(Config{Root: t.TempDir(), Container: "raw"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, p := range []string{"", "../outside.json", "/abs/path.json"} {
		if err := c.Put(context.Background(), p, []byte("x"), ""); err == nil {
			t.Fatalf("Put(%q) should fail", p)
		}
	}
}

func TestExistsAndPing(t *testing.T) {
	root := t.TempDir()
	c, err := Open(Config{Root: root, Container: "raw"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ok, err := c.Exists(context.Background())
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	// removing the container makes ping fail
	if err := os.RemoveAll(filepath.Join(root, "raw")); err != nil {
		t.Fatal(err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("Ping after container removal should fail")
	}
}

func TestPutHonorsCancelledContext(t *testing.T) {
	c, err := Open(Config{Root: t.TempDir(), Container: "raw"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Put(ctx, "a/b.json", []byte("x"), ""); err == nil {
		t.Fatal("Put with cancelled ctx should fail")
	}
}
