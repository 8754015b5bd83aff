// Package fs provides a directory-rooted object store for local development
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config configures the filesystem object store
type Config struct {
	// Root is the directory holding all containers; defaults to the OS temp dir
	Root string
	// Container is the top-level namespace objects are written under
	Container string
}

// Client stores objects as files under Root/Container
type Client struct {
	root      string
	container string
}

// Open prepares the container directory
func Open(cfg Config) (*Client, error) {
	root := cfg.Root
	if root == "" {
		root = filepath.Join(os.TempDir(), "riskgate-blobs")
	}
	if cfg.Container == "" {
		return nil, fmt.Errorf("fs: container is required")
	}
	dir := filepath.Join(root, cfg.Container)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("fs: create container dir: %w", err)
	}
	return &Client{root: root, container: cfg.Container}, nil
}

// Put writes body to path; write-to-temp + rename keeps the put atomic so
// readers never observe a partial object
func (c *Client) Put(ctx context.Context, path string, body []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := c.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return fmt.Errorf("fs: create object dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(clean), ".put-*")
	if err != nil {
		return fmt.Errorf("fs: create temp: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("fs: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("fs: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), clean); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("fs: rename: %w", err)
	}
	return nil
}

// Exists reports whether the container directory is present
func (c *Client) Exists(_ context.Context) (bool, error) {
	info, err := os.Stat(filepath.Join(c.root, c.container))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// URI returns the durable address of an object at path
func (c *Client) URI(path string) string {
	return "file://" + filepath.ToSlash(filepath.Join(c.root, c.container, path))
}

// Ping reports container reachability
func (c *Client) Ping(ctx context.Context) error {
	ok, err := c.Exists(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("fs: container %q missing", c.container)
	}
	return nil
}

// resolve maps an object path into the container, rejecting escapes
func (c *Client) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("fs: empty object path")
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("fs: object path escapes container: %q", path)
	}
	return filepath.Join(c.root, c.container, clean), nil
}
