package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// FileCache stores each entry as a single file in a directory.
//
// Filenames are derived from the key: a filesystem-safe sanitized form of
// the key plus a short hash suffix to disambiguate keys that sanitize to
// the same string. Entries carry no envelope; the file content is the raw
// value, which keeps cached documents inspectable on disk.
//
// Expiration is tracked through file modification time. Concurrent writers
// race safely: the filesystem gives last-writer-wins per entry.
type FileCache struct {
	dir string
	ext string
}

// NewFileCache creates a file-based cache in the given directory, creating
// it if needed. ext is appended to every entry filename (e.g. ".svg"); pass
// "" for extension-less entries.
func NewFileCache(dir, ext string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, ext: ext}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get retrieves a value from the cache. Expired entries are removed and
// reported as a miss.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// GetFresh is like Get but treats entries older than maxAge as a miss,
// removing them. A maxAge of 0 disables the freshness check.
func (c *FileCache) GetFresh(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool, error) {
	if maxAge > 0 {
		info, err := os.Stat(c.path(key))
		if err == nil && time.Since(info.ModTime()) > maxAge {
			_ = os.Remove(c.path(key))
			return nil, false, nil
		}
	}
	return c.Get(ctx, key)
}

// Set stores a value in the cache. The ttl parameter is accepted for
// interface compatibility; FileCache entries expire through GetFresh.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for a file cache.
func (c *FileCache) Close() error { return nil }

// Path returns the on-disk location an entry for key would occupy.
func (c *FileCache) Path(key string) string { return c.path(key) }

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// path converts a cache key to a file path. The sanitized key keeps the
// filename readable; the hash suffix keeps distinct keys distinct.
func (c *FileCache) path(key string) string {
	safe := unsafeKeyChars.ReplaceAllString(key, "-")
	safe = strings.Trim(safe, "-_")
	if safe == "" {
		safe = "entry"
	}
	sum := sha1.Sum([]byte(key))
	name := safe + "-" + hex.EncodeToString(sum[:])[:8] + c.ext
	return filepath.Join(c.dir, name)
}

var _ Cache = (*FileCache)(nil)
