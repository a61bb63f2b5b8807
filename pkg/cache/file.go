package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"
)

// entryMagic starts every file entry. Bumping it invalidates old entries.
var entryMagic = [4]byte{'B', 'C', 'C', '1'}

const headerSize = len(entryMagic) + 8

// FileCache implements a file-based cache for CLI usage.
// Each entry is one file holding a small header with the expiry time
// followed by the lz4-compressed payload. SVG and JSON output compresses
// well, so the cache stays small even for large charts.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get retrieves a value from the cache. Expired and unreadable entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, expires, err := decodeEntry(raw)
	if err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !expires.IsZero() && c.now().After(expires) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores a value in the cache. The entry is written to a temporary file
// and renamed into place, so concurrent readers never see partial entries.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}
	raw, err := encodeEntry(data, expires)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for file cache.
func (c *FileCache) Close() error { return nil }

// Usage reports the number of entries and their total size on disk.
func (c *FileCache) Usage() (entries int, size int64, err error) {
	err = filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".lz4" {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries++
		size += info.Size()
		return nil
	})
	return entries, size, err
}

// Clear removes every entry and recreates the empty directory.
func (c *FileCache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// path converts a cache key to a file path.
// The first two hash characters name a subdirectory to keep directories small.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".lz4")
}

func encodeEntry(data []byte, expires time.Time) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(entryMagic[:])
	var stamp int64
	if !expires.IsZero() {
		stamp = expires.UnixNano()
	}
	_ = binary.Write(&buf, binary.BigEndian, stamp)

	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compress entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress entry: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeEntry(raw []byte) ([]byte, time.Time, error) {
	if len(raw) < headerSize || !bytes.Equal(raw[:len(entryMagic)], entryMagic[:]) {
		return nil, time.Time{}, ErrCorrupt
	}
	var expires time.Time
	if stamp := int64(binary.BigEndian.Uint64(raw[len(entryMagic):headerSize])); stamp != 0 {
		expires = time.Unix(0, stamp)
	}
	data, err := io.ReadAll(lz4.NewReader(bytes.NewReader(raw[headerSize:])))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return data, expires, nil
}

var _ Cache = (*FileCache)(nil)
