package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	bperrors "github.com/matzehuels/bpserial/pkg/errors"
)

// expirySuffix names the sidecar file holding an entry's expiry time.
const expirySuffix = ".expires"

// FileCache stores each entry as a plain file named after its key, so the
// directory doubles as the published artifact location. Entries written
// with a positive TTL get a sidecar file recording their expiry.
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeIO, err, "create cache directory %s", dir)
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Path returns the file an entry is stored in.
func (c *FileCache) Path(key string) (string, error) {
	if err := bperrors.ValidateCacheKey(key); err != nil {
		return "", err
	}
	if strings.HasSuffix(key, expirySuffix) {
		return "", bperrors.New(bperrors.ErrCodeInvalidKey, "cache key cannot end in %s", expirySuffix)
	}
	return filepath.Join(c.dir, key), nil
}

// Get reads an entry. Expired entries are removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path, err := c.Path(key)
	if err != nil {
		return nil, false, err
	}
	if c.expired(path) {
		_ = c.remove(path)
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, bperrors.Wrap(bperrors.ErrCodeIO, err, "read cache entry %s", key)
	}
	return data, true, nil
}

func (c *FileCache) expired(path string) bool {
	raw, err := os.ReadFile(path + expirySuffix)
	if err != nil {
		return false
	}
	at, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(raw)))
	if err != nil {
		return true
	}
	return time.Now().After(at)
}

// Set writes an entry through a temporary file so readers never see a
// partial write.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	path, err := c.Path(key)
	if err != nil {
		return err
	}
	if err := writeAtomic(path, data); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "write cache entry %s", key)
	}
	if ttl <= 0 {
		_ = os.Remove(path + expirySuffix)
		return nil
	}
	stamp := time.Now().Add(ttl).UTC().Format(time.RFC3339Nano)
	if err := writeAtomic(path+expirySuffix, []byte(stamp)); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "write cache expiry %s", key)
	}
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes an entry. Deleting a missing entry is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	path, err := c.Path(key)
	if err != nil {
		return err
	}
	if err := c.remove(path); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "delete cache entry %s", key)
	}
	return nil
}

func (c *FileCache) remove(path string) error {
	_ = os.Remove(path + expirySuffix)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

var _ Cache = (*FileCache)(nil)
