package cache

import (
	"context"
	"time"
)

// Scoped wraps a cache and prepends prefix to every key. Use it when several
// projects share one backend:
//
//	shared, _ := cache.NewRedisCache(ctx, "localhost:6379")
//	c := cache.Scoped(shared, cache.Namespace("bpserial", savedDir))
type scoped struct {
	inner  Cache
	prefix string
}

// Scoped returns inner with keys prefixed. An empty prefix returns inner.
func Scoped(inner Cache, prefix string) Cache {
	if prefix == "" {
		return inner
	}
	return &scoped{inner: inner, prefix: prefix}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *scoped) Close() error { return s.inner.Close() }
