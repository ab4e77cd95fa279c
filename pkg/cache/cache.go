// Package cache stores generated artifacts between runs.
//
// The schema generator persists its output through a [Cache] so that a
// later process can reuse it without walking the registry again. Four
// backends are provided:
//
//   - [FileCache] writes each entry as a plain file under a directory. The
//     schema lands at <dir>/NodeSchema.json and can be read by other tools.
//   - [SQLiteCache] keeps every entry in one database file.
//   - [RedisCache] shares entries between machines through a Redis server.
//   - [NullCache] never stores anything.
//
// [Scoped] prefixes keys so several projects can share one backend, and
// [Observed] reports hits and misses to the observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store. Get reports a miss with
// ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
