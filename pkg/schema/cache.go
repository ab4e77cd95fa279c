package schema

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/bpserial/pkg/cache"
	"github.com/matzehuels/bpserial/pkg/errors"
	"github.com/matzehuels/bpserial/pkg/observability"
	"github.com/matzehuels/bpserial/pkg/registry"
)

// CacheKey is the key the schema is stored under. With a [cache.FileCache]
// rooted at <projectSaved>/BlueprintSerializer it is also the file name.
const CacheKey = "NodeSchema.json"

// Sources reported to [observability.SchemaHooks.OnSchemaServed].
const (
	SourceMemory    = "memory"
	SourceStore     = "disk"
	SourceGenerated = "generated"
)

// Cache holds the schema of one registry. The published value is replaced
// atomically, so readers see either the previous schema or a complete new
// one. Concurrent first calls share a single load or generation.
type Cache struct {
	reg   registry.Registry
	store cache.Cache
	ttl   time.Duration

	value atomic.Pointer[Schema]
	group singleflight.Group
}

// NewCache returns a schema cache over reg that persists through store.
// A nil store keeps the schema in memory only.
func NewCache(reg registry.Registry, store cache.Cache, ttl time.Duration) *Cache {
	if store == nil {
		store = cache.NewNullCache()
	}
	return &Cache{reg: reg, store: store, ttl: ttl}
}

// Registry returns the registry schemas are generated from.
func (c *Cache) Registry() registry.Registry { return c.reg }

// Get returns the schema, loading or generating it on first use. It always
// returns a schema; a non-nil error reports that persisting it failed.
func (c *Cache) Get(ctx context.Context) (*Schema, error) {
	if s := c.current(); s != nil {
		observability.Schema().OnSchemaServed(ctx, SourceMemory)
		return s, nil
	}
	type result struct {
		schema *Schema
		err    error
	}
	v, _, _ := c.group.Do(CacheKey, func() (any, error) {
		if s := c.current(); s != nil {
			return result{schema: s}, nil
		}
		s, source, err := c.load(ctx)
		c.value.Store(s)
		observability.Schema().OnSchemaServed(ctx, source)
		return result{schema: s, err: err}, nil
	})
	r := v.(result)
	return r.schema, r.err
}

// current returns the published schema if it matches the host version.
func (c *Cache) current() *Schema {
	s := c.value.Load()
	if s == nil || s.EngineVersion != c.reg.HostVersion() {
		return nil
	}
	return s
}

func (c *Cache) load(ctx context.Context) (*Schema, string, error) {
	data, ok, err := c.store.Get(ctx, CacheKey)
	if err == nil && ok {
		if s, perr := Parse(data); perr == nil && s.EngineVersion == c.reg.HostVersion() {
			return s, SourceStore, nil
		}
	}

	hooks := observability.Schema()
	version := c.reg.HostVersion()
	hooks.OnGenerateStart(ctx, version)
	start := time.Now()
	s := Generate(c.reg)
	hooks.OnGenerateComplete(ctx, version, len(s.NodeSchemas), time.Since(start), nil)

	out, err := Marshal(s, true)
	if err == nil {
		err = c.store.Set(ctx, CacheKey, out, c.ttl)
	}
	if err != nil {
		return s, SourceGenerated, errors.Wrap(errors.ErrCodeIO, err, "persist schema")
	}
	return s, SourceGenerated, nil
}

// Refresh discards any cached schema and generates a new one.
func (c *Cache) Refresh(ctx context.Context) (*Schema, error) {
	if err := c.Invalidate(ctx); err != nil {
		return nil, err
	}
	return c.Get(ctx)
}

// Invalidate clears the in-memory schema and removes the stored copy.
func (c *Cache) Invalidate(ctx context.Context) error {
	c.value.Store(nil)
	if err := c.store.Delete(ctx, CacheKey); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "remove stored schema")
	}
	return nil
}
