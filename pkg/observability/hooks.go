// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module never log on their own. They report notable
// events to hooks registered here, and the command line registers a
// logging implementation at startup:
//
//	func main() {
//	    observability.SetSchemaHooks(&logHooks{})
//	    observability.SetCacheHooks(&logHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Schema().OnGenerateStart(ctx, engineVersion)
//	// ... walk the registry ...
//	observability.Schema().OnGenerateComplete(ctx, engineVersion, len(nodes), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// SchemaHooks receives events from the node schema generator.
type SchemaHooks interface {
	// OnGenerateStart records the start of a registry walk.
	OnGenerateStart(ctx context.Context, engineVersion string)

	// OnGenerateComplete records the end of a registry walk.
	OnGenerateComplete(ctx context.Context, engineVersion string, nodeCount int, duration time.Duration, err error)

	// OnSchemaServed records which layer answered a schema request:
	// "memory", "disk" or "generated".
	OnSchemaServed(ctx context.Context, source string)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopSchemaHooks is a no-op implementation of SchemaHooks.
type NoopSchemaHooks struct{}

func (NoopSchemaHooks) OnGenerateStart(context.Context, string)                              {}
func (NoopSchemaHooks) OnGenerateComplete(context.Context, string, int, time.Duration, error) {}
func (NoopSchemaHooks) OnSchemaServed(context.Context, string)                               {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	schemaHooks SchemaHooks = NoopSchemaHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetSchemaHooks registers custom schema hooks. Nil is ignored.
func SetSchemaHooks(h SchemaHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		schemaHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Schema returns the registered schema hooks.
func Schema() SchemaHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return schemaHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	schemaHooks = NoopSchemaHooks{}
	cacheHooks = NoopCacheHooks{}
}
