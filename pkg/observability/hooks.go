// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about contractions, cache operations, and served requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the contraction
// engine and the cache stay free of observability imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetContractionHooks(&myContractionHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Contraction().OnContractStart(ctx, nodes, iterations)
//	// ... contract ...
//	observability.Contraction().OnContractComplete(ctx, clusters, rounds, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Contraction Hooks
// =============================================================================

// ContractionHooks receives events from the contraction pipeline.
type ContractionHooks interface {
	// Contraction events
	OnContractStart(ctx context.Context, nodes, iterations int)
	OnRound(ctx context.Context, round, unions, clusters int)
	OnContractComplete(ctx context.Context, clusters, rounds int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopContractionHooks is a no-op implementation of ContractionHooks.
type NoopContractionHooks struct{}

func (NoopContractionHooks) OnContractStart(context.Context, int, int) {}
func (NoopContractionHooks) OnRound(context.Context, int, int, int)    {}
func (NoopContractionHooks) OnContractComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopContractionHooks) OnRenderStart(context.Context, string)                        {}
func (NoopContractionHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	contractionHooks ContractionHooks = NoopContractionHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetContractionHooks registers custom contraction hooks.
// This should be called once at application startup before any contraction.
func SetContractionHooks(h ContractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		contractionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Contraction returns the registered contraction hooks.
func Contraction() ContractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return contractionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	contractionHooks = NoopContractionHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
