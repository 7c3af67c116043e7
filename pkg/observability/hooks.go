// Package observability lets the layout engine, the pipeline and the HTTP
// API report events without depending on a metrics backend.
//
// Three hook sets exist: [LayoutHooks] (runs, iterations, renders),
// [CacheHooks] (layout and artifact cache traffic) and [HTTPHooks] (API
// requests). Each defaults to a no-op. pkg/metrics installs a Prometheus
// implementation of all three:
//
//	metrics.NewRegistry().Install()
//
// Emitters fetch the current hooks at the call site:
//
//	observability.Layout().OnIteration(ctx, i, speed, swinging, traction)
//
// OnIteration fires once per simulation step, so lookups are a single atomic
// load.
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// LayoutHooks receives events from the layout engine and pipeline.
type LayoutHooks interface {
	// OnLayoutStart is called before the first iteration of a layout run.
	OnLayoutStart(ctx context.Context, nodeCount, edgeCount int)

	// OnIteration is called after every completed iteration with the global
	// speed and the mass-weighted swinging and traction totals.
	OnIteration(ctx context.Context, iteration int, speed, swinging, traction float64)

	// OnLayoutComplete is called once a layout run ends, successfully or not.
	OnLayoutComplete(ctx context.Context, iterations int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// keyType is "layout" or "artifact".
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	// OnCacheSet reports a write of size bytes.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// route is the chi route pattern, not the raw path.
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int, int)                          {}
func (NoopLayoutHooks) OnIteration(context.Context, int, float64, float64, float64)      {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, time.Duration, error)      {}
func (NoopLayoutHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopLayoutHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// hookSet is an immutable snapshot of the registered hooks. Setters publish
// a modified copy.
type hookSet struct {
	layout LayoutHooks
	cache  CacheHooks
	http   HTTPHooks
}

var defaultHooks = hookSet{
	layout: NoopLayoutHooks{},
	cache:  NoopCacheHooks{},
	http:   NoopHTTPHooks{},
}

var (
	current atomic.Pointer[hookSet]
	writeMu sync.Mutex
)

func load() *hookSet {
	if h := current.Load(); h != nil {
		return h
	}
	return &defaultHooks
}

func update(f func(*hookSet)) {
	writeMu.Lock()
	defer writeMu.Unlock()
	next := *load()
	f(&next)
	current.Store(&next)
}

// SetLayoutHooks installs h for layout and render events. Nil is ignored.
func SetLayoutHooks(h LayoutHooks) {
	if h != nil {
		update(func(s *hookSet) { s.layout = h })
	}
}

// SetCacheHooks installs h for cache events. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks installs h for API request events. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// Layout returns the current layout hooks.
func Layout() LayoutHooks { return load().layout }

// Cache returns the current cache hooks.
func Cache() CacheHooks { return load().cache }

// HTTP returns the current HTTP hooks.
func HTTP() HTTPHooks { return load().http }

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	writeMu.Lock()
	defer writeMu.Unlock()
	current.Store(nil)
}
