// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about symmetry detection, propagation and API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages stay
// free of any metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSymmetryHooks(&myHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Symmetry().OnComputeStart(ctx, model, nvars)
//	// ... detect symmetry ...
//	observability.Symmetry().OnComputeComplete(ctx, model, ngens, log10Size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Symmetry Hooks
// =============================================================================

// SymmetryHooks receives events from a symmetry session.
type SymmetryHooks interface {
	// Detection events
	OnComputeStart(ctx context.Context, model string, nvars int)
	OnComputeComplete(ctx context.Context, model string, generators int, log10Size float64, duration time.Duration, err error)

	// OnPropagate records one orbital fixing call that ran.
	OnPropagate(ctx context.Context, fixedZero, fixedOne int, cutoff bool, duration time.Duration)

	// OnSynthesize records constraints added of one kind.
	OnSynthesize(ctx context.Context, kind string, count int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSymmetryHooks is a no-op implementation of SymmetryHooks.
type NoopSymmetryHooks struct{}

func (NoopSymmetryHooks) OnComputeStart(context.Context, string, int) {}
func (NoopSymmetryHooks) OnComputeComplete(context.Context, string, int, float64, time.Duration, error) {
}
func (NoopSymmetryHooks) OnPropagate(context.Context, int, int, bool, time.Duration) {}
func (NoopSymmetryHooks) OnSynthesize(context.Context, string, int)                  {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	symmetryHooks SymmetryHooks = NoopSymmetryHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetSymmetryHooks registers custom symmetry hooks.
// This should be called once at application startup before any session runs.
func SetSymmetryHooks(h SymmetryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		symmetryHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Symmetry returns the registered symmetry hooks.
func Symmetry() SymmetryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return symmetryHooks
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
	symmetryHooks = NoopSymmetryHooks{}
	httpHooks = NoopHTTPHooks{}
}
