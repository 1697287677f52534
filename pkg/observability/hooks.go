// Package observability provides hooks for metrics, tracing, and logging.
//
// The enumeration machinery emits events through a small hook registry
// so that instrumentation backends (OpenTelemetry, Prometheus, plain
// logging) can be attached at startup without the core packages taking
// a dependency on any of them. Defaults are no-ops.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEnumerationHooks(&myHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Enumeration().OnSolveStart(ctx, size)
//	// ... solve ...
//	observability.Enumeration().OnSolveComplete(ctx, size, status, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// EnumerationHooks receives events from K-shortest enumeration runs.
type EnumerationHooks interface {
	// OnSolveStart fires before each MILP solve at the given size bound.
	OnSolveStart(ctx context.Context, size int)

	// OnSolveComplete fires after each MILP solve with the reported
	// solver status and elapsed wall time.
	OnSolveComplete(ctx context.Context, size int, status string, duration time.Duration)

	// OnSolutionFound fires for every emitted solution with the number
	// of active reactions and the running solution count.
	OnSolutionFound(ctx context.Context, activeReactions, total int)

	// OnSizeStart and OnSizeComplete bracket one size sweep of the
	// populate strategy.
	OnSizeStart(ctx context.Context, size int)
	OnSizeComplete(ctx context.Context, size, solutions int, duration time.Duration)
}

// noopEnumerationHooks is the default no-op implementation.
type noopEnumerationHooks struct{}

func (noopEnumerationHooks) OnSolveStart(context.Context, int)                           {}
func (noopEnumerationHooks) OnSolveComplete(context.Context, int, string, time.Duration) {}
func (noopEnumerationHooks) OnSolutionFound(context.Context, int, int)                   {}
func (noopEnumerationHooks) OnSizeStart(context.Context, int)                            {}
func (noopEnumerationHooks) OnSizeComplete(context.Context, int, int, time.Duration)     {}

var (
	mu               sync.RWMutex
	enumerationHooks EnumerationHooks = noopEnumerationHooks{}
)

// SetEnumerationHooks registers the enumeration hook implementation.
// Pass nil to restore the no-op default. Call at startup, before any
// enumeration begins.
func SetEnumerationHooks(h EnumerationHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		enumerationHooks = noopEnumerationHooks{}
		return
	}
	enumerationHooks = h
}

// Enumeration returns the registered enumeration hooks.
func Enumeration() EnumerationHooks {
	mu.RLock()
	defer mu.RUnlock()
	return enumerationHooks
}
