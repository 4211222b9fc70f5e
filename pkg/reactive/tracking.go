package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine. Keeping the
// state per goroutine means two components can be constructed or rendered
// on different goroutines without their tracking interfering.
type trackingContext struct {
	// currentComputation is what's currently tracking dependencies.
	// When a store key is read, it subscribes this computation.
	// nil means no tracking (reads don't create subscriptions).
	currentComputation *Computation

	// currentScope holds the construction scope for higher layers
	// (the element package stores the instance under construction
	// here). Stored as any to avoid a circular import.
	currentScope any
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header ("goroutine <id> ..."). This is
// an implementation detail and never exposed.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current
// goroutine, creating one if needed.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// currentComputation returns the computation currently tracking on this
// goroutine, or nil if no tracking is active.
func currentComputation() *Computation {
	return getTrackingContext().currentComputation
}

// setCurrentComputation installs c as the tracking computation and
// returns the previous one so it can be restored.
func setCurrentComputation(c *Computation) *Computation {
	ctx := getTrackingContext()
	old := ctx.currentComputation
	ctx.currentComputation = c
	return old
}

// WithComputation runs fn with c installed as the tracking computation.
// Used internally by Computation.Run and by tests that need to observe
// subscriptions directly.
func WithComputation(c *Computation, fn func()) {
	old := setCurrentComputation(c)
	defer setCurrentComputation(old)
	fn()
}

// Untrack runs fn with tracking suspended: store reads inside fn do not
// subscribe the surrounding computation.
func Untrack(fn func()) {
	old := setCurrentComputation(nil)
	defer setCurrentComputation(old)
	fn()
}

// CurrentScope returns the construction scope installed on this
// goroutine, or nil. The element package uses this to resolve the
// instance under construction; callers outside a construction see nil.
func CurrentScope() any {
	return getTrackingContext().currentScope
}

// WithScope runs fn with v installed as the goroutine's construction
// scope. The previous scope is restored unconditionally, so a panicking
// fn cannot leak its scope into a later construction.
func WithScope(v any, fn func()) {
	ctx := getTrackingContext()
	old := ctx.currentScope
	ctx.currentScope = v
	defer func() { ctx.currentScope = old }()
	fn()
}
