package reactive

import (
	"sync"
	"sync/atomic"

	"github.com/weft-ui/weft/internal/werrors"
)

// Computation is a re-runnable unit of work. Its dependencies are
// rediscovered on every run: before the wrapped function executes, the
// computation unsubscribes from everything it read last time, so a
// conditional read path that stops reading a key also stops reacting
// to it.
//
// Reruns are synchronous. When a subscribed key is written, the
// computation runs again inside the write's call stack. There is no
// scheduling or batching step.
type Computation struct {
	id uint64

	// fn is the function to run.
	fn func()

	// sources are the dependency lists this computation is currently
	// subscribed to, rebuilt fresh on every run.
	sources   []*depList
	sourcesMu sync.Mutex

	// running is set for the duration of each run. A nested rerun of
	// the same computation (a run that writes a key it reads) is
	// allowed; the flag only records that one is in flight.
	running atomic.Bool

	// depth counts nested reruns when maxDepth is set.
	depth int

	// maxDepth, when positive, bounds nested self-triggered reruns.
	maxDepth int

	// disposed indicates the computation has been disposed.
	disposed atomic.Bool
}

// Option configures a Computation.
type Option interface {
	apply(c *Computation)
}

type optionFunc func(*Computation)

func (f optionFunc) apply(c *Computation) { f(c) }

// WithMaxDepth bounds nested reruns of the computation. A run that
// transitively re-triggers itself more than n frames deep panics with
// a reentrant-update error instead of recursing without bound. Zero
// (the default) disables the guard.
func WithMaxDepth(n int) Option {
	return optionFunc(func(c *Computation) {
		c.maxDepth = n
	})
}

// NewComputation creates a computation and runs it once, immediately.
// The initial run discovers the first dependency set; every later
// write to a discovered key reruns the computation synchronously.
func NewComputation(fn func(), opts ...Option) *Computation {
	c := &Computation{
		id: nextID(),
		fn: fn,
	}
	for _, opt := range opts {
		opt.apply(c)
	}

	c.Run()
	return c
}

// ID returns the unique identifier for this computation.
func (c *Computation) ID() uint64 {
	return c.id
}

// Running reports whether a run of this computation is in flight.
func (c *Computation) Running() bool {
	return c.running.Load()
}

// Run executes the wrapped function with tracking enabled.
//
// The previous dependency set is dropped first and rebuilt by the reads
// the function performs, so stale dependencies from an earlier run do
// not outlive the read path that created them. Run restores the
// goroutine's previous tracking computation on exit, which keeps nested
// computations attributing reads to the right owner.
func (c *Computation) Run() {
	if c.disposed.Load() {
		return
	}

	if c.maxDepth > 0 {
		if c.depth >= c.maxDepth {
			panic(werrors.New("E001").WithDetail(
				"computation %d exceeded %d nested reruns", c.id, c.maxDepth))
		}
		c.depth++
		defer func() { c.depth-- }()
	}

	c.clearSources()

	wasRunning := c.running.Swap(true)
	old := setCurrentComputation(c)
	defer func() {
		setCurrentComputation(old)
		c.running.Store(wasRunning)
	}()

	c.fn()
}

// rerun is what a depList invokes on trigger. The behavior is
// identical to the initial Run.
func (c *Computation) rerun() {
	c.Run()
}

// addSource records a dependency list this computation subscribed to.
// Called by stores during tracked reads; deduplicated so one key read
// twice is cleaned up once.
func (c *Computation) addSource(d *depList) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()

	for _, s := range c.sources {
		if s == d {
			return
		}
	}
	c.sources = append(c.sources, d)
}

// clearSources unsubscribes the computation from every dependency list
// it joined during the previous run.
func (c *Computation) clearSources() {
	c.sourcesMu.Lock()
	sources := c.sources
	c.sources = c.sources[:0]
	c.sourcesMu.Unlock()

	for _, s := range sources {
		s.unsubscribe(c)
	}
}

// Dispose removes the computation from every dependency list it is part
// of and prevents any further runs. Dispose is idempotent. The element
// binder calls this when an instance is destroyed so the instance's
// render computation does not outlive it as a subscriber.
func (c *Computation) Dispose() {
	if c.disposed.Swap(true) {
		return
	}

	c.sourcesMu.Lock()
	sources := c.sources
	c.sources = nil
	c.sourcesMu.Unlock()

	for _, s := range sources {
		s.unsubscribe(c)
	}
}

// IsDisposed reports whether Dispose has been called.
func (c *Computation) IsDisposed() bool {
	return c.disposed.Load()
}
