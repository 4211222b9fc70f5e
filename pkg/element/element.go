package element

import (
	"sync/atomic"

	"github.com/weft-ui/weft/internal/werrors"
	"github.com/weft-ui/weft/pkg/reactive"
)

// RenderFunc produces the declarative description handed to the
// Renderer. It is called inside a reactive computation, so every props
// key it reads becomes a dependency of the instance's render cycle.
type RenderFunc func() any

// Factory is the user-supplied component body. It runs exactly once
// per instance, during construction, and returns the instance's render
// function. Lifecycle callbacks may only be registered during this
// synchronous call.
type Factory func(s *Setup) RenderFunc

// Definition describes one element type: its registered name, the
// attributes the platform should observe for it, and its factory.
type Definition struct {
	name     string
	observed []string
	factory  Factory
}

// Define declares an element type. The observed list may be nil for
// elements driven purely by code.
func Define(name string, observed []string, factory Factory) *Definition {
	return &Definition{
		name:     name,
		observed: append([]string(nil), observed...),
		factory:  factory,
	}
}

// Name returns the element's registered name.
func (d *Definition) Name() string { return d.name }

// Observed returns the attribute names the platform should observe,
// in declaration order.
func (d *Definition) Observed() []string {
	return append([]string(nil), d.observed...)
}

// Register registers the definition with a platform registry.
// Duplicate-name handling belongs to the registry; its error is
// returned unmodified.
func (d *Definition) Register(r ElementRegistry) error {
	return r.Define(d)
}

// Instance is one live element: its props store, its lifecycle hooks,
// and the computation driving its render cycle.
type Instance struct {
	id  uint64
	def *Definition

	props  *reactive.Store
	hooks  Hooks
	render RenderFunc

	host     Host
	renderer Renderer
	target   Target

	comp *reactive.Computation

	// mounted flips to true when the first render pass completes.
	// It decides whether a pass fires beforeUpdate (first pass) or
	// updated (every later pass).
	mounted bool

	observers []Observer
	maxDepth  int

	destroyed atomic.Bool
}

// instanceIDCounter numbers instances process-wide.
var instanceIDCounter uint64

// InstanceOption configures an Instance at construction.
type InstanceOption interface {
	apply(inst *Instance)
}

type instanceOptionFunc func(*Instance)

func (f instanceOptionFunc) apply(inst *Instance) { f(inst) }

// WithProps seeds the instance's props store before the factory runs.
func WithProps(initial map[string]any) InstanceOption {
	return instanceOptionFunc(func(inst *Instance) {
		for k, v := range initial {
			inst.props.Set(k, v)
		}
	})
}

// WithObserver attaches an observer to the instance's render cycle.
// May be given multiple times; observers fire in attachment order.
func WithObserver(o Observer) InstanceOption {
	return instanceOptionFunc(func(inst *Instance) {
		if o != nil {
			inst.observers = append(inst.observers, o)
		}
	})
}

// WithMaxUpdateDepth bounds self-triggered re-renders: a render pass
// that writes a props key it also reads re-triggers itself, and past n
// nested passes the write panics with a reentrant-update error. Zero
// disables the guard, matching the bare platform behavior.
func WithMaxUpdateDepth(n int) InstanceOption {
	return instanceOptionFunc(func(inst *Instance) {
		inst.maxDepth = n
	})
}

// NewInstance constructs a live instance of the definition.
//
// Construction follows the element lifecycle: the factory runs first,
// with the instance installed as the goroutine's construction scope so
// hook registration lands on it; then beforeMount callbacks fire; then
// the host provides a target and the first render pass runs inside a
// fresh computation. The construction scope is restored even when the
// factory panics, so a failing factory cannot corrupt a later
// construction. A renderer failure during the first pass propagates as
// a panic out of NewInstance.
func NewInstance(d *Definition, host Host, renderer Renderer, opts ...InstanceOption) (*Instance, error) {
	inst := &Instance{
		id:       atomic.AddUint64(&instanceIDCounter, 1),
		def:      d,
		props:    reactive.NewStore(nil),
		host:     host,
		renderer: renderer,
	}
	for _, opt := range opts {
		opt.apply(inst)
	}

	reactive.WithScope(inst, func() {
		inst.render = d.factory(&Setup{inst: inst})
	})

	if inst.render == nil {
		return nil, werrors.New("E002").WithDetail("element %q factory returned nil", d.name)
	}

	inst.fireHooks(StageBeforeMount)

	inst.target = host.CreateTarget(d.name, inst.id)

	var compOpts []reactive.Option
	if inst.maxDepth > 0 {
		compOpts = append(compOpts, reactive.WithMaxDepth(inst.maxDepth))
	}
	inst.comp = reactive.NewComputation(inst.renderPass, compOpts...)

	return inst, nil
}

// renderPass is the body of the instance's computation. The first pass
// fires beforeUpdate ahead of rendering; every later pass fires updated
// after rendering. Only the first pass flips mounted, so the two
// branches never both fire in one pass.
func (inst *Instance) renderPass() {
	first := !inst.mounted

	if first {
		inst.fireHooks(StageBeforeUpdate)
	}

	for _, o := range inst.observers {
		o.RenderStart(inst.def.name, inst.id, first)
	}

	desc := inst.render()
	err := inst.renderer.Render(desc, inst.target)

	for _, o := range inst.observers {
		o.RenderEnd(inst.def.name, inst.id, first, err)
	}
	if err != nil {
		// Surface synchronously out of the triggering write (or out
		// of construction on the first pass). No retry, no dependency
		// cleanup.
		panic(werrors.FromError(err, "E003").WithDetail(
			"render of %q instance %d failed", inst.def.name, inst.id))
	}

	if !first {
		inst.fireHooks(StageUpdated)
	}

	if first {
		inst.mounted = true
	}
}

// fireHooks runs the stage's callbacks in registration order and
// notifies observers. Stages with no registered callbacks are not
// reported to observers.
func (inst *Instance) fireHooks(s Stage) {
	slot := inst.hooks.slot(s)
	if slot == nil || len(*slot) == 0 {
		return
	}
	for _, fn := range *slot {
		fn()
	}
	for _, o := range inst.observers {
		o.HookFired(inst.def.name, inst.id, s, len(*slot))
	}
}

// ID returns the instance's process-wide identifier.
func (inst *Instance) ID() uint64 { return inst.id }

// Definition returns the definition this instance was built from.
func (inst *Instance) Definition() *Definition { return inst.def }

// Props returns the instance's reactive attribute store.
func (inst *Instance) Props() *reactive.Store { return inst.props }

// Target returns the render target the host created for this instance.
func (inst *Instance) Target() Target { return inst.target }

// HasMounted reports whether the first render pass has completed.
func (inst *Instance) HasMounted() bool { return inst.mounted }

// Connect delivers the platform's "connected" transition: all mounted
// callbacks fire, in registration order.
func (inst *Instance) Connect() {
	inst.fireHooks(StageMounted)
}

// Disconnect delivers the platform's "disconnected" transition: all
// unmounted callbacks fire, in registration order.
func (inst *Instance) Disconnect() {
	inst.fireHooks(StageUnmounted)
}

// AttributeChanged delivers the platform's attribute-change transition.
// Only the new value is consumed; it is written verbatim into the props
// store, which re-renders the instance if the last render read that
// attribute. oldValue is accepted to match the platform callback shape.
func (inst *Instance) AttributeChanged(name, oldValue, newValue string) {
	_ = oldValue

	for _, o := range inst.observers {
		o.AttributeWritten(inst.def.name, inst.id, name)
	}
	inst.props.Set(name, newValue)
}

// Destroy disposes the instance's render computation, removing it from
// every dependency it is subscribed to. Later attribute writes still
// store values but no longer re-render. Destroy fires no lifecycle
// callbacks; deliver Disconnect first if unmounted callbacks should
// run. Destroy is idempotent.
func (inst *Instance) Destroy() {
	if inst.destroyed.Swap(true) {
		return
	}
	if inst.comp != nil {
		inst.comp.Dispose()
	}
}

// IsDestroyed reports whether Destroy has been called.
func (inst *Instance) IsDestroyed() bool {
	return inst.destroyed.Load()
}
