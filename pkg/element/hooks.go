package element

import "github.com/weft-ui/weft/pkg/reactive"

// Stage names one of the five lifecycle points.
type Stage uint8

const (
	StageBeforeMount Stage = iota
	StageMounted
	StageBeforeUpdate
	StageUpdated
	StageUnmounted
)

// String returns a human-readable name for the stage.
func (s Stage) String() string {
	switch s {
	case StageBeforeMount:
		return "beforeMount"
	case StageMounted:
		return "mounted"
	case StageBeforeUpdate:
		return "beforeUpdate"
	case StageUpdated:
		return "updated"
	case StageUnmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}

// Hooks holds an instance's lifecycle callbacks: five explicit ordered
// lists, one per stage, empty at construction. Callbacks fire in
// insertion order. The struct is fixed so fire sites never need a
// "list or nil" check.
type Hooks struct {
	beforeMount  []func()
	mounted      []func()
	beforeUpdate []func()
	updated      []func()
	unmounted    []func()
}

// slot returns a pointer to the list for the given stage.
func (h *Hooks) slot(s Stage) *[]func() {
	switch s {
	case StageBeforeMount:
		return &h.beforeMount
	case StageMounted:
		return &h.mounted
	case StageBeforeUpdate:
		return &h.beforeUpdate
	case StageUpdated:
		return &h.updated
	case StageUnmounted:
		return &h.unmounted
	default:
		return nil
	}
}

// add appends a callback to the stage's list.
func (h *Hooks) add(s Stage, fn func()) {
	if fn == nil {
		return
	}
	if slot := h.slot(s); slot != nil {
		*slot = append(*slot, fn)
	}
}

// Count returns the number of callbacks registered for the stage.
func (h *Hooks) Count(s Stage) int {
	if slot := h.slot(s); slot != nil {
		return len(*slot)
	}
	return 0
}

// currentInstance resolves the instance under construction on this
// goroutine, or nil when no factory call is in flight.
func currentInstance() *Instance {
	inst, _ := reactive.CurrentScope().(*Instance)
	return inst
}

// OnBeforeMount registers fn to run once, before the instance's first
// render. Outside a factory call this is a no-op.
func OnBeforeMount(fn func()) {
	if inst := currentInstance(); inst != nil {
		inst.hooks.add(StageBeforeMount, fn)
	}
}

// OnMounted registers fn to run when the platform connects the
// instance. Outside a factory call this is a no-op.
func OnMounted(fn func()) {
	if inst := currentInstance(); inst != nil {
		inst.hooks.add(StageMounted, fn)
	}
}

// OnBeforeUpdate registers fn to run before the first render pass.
// Outside a factory call this is a no-op.
func OnBeforeUpdate(fn func()) {
	if inst := currentInstance(); inst != nil {
		inst.hooks.add(StageBeforeUpdate, fn)
	}
}

// OnUpdated registers fn to run after every re-render caused by a
// dependency write. It does not run after the first render. Outside a
// factory call this is a no-op.
func OnUpdated(fn func()) {
	if inst := currentInstance(); inst != nil {
		inst.hooks.add(StageUpdated, fn)
	}
}

// OnUnmounted registers fn to run when the platform disconnects the
// instance. Outside a factory call this is a no-op.
func OnUnmounted(fn func()) {
	if inst := currentInstance(); inst != nil {
		inst.hooks.add(StageUnmounted, fn)
	}
}

// Setup is the construction-context handle passed to factories. It
// exposes the same registrations as the package-level functions, bound
// explicitly to one instance, plus access to the instance's props.
// Using the handle instead of the package-level functions keeps a
// factory safe to call helpers on from spawned goroutines, where no
// construction scope is installed.
type Setup struct {
	inst *Instance
}

// Props returns the reactive store carrying the instance's attributes.
func (s *Setup) Props() *reactive.Store { return s.inst.props }

// OnBeforeMount registers fn on this instance's beforeMount list.
func (s *Setup) OnBeforeMount(fn func()) { s.inst.hooks.add(StageBeforeMount, fn) }

// OnMounted registers fn on this instance's mounted list.
func (s *Setup) OnMounted(fn func()) { s.inst.hooks.add(StageMounted, fn) }

// OnBeforeUpdate registers fn on this instance's beforeUpdate list.
func (s *Setup) OnBeforeUpdate(fn func()) { s.inst.hooks.add(StageBeforeUpdate, fn) }

// OnUpdated registers fn on this instance's updated list.
func (s *Setup) OnUpdated(fn func()) { s.inst.hooks.add(StageUpdated, fn) }

// OnUnmounted registers fn on this instance's unmounted list.
func (s *Setup) OnUnmounted(fn func()) { s.inst.hooks.add(StageUnmounted, fn) }
