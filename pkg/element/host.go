package element

// Target is an isolated attachment point for one instance's rendered
// output. The binder never looks inside a target; it only passes it to
// the Renderer. Hosts define the concrete type (the devserver uses an
// in-memory fragment buffer, a browser bridge would use a shadow root
// handle).
type Target any

// Renderer paints a declarative description into a target. It is the
// external render operation of the component model: assumed idempotent
// and free of side effects beyond the target.
type Renderer interface {
	Render(desc any, target Target) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(desc any, target Target) error

// Render calls the wrapped function.
func (f RendererFunc) Render(desc any, target Target) error {
	return f(desc, target)
}

// Host hands out render targets. One target is created per instance,
// during construction, before the first render.
type Host interface {
	CreateTarget(elementName string, instanceID uint64) Target
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(elementName string, instanceID uint64) Target

// CreateTarget calls the wrapped function.
func (f HostFunc) CreateTarget(elementName string, instanceID uint64) Target {
	return f(elementName, instanceID)
}

// ElementRegistry owns the element name space of a platform. Define is
// expected to reject duplicate names with the registry's own error;
// the binder does not pre-check.
type ElementRegistry interface {
	Define(def *Definition) error
}

// Observer receives notifications about an instance's render cycle.
// The middleware package provides Prometheus and OpenTelemetry
// observers; tests use recording implementations. Observer calls are
// synchronous and must be cheap.
type Observer interface {
	// RenderStart fires before the render function runs. first is true
	// for the mount render.
	RenderStart(elementName string, instanceID uint64, first bool)

	// RenderEnd fires after the render operation, before any error
	// propagates. err is the renderer's error, nil on success.
	RenderEnd(elementName string, instanceID uint64, first bool, err error)

	// HookFired fires after a lifecycle stage's callbacks have run.
	// count is the number of callbacks that ran.
	HookFired(elementName string, instanceID uint64, stage Stage, count int)

	// AttributeWritten fires when an observed attribute change is
	// written into the instance's props.
	AttributeWritten(elementName string, instanceID uint64, attribute string)
}
