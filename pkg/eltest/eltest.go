// Package eltest provides testing helpers for Weft elements.
//
// The package reduces boilerplate when testing element definitions by
// providing an in-memory host, a recording renderer, and render
// assertions.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := eltest.NewHarness()
//	    inst, err := h.Construct(counterDef)
//	    if err != nil {
//	        t.Fatalf("unexpected error: %v", err)
//	    }
//	    inst.AttributeChanged("count", "", "1")
//	    eltest.ExpectContains(t, h.Fragment(inst), "1")
//	}
package eltest

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/weft-ui/weft/internal/werrors"
	"github.com/weft-ui/weft/pkg/element"
)

// Fragment is the in-memory render target used by the harness. Every
// render replaces its content wholesale.
type Fragment struct {
	ElementName string
	InstanceID  uint64

	mu      sync.Mutex
	content string
	renders int
}

// Content returns the fragment's current content.
func (f *Fragment) Content() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.content
}

// Renders returns how many times the fragment has been rendered into.
func (f *Fragment) Renders() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renders
}

func (f *Fragment) write(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = s
	f.renders++
}

// Registry is an in-memory ElementRegistry. Duplicate names fail with
// a registry error, mirroring the platform's duplicate-definition
// condition.
type Registry struct {
	mu   sync.Mutex
	defs map[string]*element.Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*element.Definition)}
}

// Define implements element.ElementRegistry.
func (r *Registry) Define(def *element.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name()]; exists {
		return werrors.New("E020").WithDetail("element %q is already defined", def.Name())
	}
	r.defs[def.Name()] = def
	return nil
}

// Lookup returns the definition registered under name, or nil.
func (r *Registry) Lookup(name string) *element.Definition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defs[name]
}

// Harness bundles a host, a renderer, and a registry for element
// tests. Rendered descriptions are stringified with fmt.Sprint and
// written into per-instance fragments.
type Harness struct {
	Registry *Registry

	mu        sync.Mutex
	fragments map[uint64]*Fragment

	// RenderErr, when set, is returned from every render. Used to test
	// render-failure propagation.
	RenderErr error
}

// NewHarness creates a harness with an empty registry.
func NewHarness() *Harness {
	return &Harness{
		Registry:  NewRegistry(),
		fragments: make(map[uint64]*Fragment),
	}
}

// CreateTarget implements element.Host.
func (h *Harness) CreateTarget(elementName string, instanceID uint64) element.Target {
	f := &Fragment{ElementName: elementName, InstanceID: instanceID}

	h.mu.Lock()
	h.fragments[instanceID] = f
	h.mu.Unlock()

	return f
}

// Render implements element.Renderer.
func (h *Harness) Render(desc any, target element.Target) error {
	if h.RenderErr != nil {
		return h.RenderErr
	}

	f, ok := target.(*Fragment)
	if !ok {
		return fmt.Errorf("eltest: unexpected target type %T", target)
	}
	f.write(fmt.Sprint(desc))
	return nil
}

// Construct builds an instance of def using the harness as both host
// and renderer.
func (h *Harness) Construct(def *element.Definition, opts ...element.InstanceOption) (*element.Instance, error) {
	return element.NewInstance(def, h, h, opts...)
}

// Fragment returns the render target created for inst.
func (h *Harness) Fragment(inst *element.Instance) *Fragment {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fragments[inst.ID()]
}

// Recorder is an element.Observer that records everything it sees.
type Recorder struct {
	mu sync.Mutex

	// Events holds one entry per observer callback, in order, in a
	// compact "kind:detail" form convenient for order assertions.
	Events []string

	RenderStarts int
	RenderEnds   int
	RenderErrs   int
}

// RenderStart implements element.Observer.
func (r *Recorder) RenderStart(elementName string, instanceID uint64, first bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RenderStarts++
	r.Events = append(r.Events, fmt.Sprintf("renderStart:%s:first=%v", elementName, first))
}

// RenderEnd implements element.Observer.
func (r *Recorder) RenderEnd(elementName string, instanceID uint64, first bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RenderEnds++
	if err != nil {
		r.RenderErrs++
	}
	r.Events = append(r.Events, fmt.Sprintf("renderEnd:%s:first=%v:err=%v", elementName, first, err != nil))
}

// HookFired implements element.Observer.
func (r *Recorder) HookFired(elementName string, instanceID uint64, stage element.Stage, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, fmt.Sprintf("hook:%s:%s:%d", elementName, stage, count))
}

// AttributeWritten implements element.Observer.
func (r *Recorder) AttributeWritten(elementName string, instanceID uint64, attribute string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, fmt.Sprintf("attr:%s:%s", elementName, attribute))
}

// Snapshot returns a copy of the recorded events.
func (r *Recorder) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Events...)
}

// ExpectContains asserts that the fragment's content contains expected.
func ExpectContains(t *testing.T, f *Fragment, expected string) {
	t.Helper()
	content := f.Content()
	if !strings.Contains(content, expected) {
		t.Errorf("expected fragment to contain %q, got:\n%s", expected, truncate(content, 500))
	}
}

// ExpectNotContains asserts that the fragment's content does not
// contain unexpected.
func ExpectNotContains(t *testing.T, f *Fragment, unexpected string) {
	t.Helper()
	content := f.Content()
	if strings.Contains(content, unexpected) {
		t.Errorf("expected fragment to NOT contain %q, got:\n%s", unexpected, truncate(content, 500))
	}
}

// ExpectRenders asserts the fragment has been rendered into exactly n
// times.
func ExpectRenders(t *testing.T, f *Fragment, n int) {
	t.Helper()
	if got := f.Renders(); got != n {
		t.Errorf("expected %d renders, got %d", n, got)
	}
}

// truncate shortens s for readable failure messages.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
