// Package weft provides the public API for the Weft element library.
//
// This is the recommended import for most applications:
//
//	import "github.com/weft-ui/weft"
//
// Usage:
//
//	counter := weft.Define("x-counter", []string{"count"}, func(s *weft.Setup) weft.RenderFunc {
//	    props := s.Props()
//	    s.OnMounted(func() { log.Println("connected") })
//	    return func() any {
//	        return fmt.Sprintf("count: %v", props.Get("count"))
//	    }
//	})
package weft

import (
	"github.com/weft-ui/weft/pkg/element"
	"github.com/weft-ui/weft/pkg/reactive"
)

// =============================================================================
// Reactive primitives (re-export from pkg/reactive)
// =============================================================================

// Store is a reactive string-keyed map. Reads inside a computation
// subscribe the computation to the key; writes re-run subscribers
// synchronously.
type Store = reactive.Store

// Computation is a tracked unit of work that re-runs when a store key
// it read changes.
type Computation = reactive.Computation

// NewStore creates a store seeded with the given values.
var NewStore = reactive.NewStore

// NewComputation runs fn once immediately, tracking its reads, and
// re-runs it on every write to a key it read.
var NewComputation = reactive.NewComputation

// Untrack runs fn with dependency tracking suspended.
var Untrack = reactive.Untrack

// WithMaxDepth caps how deep a computation may re-trigger itself.
var WithMaxDepth = reactive.WithMaxDepth

// =============================================================================
// Element authoring (re-export from pkg/element)
// =============================================================================

// Definition is a named element blueprint: observed attributes plus a
// factory.
type Definition = element.Definition

// Instance is one live element built from a definition.
type Instance = element.Instance

// Setup is the handle a factory receives during construction.
type Setup = element.Setup

// RenderFunc produces a renderable description of current state.
type RenderFunc = element.RenderFunc

// Factory builds an element's render function, registering hooks and
// capturing props along the way.
type Factory = element.Factory

// Define creates an element definition.
var Define = element.Define

// NewInstance constructs an instance of a definition attached to a
// host.
var NewInstance = element.NewInstance

// Instance construction options.
var (
	WithProps          = element.WithProps
	WithObserver       = element.WithObserver
	WithMaxUpdateDepth = element.WithMaxUpdateDepth
)

// Lifecycle hooks, usable from any depth of the factory call stack.
var (
	OnBeforeMount  = element.OnBeforeMount
	OnMounted      = element.OnMounted
	OnBeforeUpdate = element.OnBeforeUpdate
	OnUpdated      = element.OnUpdated
	OnUnmounted    = element.OnUnmounted
)
