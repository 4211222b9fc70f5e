// Package reactive implements the dependency-tracking core of Weft.
//
// The package provides two primitives:
//
//   - Store: a reactive key/value container. Reading a key while a
//     Computation is running subscribes that Computation to the
//     (store, key) pair; writing the key re-runs every subscriber.
//   - Computation: a re-runnable unit of work whose dependencies are
//     rediscovered on every run.
//
// Unlike batched effect systems, triggering is fully synchronous: a
// Set re-runs its subscribers inside the same call stack, one after
// another, in the order they subscribed. A computation that writes a
// key it also reads will recurse; that is a caller responsibility
// (see WithMaxDepth for an opt-in guard).
//
// Example:
//
//	props := reactive.NewStore(nil)
//	comp := reactive.NewComputation(func() {
//	    fmt.Println("count is", props.Get("count"))
//	})
//	props.Set("count", 1) // prints again, synchronously
//	comp.Dispose()
package reactive
