// Package middleware provides instrumentation observers for Weft
// element instances.
//
// This package includes:
//   - Prometheus metrics observer
//   - OpenTelemetry tracing observer
//
// Observers attach to an instance at construction:
//
//	inst, err := element.NewInstance(def, host, renderer,
//	    element.WithObserver(middleware.Prometheus()),
//	    element.WithObserver(middleware.OpenTelemetry()),
//	)
//
// # Prometheus Metrics
//
// The Prometheus observer collects metrics about the render cycle:
//   - weft_renders_total: render passes by element and mount flag
//   - weft_render_duration_seconds: render duration histogram
//   - weft_render_errors_total: renderer failures
//   - weft_attribute_writes_total: observed-attribute writes
//   - weft_lifecycle_hooks_fired_total: lifecycle callbacks by stage
//
// Configure with options:
//
//	middleware.Prometheus(
//	    middleware.WithNamespace("myapp"),
//	    middleware.WithRegistry(registry),
//	)
//
// # OpenTelemetry Tracing
//
// The OpenTelemetry observer records a span per render pass, carrying
// the element name, instance ID, and first-render flag, with lifecycle
// firings attached as span events. It uses the global tracer provider.
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithElementFilter(func(name string) bool {
//	        return name != "x-debug-panel"
//	    }),
//	)
package middleware
