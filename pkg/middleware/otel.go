package middleware

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/weft-ui/weft/pkg/element"
)

// Default tracer name for Weft applications.
const defaultTracerName = "weft"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "weft").
	TracerName string

	// Filter determines which elements to trace. Return true to trace
	// the element, false to skip. If nil, all elements are traced.
	Filter func(elementName string) bool

	// AttributeExtractor extracts custom attributes for each render
	// span.
	AttributeExtractor func(elementName string, instanceID uint64) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithElementFilter sets a filter function for elements.
func WithElementFilter(filter func(elementName string) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(elementName string, instanceID uint64) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OTelObserver implements element.Observer by recording a span per
// render pass.
type OTelObserver struct {
	config OTelConfig

	// spans holds in-flight render spans per instance.
	spans sync.Map // uint64 -> trace.Span
}

// OpenTelemetry creates an observer that traces every render pass.
//
// The observer:
//   - Creates a span per render with element name, instance ID, and a
//     flag marking the mount render
//   - Records renderer errors and sets span status
//
// The tracer uses the global OpenTelemetry tracer provider. Configure
// it in your main() before constructing instances:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	)
//	otel.SetTracerProvider(tp)
//
// Example:
//
//	obs := middleware.OpenTelemetry(middleware.WithTracerName("my-app"))
//	inst, err := element.NewInstance(def, host, renderer, element.WithObserver(obs))
func OpenTelemetry(opts ...OTelOption) *OTelObserver {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer from global provider
	config.tracer = otel.Tracer(config.TracerName)

	return &OTelObserver{config: config}
}

// RenderStart implements element.Observer.
func (o *OTelObserver) RenderStart(elementName string, instanceID uint64, first bool) {
	if o.config.Filter != nil && !o.config.Filter(elementName) {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("weft.element", elementName),
		attribute.Int64("weft.instance_id", int64(instanceID)),
		attribute.Bool("weft.first_render", first),
	}
	if o.config.AttributeExtractor != nil {
		attrs = append(attrs, o.config.AttributeExtractor(elementName, instanceID)...)
	}

	_, span := o.config.tracer.Start(
		context.Background(),
		"weft.render "+elementName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	o.spans.Store(instanceID, span)
}

// RenderEnd implements element.Observer.
func (o *OTelObserver) RenderEnd(elementName string, instanceID uint64, first bool, err error) {
	v, ok := o.spans.LoadAndDelete(instanceID)
	if !ok {
		return
	}
	span := v.(trace.Span)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// HookFired implements element.Observer. Lifecycle firings are added
// as events on the in-flight render span when one exists; stray hook
// firings (Connect/Disconnect outside a render) are not traced.
func (o *OTelObserver) HookFired(elementName string, instanceID uint64, stage element.Stage, count int) {
	if count == 0 {
		return
	}
	if v, ok := o.spans.Load(instanceID); ok {
		v.(trace.Span).AddEvent("weft."+stage.String(),
			trace.WithAttributes(attribute.Int("weft.callbacks", count)))
	}
}

// AttributeWritten implements element.Observer. Attribute writes occur
// before the render span opens, so they are not traced individually.
func (o *OTelObserver) AttributeWritten(elementName string, instanceID uint64, attribute string) {
}
