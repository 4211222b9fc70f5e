package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/weft-ui/weft/pkg/element"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "weft").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "weft",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// PrometheusObserver implements element.Observer backed by Prometheus
// metrics. One observer may be shared by any number of element
// instances.
type PrometheusObserver struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	attrWrites     *prometheus.CounterVec
	hooksFired     *prometheus.CounterVec

	// starts records in-flight render start times per instance.
	starts sync.Map // uint64 -> time.Time
}

// Prometheus creates a Prometheus-backed observer.
//
// Exposed metrics (all under the configured namespace):
//
//	renders_total{element, first}
//	render_duration_seconds{element}
//	render_errors_total{element}
//	attribute_writes_total{element, attribute}
//	lifecycle_hooks_fired_total{element, stage}
func Prometheus(opts ...MetricsOption) *PrometheusObserver {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &PrometheusObserver{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "renders_total",
			Help:        "Total render passes, labeled by element and whether it was the mount render.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"element", "first"}),
		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render pass duration in seconds.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"element"}),
		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total renderer failures.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"element"}),
		attrWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "attribute_writes_total",
			Help:        "Total observed-attribute changes written into props.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"element", "attribute"}),
		hooksFired: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "lifecycle_hooks_fired_total",
			Help:        "Total lifecycle callbacks fired, labeled by stage.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"element", "stage"}),
	}
}

// RenderStart implements element.Observer.
func (p *PrometheusObserver) RenderStart(elementName string, instanceID uint64, first bool) {
	p.starts.Store(instanceID, time.Now())
}

// RenderEnd implements element.Observer.
func (p *PrometheusObserver) RenderEnd(elementName string, instanceID uint64, first bool, err error) {
	firstLabel := "false"
	if first {
		firstLabel = "true"
	}
	p.rendersTotal.WithLabelValues(elementName, firstLabel).Inc()

	if start, ok := p.starts.LoadAndDelete(instanceID); ok {
		p.renderDuration.WithLabelValues(elementName).Observe(time.Since(start.(time.Time)).Seconds())
	}
	if err != nil {
		p.renderErrors.WithLabelValues(elementName).Inc()
	}
}

// HookFired implements element.Observer.
func (p *PrometheusObserver) HookFired(elementName string, instanceID uint64, stage element.Stage, count int) {
	if count == 0 {
		return
	}
	p.hooksFired.WithLabelValues(elementName, stage.String()).Add(float64(count))
}

// AttributeWritten implements element.Observer.
func (p *PrometheusObserver) AttributeWritten(elementName string, instanceID uint64, attribute string) {
	p.attrWrites.WithLabelValues(elementName, attribute).Inc()
}
