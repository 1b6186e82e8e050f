package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gate outcomes recorded in metrics.
const (
	outcomeAllowed   = "allowed"
	outcomeDenied    = "denied"
	outcomeSession   = "session"
	outcomeAnonymous = "anonymous"
)

// MetricsConfig configures GateMetrics.
type MetricsConfig struct {
	Namespace string
	Registry  prometheus.Registerer
}

// MetricsOption configures GateMetrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// GateMetrics counts access decisions by route class and outcome.
type GateMetrics struct {
	decisions *prometheus.CounterVec
}

// NewGateMetrics registers the gate counters.
func NewGateMetrics(opts ...MetricsOption) *GateMetrics {
	cfg := MetricsConfig{
		Namespace: "emporium",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)
	return &GateMetrics{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Access decisions made by the route gate",
		}, []string{"class", "outcome"}),
	}
}

func (m *GateMetrics) record(class, outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(class, outcome).Inc()
}
