package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registers isolates the Prometheus default implementation behind an
// interface, so it can be swapped for another composition or mocked in unit
// tests. Business code never depends on the concrete prometheus.Registry.
type Registers interface {
	prometheus.Registerer
	Register(collector prometheus.Collector) error
}

// promRegistry wraps the official *prometheus.Registry.
type promRegistry struct {
	registry *prometheus.Registry
}

// NewPromRegistry creates the Prometheus-backed metric registerer.
func NewPromRegistry(registry *prometheus.Registry) Registers {
	return &promRegistry{registry: registry}
}

// MustRegister implements prometheus.Registerer.
func (p *promRegistry) MustRegister(collectors ...prometheus.Collector) {
	for _, c := range collectors {
		if err := p.registry.Register(c); err != nil {
			panic(err)
		}
	}
}

// Unregister implements prometheus.Registerer.
func (p *promRegistry) Unregister(collector prometheus.Collector) bool {
	return p.registry.Unregister(collector)
}

// Register implements the extended Registers interface.
func (p *promRegistry) Register(collector prometheus.Collector) error {
	return p.registry.Register(collector)
}
