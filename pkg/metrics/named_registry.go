package metrics

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrAlreadyRegistered reports an attempt to register a metric key twice.
// Publishers pre-check membership via GetMetrics, so hitting this error means
// a wiring bug rather than a runtime condition.
var ErrAlreadyRegistered = errors.New("metric already registered")

// Registry is the dotted-key gauge namespace the disk engine publishes into.
// Register must fail on a duplicate key; callers are expected to pre-check
// with GetMetrics instead of relying on registry-side dedup.
type Registry interface {
	Register(name string, g Gauge) error
	GetMetrics() map[string]Gauge
}

// NamedRegistry maps dotted metric keys (prefix.device.metric) to pull-based
// gauges. Every successful registration is mirrored onto a Prometheus
// registerer as a GaugeFunc, so the whole namespace is exported through the
// /metrics endpoint without any push on the ingest path.
type NamedRegistry struct {
	mu     sync.RWMutex
	gauges map[string]Gauge
	prom   Registers
}

// NewNamedRegistry creates the gauge namespace. prom may be nil, in which
// case gauges are kept in-memory only (used by unit tests).
func NewNamedRegistry(prom Registers) *NamedRegistry {
	return &NamedRegistry{gauges: make(map[string]Gauge), prom: prom}
}

// Register binds a gauge to a dotted key.
func (r *NamedRegistry) Register(name string, g Gauge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.gauges[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	if r.prom != nil {
		pg := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: promName(name),
			Help: "Linux disk I/O statistic " + name,
		}, g.Value)
		if err := r.prom.Register(pg); err != nil {
			return fmt.Errorf("prometheus register %s: %w", name, err)
		}
	}
	r.gauges[name] = g
	return nil
}

// GetMetrics returns a snapshot copy of the registered gauges.
func (r *NamedRegistry) GetMetrics() map[string]Gauge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Gauge, len(r.gauges))
	for k, v := range r.gauges {
		out[k] = v
	}
	return out
}

// Devices like dm-0 or cciss!c0d0 carry characters Prometheus rejects.
var promNameReplacer = strings.NewReplacer(".", "_", "-", "_", "!", "_")

func promName(name string) string {
	return promNameReplacer.Replace(name)
}
