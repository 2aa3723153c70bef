package diskstats

import (
	"fmt"

	"github.com/diskstats-collector/pkg/metrics"
)

// derivedMetrics maps published names to their computing functions, in
// registration order.
var derivedMetrics = []struct {
	name string
	fn   func(cur, prev Row) float64
}{
	{"iops", IOPS},
	{"readThroughput", ReadThroughput},
	{"writeThroughput", WriteThroughput},
	{"mergedReadFraction", MergedReadFraction},
	{"mergedWriteFraction", MergedWriteFraction},
	{"ioReadTimeFraction", IOReadTimeFraction},
	{"ioWriteTimeFraction", IOWriteTimeFraction},
}

// MetricKey builds the dotted registry key for one device metric.
func MetricKey(prefix, device, metric string) string {
	return prefix + "." + device + "." + metric
}

// Publisher keeps per-device gauges registered with the shared registry.
// Absolute-counter gauges appear on a device's first sighting; derived-rate
// gauges appear exactly once a second snapshot exists, since they need two.
// Both paths are idempotent: registry membership is checked before every
// register call and a registered state is never re-registered.
type Publisher struct {
	prefix   string
	registry metrics.Registry
}

// NewPublisher creates a publisher writing keys under the given dotted prefix.
func NewPublisher(prefix string, registry metrics.Registry) *Publisher {
	return &Publisher{prefix: prefix, registry: registry}
}

// EnsureRegistered registers whatever gauges the state is ready for. Once a
// gauge is bound to a DeviceState it keeps reading live values from it, so
// later updates need no further registration.
func (p *Publisher) EnsureRegistered(st *DeviceState) error {
	if !st.countersRegistered {
		if err := p.registerCounters(st); err != nil {
			return err
		}
		st.countersRegistered = true
	}
	if st.HasPrevious() && !st.derivedRegistered {
		if err := p.registerDerived(st); err != nil {
			return err
		}
		st.derivedRegistered = true
	}
	return nil
}

func (p *Publisher) registerCounters(st *DeviceState) error {
	existing := p.registry.GetMetrics()
	for i, name := range FieldNames {
		key := MetricKey(p.prefix, st.Device(), name)
		if _, ok := existing[key]; ok {
			continue
		}
		field := i
		g := metrics.GaugeFunc(func() float64 {
			return float64(st.CounterValue(field))
		})
		if err := p.registry.Register(key, g); err != nil {
			return fmt.Errorf("register %s: %w", key, err)
		}
	}
	return nil
}

func (p *Publisher) registerDerived(st *DeviceState) error {
	existing := p.registry.GetMetrics()
	for _, m := range derivedMetrics {
		key := MetricKey(p.prefix, st.Device(), m.name)
		if _, ok := existing[key]; ok {
			continue
		}
		fn := m.fn
		g := metrics.GaugeFunc(func() float64 {
			cur, prev, ok := st.Pair()
			if !ok {
				return 0
			}
			return fn(cur, prev)
		})
		if err := p.registry.Register(key, g); err != nil {
			return fmt.Errorf("register %s: %w", key, err)
		}
	}
	return nil
}
