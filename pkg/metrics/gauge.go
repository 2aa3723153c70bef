package metrics

// Gauge is a pull-based metric accessor evaluated on demand.
type Gauge interface {
	Value() float64
}

// GaugeFunc adapts a closure to the Gauge interface.
type GaugeFunc func() float64

func (f GaugeFunc) Value() float64 { return f() }
