package diskstats

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/diskstats-collector/pkg/metrics"
)

// IngestError aggregates per-line parse failures from one ingest cycle. A
// failing line is skipped so one corrupt entry never blocks the remaining
// devices or the total aggregation.
type IngestError struct {
	Lines []error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("diskstats ingest: %d line(s) failed: %v", len(e.Lines), errors.Join(e.Lines...))
}

func (e *IngestError) Unwrap() []error { return e.Lines }

// Engine folds successive diskstats snapshots into per-device state and keeps
// the registry populated. One Engine owns all DeviceState instances. Ingest
// cycles are serialized by the engine mutex; registry readers evaluate gauges
// concurrently against the per-device locks.
type Engine struct {
	mu      sync.Mutex
	devices map[string]*DeviceState
	pub     *Publisher
	ignored map[string]struct{}
}

// NewEngine creates an engine publishing under the given dotted prefix.
// Rows whose device name appears in ignoreDevices are dropped before
// accumulation.
func NewEngine(prefix string, registry metrics.Registry, ignoreDevices []string) *Engine {
	ignored := make(map[string]struct{}, len(ignoreDevices))
	for _, d := range ignoreDevices {
		ignored[d] = struct{}{}
	}
	return &Engine{
		devices: make(map[string]*DeviceState),
		pub:     NewPublisher(prefix, registry),
		ignored: ignored,
	}
}

// IngestSnapshot runs one refresh cycle: parse every line, accumulate the
// synthetic total pseudo-device, shift per-device state and keep gauges
// registered. Malformed lines are collected into the returned IngestError
// without aborting the cycle. A registration conflict aborts immediately,
// that can only be a logic error.
func (e *Engine) IngestSnapshot(lines []string, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ts := now.UnixMilli()
	total := Row{Device: TotalDevice, CapturedAt: ts}
	var lineErrs []error

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := ParseRow(line)
		if err != nil {
			lineErrs = append(lineErrs, fmt.Errorf("line %d: %w", i+1, err))
			continue
		}
		if _, skip := e.ignored[row.Device]; skip {
			continue
		}
		row.CapturedAt = ts
		total.Add(row)
		if err := e.apply(row); err != nil {
			return err
		}
	}

	// The total goes through the same transition and registration path as a
	// real device, stamped with the cycle timestamp.
	if err := e.apply(total); err != nil {
		return err
	}

	if len(lineErrs) > 0 {
		return &IngestError{Lines: lineErrs}
	}
	return nil
}

// apply runs the snapshot shift for one device and keeps its gauges
// registered.
func (e *Engine) apply(row Row) error {
	st, ok := e.devices[row.Device]
	if !ok {
		st = NewDeviceState(row)
		e.devices[row.Device] = st
	} else {
		st.Apply(row)
	}
	return e.pub.EnsureRegistered(st)
}

// DeviceCount reports how many devices the engine has seen, the synthetic
// total included.
func (e *Engine) DeviceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.devices)
}
