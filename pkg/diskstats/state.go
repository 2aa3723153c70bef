package diskstats

import "sync"

// DeviceState tracks the two most recent snapshots for one device. The
// (current, previous) pair is guarded by an RWMutex so gauge reads from the
// export path never observe a half-shifted update while an ingest cycle is
// running.
//
// Deltas are always computed between exactly two snapshots; Apply shifts the
// pair, it never accumulates further back.
type DeviceState struct {
	mu       sync.RWMutex
	device   string
	current  Row
	previous Row
	hasPrev  bool

	// Registration bookkeeping, touched only by the serialized ingest path.
	countersRegistered bool
	derivedRegistered  bool
}

// NewDeviceState creates state for a device on its first sighting. There is
// no previous snapshot yet, so derived metrics are undefined until the next
// Apply.
func NewDeviceState(first Row) *DeviceState {
	return &DeviceState{device: first.Device, current: first}
}

func (s *DeviceState) Device() string { return s.device }

// Apply shifts current into previous (by value) and installs the new
// snapshot.
func (s *DeviceState) Apply(r Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previous = s.current
	s.hasPrev = true
	s.current = r
}

// HasPrevious reports whether two snapshots exist yet.
func (s *DeviceState) HasPrevious() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasPrev
}

// CounterValue returns the latest absolute value of one raw counter field.
func (s *DeviceState) CounterValue(field int) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Stats[field]
}

// Pair returns a coherent copy of the (current, previous) snapshots. ok is
// false until a second snapshot has been applied.
func (s *DeviceState) Pair() (cur, prev Row, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.previous, s.hasPrev
}
