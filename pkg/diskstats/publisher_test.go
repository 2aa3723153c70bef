package diskstats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diskstats-collector/pkg/diskstats"
	"github.com/diskstats-collector/pkg/metrics"
)

const testPrefix = "linuxstats.diskstats"

func TestEnsureRegisteredFirstSighting(t *testing.T) {
	reg := metrics.NewNamedRegistry(nil)
	pub := diskstats.NewPublisher(testPrefix, reg)

	st := diskstats.NewDeviceState(row("vda", 10, 20, 1000))
	require.NoError(t, pub.EnsureRegistered(st))

	got := reg.GetMetrics()
	for _, name := range diskstats.FieldNames {
		assert.Contains(t, got, diskstats.MetricKey(testPrefix, "vda", name))
	}
	// Derived gauges need two snapshots, none may exist yet.
	assert.Len(t, got, diskstats.NumFields)
	assert.NotContains(t, got, diskstats.MetricKey(testPrefix, "vda", "iops"))
}

func TestEnsureRegisteredSecondSighting(t *testing.T) {
	reg := metrics.NewNamedRegistry(nil)
	pub := diskstats.NewPublisher(testPrefix, reg)

	st := diskstats.NewDeviceState(row("vda", 10, 20, 1000))
	require.NoError(t, pub.EnsureRegistered(st))

	st.Apply(row("vda", 110, 120, 6000))
	require.NoError(t, pub.EnsureRegistered(st))

	got := reg.GetMetrics()
	assert.Len(t, got, diskstats.NumFields+7)
	for _, name := range []string{
		"iops", "readThroughput", "writeThroughput",
		"mergedReadFraction", "mergedWriteFraction",
		"ioReadTimeFraction", "ioWriteTimeFraction",
	} {
		assert.Contains(t, got, diskstats.MetricKey(testPrefix, "vda", name))
	}

	// iops = (100 reads + 100 writes) / 5s
	iops := got[diskstats.MetricKey(testPrefix, "vda", "iops")]
	assert.InDelta(t, 40.0, iops.Value(), 1e-9)
}

func TestEnsureRegisteredIdempotent(t *testing.T) {
	reg := metrics.NewNamedRegistry(nil)
	pub := diskstats.NewPublisher(testPrefix, reg)

	st := diskstats.NewDeviceState(row("vda", 10, 20, 1000))
	require.NoError(t, pub.EnsureRegistered(st))
	st.Apply(row("vda", 11, 21, 2000))
	require.NoError(t, pub.EnsureRegistered(st))

	before := reg.GetMetrics()

	// Re-running registration must not conflict and must not change the key set.
	require.NoError(t, pub.EnsureRegistered(st))
	require.NoError(t, pub.EnsureRegistered(st))

	after := reg.GetMetrics()
	assert.Len(t, after, len(before))
	for k := range before {
		assert.Contains(t, after, k)
	}
}

func TestEnsureRegisteredSkipsPreexistingKeys(t *testing.T) {
	reg := metrics.NewNamedRegistry(nil)
	pub := diskstats.NewPublisher(testPrefix, reg)

	// A key already present in the registry is left alone, not a conflict.
	key := diskstats.MetricKey(testPrefix, "vda", "successfulReads")
	require.NoError(t, reg.Register(key, metrics.GaugeFunc(func() float64 { return 42 })))

	st := diskstats.NewDeviceState(row("vda", 10, 20, 1000))
	require.NoError(t, pub.EnsureRegistered(st))

	got := reg.GetMetrics()
	assert.Len(t, got, diskstats.NumFields)
	assert.Equal(t, 42.0, got[key].Value())
}

func TestCounterGaugesReadLiveState(t *testing.T) {
	reg := metrics.NewNamedRegistry(nil)
	pub := diskstats.NewPublisher(testPrefix, reg)

	st := diskstats.NewDeviceState(row("vda", 10, 20, 1000))
	require.NoError(t, pub.EnsureRegistered(st))

	key := diskstats.MetricKey(testPrefix, "vda", "successfulReads")
	g := reg.GetMetrics()[key]
	assert.Equal(t, 10.0, g.Value())

	// No re-registration needed, the bound gauge follows the state.
	st.Apply(row("vda", 55, 20, 2000))
	assert.Equal(t, 55.0, g.Value())
}
