package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diskstats-collector/pkg/metrics"
)

func TestNamedRegistryRegisterAndGet(t *testing.T) {
	reg := metrics.NewNamedRegistry(nil)

	require.NoError(t, reg.Register("linuxstats.diskstats.vda.iops", metrics.GaugeFunc(func() float64 { return 12.5 })))

	got := reg.GetMetrics()
	require.Contains(t, got, "linuxstats.diskstats.vda.iops")
	assert.Equal(t, 12.5, got["linuxstats.diskstats.vda.iops"].Value())
}

func TestNamedRegistryDuplicateKey(t *testing.T) {
	reg := metrics.NewNamedRegistry(nil)
	g := metrics.GaugeFunc(func() float64 { return 1 })

	require.NoError(t, reg.Register("a.b.c", g))
	err := reg.Register("a.b.c", g)
	require.ErrorIs(t, err, metrics.ErrAlreadyRegistered)

	assert.Len(t, reg.GetMetrics(), 1)
}

func TestNamedRegistryGetMetricsIsSnapshot(t *testing.T) {
	reg := metrics.NewNamedRegistry(nil)
	require.NoError(t, reg.Register("a.b.c", metrics.GaugeFunc(func() float64 { return 1 })))

	snap := reg.GetMetrics()
	delete(snap, "a.b.c")

	assert.Len(t, reg.GetMetrics(), 1)
}

func TestNamedRegistryPrometheusBridge(t *testing.T) {
	promReg := prometheus.NewRegistry()
	reg := metrics.NewNamedRegistry(metrics.NewPromRegistry(promReg))

	v := 7.0
	require.NoError(t, reg.Register("linuxstats.diskstats.dm-0.iops", metrics.GaugeFunc(func() float64 { return v })))

	families, err := promReg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "linuxstats_diskstats_dm_0_iops", families[0].GetName())
	require.Len(t, families[0].GetMetric(), 1)
	assert.Equal(t, 7.0, families[0].GetMetric()[0].GetGauge().GetValue())

	// Pull-based: the exported value follows the closure.
	v = 9.0
	families, err = promReg.Gather()
	require.NoError(t, err)
	assert.Equal(t, 9.0, families[0].GetMetric()[0].GetGauge().GetValue())
}

func TestMetricFactory(t *testing.T) {
	promReg := prometheus.NewRegistry()
	factory := metrics.NewMetricFactory(metrics.NewPromRegistry(promReg))

	errs := factory.NewAgentCollectErrorsTotal()
	dur := factory.NewAgentCollectDurationSeconds()

	errs.WithLabelValues("disk-collector").Inc()
	dur.WithLabelValues("disk-collector").Observe(0.01)

	families, err := promReg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2)
}
