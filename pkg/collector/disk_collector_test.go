package collector_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diskstats-collector/pkg/collector"
	"github.com/diskstats-collector/pkg/config"
	"github.com/diskstats-collector/pkg/logger"
	"github.com/diskstats-collector/pkg/metrics"
)

const statsFixture = `  43      15 nbd15 0 0 0 0 0 0 0 0 0 0 0
 253       0 vda 15849 7427 61206 7612 22898 20681 2109157 29309 0 9310 36904
 253       1 vda1 4930 2573 54575 6592 21858 20501 2072317 28781 0 8437 35363
`

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "disk-collector-logs")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	if _, err := logger.InitLogger(&config.ZapLogConfig{
		Level:   "error",
		Format:  "console",
		Path:    dir,
		MaxSize: 10,
		MaxAge:  1,
	}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestCollector(t *testing.T, path string, ignore []string) (*collector.DiskCollector, *metrics.NamedRegistry) {
	t.Helper()
	registerers := metrics.NewPromRegistry(prometheus.NewRegistry())
	named := metrics.NewNamedRegistry(nil)
	cfg := &config.DiskSourceConfig{
		Enable:        true,
		Path:          path,
		Prefix:        "linuxstats.diskstats",
		IgnoreDevices: ignore,
	}
	return collector.NewDiskCollector(cfg, named, metrics.NewMetricFactory(registerers)), named
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diskstats")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDiskCollectorCollect(t *testing.T) {
	path := writeFixture(t, statsFixture)
	c, reg := newTestCollector(t, path, nil)

	require.NoError(t, c.Collect(context.Background()))

	got := reg.GetMetrics()
	require.Contains(t, got, "linuxstats.diskstats.vda1.successfulReads")
	assert.Equal(t, 4930.0, got["linuxstats.diskstats.vda1.successfulReads"].Value())
	require.Contains(t, got, "linuxstats.diskstats.total.bytesRead")

	// Derived gauges appear once the second cycle has run.
	assert.NotContains(t, got, "linuxstats.diskstats.vda.iops")
	require.NoError(t, c.Collect(context.Background()))
	assert.Contains(t, reg.GetMetrics(), "linuxstats.diskstats.vda.iops")
}

func TestDiskCollectorSourceUnavailable(t *testing.T) {
	c, _ := newTestCollector(t, filepath.Join(t.TempDir(), "missing"), nil)

	err := c.Collect(context.Background())
	require.ErrorIs(t, err, collector.ErrSourceUnavailable)
}

func TestDiskCollectorMalformedLinesAreSkipped(t *testing.T) {
	path := writeFixture(t, statsFixture+"complete garbage\n")
	c, reg := newTestCollector(t, path, nil)

	// A corrupt line is logged, counted and skipped, not a cycle failure.
	require.NoError(t, c.Collect(context.Background()))
	assert.Contains(t, reg.GetMetrics(), "linuxstats.diskstats.vda.successfulReads")
}

func TestDiskCollectorIgnoreDevices(t *testing.T) {
	path := writeFixture(t, statsFixture)
	c, reg := newTestCollector(t, path, []string{"nbd15"})

	require.NoError(t, c.Collect(context.Background()))

	got := reg.GetMetrics()
	assert.NotContains(t, got, "linuxstats.diskstats.nbd15.successfulReads")
	assert.Contains(t, got, "linuxstats.diskstats.vda.successfulReads")
}

func TestDiskCollectorInitMissingFile(t *testing.T) {
	c, _ := newTestCollector(t, filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, c.Init())
}

func TestDiskCollectorName(t *testing.T) {
	path := writeFixture(t, statsFixture)
	c, _ := newTestCollector(t, path, nil)
	assert.Equal(t, "disk-collector", c.Name())
	assert.NoError(t, c.Close())
}
