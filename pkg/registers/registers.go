package registers

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/diskstats-collector/pkg/collector"
	"github.com/diskstats-collector/pkg/config"
	"github.com/diskstats-collector/pkg/logger"
	"github.com/diskstats-collector/pkg/metrics"
)

// Module describes one registrable collector behind its config switch.
type Module struct {
	Enabled bool
	Name    string
	NewFunc func() Collector
}

// InitPromRegistry builds the Prometheus registry, the named gauge registry
// bridged onto it and the collector agent, then starts the collection loop.
// The returned *prometheus.Registry feeds the HTTP /metrics endpoint.
func InitPromRegistry(ctx context.Context, enableProcess bool, cfg *config.Config) (*prometheus.Registry, Agent, error) {
	promReg := prometheus.NewRegistry()
	// Process metrics only when asked for, Go runtime metrics stay off.
	if enableProcess {
		promReg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	}

	registerers := metrics.NewPromRegistry(promReg)
	metricFactory := metrics.NewMetricFactory(registerers)

	// The single process-wide gauge namespace every collector publishes into.
	named := metrics.NewNamedRegistry(registerers)

	agent := NewAgent(cfg.Monitor.Interval)

	registered, err := RegisterCollectors(agent, cfg, named, metricFactory)
	if err != nil {
		logger.Error("failed to register collectors", zap.Error(err))
		return nil, nil, err
	}

	agent.Start(ctx)

	var names []string
	for _, c := range registered {
		names = append(names, c.Name())
	}
	logger.Info("collector monitor started",
		zap.Strings("collectors", names),
		zap.Duration("interval", cfg.Monitor.Interval))

	return promReg, agent, nil
}

// RegisterCollectors is the single registration entry point: adding a data
// source means adding one Module entry here.
func RegisterCollectors(agent Agent, cfg *config.Config, registry metrics.Registry, metricFactory *metrics.MetricFactory) ([]Collector, error) {
	modules := []Module{
		{
			Enabled: cfg.Monitor.Collectors.Disk.Enable,
			Name:    "disk",
			NewFunc: func() Collector {
				return collector.NewDiskCollector(&cfg.Monitor.Collectors.Disk, registry, metricFactory)
			},
		},
	}

	var registered []Collector
	for _, m := range modules {
		if !m.Enabled {
			logger.Debug("collector disabled", zap.String("name", m.Name))
			continue
		}
		c := m.NewFunc()
		agent.Register(c)
		registered = append(registered, c)
		logger.Debug("registered collector module", zap.String("name", m.Name))
	}
	if len(registered) == 0 {
		return nil, fmt.Errorf("no collectors enabled; check the collector config")
	}
	return registered, nil
}
