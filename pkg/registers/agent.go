package registers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/diskstats-collector/pkg/logger"
)

// AgentImpl drives all registered collectors from a single ticker. One tick
// triggers one collection cycle per collector; a failing collector is logged
// and does not block the others.
type AgentImpl struct {
	collectors []Collector
	interval   time.Duration
	ticker     *time.Ticker
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
}

// NewAgent creates the collector agent with its internal shutdown context.
func NewAgent(interval time.Duration) *AgentImpl {
	ctx, cancel := context.WithCancel(context.Background())
	return &AgentImpl{
		collectors: make([]Collector, 0),
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Register adds a collector, skipping duplicates by name.
func (r *AgentImpl) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.collectors {
		if existing.Name() == c.Name() {
			logger.Warn("collector already registered, skip", zap.String("collector", c.Name()))
			return
		}
	}
	r.collectors = append(r.collectors, c)
	logger.Info("registered collector", zap.String("collector", c.Name()))
}

// InitAll initializes every registered collector, stopping at the first
// failure.
func (r *AgentImpl) InitAll() error {
	for _, coll := range r.collectors {
		if err := coll.Init(); err != nil {
			logger.Error("failed to init collector", zap.String("collector", coll.Name()), zap.Error(err))
			return fmt.Errorf("collector %s init failed: %w", coll.Name(), err)
		}
		logger.Debug("collector initialized", zap.String("collector", coll.Name()))
	}
	return nil
}

// Start initializes the collectors and launches the ticker loop. The loop
// responds both to the external context and to Shutdown.
func (r *AgentImpl) Start(ctx context.Context) {
	if err := r.InitAll(); err != nil {
		logger.Fatal("failed to init all collectors", zap.Error(err))
	}

	r.ticker = time.NewTicker(r.interval)
	logger.Info("collector agent started",
		zap.Duration("interval", r.interval),
		zap.Int("collectors", len(r.collectors)))

	go func() {
		// First collection right away so gauges exist before the first tick.
		if err := r.CollectAll(ctx); err != nil {
			logger.Warn("first collection failed", zap.Error(err))
		}

		for {
			select {
			case <-r.ticker.C:
				_ = r.CollectAll(ctx) // one failing collector does not stop the loop
			case <-ctx.Done():
				r.ticker.Stop()
				logger.Info("collector agent stopped by external context", zap.Error(ctx.Err()))
				return
			case <-r.ctx.Done():
				r.ticker.Stop()
				logger.Info("collector agent stopped by shutdown")
				return
			}
		}
	}()
}

// Shutdown stops the ticker loop and closes every collector.
func (r *AgentImpl) Shutdown(ctx context.Context) error {
	logger.Info("shutting down collector agent")
	if r.ticker != nil {
		r.ticker.Stop()
	}
	r.cancel()
	return r.CloseAll()
}

// CollectAll runs one collection cycle over all collectors.
func (r *AgentImpl) CollectAll(ctx context.Context) error {
	var hasErr bool
	for _, coll := range r.collectors {
		if err := coll.Collect(ctx); err != nil {
			logger.Warn("collection failed", zap.String("collector", coll.Name()), zap.Error(err))
			hasErr = true
		}
	}
	if hasErr {
		return fmt.Errorf("some collectors failed to collect data")
	}
	return nil
}

// CloseAll closes every collector and returns the last error without
// stopping early.
func (r *AgentImpl) CloseAll() error {
	var lastErr error
	for _, coll := range r.collectors {
		if err := coll.Close(); err != nil {
			logger.Error("failed to close collector", zap.String("collector", coll.Name()), zap.Error(err))
			lastErr = err
		} else {
			logger.Debug("collector closed", zap.String("collector", coll.Name()))
		}
	}
	return lastErr
}
