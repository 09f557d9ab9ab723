package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/yinchen618/pu-in-practice/internal/config"
	"github.com/yinchen618/pu-in-practice/internal/models"
)

// ModelLister and RunConfigSource only hit the cached request path.
type ModelLister interface {
	ListModelsByScenario(ctx context.Context, runID string, scenario models.ScenarioType) []models.TrainedModel
}

type RunConfigSource interface {
	ConfigFromRun(ctx context.Context, runID string) *models.PartialExperimentConfig
}

// CacheWarmer keeps per-run listings and run configs hot in the shared
// request cache so the case-study pages load without a backend round trip.
type CacheWarmer struct {
	registry ModelLister
	resolver RunConfigSource
	config   config.WarmerConfig
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

// WarmResult summarises one warming pass.
type WarmResult struct {
	Runs       int
	Models     int
	Configs    int
	Unresolved []string
}

func NewCacheWarmer(registry ModelLister, resolver RunConfigSource, cfg config.WarmerConfig, timeout time.Duration, logger *zap.Logger) *CacheWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheWarmer{
		registry: registry,
		resolver: resolver,
		config:   cfg,
		timeout:  timeout,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start schedules RunOnce on the configured cron expression.
func (cw *CacheWarmer) Start() error {
	if !cw.config.Enabled {
		cw.logger.Info("Cache warmer is disabled, skipping scheduler")
		return nil
	}
	if len(cw.config.RunIDs) == 0 {
		cw.logger.Info("Cache warmer has no run ids, skipping scheduler")
		return nil
	}

	_, err := cw.cron.AddFunc(cw.config.Schedule, func() {
		ctx := context.Background()
		if cw.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cw.timeout)
			defer cancel()
		}
		cw.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cache warmer: %w", err)
	}

	cw.cron.Start()
	cw.logger.Info("Cache warmer started",
		zap.String("schedule", cw.config.Schedule),
		zap.Int("runs", len(cw.config.RunIDs)))
	return nil
}

// Stop waits for a running pass to finish.
func (cw *CacheWarmer) Stop() {
	if cw.cron != nil {
		<-cw.cron.Stop().Done()
		cw.logger.Info("Cache warmer stopped")
	}
}

// RunOnce performs a single warming pass over the configured run ids.
func (cw *CacheWarmer) RunOnce(ctx context.Context) WarmResult {
	var result WarmResult
	for _, runID := range cw.config.RunIDs {
		if ctx.Err() != nil {
			break
		}
		result.Runs++

		// one upstream call per run; the remaining scenarios are cache hits
		for _, scenario := range models.KnownScenariosList() {
			result.Models += len(cw.registry.ListModelsByScenario(ctx, runID, models.ScenarioType(scenario)))
		}

		if cw.resolver.ConfigFromRun(ctx, runID) != nil {
			result.Configs++
		} else {
			result.Unresolved = append(result.Unresolved, runID)
		}
	}

	cw.logger.Info("Cache warm pass finished",
		zap.Int("runs", result.Runs),
		zap.Int("models", result.Models),
		zap.Int("configs", result.Configs),
		zap.Strings("unresolved", result.Unresolved))
	return result
}
