package tasks

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wherewatch/wherewatch/internal/config"
	"github.com/wherewatch/wherewatch/internal/health"
	"github.com/wherewatch/wherewatch/internal/scheduler"
)

// UpstreamHealthTaskID identifies the upstream health check task.
const UpstreamHealthTaskID = "upstream-health"

const defaultCheckInterval = 15 * time.Minute

// UpstreamHealthTask tests every registered upstream.
type UpstreamHealthTask struct {
	health *health.Service
	logger zerolog.Logger
}

// NewUpstreamHealthTask creates a new upstream health check task.
func NewUpstreamHealthTask(healthSvc *health.Service, logger zerolog.Logger) *UpstreamHealthTask {
	return &UpstreamHealthTask{
		health: healthSvc,
		logger: logger.With().Str("task", UpstreamHealthTaskID).Logger(),
	}
}

// Run executes the upstream health check.
func (t *UpstreamHealthTask) Run(ctx context.Context) error {
	results := t.health.TestAll(ctx)

	failed := 0
	for _, result := range results {
		if !result.Success {
			failed++
			t.logger.Warn().Str("id", result.ID).Str("message", result.Message).Msg("Upstream health check failed")
		}
	}

	t.logger.Info().Int("checked", len(results)).Int("failed", failed).Msg("Upstream health check completed")
	return ctx.Err()
}

// RegisterUpstreamHealthTask registers the upstream health check with the scheduler.
func RegisterUpstreamHealthTask(sched *scheduler.Scheduler, healthSvc *health.Service, cfg config.HealthConfig, logger zerolog.Logger) error {
	task := NewUpstreamHealthTask(healthSvc, logger)

	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = defaultCheckInterval
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          UpstreamHealthTaskID,
		Name:        "Upstream Health Check",
		Description: "Tests connectivity to the catalog and geolocation services",
		Interval:    interval,
		RunOnStart:  true,
		Func:        task.Run,
	})
}
