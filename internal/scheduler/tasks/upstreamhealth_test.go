package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wherewatch/wherewatch/internal/config"
	"github.com/wherewatch/wherewatch/internal/health"
	"github.com/wherewatch/wherewatch/internal/scheduler"
)

func TestUpstreamHealthTask_Run(t *testing.T) {
	svc := health.NewService(zerolog.Nop())
	svc.RegisterItem("catalog", "TMDB", health.StatusError, func(ctx context.Context) error {
		return errors.New("invalid API key")
	})
	svc.RegisterItem("geolocation", "Geolocation", health.StatusWarning, func(ctx context.Context) error {
		return nil
	})

	task := NewUpstreamHealthTask(svc, zerolog.Nop())
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	item := svc.GetItem("catalog")
	if item.Status != health.StatusError || item.Message != "invalid API key" {
		t.Errorf("catalog = %+v, want error with message", item)
	}
	if !svc.IsHealthy("geolocation") {
		t.Error("geolocation should be healthy")
	}
}

func TestUpstreamHealthTask_RunCancelled(t *testing.T) {
	svc := health.NewService(zerolog.Nop())
	svc.RegisterItem("catalog", "TMDB", health.StatusError, func(ctx context.Context) error {
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := NewUpstreamHealthTask(svc, zerolog.Nop())
	if err := task.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if !svc.IsHealthy("catalog") {
		t.Error("a cancelled run must not mark the catalog failed")
	}
}

func TestRegisterUpstreamHealthTask_DefaultInterval(t *testing.T) {
	sched, err := scheduler.New(zerolog.Nop())
	if err != nil {
		t.Fatalf("scheduler.New() error = %v", err)
	}
	t.Cleanup(func() { _ = sched.Stop() })

	svc := health.NewService(zerolog.Nop())
	if err := RegisterUpstreamHealthTask(sched, svc, config.HealthConfig{}, zerolog.Nop()); err != nil {
		t.Fatalf("RegisterUpstreamHealthTask() error = %v", err)
	}

	info, err := sched.GetTask(UpstreamHealthTaskID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if info.Interval != "15m0s" {
		t.Errorf("Interval = %q, want 15m0s", info.Interval)
	}
}

func TestRegisterUpstreamHealthTask_RunNow(t *testing.T) {
	sched, err := scheduler.New(zerolog.Nop())
	if err != nil {
		t.Fatalf("scheduler.New() error = %v", err)
	}
	t.Cleanup(func() { _ = sched.Stop() })

	var calls atomic.Int32
	checked := make(chan struct{}, 1)
	svc := health.NewService(zerolog.Nop())
	svc.RegisterItem("catalog", "TMDB", health.StatusError, func(ctx context.Context) error {
		calls.Add(1)
		select {
		case checked <- struct{}{}:
		default:
		}
		return errors.New("connection refused")
	})

	cfg := config.HealthConfig{CheckInterval: time.Hour}
	if err := RegisterUpstreamHealthTask(sched, svc, cfg, zerolog.Nop()); err != nil {
		t.Fatalf("RegisterUpstreamHealthTask() error = %v", err)
	}

	// Start is not called, so only RunNow triggers the check.
	if err := sched.RunNow(UpstreamHealthTaskID); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}

	select {
	case <-checked:
	case <-time.After(2 * time.Second):
		t.Fatal("upstream check was not called")
	}

	deadline := time.Now().Add(2 * time.Second)
	for svc.IsHealthy("catalog") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if svc.IsHealthy("catalog") {
		t.Error("catalog should be marked failed after the scheduled check")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("check calls = %d, want 1", got)
	}

	info, err := sched.GetTask(UpstreamHealthTaskID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if info.Interval != "1h0m0s" {
		t.Errorf("Interval = %q, want 1h0m0s", info.Interval)
	}
}
