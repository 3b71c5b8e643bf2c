package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New(zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Start()
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

// waitForRun polls until the task has a recorded last run.
func waitForRun(t *testing.T, s *Scheduler, id string) *TaskInfo {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		info, err := s.GetTask(id)
		if err != nil {
			t.Fatalf("GetTask(%q) error = %v", id, err)
		}
		if info.LastRun != nil && !info.Running {
			return info
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %q did not complete in time", id)
	return nil
}

func TestScheduler_RunNow(t *testing.T) {
	s := newTestScheduler(t)

	ran := make(chan struct{}, 1)
	err := s.RegisterTask(TaskConfig{
		ID:       "check-upstreams",
		Name:     "Check Upstreams",
		Interval: time.Hour,
		Func: func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("RegisterTask() error = %v", err)
	}

	if err := s.RunNow("check-upstreams"); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}

	info := waitForRun(t, s, "check-upstreams")
	if info.LastError != "" {
		t.Errorf("LastError = %q, want empty", info.LastError)
	}
	if info.Interval != "1h0m0s" {
		t.Errorf("Interval = %q, want 1h0m0s", info.Interval)
	}
}

func TestScheduler_RunNow_RecordsError(t *testing.T) {
	s := newTestScheduler(t)

	err := s.RegisterTask(TaskConfig{
		ID:       "failing",
		Name:     "Failing",
		Interval: time.Hour,
		Func: func(ctx context.Context) error {
			return errors.New("upstream unreachable")
		},
	})
	if err != nil {
		t.Fatalf("RegisterTask() error = %v", err)
	}

	if err := s.RunNow("failing"); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}

	info := waitForRun(t, s, "failing")
	if info.LastError != "upstream unreachable" {
		t.Errorf("LastError = %q, want upstream unreachable", info.LastError)
	}
}

func TestScheduler_RunNow_UnknownTask(t *testing.T) {
	s := newTestScheduler(t)

	if err := s.RunNow("missing"); err == nil {
		t.Error("RunNow(missing) expected error")
	}
	if _, err := s.GetTask("missing"); err == nil {
		t.Error("GetTask(missing) expected error")
	}
}

func TestScheduler_RegisterTask_Validation(t *testing.T) {
	s := newTestScheduler(t)
	noop := func(ctx context.Context) error { return nil }

	if err := s.RegisterTask(TaskConfig{ID: "zero", Func: noop}); err == nil {
		t.Error("zero interval should be rejected")
	}

	cfg := TaskConfig{ID: "dup", Name: "Dup", Interval: time.Hour, Func: noop}
	if err := s.RegisterTask(cfg); err != nil {
		t.Fatalf("first RegisterTask() error = %v", err)
	}
	if err := s.RegisterTask(cfg); err == nil {
		t.Error("duplicate ID should be rejected")
	}

	tasks := s.ListTasks()
	if len(tasks) != 1 || tasks[0].ID != "dup" {
		t.Errorf("ListTasks() = %+v, want only dup", tasks)
	}
}

func TestScheduler_StopCancelsRunningTask(t *testing.T) {
	s, err := New(zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Start()

	started := make(chan struct{})
	done := make(chan error, 1)
	err = s.RegisterTask(TaskConfig{
		ID:       "slow",
		Name:     "Slow",
		Interval: time.Hour,
		Func: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			done <- ctx.Err()
			return ctx.Err()
		},
	})
	if err != nil {
		t.Fatalf("RegisterTask() error = %v", err)
	}

	if err := s.RunNow("slow"); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}
	<-started

	if err := s.RunNow("slow"); err == nil {
		t.Error("RunNow() on a running task expected error")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("task ctx error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("running task was not cancelled by Stop")
	}
}
