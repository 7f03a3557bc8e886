package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/driftbyte/esdump/pkg/config"
)

func scheduleConfig(expr string) *config.Config {
	cfg := config.NewDefault()
	cfg.Schedule.Cron = expr
	return cfg
}

func TestScheduler_StartRejectsInvalidCron(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "empty expression", expr: ""},
		{name: "garbage expression", expr: "not a schedule"},
		{name: "too many fields", expr: "* * * * * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(scheduleConfig(tt.expr), func(context.Context, *config.Config) error { return nil })
			if err := s.Start(context.Background()); err == nil {
				s.Stop()
				t.Error("expected error for invalid cron expression")
			}
		})
	}
}

func TestScheduler_StartAndStop(t *testing.T) {
	s := New(scheduleConfig("* * * * *"), func(context.Context, *config.Config) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next := s.NextRun()
	if next == nil {
		t.Fatal("expected a next run time while running")
	}
	if !next.After(time.Now().Add(-time.Second)) {
		t.Errorf("next run is in the past: %s", next)
	}

	s.Stop()
	// A second Stop is a no-op.
	s.Stop()
}

func TestScheduler_NextRunBeforeStart(t *testing.T) {
	s := New(scheduleConfig("* * * * *"), func(context.Context, *config.Config) error { return nil })
	if next := s.NextRun(); next != nil {
		t.Errorf("expected nil next run before start, got %s", next)
	}
}

func TestScheduler_SkipsOverlappingCycles(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int
	var mu sync.Mutex

	s := New(scheduleConfig("* * * * *"), func(context.Context, *config.Config) error {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return nil
	})

	ctx := context.Background()
	go s.runCycle(ctx)
	<-started

	// A tick while the first cycle is still running must be skipped.
	s.runCycle(ctx)
	close(release)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected overlapping cycle to be skipped, got %d calls", calls)
	}
}

func TestScheduler_UpdateConfigReachesNextCycle(t *testing.T) {
	got := make(chan *config.Config, 1)
	s := New(scheduleConfig("* * * * *"), func(_ context.Context, cfg *config.Config) error {
		got <- cfg
		return nil
	})

	updated := scheduleConfig("* * * * *")
	updated.Export.BatchSize = 42
	s.UpdateConfig(updated)

	s.runCycle(context.Background())

	select {
	case cfg := <-got:
		if cfg.Export.BatchSize != 42 {
			t.Errorf("cycle ran with stale config, batch size %d", cfg.Export.BatchSize)
		}
	default:
		t.Fatal("cycle did not run")
	}
}
