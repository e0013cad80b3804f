// Package refresh reloads the activity catalog on a cron schedule.
//
// The Trigger type wraps a Loader and calls it according to a cron schedule. It is
// designed to be started once and run until the context is cancelled.
//
// Example usage:
//
//	trigger, err := refresh.NewTrigger("*/5 * * * *", board, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trigger.Start(ctx)  // Returns immediately, runs in background
//	<-ctx.Done()        // Wait for shutdown signal
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidCronSpec is returned when the cron specification cannot be parsed.
var ErrInvalidCronSpec = errors.New("invalid cron spec")

// Loader is implemented by anything that can reload the catalog.
type Loader interface {
	LoadAndRender(ctx context.Context) error
}

// Status describes the trigger's schedule and its last refresh.
type Status struct {
	Schedule  string     `json:"schedule"`
	NextRun   time.Time  `json:"next_run"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// Trigger reloads a Loader according to a cron schedule.
type Trigger struct {
	spec     string
	schedule cron.Schedule
	loader   Loader
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	lastRun *time.Time
	lastErr error
}

// NewTrigger creates a new Trigger with the given cron specification.
// The spec follows standard cron format (5 fields: minute, hour, day, month, weekday).
// Returns ErrInvalidCronSpec if the specification cannot be parsed.
func NewTrigger(spec string, loader Loader, logger *slog.Logger) (*Trigger, error) {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Trigger{
		spec:     spec,
		schedule: schedule,
		loader:   loader,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// ParseSchedule parses a 5 field cron spec.
func ParseSchedule(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Join(ErrInvalidCronSpec, err)
	}
	return schedule, nil
}

// Start launches a goroutine that refreshes according to the cron schedule.
// Returns immediately. The goroutine exits when ctx is cancelled.
func (t *Trigger) Start(ctx context.Context) {
	go t.loop(ctx)
}

// NextRun returns the next scheduled refresh time from now.
func (t *Trigger) NextRun() time.Time {
	return t.schedule.Next(t.now())
}

// Status returns the schedule, next run and outcome of the last refresh.
func (t *Trigger) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Status{Schedule: t.spec, NextRun: t.NextRun(), LastRun: t.lastRun}
	if t.lastErr != nil {
		s.LastError = t.lastErr.Error()
	}
	return s
}

// RunNow performs a refresh immediately, outside of the schedule.
func (t *Trigger) RunNow(ctx context.Context) error {
	t.logger.Info("refreshing activity catalog")

	err := t.loader.LoadAndRender(ctx)
	ran := t.now()

	t.mu.Lock()
	t.lastRun = &ran
	t.lastErr = err
	t.mu.Unlock()

	if err != nil {
		t.logger.Warn("catalog refresh failed", "error", err)
	} else {
		t.logger.Info("catalog refresh completed")
	}
	return err
}

func (t *Trigger) loop(ctx context.Context) {
	for {
		nextRun := t.schedule.Next(t.now())
		waitDuration := time.Until(nextRun)

		t.logger.Debug("waiting for next scheduled refresh",
			"next_run", nextRun,
			"wait_duration", waitDuration,
		)

		timer := time.NewTimer(waitDuration)
		select {
		case <-ctx.Done():
			timer.Stop()
			t.logger.Info("refresh trigger shutting down")
			return
		case <-timer.C:
			_ = t.RunNow(ctx)
		}
	}
}
