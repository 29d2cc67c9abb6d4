// Package scheduler triggers the weekly report on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/goalweek/goalweek/internal/model"
)

// Reporter produces the weekly report
type Reporter interface {
	SendWeeklyReport(ctx context.Context) (*model.WeekSummary, error)
}

// WeeklyReport runs a Reporter on a cron spec evaluated in the week's location.
type WeeklyReport struct {
	reporter Reporter
	cron     *cron.Cron
	spec     string
	timeout  time.Duration
}

func NewWeeklyReport(reporter Reporter, spec string, loc *time.Location) *WeeklyReport {
	if loc == nil {
		loc = time.UTC
	}
	logger := cronLogger{}

	return &WeeklyReport{
		reporter: reporter,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		spec:    spec,
		timeout: 5 * time.Minute,
	}
}

// Start registers the job and starts the cron engine in its own goroutine.
func (w *WeeklyReport) Start() error {
	_, err := w.cron.AddFunc(w.spec, w.run)
	if err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", w.spec, err)
	}

	w.cron.Start()
	slog.Info("weekly report scheduler started", "spec", w.spec, "next", w.Next())

	return nil
}

// Stop stops scheduling and waits for a running report to finish or ctx to expire.
func (w *WeeklyReport) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		slog.Info("weekly report scheduler stopped")
	case <-ctx.Done():
		slog.Warn("weekly report scheduler stop timed out")
	}
}

// Next returns the next scheduled run, zero when nothing is scheduled.
func (w *WeeklyReport) Next() time.Time {
	entries := w.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (w *WeeklyReport) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	slog.Info("running weekly report")
	if _, err := w.reporter.SendWeeklyReport(ctx); err != nil {
		slog.Error("weekly report failed", "error", err)
	}
}

// cronLogger routes cron's own logs through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
