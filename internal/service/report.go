package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goalweek/goalweek/internal/metrics"
	"github.com/goalweek/goalweek/internal/model"
	"github.com/goalweek/goalweek/internal/storage"
	"github.com/goalweek/goalweek/internal/week"
)

const archiveLinkExpiry = 7 * 24 * time.Hour

// ReportService archives the weekly summary and e-mails a digest.
// storage and mailer are optional; a nil storage skips the archive and an
// empty recipient skips the digest.
type ReportService struct {
	goals     *GoalService
	storage   storage.Storage
	mailer    Mailer
	recipient string
}

func NewReportService(goals *GoalService, storage storage.Storage, mailer Mailer, recipient string) *ReportService {
	return &ReportService{
		goals:     goals,
		storage:   storage,
		mailer:    mailer,
		recipient: recipient,
	}
}

// ArchiveKey is the object key of the summary for the week starting at weekStart.
func ArchiveKey(weekStart time.Time) string {
	return fmt.Sprintf("summaries/%s.json", weekStart.Format(week.DateLayout))
}

// SendWeeklyReport computes the current week summary, archives it and sends the digest.
// A failing summary aborts the run; archive and digest failures are joined.
func (s *ReportService) SendWeeklyReport(ctx context.Context) (*model.WeekSummary, error) {
	start := time.Now()

	summary, err := s.goals.WeekSummary(ctx)
	if err != nil {
		metrics.ReportRun(time.Since(start), false)
		return nil, fmt.Errorf("weekly report: %w", err)
	}

	var errs []error

	archiveURL, err := s.archive(ctx, summary)
	if err != nil {
		slog.Error("weekly report archive failed", "error", err, "week_start", summary.WeekStart)
		errs = append(errs, err)
	}

	if s.mailer != nil && s.recipient != "" {
		err = s.mailer.SendWeeklyDigest(ctx, s.recipient, summary, archiveURL)
		if err != nil {
			slog.Error("weekly report digest failed", "error", err, "to", s.recipient)
			errs = append(errs, err)
		}
	}

	err = errors.Join(errs...)
	metrics.ReportRun(time.Since(start), err == nil)

	slog.Info("weekly report finished",
		"week_start", summary.WeekStart,
		"completed", summary.Completed,
		"total", summary.Total,
		"failures", len(errs),
	)

	return summary, err
}

func (s *ReportService) archive(ctx context.Context, summary *model.WeekSummary) (string, error) {
	if s.storage == nil {
		return "", nil
	}

	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	key := ArchiveKey(summary.WeekStart)
	err = s.storage.Save(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to archive summary: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, key, archiveLinkExpiry)
	if err != nil {
		// the archive exists, only the link is missing from the digest
		slog.Warn("failed to presign summary link", "error", err, "key", key)
		return "", nil
	}

	return url, nil
}
