package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/goalweek/goalweek/internal/model"
)

// Mailer delivers the weekly digest
type Mailer interface {
	SendWeeklyDigest(ctx context.Context, to string, summary *model.WeekSummary, archiveURL string) error
}

type EmailService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

func (s *EmailService) SendWeeklyDigest(ctx context.Context, to string, summary *model.WeekSummary, archiveURL string) error {
	subject, body := weeklyDigestEmailTemplate(summary, archiveURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "weekly_digest", "to", to, "subject", subject)
		slog.Debug("weekly digest body", "body", body)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send weekly digest: %w", err)
	}

	slog.Info("email sent", "type", "weekly_digest", "to", to)
	return nil
}
