package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/goalweek/goalweek/internal/config"
	"github.com/goalweek/goalweek/internal/db"
	"github.com/goalweek/goalweek/internal/middleware"
	"github.com/goalweek/goalweek/internal/repository"
	"github.com/goalweek/goalweek/internal/scheduler"
	"github.com/goalweek/goalweek/internal/service"
	"github.com/goalweek/goalweek/internal/storage"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	Store         *repository.Store
	GoalService   *service.GoalService
	EmailService  *service.EmailService
	ReportService *service.ReportService
	RateLimiter   *middleware.RateLimiter
	// Scheduler is nil when REPORT_ENABLED is false
	Scheduler *scheduler.WeeklyReport
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.Ping(ctx, database)
	if err != nil {
		db.Close(database)
		return nil, err
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store := repository.NewStore(database)
	goalService := service.NewGoalService(store, cfg.Calendar)

	// Archive storage is optional; a nil interface disables it
	var archive storage.Storage
	if cfg.ArchiveEnabled() {
		s3Storage, err := storage.New(ctx, cfg)
		if err != nil {
			db.Close(database)
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		archive = s3Storage
	}

	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	reportService := service.NewReportService(goalService, archive, emailService, cfg.DigestEmail)

	var weekly *scheduler.WeeklyReport
	if cfg.ReportEnabled {
		weekly = scheduler.NewWeeklyReport(reportService, cfg.ReportCron, cfg.Calendar.Location)
	} else {
		slog.Info("weekly report disabled")
	}

	return &App{
		Cfg:           cfg,
		DB:            database,
		Store:         store,
		GoalService:   goalService,
		EmailService:  emailService,
		ReportService: reportService,
		RateLimiter:   middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxies...),
		Scheduler:     weekly,
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
