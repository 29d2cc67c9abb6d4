package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/goalweek/goalweek/internal/validation"
	"github.com/goalweek/goalweek/internal/week"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Maximum time to drain in-flight requests on shutdown
	ShutdownTimeout time.Duration

	// Database (default: sqlite; DATABASE_URL switches to postgres)
	DBDriver     string
	DBConnection string

	// Week convention
	WeekStart string
	Timezone  string
	Calendar  week.Calendar

	// HTTP
	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
	TrustedProxies []netip.Prefix

	// Observability
	LogLevel  string
	SentryDSN string

	// Weekly report
	ReportEnabled bool
	ReportCron    string
	DigestEmail   string
	EmailFrom     string
	ResendAPIKey  string

	// Summary archive (S3-compatible, optional)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "Goalweek"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "3333"),

		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/goalweek.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite"),

		WeekStart: envString("WEEK_START", "sunday"),
		Timezone:  envString("TIMEZONE", "UTC"),

		CORSOrigin:     envString("CORS_ORIGIN", "*"),
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 20),

		LogLevel:  envString("LOG_LEVEL", ""),
		SentryDSN: envString("SENTRY_DSN", ""),

		ReportEnabled: envBool("REPORT_ENABLED", true),
		ReportCron:    envString("REPORT_CRON", ""),
		DigestEmail:   envString("DIGEST_EMAIL", ""),
		EmailFrom:     envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey:  envString("RESEND_API_KEY", ""),

		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	// The original deployment only knew DATABASE_URL
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DBDriver = "pgx"
		cfg.DBConnection = url
	}

	cfg.Calendar, err = week.NewCalendar(cfg.WeekStart, cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid week configuration: %w", err)
	}

	// Default to the last evening of the configured week
	if cfg.ReportCron == "" {
		cfg.ReportCron = defaultReportCron(cfg.Calendar.FirstDay)
	}

	cfg.TrustedProxies, err = parseTrustedProxies(envString("TRUSTED_PROXIES", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	switch c.AppEnv {
	case "development", "production":
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be development or production, got %q", c.AppEnv))
	}

	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or pgx, got %q", c.DBDriver))
	}

	if c.DigestEmail != "" {
		if err := validation.ValidateEmail(c.DigestEmail); err != nil {
			errs = append(errs, fmt.Errorf("DIGEST_EMAIL: %w", err))
		}
		// Development logs digests instead of sending them
		if c.IsProduction() && c.ResendAPIKey == "" {
			errs = append(errs, errors.New("production digest delivery requires RESEND_API_KEY"))
		}
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}

	return errors.Join(errs...)
}

// defaultReportCron fires at 23:55 on the day before firstDay.
func defaultReportCron(firstDay time.Weekday) string {
	lastDay := (firstDay + 6) % 7
	return fmt.Sprintf("55 23 * * %s", strings.ToUpper(lastDay.String()[:3]))
}

// parseTrustedProxies reads a comma-separated list of IPs and CIDRs.
func parseTrustedProxies(list string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ArchiveEnabled reports whether weekly summaries are written to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}
