package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Site identifies the portfolio the backend serves. It is passed to
// consumers explicitly instead of being read from the environment by them.
type Site struct {
	Name    string `env:"SITE_NAME" envDefault:"folio"`
	BaseURL string `env:"SITE_BASE_URL"`
}

type Config struct {
	Port          string `env:"APP_PORT" envDefault:"3000"`
	DBPath        string `env:"DB_PATH" envDefault:"./folio.db"`
	JWTSecret     string `env:"JWT_SECRET"`
	AdminUser     string `env:"ADMIN_USER" envDefault:"admin"`
	AdminPass     string `env:"ADMIN_PASS"`
	AdminTOTP     string `env:"ADMIN_TOTP_SECRET"`
	SecureCookies bool   `env:"SECURE_COOKIES" envDefault:"false"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	JWTExpiryHours     int `env:"JWT_EXPIRY_HOURS" envDefault:"24"`
	LockoutMaxAttempts int `env:"LOCKOUT_MAX_ATTEMPTS" envDefault:"5"`
	LockoutDurationMin int `env:"LOCKOUT_DURATION_MIN" envDefault:"15"`
	ContactRateLimit   int `env:"CONTACT_RATE_LIMIT" envDefault:"5"`

	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookFormat string `env:"WEBHOOK_FORMAT" envDefault:"discord"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	NotifyEmail  string `env:"NOTIFY_EMAIL"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	BackupDir      string `env:"BACKUP_DIR" envDefault:"./backups"`

	Site Site
}

// Load reads an optional .env file and the process environment. Secrets the
// admin inbox depends on are required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AdminPass == "" {
		return nil, fmt.Errorf("ADMIN_PASS is required")
	}
	if len(cfg.AdminPass) < 8 {
		slog.Warn("ADMIN_PASS is shorter than 8 characters, use a stronger password in production")
	}
	if len(cfg.JWTSecret) < 32 {
		slog.Warn("JWT_SECRET is shorter than 32 characters, use a longer secret in production")
	}

	if cfg.BackupDir != "" {
		if err := os.MkdirAll(cfg.BackupDir, 0750); err != nil {
			slog.Warn("could not create BACKUP_DIR", "dir", cfg.BackupDir, "error", err)
		}
	}

	return cfg, nil
}

// Parse reads the environment without requiring any secrets. Commands that
// never serve the inbox (sanitize, mcp, backup) use it directly.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.ContactRateLimit < 1 {
		cfg.ContactRateLimit = 1
	}
	if cfg.WebhookFormat != "discord" && cfg.WebhookFormat != "slack" {
		return nil, fmt.Errorf("WEBHOOK_FORMAT must be discord or slack, got %q", cfg.WebhookFormat)
	}
	return cfg, nil
}
