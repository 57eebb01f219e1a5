package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Retry
		Loans
		Session
		Maintenance
		UI
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path        string
		BusyTimeout time.Duration // how long a write waits for the writer lock
	}
	// Retry controls the bounded-retry policy applied to transactions that
	// hit transient "database is locked" conditions.
	Retry struct {
		MaxAttempts  int
		InitialDelay time.Duration
		Backoff      float64 // delay multiplier between attempts
	}
	Loans struct {
		PeriodDays int // default lending period used to compute due dates
	}
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool   // set to false for local dev without HTTPS
		CSRFSecret    string // auto-generated if empty
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // cron format: "0 * * * *" = hourly
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_busy_timeout", "30s")
	v.SetDefault("retry_max_attempts", DefaultRetryMaxAttempts)
	v.SetDefault("retry_initial_delay", "50ms")
	v.SetDefault("retry_backoff", DefaultRetryBackoff)
	v.SetDefault("loan_period_days", DefaultLoanPeriodDays)
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("secure_cookies", true)
	v.SetDefault("csrf_secret", "")
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path:        v.GetString("DATABASE_PATH"),
			BusyTimeout: v.GetDuration("DATABASE_BUSY_TIMEOUT"),
		},
		Retry: Retry{
			MaxAttempts:  v.GetInt("RETRY_MAX_ATTEMPTS"),
			InitialDelay: v.GetDuration("RETRY_INITIAL_DELAY"),
			Backoff:      v.GetFloat64("RETRY_BACKOFF"),
		},
		Loans: Loans{
			PeriodDays: v.GetInt("LOAN_PERIOD_DAYS"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
			CSRFSecret:    v.GetString("CSRF_SECRET"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
