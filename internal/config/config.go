package config

import (
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"   // Local file database (default)
	DatabaseDriverPostgres DatabaseDriver = "postgres" // Shared PostgreSQL server
)

type (
	Config struct {
		HTTP
		Global
		Database
		Reports
		RateLimit
		Tasks
		ReportSchedule
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver   DatabaseDriver
		Path     string // SQLite file path
		DSN      string // PostgreSQL connection string
		LogLevel string // silent, error, warn, info
	}
	Reports struct {
		Dir       string
		Retention time.Duration // Report files older than this are removed (0 keeps everything)
	}
	RateLimit struct {
		Enabled  bool
		Requests int           // Requests allowed per window (default: 10)
		Window   time.Duration // Window length (default: 5m)
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration

		// Cron schedule for report and audit retention cleanup
		MaintenanceSchedule string
	}
	ReportSchedule struct {
		Enabled  bool
		Schedule string        // Cron format: "0 2 * * *" = daily at 02:00
		Lookback time.Duration // Window covered by each scheduled report
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")

	v.SetDefault("reports_dir", DefaultReportsDir)
	v.SetDefault("reports_retention", "720h") // 30 days

	// 10 requests per 5 minutes per client
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_requests", 10)
	v.SetDefault("rate_limit_window", "5m")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("maintenance_schedule", "30 3 * * *")

	v.SetDefault("report_schedule_enabled", false)
	v.SetDefault("report_schedule", "0 2 * * *")
	v.SetDefault("report_schedule_lookback", "24h")

	v.SetDefault("audit_retention_days", 30)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:     v.GetString("DATABASE_PATH"),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Reports: Reports{
			Dir:       v.GetString("REPORTS_DIR"),
			Retention: v.GetDuration("REPORTS_RETENTION"),
		},
		RateLimit: RateLimit{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Tasks: Tasks{
			Enabled:             v.GetBool("TASKS_ENABLED"),
			Workers:             v.GetInt("TASK_WORKERS"),
			ReleaseAfter:        v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:     v.GetDuration("TASK_CLEANUP_INTERVAL"),
			MaintenanceSchedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
		ReportSchedule: ReportSchedule{
			Enabled:  v.GetBool("REPORT_SCHEDULE_ENABLED"),
			Schedule: v.GetString("REPORT_SCHEDULE"),
			Lookback: v.GetDuration("REPORT_SCHEDULE_LOOKBACK"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
