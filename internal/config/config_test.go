package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(3000), cfg.HTTP.Port)
	assert.Equal(t, DatabaseDriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultReportsDir, cfg.Reports.Dir)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.Requests)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.ReportSchedule.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.ReportSchedule.Lookback)
	assert.Equal(t, "30 3 * * *", cfg.Tasks.MaintenanceSchedule)
	assert.Equal(t, 30, cfg.Audit.RetentionDays)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://library@localhost/library")
	t.Setenv("RATE_LIMIT_REQUESTS", "50")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("REPORTS_DIR", "/var/lib/library/reports")

	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://library@localhost/library", cfg.Database.DSN)
	assert.Equal(t, 50, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "/var/lib/library/reports", cfg.Reports.Dir)
}
