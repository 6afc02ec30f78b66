package http

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	healthOK            = "ok"
	healthNotConfigured = "not configured"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// healthCheck returns healthOK, healthNotConfigured or an error description.
type healthCheck func() string

type HealthController struct {
	checks  map[string]healthCheck
	version string
}

// NewHealthController checks the database and, when reportsDir is set,
// that report files can be created there.
func NewHealthController(db Pinger, reportsDir, version string) *HealthController {
	return &HealthController{
		checks: map[string]healthCheck{
			"database": pingCheck(db),
			"reports":  writableDirCheck(reportsDir),
		},
		version: version,
	}
}

func pingCheck(db Pinger) healthCheck {
	return func() string {
		if db == nil {
			return healthNotConfigured
		}
		if err := db.Ping(); err != nil {
			return "error: " + err.Error()
		}
		return healthOK
	}
}

func writableDirCheck(dir string) healthCheck {
	return func() string {
		if dir == "" {
			return healthNotConfigured
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		probe, err := os.CreateTemp(dir, ".health-*")
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		probe.Close()
		os.Remove(probe.Name())
		return healthOK
	}
}

// Status runs every check. Any failing check makes the service unhealthy.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	response := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string, len(h.checks)),
	}

	for name, check := range h.checks {
		result := check()
		response.Checks[name] = result
		if result != healthOK && result != healthNotConfigured {
			response.Status = "unhealthy"
		}
	}

	code := http.StatusOK
	if response.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, response)
}
