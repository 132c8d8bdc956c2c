package health

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/devops-workshop/demo-apps/pkg/lifecycle"
)

// StateReporter exposes the cached connection state of a database source.
type StateReporter interface {
	State() lifecycle.State
}

// Handler answers health checks from the cached connection state. It never
// talks to the database itself.
type Handler struct {
	reporter  StateReporter
	version   string
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates a health handler. A nil reporter means the app has no
// database and is healthy whenever it can answer.
func NewHandler(reporter StateReporter, version string) *Handler {
	return &Handler{
		reporter:  reporter,
		version:   version,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Check handles health check requests. It responds 200 when the database is
// READY and 503 otherwise.
func (h *Handler) Check(c *fiber.Ctx) error {
	now := h.now()

	response := HealthResponse{
		Status:    StatusHealthy,
		Uptime:    now.Sub(h.startTime).Seconds(),
		Timestamp: now.UTC(),
		Version:   h.version,
	}

	if h.reporter == nil {
		return c.JSON(response)
	}

	if !h.reporter.State().Connected() {
		response.Status = StatusUnhealthy
		response.Database = DatabaseDisconnected
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}

	response.Database = DatabaseConnected
	return c.JSON(response)
}
