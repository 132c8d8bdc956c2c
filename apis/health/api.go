package health

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the health check endpoint at /health, where the
// container probes expect it, and under the /api/v1 path.
func RegisterRoutes(router fiber.Router, handler *Handler) {
	router.Get("/health", handler.Check)

	// Health API group
	healthGroup := router.Group("/api/v1")
	healthGroup.Get("/health", handler.Check)
}
