package prometheus

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the Prometheus scrape endpoint.
func RegisterRoutes(router fiber.Router, handler *Handler) {
	if handler != nil {
		router.Get("/metrics", handler.Metrics)
		return
	}

	// Fallback endpoint when no registry is available
	router.Get("/metrics", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusServiceUnavailable).SendString("# metrics not available\n")
	})
}
