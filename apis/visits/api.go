package visits

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/timeout"
)

// RegisterRoutes registers the visit counter at the root path. Each request
// runs under requestTimeout.
func RegisterRoutes(router fiber.Router, handler *Handler, requestTimeout time.Duration) {
	router.Get("/", timeout.NewWithContext(handler.Visit, requestTimeout))
}
