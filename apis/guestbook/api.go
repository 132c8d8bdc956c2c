package guestbook

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/timeout"
)

// RegisterRoutes registers the guestbook page for GET and POST on the root path.
func RegisterRoutes(router fiber.Router, handler *Handler, requestTimeout time.Duration) {
	router.Get("/", timeout.NewWithContext(handler.Index, requestTimeout))
	router.Post("/", timeout.NewWithContext(handler.Post, requestTimeout))
}
