// Package static answers every request with the same plain-text body.
package static

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes answers every path and method with message. It must be
// registered after all other routes.
func RegisterRoutes(router fiber.Router, message string) {
	router.Use(func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(message)
	})
}
