// Package visits serves the page visit counters backed by MongoDB or Redis.
package visits

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/devops-workshop/demo-apps/pkg/lifecycle"
	"github.com/devops-workshop/demo-apps/pkg/logger"
)

// ErrorMessage is the body sent when the counter cannot be updated.
const ErrorMessage = "Error connecting to database"

// Counter is a database handle that can count visits.
type Counter interface {
	lifecycle.Handle
	Increment(ctx context.Context) (int64, error)
}

// Renderer turns a visit count into the response body.
type Renderer func(count int64) string

// MongoGreeting renders the MongoDB counter page.
func MongoGreeting(count int64) string {
	return fmt.Sprintf("Hello! This page has been visited %d times.", count)
}

// RedisGreeting renders the Redis counter page, which also names the host
// that served it.
func RedisGreeting(hostname string) Renderer {
	return func(count int64) string {
		return fmt.Sprintf("Hello from Docker! This page has been viewed %d times.\nHostname: %s\n", count, hostname)
	}
}

// Handler counts a visit per request.
type Handler struct {
	provider lifecycle.Provider[Counter]
	render   Renderer
}

// NewHandler creates a visit handler.
func NewHandler(provider lifecycle.Provider[Counter], render Renderer) *Handler {
	return &Handler{
		provider: provider,
		render:   render,
	}
}

// Visit increments the counter and renders the new count as plain text.
// Any database error becomes a 500 with a generic body.
func (h *Handler) Visit(c *fiber.Ctx) error {
	count, err := lifecycle.Use(c.UserContext(), h.provider, func(ctx context.Context, counter Counter) (int64, error) {
		return counter.Increment(ctx)
	})
	if err != nil {
		logger.Errorf("Failed to count visit: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString(ErrorMessage)
	}

	return c.SendString(h.render(count))
}
