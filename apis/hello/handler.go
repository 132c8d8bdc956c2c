// Package hello serves the JSON greetings of the stateless demo apps.
package hello

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Info is what the multi-stage build app reports about itself.
type Info struct {
	App         string
	Version     string
	Environment string
}

// RootResponse is the body of GET / for the hello app.
type RootResponse struct {
	Message     string `json:"message"`
	App         string `json:"app"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// GreetingResponse is the body of GET / for the mongo-hello app.
type GreetingResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Root returns a handler describing the running build.
func Root(info Info) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(RootResponse{
			Message:     "Hello from Multi-Stage Docker!",
			App:         info.App,
			Version:     info.Version,
			Environment: info.Environment,
		})
	}
}

// Greeting answers with a fixed message and the current time.
func Greeting(c *fiber.Ctx) error {
	return c.JSON(GreetingResponse{
		Message:   "Hello from Node.js app!",
		Timestamp: time.Now().UTC(),
	})
}
