package static

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes(t *testing.T) {
	app := fiber.New()
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	RegisterRoutes(app, "Secure Node.js Application Running!\n")

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{method: fiber.MethodGet, path: "/", want: "Secure Node.js Application Running!\n"},
		{method: fiber.MethodPost, path: "/any/path", want: "Secure Node.js Application Running!\n"},
		{method: fiber.MethodGet, path: "/health", want: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, string(body))
		})
	}
}
