package prometheus

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, app *fiber.App) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "demoapps_test_total", Help: "test counter"})
	registry.MustRegister(counter)
	counter.Add(3)

	app := fiber.New()
	RegisterRoutes(app, NewHandler(registry))

	code, body := scrape(t, app)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, body, "demoapps_test_total 3")
}

func TestMetrics_NilHandler(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, nil)

	code, _ := scrape(t, app)
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
}
