// Package prometheus serves the metrics registry in the Prometheus text format.
package prometheus

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler handles Prometheus scrape requests.
type Handler struct {
	metrics fiber.Handler
}

// NewHandler creates a scrape handler for gatherer.
func NewHandler(gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		metrics: adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
	}
}

// Metrics handles GET /metrics.
func (h *Handler) Metrics(c *fiber.Ctx) error {
	return h.metrics(c)
}
