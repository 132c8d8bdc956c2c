// Package metrics exposes HTTP and database lifecycle metrics to Prometheus.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/devops-workshop/demo-apps/pkg/lifecycle"
)

const namespace = "demoapps"

// Open results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics owns a registry with the request and connection metrics. It
// implements lifecycle.Observer.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	opens    *prometheus.CounterVec
	closes   prometheus.Counter
	state    prometheus.Gauge
}

var _ lifecycle.Observer = (*Metrics)(nil)

// New creates the metrics and registers them, together with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		opens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "opens_total",
			Help:      "Database handle opens by result.",
		}, []string{"result"}),
		closes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "closes_total",
			Help:      "Database handles closed.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "connection_state",
			Help:      "Connection state: 0 INIT, 1 CONNECTING, 2 READY, 3 FAILED, 4 DISCONNECTED, 5 CLOSED.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.opens,
		m.closes,
		m.state,
	)
	return m
}

// Registry returns the registry to expose.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records the count and latency of every request.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		route := c.Route().Path
		m.requests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Opened counts a handle open attempt.
func (m *Metrics) Opened(err error) {
	if err != nil {
		m.opens.WithLabelValues(ResultFailure).Inc()
		return
	}
	m.opens.WithLabelValues(ResultSuccess).Inc()
}

// Closed counts a handle close.
func (m *Metrics) Closed() {
	m.closes.Inc()
}

// StateChanged records the new connection state.
func (m *Metrics) StateChanged(state lifecycle.State) {
	m.state.Set(float64(state))
}
