package health

import "time"

// Status values reported by the health endpoint.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
)

// HealthResponse represents the health check response structure.
// It is computed on every request and never stored.
type HealthResponse struct {
	// Status indicates the current server status ("healthy" or "unhealthy")
	Status string `json:"status"`

	// Database is "connected" or "disconnected"; omitted when the app has no database
	Database string `json:"database,omitempty"`

	// Uptime is the process uptime in seconds
	Uptime float64 `json:"uptime"`

	// Timestamp is when the health check was performed
	Timestamp time.Time `json:"timestamp"`

	// Version is the server version information
	Version string `json:"version"`
}
