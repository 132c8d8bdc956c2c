package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devops-workshop/demo-apps/apis/guestbook"
	"github.com/devops-workshop/demo-apps/apis/health"
	"github.com/devops-workshop/demo-apps/apis/hello"
	"github.com/devops-workshop/demo-apps/apis/prometheus"
	"github.com/devops-workshop/demo-apps/apis/static"
	"github.com/devops-workshop/demo-apps/apis/visits"
	"github.com/devops-workshop/demo-apps/internal/config"
	"github.com/devops-workshop/demo-apps/internal/version"
	"github.com/devops-workshop/demo-apps/pkg/lifecycle"
)

// Dependencies carries what the routes of the selected app need. Providers
// are nil for apps that do not use them.
type Dependencies struct {
	Config   *config.Config
	Health   *health.Handler
	Metrics  *prometheus.Handler
	Counter  lifecycle.Provider[visits.Counter]
	Book     lifecycle.Provider[guestbook.Book]
	Hostname string
}

// SetupRoutes configures the HTTP routes of the selected app. Every app
// serves /health and /metrics; the root route depends on the app.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	cfg := deps.Config

	health.RegisterRoutes(app, deps.Health)
	prometheus.RegisterRoutes(app, deps.Metrics)

	switch cfg.App {
	case config.AppHello:
		app.Get("/", hello.Root(hello.Info{
			App:         cfg.AppName,
			Version:     AppVersion(cfg),
			Environment: cfg.Environment,
		}))
	case config.AppMongoHello:
		app.Get("/", hello.Greeting)
	case config.AppMongoVisits:
		visits.RegisterRoutes(app, visits.NewHandler(deps.Counter, visits.MongoGreeting), cfg.Timeouts.Request)
	case config.AppRedisVisits:
		visits.RegisterRoutes(app, visits.NewHandler(deps.Counter, visits.RedisGreeting(deps.Hostname)), cfg.Timeouts.Request)
	case config.AppGuestbook:
		guestbook.RegisterRoutes(app, guestbook.NewHandler(deps.Book, cfg.Guestbook.RejectEmpty), cfg.Timeouts.Request)
	default:
		// Catch-all, so it goes last.
		static.RegisterRoutes(app, cfg.Static.Message)
	}
}

// AppVersion is the version reported to clients: the configured one, or the
// build version.
func AppVersion(cfg *config.Config) string {
	if cfg.AppVersion != "" {
		return cfg.AppVersion
	}
	return version.GetShortVersion()
}
