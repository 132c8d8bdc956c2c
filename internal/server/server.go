package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/devops-workshop/demo-apps/apis/common"
	"github.com/devops-workshop/demo-apps/apis/guestbook"
	"github.com/devops-workshop/demo-apps/apis/health"
	"github.com/devops-workshop/demo-apps/apis/prometheus"
	"github.com/devops-workshop/demo-apps/apis/visits"
	"github.com/devops-workshop/demo-apps/internal/config"
	"github.com/devops-workshop/demo-apps/internal/handlers"
	"github.com/devops-workshop/demo-apps/internal/version"
	"github.com/devops-workshop/demo-apps/pkg/accesslog"
	"github.com/devops-workshop/demo-apps/pkg/lifecycle"
	"github.com/devops-workshop/demo-apps/pkg/logger"
	"github.com/devops-workshop/demo-apps/pkg/metrics"
)

var (
	// ErrStartup is returned by Run when the database connection cannot be
	// established. The process should exit non-zero.
	ErrStartup = errors.New("server: startup failed")
	// ErrNoOpener is returned when a database-backed app has no opener.
	ErrNoOpener = errors.New("server: no database opener for app")
)

// Server represents the HTTP server instance with all its components.
// It owns the Fiber application, the database source of the selected app
// and the access log.
type Server struct {
	// app is the Fiber HTTP application instance
	app *fiber.App

	// cfg contains the server configuration
	cfg *config.Config

	// db starts and closes the database connection; nil for apps without one
	db lifecycle.Sequencer

	accessLog *accesslog.Logger
	metrics   *metrics.Metrics

	// ready is closed once the listener accepts connections
	ready chan struct{}
	addr  net.Addr
}

// New creates a Server that connects to the databases named in cfg.
func New(cfg *config.Config) (*Server, error) {
	return NewWithOpeners(cfg, DefaultOpeners(cfg))
}

// NewWithOpeners creates and initializes a new Server instance. It sets up the
// Fiber application with middleware and the routes of the selected app, and
// builds the database source in the configured connection mode. Nothing is
// connected or listening until Run.
func NewWithOpeners(cfg *config.Config, openers Openers) (*Server, error) {
	m := metrics.New()

	var (
		db      lifecycle.Sequencer
		state   health.StateReporter
		counter lifecycle.Provider[visits.Counter]
		book    lifecycle.Provider[guestbook.Book]
	)

	if cfg.UsesDatabase() {
		mode, err := lifecycle.ParseMode(cfg.ConnectionMode)
		if err != nil {
			return nil, err
		}

		opts := []lifecycle.Option{
			lifecycle.WithConnectTimeout(cfg.Timeouts.Connect),
			lifecycle.WithCloseTimeout(cfg.Timeouts.Shutdown),
			lifecycle.WithHealthInterval(cfg.HealthInterval),
			lifecycle.WithMaxAttempts(cfg.ConnectAttempts),
			lifecycle.WithObserver(m),
		}

		switch cfg.App {
		case config.AppGuestbook:
			if openers.Book == nil {
				return nil, fmt.Errorf("%w %s", ErrNoOpener, cfg.App)
			}
			src, err := lifecycle.New(mode, openers.Book, opts...)
			if err != nil {
				return nil, err
			}
			db, state, book = src, src, src
		default:
			if openers.Counter == nil {
				return nil, fmt.Errorf("%w %s", ErrNoOpener, cfg.App)
			}
			src, err := lifecycle.New(mode, openers.Counter, opts...)
			if err != nil {
				return nil, err
			}
			db, state, counter = src, src, src
		}
	}

	accessLog, err := accesslog.New(cfg.LogFile, os.Stdout)
	if err != nil {
		return nil, err
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	// Create Fiber app with faster JSON encoder
	app := fiber.New(fiber.Config{
		AppName:               cfg.App + " " + version.GetVersion(),
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          errorHandler,
	})

	// Middleware
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(accessLog.Middleware())
	app.Use(m.Middleware())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	handlers.SetupRoutes(app, handlers.Dependencies{
		Config:   cfg,
		Health:   health.NewHandler(state, handlers.AppVersion(cfg)),
		Metrics:  prometheus.NewHandler(m.Registry()),
		Counter:  counter,
		Book:     book,
		Hostname: hostname,
	})

	return &Server{
		app:       app,
		cfg:       cfg,
		db:        db,
		accessLog: accessLog,
		metrics:   m,
		ready:     make(chan struct{}),
	}, nil
}

// errorHandler maps fiber errors to their status code. Other errors are
// logged and hidden behind a generic message.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		logger.Errorf("Request %s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(common.ErrorResponse{
		Error:   true,
		Message: message,
	})
}

// Ready is closed once the server accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listening address. It is only valid after Ready is closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Run connects the database, then listens until ctx is cancelled and shuts
// down gracefully. A failed connection returns ErrStartup without ever
// listening. A shutdown triggered by ctx returns nil.
func (s *Server) Run(ctx context.Context) error {
	if s.db != nil {
		logger.Infof("Connecting to database (mode: %s)", s.cfg.ConnectionMode)
		if err := s.db.Start(ctx); err != nil {
			_ = s.accessLog.Close()
			return fmt.Errorf("%w: %w", ErrStartup, err)
		}
		if s.cfg.ConnectionMode == config.ModePersistent {
			logger.Info("Connected to database")
		}
	}

	ln, err := net.Listen("tcp", net.JoinHostPort("", s.cfg.Port))
	if err != nil {
		_ = s.closeResources()
		return fmt.Errorf("listen on port %s: %w", s.cfg.Port, err)
	}
	s.addr = ln.Addr()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.app.Listener(ln)
	}()

	logger.Infof("Server running on %s", s.addr)
	close(s.ready)

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received, shutting down gracefully")
		s.shutdown()
		return nil
	case err := <-serveErr:
		_ = s.closeResources()
		return fmt.Errorf("serve: %w", err)
	}
}

// shutdown stops accepting requests, waits for in-flight ones up to the
// shutdown timeout, then closes the database and the access log.
func (s *Server) shutdown() {
	var errs error

	if err := s.app.ShutdownWithTimeout(s.cfg.Timeouts.Shutdown); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("stop http server: %w", err))
	}

	errs = multierr.Append(errs, s.closeResources())

	if errs != nil {
		logger.Errorf("Shutdown finished with errors: %v", errs)
		return
	}
	logger.Info("Shutdown complete")
}

func (s *Server) closeResources() error {
	var errs error

	if s.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeouts.Shutdown)
		defer cancel()

		if err := s.db.Close(ctx); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			logger.Info("Database connection closed.")
		}
	}

	if err := s.accessLog.Close(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("close access log: %w", err))
	}
	return errs
}
