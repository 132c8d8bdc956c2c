package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/devops-workshop/demo-apps/internal/config"
	"github.com/devops-workshop/demo-apps/internal/server"
	"github.com/devops-workshop/demo-apps/pkg/logger"
)

// main is the entry point for the demo apps server.
// It performs the following operations:
//  1. Parses command-line flags for server configuration
//  2. Loads environment variables from .env file if present
//  3. Loads configuration from YAML files with flag overrides
//  4. Connects the database of the selected app (persistent mode)
//  5. Begins listening for HTTP requests
//  6. Shuts down gracefully on SIGINT or SIGTERM
//
// The process exits 0 after a graceful shutdown and 1 when startup fails.
func main() {
	os.Exit(run())
}

func run() int {
	flags := parseFlags()

	if flags.Help {
		flags.showHelp()
		return 0
	}
	if flags.Version {
		flags.showVersion()
		return 0
	}
	if err := flags.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadWithFlags(flags)
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}

	if err := logger.InitFromConfig(cfg); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	srv, err := server.New(cfg)
	if err != nil {
		logger.Errorf("Failed to create server: %v", err)
		return 1
	}

	logger.Infof("Starting %s on port %s", cfg.App, cfg.Port)
	logger.Infof("Environment: %s", cfg.Environment)
	logger.Infof("Log level: %s", cfg.LogLevel)
	if cfg.UsesDatabase() {
		logger.Infof("Connection mode: %s", cfg.ConnectionMode)
	}
	if cfg.LogFile != "" {
		logger.Infof("Access log file: %s", cfg.LogFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		if errors.Is(err, server.ErrStartup) {
			logger.Errorf("Database connection error: %v", err)
		} else {
			logger.Errorf("Server failed: %v", err)
		}
		return 1
	}
	return 0
}
