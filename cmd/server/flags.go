package main

import (
	"flag"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/devops-workshop/demo-apps/internal/config"
	"github.com/devops-workshop/demo-apps/internal/version"
)

// Valid values for validation. Environment names are free-form.
const (
	ValidEnvironmentProduction = config.ValidEnvironmentProduction

	ValidLogLevelDebug = config.ValidLogLevelDebug
	ValidLogLevelInfo  = config.ValidLogLevelInfo
	ValidLogLevelWarn  = config.ValidLogLevelWarn
	ValidLogLevelError = config.ValidLogLevelError
)

// Help and version text
const (
	AppName        = "demo-apps"
	AppDescription = "Containerization workshop example applications in one binary"
)

// ServerFlags holds all command-line flags for the server.
// Empty values leave the setting to the environment, the YAML file or the
// defaults.
type ServerFlags struct {
	// Example application to run
	App string
	// HTTP server port number
	Port string
	// Deployment environment (development/production)
	Environment string
	// Logging verbosity level (debug/info/warn/error)
	LogLevel string
	// Path of the YAML configuration file
	ConfigPath string

	// Show help information and exit
	Help bool
	// Show version information and exit
	Version bool
}

// parseFlags parses command-line flags and returns a ServerFlags struct.
func parseFlags() *ServerFlags {
	f := &ServerFlags{}

	flag.StringVar(&f.App, "app", "",
		fmt.Sprintf("Application: %s (default: %s)", strings.Join(validApps(), ", "), config.AppStatic))
	flag.StringVar(&f.Port, "port", "",
		fmt.Sprintf("Server port number (default: %s, %s for hello)", config.DefaultPort, config.DefaultHelloPort))
	flag.StringVar(&f.Environment, "env", "",
		fmt.Sprintf("Deployment environment, any name; %s logs JSON (default: %s)",
			ValidEnvironmentProduction, config.DefaultEnvironment))
	flag.StringVar(&f.LogLevel, "log-level", "",
		fmt.Sprintf("Log level: %s, %s, %s, %s (default: %s)",
			ValidLogLevelDebug, ValidLogLevelInfo, ValidLogLevelWarn, ValidLogLevelError, config.DefaultLogLevel))
	flag.StringVar(&f.ConfigPath, "config", "",
		fmt.Sprintf("Path of the YAML configuration file (default: %s)", config.DefaultConfigPath))

	flag.BoolVar(&f.Help, "help", false, "Show help information and exit")
	flag.BoolVar(&f.Help, "h", false, "Show help information and exit (short form)")
	flag.BoolVar(&f.Version, "version", false, "Show version information and exit")
	flag.BoolVar(&f.Version, "v", false, "Show version information and exit (short form)")

	flag.Parse()

	return f
}

func validApps() []string {
	return []string{
		config.AppStatic, config.AppHello, config.AppMongoVisits,
		config.AppMongoHello, config.AppRedisVisits, config.AppGuestbook,
	}
}

// showHelp displays help information for the server.
func (f *ServerFlags) showHelp() {
	fmt.Printf("%s - %s\n", AppName, AppDescription)
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  demo-apps [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  Server Configuration:")
	fmt.Println("    -app string")
	fmt.Printf("          Application: %s (default: static)\n", strings.Join(validApps(), ", "))
	fmt.Println("    -port string")
	fmt.Println("          Server port (default: 3000, 8080 for hello)")
	fmt.Println("    -env string")
	fmt.Println("          Environment name, any value; production logs JSON (default: development)")
	fmt.Println("    -log-level string")
	fmt.Println("          Log level: debug, info, warn, error (default: info)")
	fmt.Println("    -config string")
	fmt.Println("          YAML configuration file (default: configs/config.yaml)")
	fmt.Println()
	fmt.Println("  Databases:")
	fmt.Println("    Connection settings come from the environment or the YAML file:")
	fmt.Println("    - MongoDB: MONGODB_URL or MONGO_INITDB_ROOT_USERNAME/PASSWORD")
	fmt.Println("    - MySQL/PostgreSQL: DB_DRIVER, DB_HOST, DB_PORT, DB_USER, DB_PASS, DB_NAME")
	fmt.Println("    - Redis: REDIS_HOST, REDIS_PORT, REDIS_PASSWORD")
	fmt.Println("    CONNECTION_MODE selects per-request or persistent connections.")
	fmt.Println()
	fmt.Println("  General:")
	fmt.Println("    -help, -h")
	fmt.Println("          Show this help information")
	fmt.Println("    -version, -v")
	fmt.Println("          Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Serve the static page on port 3000")
	fmt.Println("  demo-apps")
	fmt.Println()
	fmt.Println("  # Guestbook against the compose MySQL service")
	fmt.Println("  DB_HOST=mysql-db demo-apps -app guestbook")
	fmt.Println()
	fmt.Println("  # Redis visit counter, keeping one connection open")
	fmt.Println("  demo-apps -app redis-visits -env production -log-level warn")
	fmt.Println()
	fmt.Println("  # Append access logs to a file")
	fmt.Println("  LOG_FILE=/var/log/app/access.log demo-apps -app mongo-hello")
}

// showVersion displays version and build information.
func (f *ServerFlags) showVersion() {
	fmt.Printf("%s %s\n", AppName, version.GetVersion())
	fmt.Printf("Build info: %s\n", version.GetBuildInfo())
	fmt.Printf("Go version: %s\n", runtime.Version())
}

// validate checks the values given on the command line. Unset flags are
// validated with the rest of the configuration.
func (f *ServerFlags) validate() error {
	if f.App != "" && !slices.Contains(validApps(), f.App) {
		return fmt.Errorf("invalid app: %s (must be one of: %s)", f.App, strings.Join(validApps(), ", "))
	}

	validLevels := []string{ValidLogLevelDebug, ValidLogLevelInfo, ValidLogLevelWarn, ValidLogLevelError}
	if f.LogLevel != "" && !slices.Contains(validLevels, f.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", f.LogLevel, strings.Join(validLevels, ", "))
	}

	return nil
}

// Interface methods for config package
// These methods implement the config.Flags interface to allow the config package
// to access flag values without depending on the specific flag implementation.

// GetApp returns the selected example application.
func (f *ServerFlags) GetApp() string {
	return f.App
}

// GetPort returns the configured server port number.
func (f *ServerFlags) GetPort() string {
	return f.Port
}

// GetEnvironment returns the configured deployment environment.
func (f *ServerFlags) GetEnvironment() string {
	return f.Environment
}

// GetLogLevel returns the configured logging verbosity level.
func (f *ServerFlags) GetLogLevel() string {
	return f.LogLevel
}

// GetConfigPath returns the YAML configuration path.
func (f *ServerFlags) GetConfigPath() string {
	return f.ConfigPath
}
