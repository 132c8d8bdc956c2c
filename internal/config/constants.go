package config

import "time"

// Default configuration values
const (
	// DefaultPort is the default HTTP server port
	DefaultPort = "3000"

	// DefaultHelloPort is the default port of the multi-stage hello app
	DefaultHelloPort = "8080"

	// DefaultEnvironment is the default deployment environment
	DefaultEnvironment = "development"

	// DefaultLogLevel is the default logging level
	DefaultLogLevel = "info"

	// DefaultConfigPath is where the YAML configuration is read from
	DefaultConfigPath = "configs/config.yaml"

	// DefaultAppName is reported by the hello app when APP_NAME is unset
	DefaultAppName = "nodeapp"
)

// Supported example applications
const (
	AppStatic      = "static"
	AppHello       = "hello"
	AppMongoVisits = "mongo-visits"
	AppMongoHello  = "mongo-hello"
	AppRedisVisits = "redis-visits"
	AppGuestbook   = "guestbook"
)

// Connection lifecycle modes
const (
	ModePerRequest = "per-request"
	ModePersistent = "persistent"
)

// Supported SQL drivers for the guestbook
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Database defaults, matching the compose files of the examples
const (
	DefaultMongoURL        = "mongodb://localhost:27017/myapp"
	DefaultMongoHost       = "mongodb:27017"
	DefaultMongoDatabase   = "test"
	DefaultMongoCollection = "visits"

	DefaultSQLHost     = "mysql-db"
	DefaultSQLUser     = "webuser"
	DefaultSQLPassword = "webpass"
	DefaultSQLDatabase = "webappdb"

	DefaultMySQLPort    = 3306
	DefaultPostgresPort = 5432

	DefaultRedisHost = "redis"
	DefaultRedisPort = "6379"
)

// Timing defaults
const (
	DefaultRequestTimeout  = 5 * time.Second
	DefaultConnectTimeout  = 5 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultHealthInterval  = 10 * time.Second
	DefaultConnectAttempts = 1
)

// DefaultStaticMessage is the body served by the static responder
const DefaultStaticMessage = "Secure Node.js Application Running!\n"

// Well-known environment values. Other names are accepted and reported as is.
const (
	ValidEnvironmentDevelopment = "development"
	ValidEnvironmentProduction  = "production"
)

// Valid log level values
const (
	ValidLogLevelDebug = "debug"
	ValidLogLevelInfo  = "info"
	ValidLogLevelWarn  = "warn"
	ValidLogLevelError = "error"
)
