package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Flags defines the interface for command-line flag access.
// Empty values mean "not set on the command line".
type Flags interface {
	GetApp() string
	GetPort() string
	GetEnvironment() string
	GetLogLevel() string
	GetConfigPath() string
}

// Load reads configs/config.yaml and the environment, without flag overrides.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags creates a new Config instance by loading configuration from
// the YAML file and applying overrides.
//
// Configuration precedence (highest to lowest):
// 1. Command-line flags (app, port, environment, log level)
// 2. Environment variables
// 3. YAML configuration file
// 4. Default values
//
// The returned Config has been validated.
func LoadWithFlags(flgs Flags) (*Config, error) {
	path := DefaultConfigPath
	if flgs != nil && flgs.GetConfigPath() != "" {
		path = flgs.GetConfigPath()
	}

	yamlConfig, err := loadFromYAML(path)
	if err != nil {
		return nil, err
	}

	var errs error

	app := firstNonEmpty(flagValue(flgs, Flags.GetApp), os.Getenv("APP_KIND"), yamlConfig.Server.App, AppStatic)

	port := firstNonEmpty(flagValue(flgs, Flags.GetPort), os.Getenv("PORT"), os.Getenv("APP_PORT"), yamlConfig.Server.Port)
	if port == "" {
		port = DefaultPort
		if app == AppHello {
			port = DefaultHelloPort
		}
	}

	environment := firstNonEmpty(flagValue(flgs, Flags.GetEnvironment), os.Getenv("APP_ENV"), os.Getenv("ENVIRONMENT"),
		yamlConfig.Server.Environment, DefaultEnvironment)

	logLevel := firstNonEmpty(flagValue(flgs, Flags.GetLogLevel), os.Getenv("LOG_LEVEL"), yamlConfig.Server.LogLevel, DefaultLogLevel)

	requestTimeout, err := durationValue("REQUEST_TIMEOUT", yamlConfig.Server.RequestTimeout, DefaultRequestTimeout)
	errs = multierr.Append(errs, err)
	shutdownTimeout, err := durationValue("SHUTDOWN_TIMEOUT", yamlConfig.Server.ShutdownTimeout, DefaultShutdownTimeout)
	errs = multierr.Append(errs, err)
	connectTimeout, err := durationValue("CONNECT_TIMEOUT", yamlConfig.Database.ConnectTimeout, DefaultConnectTimeout)
	errs = multierr.Append(errs, err)
	healthInterval, err := durationValue("HEALTH_INTERVAL", yamlConfig.Database.HealthInterval, DefaultHealthInterval)
	errs = multierr.Append(errs, err)

	connectAttempts, err := intValue("CONNECT_ATTEMPTS", yamlConfig.Database.ConnectAttempts, DefaultConnectAttempts)
	errs = multierr.Append(errs, err)

	connectionMode := firstNonEmpty(os.Getenv("CONNECTION_MODE"), yamlConfig.Database.ConnectionMode, defaultConnectionMode(app))

	sqlConfig, err := loadSQL(yamlConfig.SQL)
	errs = multierr.Append(errs, err)

	rejectEmpty, err := boolValue("GUESTBOOK_REJECT_EMPTY", yamlConfig.Guestbook.RejectEmpty)
	errs = multierr.Append(errs, err)

	if errs != nil {
		return nil, errs
	}

	cfg := &Config{
		App:             app,
		Port:            port,
		Environment:     environment,
		LogLevel:        logLevel,
		LogFile:         firstNonEmpty(os.Getenv("LOG_FILE"), yamlConfig.Server.LogFile),
		AppName:         firstNonEmpty(os.Getenv("APP_NAME"), yamlConfig.Server.AppName, DefaultAppName),
		AppVersion:      firstNonEmpty(os.Getenv("APP_VERSION"), yamlConfig.Server.AppVersion),
		ConnectionMode:  connectionMode,
		ConnectAttempts: connectAttempts,
		HealthInterval:  healthInterval,
		Timeouts: TimeoutConfig{
			Request:  requestTimeout,
			Connect:  connectTimeout,
			Shutdown: shutdownTimeout,
		},
		Mongo: loadMongo(yamlConfig.Mongo),
		SQL:   sqlConfig,
		Redis: loadRedis(yamlConfig.Redis),
		Guestbook: GuestbookConfig{
			RejectEmpty: rejectEmpty,
		},
		Static: StaticConfig{
			Message: firstNonEmpty(yamlConfig.Static.Message, DefaultStaticMessage),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs error

	invalid := func(format string, args ...interface{}) {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	validApps := []string{AppStatic, AppHello, AppMongoVisits, AppMongoHello, AppRedisVisits, AppGuestbook}
	if !slices.Contains(validApps, c.App) {
		invalid("unknown app %q (must be one of: %s)", c.App, strings.Join(validApps, ", "))
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 0 || port > 65535 {
		invalid("port %q is not a valid TCP port", c.Port)
	}

	// Any name is accepted; only production changes behaviour (JSON logs).
	if strings.TrimSpace(c.Environment) == "" {
		invalid("environment cannot be empty")
	}

	validLevels := []string{ValidLogLevelDebug, ValidLogLevelInfo, ValidLogLevelWarn, ValidLogLevelError}
	if !slices.Contains(validLevels, c.LogLevel) {
		invalid("log level %q (must be one of: %s)", c.LogLevel, strings.Join(validLevels, ", "))
	}

	if c.UsesDatabase() {
		if c.ConnectionMode != ModePerRequest && c.ConnectionMode != ModePersistent {
			invalid("connection mode %q (must be %s or %s)", c.ConnectionMode, ModePerRequest, ModePersistent)
		}
		if c.ConnectAttempts < 1 {
			invalid("connect attempts must be at least 1")
		}
		if c.Timeouts.Connect <= 0 {
			invalid("connect timeout must be positive")
		}
		if c.HealthInterval < 0 {
			invalid("health interval cannot be negative")
		}
	}

	if c.Timeouts.Request <= 0 {
		invalid("request timeout must be positive")
	}
	if c.Timeouts.Shutdown <= 0 {
		invalid("shutdown timeout must be positive")
	}

	switch c.App {
	case AppMongoVisits, AppMongoHello:
		if c.Mongo.URL == "" {
			invalid("mongo url is required")
		}
	case AppGuestbook:
		if c.SQL.Driver != DriverMySQL && c.SQL.Driver != DriverPostgres {
			invalid("sql driver %q (must be %s or %s)", c.SQL.Driver, DriverMySQL, DriverPostgres)
		}
		if c.SQL.Host == "" || c.SQL.Database == "" {
			invalid("sql host and database are required")
		}
	case AppRedisVisits:
		if c.Redis.Address == "" {
			invalid("redis address is required")
		}
	}

	return errs
}

// UsesDatabase reports whether the selected app talks to a database.
func (c *Config) UsesDatabase() bool {
	switch c.App {
	case AppMongoVisits, AppMongoHello, AppRedisVisits, AppGuestbook:
		return true
	default:
		return false
	}
}

func loadFromYAML(path string) (*YAMLConfig, error) {
	config := &YAMLConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return config, nil
}

// loadMongo resolves the connection string. MONGODB_URL wins, then the YAML
// url, then a URL built from the root credentials the mongo image is
// initialised with.
func loadMongo(y MongoYAMLConfig) MongoConfig {
	mongoURL := firstNonEmpty(os.Getenv("MONGODB_URL"), y.URL)
	if mongoURL == "" {
		username := getEnv("MONGO_INITDB_ROOT_USERNAME", y.Username)
		password := getEnv("MONGO_INITDB_ROOT_PASSWORD", y.Password)
		if username != "" {
			u := url.URL{
				Scheme: "mongodb",
				User:   url.UserPassword(username, password),
				Host:   firstNonEmpty(os.Getenv("MONGO_HOST"), y.Host, DefaultMongoHost),
			}
			mongoURL = u.String()
		} else {
			mongoURL = DefaultMongoURL
		}
	}

	return MongoConfig{
		URL:        mongoURL,
		// A database named in the connection string beats the YAML default.
		Database:   firstNonEmpty(os.Getenv("MONGO_DATABASE"), databaseFromURL(mongoURL), y.Database, DefaultMongoDatabase),
		Collection: firstNonEmpty(y.Collection, DefaultMongoCollection),
	}
}

func databaseFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

func loadSQL(y SQLYAMLConfig) (SQLConfig, error) {
	driver := strings.ToLower(firstNonEmpty(os.Getenv("DB_DRIVER"), y.Driver, DriverMySQL))

	defaultPort := DefaultMySQLPort
	if driver == DriverPostgres {
		defaultPort = DefaultPostgresPort
	}
	if y.Port != 0 {
		defaultPort = y.Port
	}
	port, err := intValue("DB_PORT", defaultPort, defaultPort)
	if err != nil {
		return SQLConfig{}, err
	}

	return SQLConfig{
		Driver:   driver,
		Host:     firstNonEmpty(os.Getenv("DB_HOST"), y.Host, DefaultSQLHost),
		Port:     port,
		User:     firstNonEmpty(os.Getenv("DB_USER"), y.User, DefaultSQLUser),
		Password: firstNonEmpty(os.Getenv("DB_PASS"), y.Password, DefaultSQLPassword),
		Database: firstNonEmpty(os.Getenv("DB_NAME"), y.Database, DefaultSQLDatabase),
	}, nil
}

// loadRedis builds the address from REDIS_HOST/REDIS_PORT when set, like
// the compose files do, and falls back to the YAML address.
func loadRedis(y RedisYAMLConfig) RedisConfig {
	redisHost := getEnv("REDIS_HOST", "")
	redisPort := getEnv("REDIS_PORT", "")

	address := y.Address
	if redisHost != "" {
		address = net.JoinHostPort(redisHost, firstNonEmpty(redisPort, DefaultRedisPort))
	}
	if address == "" {
		address = net.JoinHostPort(DefaultRedisHost, DefaultRedisPort)
	}

	return RedisConfig{
		Address:   address,
		Password:  getEnv("REDIS_PASSWORD", y.Password),
		Database:  y.Database,
		KeyPrefix: y.KeyPrefix,
	}
}

func defaultConnectionMode(app string) string {
	switch app {
	case AppMongoHello, AppRedisVisits:
		return ModePersistent
	default:
		return ModePerRequest
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func flagValue(flgs Flags, get func(Flags) string) string {
	if flgs == nil {
		return ""
	}
	return get(flgs)
}

func durationValue(envKey, yamlValue string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(envKey, yamlValue)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a duration", ErrInvalidConfig, envKey, raw)
	}
	return d, nil
}

func intValue(envKey string, yamlValue, fallback int) (int, error) {
	raw := os.Getenv(envKey)
	if raw == "" {
		if yamlValue != 0 {
			return yamlValue, nil
		}
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, envKey, raw)
	}
	return n, nil
}

func boolValue(envKey string, yamlValue bool) (bool, error) {
	raw := os.Getenv(envKey)
	if raw == "" {
		return yamlValue, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, envKey, raw)
	}
	return b, nil
}
