package logger

import (
	"github.com/devops-workshop/demo-apps/internal/config"
)

// FromConfig maps the application configuration onto logger settings.
// Production environments log JSON, everything else logs in console format.
func FromConfig(cfg *config.Config) *Config {
	loggerConfig := DefaultConfig()

	if cfg.LogLevel != "" {
		loggerConfig.Level = LogLevel(cfg.LogLevel)
	}

	if cfg.Environment == config.ValidEnvironmentProduction {
		loggerConfig.Format = "json"
	} else {
		loggerConfig.Format = "console"
	}

	loggerConfig.OutputPath = "stdout"
	loggerConfig.Fields = map[string]string{"app": cfg.App}

	return loggerConfig
}

func InitFromConfig(cfg *config.Config) error {
	loggerConfig := FromConfig(cfg)
	return Init(loggerConfig)
}
