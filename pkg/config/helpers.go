package config

import (
	"fmt"

	"github.com/narwhalmedia/moviebrowser/internal/infrastructure/adapters/external/transport"
	"github.com/narwhalmedia/moviebrowser/pkg/logger"
)

// LoadAppConfig loads the application configuration on top of GetDefaults.
// path, when not empty, names a config file that must exist.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := GetDefaults()
	manager := NewManager(ServiceName)
	if path != "" {
		manager.WithFile(path)
	}
	if err := manager.LoadConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToTransportConfig converts provider settings to transport settings.
func (c ProviderConfig) ToTransportConfig() transport.Config {
	return transport.Config{
		Name:      c.Kind,
		Timeout:   c.Timeout,
		RateLimit: c.RateLimit,
		Burst:     c.Burst,
		Breaker: transport.BreakerConfig{
			Enabled:          c.Breaker.Enabled,
			FailureThreshold: c.Breaker.FailureThreshold,
			OpenTimeout:      c.Breaker.OpenTimeout,
		},
	}
}

// ToLoggerConfig converts config to logger package config
func (c LoggerConfig) ToLoggerConfig() *logger.Config {
	out := logger.DefaultConfig()
	if c.Level != "" {
		out.Level = c.Level
	}
	if c.Format != "" {
		out.Encoding = c.Format
	}
	if c.OutputPath != "" {
		out.OutputPaths = []string{c.OutputPath}
	}
	out.Development = c.Development
	return out
}

// PrintConfig prints the loaded configuration with secrets redacted.
func PrintConfig(cfg *AppConfig) string {
	redacted := *cfg
	if redacted.Provider.REST.AccessToken != "" {
		redacted.Provider.REST.AccessToken = "********"
	}
	return fmt.Sprintf("%+v", redacted)
}
