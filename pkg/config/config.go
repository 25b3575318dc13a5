package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is the interface that all configs must implement.
type Config interface {
	Validate() error
}

// AppConfig is the configuration of the movie browser.
type AppConfig struct {
	Provider ProviderConfig `koanf:"provider"`
	Storage  StorageConfig  `koanf:"storage"`
	Logger   LoggerConfig   `koanf:"logger"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// ProviderConfig selects and configures the catalog data provider.
type ProviderConfig struct {
	Kind      string        `koanf:"kind"` // rest, graphql
	REST      RESTConfig    `koanf:"rest"`
	GraphQL   GraphQLConfig `koanf:"graphql"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"` // requests per second, 0 disables
	Burst     int           `koanf:"burst"`
	Breaker   BreakerConfig `koanf:"breaker"`
}

// RESTConfig contains TMDB REST API settings.
type RESTConfig struct {
	BaseURL     string `koanf:"base_url"`
	AccessToken string `koanf:"access_token"`
}

// GraphQLConfig contains GraphQL gateway settings.
type GraphQLConfig struct {
	Endpoint string `koanf:"endpoint"`
}

// BreakerConfig contains circuit breaker settings.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`
}

// StorageConfig selects the local persistence backend.
type StorageConfig struct {
	Backend      string        `koanf:"backend"` // badger, sqlite, memory
	Path         string        `koanf:"path"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	Debug        bool          `koanf:"debug"`
}

// LoggerConfig contains logging configuration.
type LoggerConfig struct {
	Level       string `koanf:"level"`  // debug, info, warn, error
	Format      string `koanf:"format"` // json, console
	Development bool   `koanf:"development"`
	OutputPath  string `koanf:"output_path"` // stdout, stderr, or file path
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	Enabled      bool   `koanf:"enabled"`
	TextfilePath string `koanf:"textfile_path"` // written on exit
}

// Manager handles configuration loading and parsing.
type Manager struct {
	k           *koanf.Koanf
	serviceName string
	configPaths []string
	explicit    string
}

// NewManager creates a new configuration manager.
func NewManager(serviceName string) *Manager {
	return &Manager{
		k:           koanf.New("."),
		serviceName: serviceName,
		configPaths: getDefaultConfigPaths(serviceName),
	}
}

// WithFile loads path after the default locations, so it takes precedence
// over them. Unlike the default locations, a missing file is an error.
func (m *Manager) WithFile(path string) *Manager {
	m.explicit = path
	return m
}

// LoadConfig loads configuration from all sources.
func (m *Manager) LoadConfig(cfg Config) error {
	// 1. Load defaults from struct tags
	if err := m.loadDefaults(cfg); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load from config files (in order of precedence)
	for _, path := range m.configPaths {
		if err := m.loadFromFile(path); err != nil {
			// Skip if file doesn't exist, error on parse failures
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}
	if m.explicit != "" {
		if err := m.loadFromFile(m.explicit); err != nil {
			return fmt.Errorf("failed to load config from %s: %w", m.explicit, err)
		}
	}

	// 3. Load from environment variables
	if err := m.loadFromEnv(); err != nil {
		return fmt.Errorf("failed to load from environment: %w", err)
	}

	// 4. Unmarshal into the config struct
	if err := m.k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns a value for the given key.
func (m *Manager) Get(key string) interface{} {
	return m.k.Get(key)
}

// GetString returns a string value for the given key.
func (m *Manager) GetString(key string) string {
	return m.k.String(key)
}

// loadDefaults loads default values from struct.
func (m *Manager) loadDefaults(cfg Config) error {
	return m.k.Load(structs.Provider(cfg, "koanf"), nil)
}

// loadFromFile loads configuration from a file.
func (m *Manager) loadFromFile(path string) error {
	// Check if file exists
	if _, err := os.Stat(path); err != nil {
		return err
	}

	// Determine parser based on file extension
	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	// Load the file
	return m.k.Load(file.Provider(path), parser)
}

// loadFromEnv loads configuration from environment variables.
// MOVIEBROWSER_PROVIDER_REST_ACCESS_TOKEN maps to provider.rest.access_token:
// the variable is matched against the known keys so that underscores inside
// a key name survive.
func (m *Manager) loadFromEnv() error {
	prefix := strings.ToUpper(m.serviceName) + "_"

	known := make(map[string]string)
	for _, key := range m.k.Keys() {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}

	return m.k.Load(env.Provider(prefix, ".", func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, prefix))
		if key, ok := known[name]; ok {
			return key
		}
		return strings.ReplaceAll(name, "_", ".")
	}), nil)
}

// getDefaultConfigPaths returns the default config paths to check.
func getDefaultConfigPaths(serviceName string) []string {
	paths := []string{
		// Current directory
		fmt.Sprintf("%s.yaml", serviceName),
		fmt.Sprintf("%s.json", serviceName),

		// Config directory
		fmt.Sprintf("configs/%s.yaml", serviceName),
		fmt.Sprintf("configs/%s.json", serviceName),
	}

	// User config directory
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, serviceName, "config.yaml"),
			filepath.Join(dir, serviceName, "config.json"),
		)
	}

	return paths
}

// Validate validates the application configuration.
func (c *AppConfig) Validate() error {
	switch c.Provider.Kind {
	case ProviderREST:
		if c.Provider.REST.BaseURL == "" {
			return errors.New("provider.rest.base_url is required")
		}
		if c.Provider.REST.AccessToken == "" {
			return errors.New("TMDB access token is required (set via MOVIEBROWSER_PROVIDER_REST_ACCESS_TOKEN env var or config)")
		}
	case ProviderGraphQL:
		if c.Provider.GraphQL.Endpoint == "" {
			return errors.New("provider.graphql.endpoint is required")
		}
	default:
		return fmt.Errorf("invalid provider kind: %q", c.Provider.Kind)
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("invalid provider timeout: %s", c.Provider.Timeout)
	}
	if c.Provider.RateLimit < 0 {
		return fmt.Errorf("invalid provider rate limit: %v", c.Provider.RateLimit)
	}

	switch c.Storage.Backend {
	case StorageBadger, StorageSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid storage backend: %q", c.Storage.Backend)
	}

	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		return errors.New("metrics.textfile_path is required when metrics are enabled")
	}
	return nil
}

// GetDefaults returns default configuration values.
func GetDefaults() *AppConfig {
	return &AppConfig{
		Provider: ProviderConfig{
			Kind: ProviderREST,
			REST: RESTConfig{
				BaseURL: DefaultRESTBaseURL,
			},
			GraphQL: GraphQLConfig{
				Endpoint: DefaultGraphQLEndpoint,
			},
			Timeout:   DefaultProviderTimeout,
			RateLimit: DefaultRateLimit,
			Burst:     DefaultBurst,
			Breaker: BreakerConfig{
				Enabled:          true,
				FailureThreshold: DefaultFailureThreshold,
				OpenTimeout:      DefaultOpenTimeout,
			},
		},
		Storage: StorageConfig{
			Backend:      StorageBadger,
			Path:         defaultDataDir(),
			WriteTimeout: DefaultWriteTimeout,
		},
		Logger: LoggerConfig{
			Level:      "warn",
			Format:     "console",
			OutputPath: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, ServiceName)
	}
	return filepath.Join(os.TempDir(), ServiceName)
}
