package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/wricardo/immortal-reincarnation/game/storage"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "IMMORTAL_"

var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Config holds runtime settings for the server and the terminal commands
type Config struct {
	Host      string          `yaml:"host" env:"HOST"`
	Port      int             `yaml:"port" env:"PORT"`
	Debug     bool            `yaml:"debug" env:"DEBUG"`
	Storage   StorageConfig   `yaml:"storage" envPrefix:"STORAGE_"`
	Ngrok     NgrokConfig     `yaml:"ngrok" envPrefix:"NGROK_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"OTEL_"`
}

// StorageConfig selects where the saved game lives
type StorageConfig struct {
	Backend string `yaml:"backend" env:"BACKEND"`
	Path    string `yaml:"path" env:"PATH"`
}

// NgrokConfig controls the optional public tunnel
type NgrokConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	AuthToken string `yaml:"auth_token" env:"AUTHTOKEN"`
	Domain    string `yaml:"domain" env:"DOMAIN"`
}

// TelemetryConfig controls OTLP trace export. Export is off unless an endpoint
// is set.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" env:"ENABLED"`
	Endpoint    string `yaml:"endpoint" env:"ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Host:  "localhost",
		Port:  8080,
		Debug: false,
		Storage: StorageConfig{
			Backend: storage.BackendFile,
			Path:    "saves",
		},
		Telemetry: TelemetryConfig{
			Enabled:     true,
			ServiceName: "immortal-reincarnation",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path (when
// path is not empty), then IMMORTAL_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyNgrokEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and names
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be between 1 and 65535, got %d", ErrInvalidConfig, c.Port)
	}
	if c.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	if !slices.Contains(storage.Backends(), c.Storage.Backend) {
		return fmt.Errorf("%w: %w: %q (expected one of %v)",
			ErrInvalidConfig, storage.ErrUnknownBackend, c.Storage.Backend, storage.Backends())
	}
	if c.Storage.Backend != storage.BackendMemory && c.Storage.Path == "" {
		return fmt.Errorf("%w: storage path is required for the %s backend", ErrInvalidConfig, c.Storage.Backend)
	}
	return nil
}

// Addr returns host:port
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// YAML renders the configuration in the file format Load reads
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// mergeFile overlays the YAML file at path onto c
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

// applyNgrokEnv honors the unprefixed variables ngrok's own tooling uses
func (c *Config) applyNgrokEnv() {
	if !c.Ngrok.Enabled {
		if v := os.Getenv("NGROK_ENABLED"); v == "true" || v == "1" {
			c.Ngrok.Enabled = true
		}
	}
	if c.Ngrok.AuthToken == "" {
		c.Ngrok.AuthToken = os.Getenv("NGROK_AUTHTOKEN")
		if c.Ngrok.AuthToken == "" {
			c.Ngrok.AuthToken = os.Getenv("NGROK_AUTH_TOKEN")
		}
	}
	if c.Ngrok.Domain == "" {
		c.Ngrok.Domain = os.Getenv("NGROK_DOMAIN")
	}
}
