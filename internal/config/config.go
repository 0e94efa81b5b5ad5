// Package config loads the server configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"kitchensim/internal/coach"
	"kitchensim/internal/evaluation"
	"kitchensim/internal/kitchen"
)

// Environment variables that override secrets in the file
const (
	EnvJWTSecret = "KITCHENSIM_JWT_SECRET"
	EnvLLMToken  = "KITCHENSIM_LLM_TOKEN"
)

// Config represents the application configuration
type Config struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	LogLevel    string `yaml:"log_level"`

	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`

	Catalog struct {
		// Path is a store export loaded at startup. When empty the catalog
		// is read from the database for StoreID.
		Path    string `yaml:"path"`
		StoreID string `yaml:"store_id"`
	} `yaml:"catalog"`

	Game struct {
		TickInterval time.Duration             `yaml:"tick_interval"`
		TargetMenus  int                       `yaml:"target_menus"`
		ServedGrace  time.Duration             `yaml:"served_grace"`
		Thresholds   evaluation.TimeThresholds `yaml:"thresholds"`
		Weights      evaluation.Weights        `yaml:"weights"`
		Thermal      kitchen.ThermalConfig     `yaml:"thermal"`
		Wash         kitchen.WashTiming        `yaml:"wash"`
		// Retention keeps ended sessions around for their debrief
		Retention    time.Duration             `yaml:"session_retention"`
	} `yaml:"game"`

	Coach coach.Config `yaml:"coach"`
}

var (
	ErrInvalidPort   = errors.New("ports must be between 1 and 65535")
	ErrMissingSecret = errors.New("auth.jwt_secret is required")
	ErrNoCatalog     = errors.New("catalog.path or catalog.store_id is required")
)

// Default returns a configuration that runs against a local SQLite file
func Default() *Config {
	cfg := &Config{
		Port:        8080,
		MetricsPort: 9090,
		LogLevel:    "info",
	}
	cfg.Database.Driver = "sqlite3"
	cfg.Database.DSN = "kitchensim.db"
	cfg.Catalog.Path = "configs/catalog.json"
	cfg.Catalog.StoreID = "default"
	cfg.Game.TickInterval = kitchen.TickInterval
	cfg.Game.ServedGrace = 3 * time.Second
	cfg.Game.Thresholds = evaluation.DefaultTimeThresholds()
	cfg.Game.Weights = evaluation.DefaultWeights()
	cfg.Game.Thermal = kitchen.DefaultThermalConfig()
	cfg.Game.Wash = kitchen.DefaultWashTiming()
	cfg.Game.Retention = 10 * time.Minute
	cfg.Coach.Provider = coach.ProviderGitHubModels
	return cfg
}

// Load reads path over the defaults, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides secrets from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv(EnvLLMToken); v != "" {
		c.Coach.Token = v
	}
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if !validPort(c.Port) || !validPort(c.MetricsPort) {
		return ErrInvalidPort
	}
	if c.Auth.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.Catalog.Path == "" && c.Catalog.StoreID == "" {
		return ErrNoCatalog
	}
	if c.Game.TickInterval <= 0 {
		return fmt.Errorf("game.tick_interval must be positive, got %s", c.Game.TickInterval)
	}
	if c.Game.Retention < 0 {
		return fmt.Errorf("game.session_retention must not be negative, got %s", c.Game.Retention)
	}
	if err := c.Game.Thresholds.Validate(); err != nil {
		return fmt.Errorf("game.thresholds: %w", err)
	}
	if _, ok := coach.LookupProvider(c.Coach.Provider); !ok {
		return fmt.Errorf("coach.provider %q: %w", c.Coach.Provider, coach.ErrUnknownProvider)
	}
	return nil
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}
