// Package config handles service configuration: defaults, an optional JSON
// file, environment variables and command-line flags, applied in that order.
package config

import (
	"fmt"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds runtime settings.
//
// HistoryLimit caps the stored analyses per user (0 keeps everything).
// GatewayTimeout bounds a single gateway call (0 disables the bound).
type Config struct {
	ListenAddr     string
	AllowOrigins   string
	Debug          bool
	DatabaseDriver string
	DatabaseDSN    string
	GeminiAPIKey   string
	SecretKey      string
	TokenValidity  time.Duration
	FreeCredits    int
	HistoryLimit   int
	GatewayTimeout time.Duration
	AnalysisModel  string
	ImageModel     string
	ChatModel      string
	SpeechModel    string
	SpeechVoice    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside local runs.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.AllowOrigins = "*"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "finanzago.db"
	c.SecretKey = "secretKey"
	c.TokenValidity = 24 * time.Hour
	c.FreeCredits = 2
	c.HistoryLimit = 100
	c.GatewayTimeout = 2 * time.Minute
	c.AnalysisModel = "gemini-3-pro-preview"
	c.ImageModel = "gemini-3-pro-image-preview"
	c.ChatModel = "gemini-3-flash-preview"
	c.SpeechModel = "gemini-2.5-flash-preview-tts"
	c.SpeechVoice = "Kore"
}

// Load builds a Config from defaults, then the JSON file named by -c/-config,
// then the environment, then the remaining flags in args (usually os.Args[1:]).
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, jsonConfigPath(args)); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database DSN is empty")
	}
	if c.FreeCredits < 0 {
		return fmt.Errorf("free credits must not be negative, got %d", c.FreeCredits)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history limit must not be negative, got %d", c.HistoryLimit)
	}
	return nil
}
