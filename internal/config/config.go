// Package config handles reading and writing .banca/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .banca/config.yaml.
type Config struct {
	Version    int             `yaml:"version"`
	Currency   string          `yaml:"currency"`
	DateLayout string          `yaml:"date_layout"` // Go layout used when printing lesson dates
	Store      StoreConfig     `yaml:"store"`
	Assistant  AssistantConfig `yaml:"assistant"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // "sqlite" | "memory"
	Path   string `yaml:"path"`   // relative to .banca/ unless absolute
}

// AssistantConfig controls the text-generation backend.
type AssistantConfig struct {
	Provider       string `yaml:"provider"`        // "claude" | "gemini" | "none"
	Model          string `yaml:"model"`           // empty selects the provider default
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 0 waits indefinitely
}

// Timeout returns the configured call timeout, or 0 when none applies.
func (a AssistantConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

const configDir = ".banca"
const configFile = "config.yaml"

// Dir returns the .banca directory inside dir.
func Dir(dir string) string {
	return filepath.Join(dir, configDir)
}

// StorePath resolves the database location for the data directory dir.
func (c *Config) StorePath(dir string) string {
	path := c.Store.Path
	if path == "" {
		path = "banca.db"
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(Dir(dir), path)
}

// ReadConfig reads .banca/config.yaml from the given data directory.
// dir is the data root (not .banca/ itself).
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(Dir(dir), configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to .banca/config.yaml in the given data directory.
// Creates the .banca/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := Dir(dir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:    1,
		Currency:   "R$",
		DateLayout: "02/01/2006",
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "banca.db",
		},
		Assistant: AssistantConfig{
			Provider: "claude",
		},
	}
}

// LoadEnv loads secrets from .banca/.env in dir and then ./.env.
// Variables already set in the environment win. Missing files are ignored.
func LoadEnv(dir string) {
	for _, path := range []string{filepath.Join(Dir(dir), ".env"), ".env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

// APIKey returns the Gemini API key from GEMINI_API_KEY or API_KEY.
func APIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("API_KEY")
}
