package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Store    string `yaml:"store" validate:"oneof=memory badger"`
	DataDir  string `yaml:"data_dir"`
	SeedPath string `yaml:"seed_path"`

	LogFormat string `yaml:"log_format" validate:"oneof=text json"`
	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`

	HealthcheckPort int    `yaml:"healthcheck_port" validate:"gte=0,lte=65535"`
	MaxCascadeNodes int    `yaml:"max_cascade_nodes" validate:"gte=0"`
	User            string `yaml:"user"`

	NotifyURL       string `yaml:"notify_url" validate:"omitempty,url"`
	NotifyNamespace string `yaml:"notify_namespace"`

	// Opposites lists mutually exclusive property pairs, each exactly two IDs.
	Opposites [][]string `yaml:"opposites" validate:"dive,len=2,dive,required"`
}

var configValidate = validator.New()

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Store:     StoreMemory,
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := configValidate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Store == StoreBadger && cfg.DataDir == "" {
		return nil, errors.New("data_dir is required when store is 'badger'")
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML configuration file on top of DefaultConfig.
// Unknown keys are rejected.
func LoadConfigFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return NewConfig(cfg)
}

// OppositePairs returns Opposites as fixed-size pairs.
func (c *Config) OppositePairs() [][2]string {
	out := make([][2]string, 0, len(c.Opposites))
	for _, p := range c.Opposites {
		out = append(out, [2]string{p[0], p[1]})
	}
	return out
}
