// Package config loads the docmapper YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"docmapper/options"
)

// Config holds the docmapper configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // local, dev, prod (default: local)
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// EngineConfig holds mapping engine settings.
type EngineConfig struct {
	NamespacePolicy options.NamespacePolicy `yaml:"namespace_policy"` // tolerate (default) | strict
	FailFast        bool                    `yaml:"fail_fast"`
	PathCacheSize   int                     `yaml:"path_cache_size"`
	// Conversions lists the enabled conversion categories (default: all).
	Conversions []string `yaml:"conversions"`
	// Parallelism bounds the passes of a batch run concurrently.
	Parallelism int `yaml:"parallelism"`
}

const (
	defaultPathCacheSize = 1024
	defaultParallelism   = 4
)

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()

	return cfg
}

// Load reads configuration from a YAML file. ${VAR} and ${VAR:-default}
// references are expanded from the environment before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the environment from DOCMAPPER_ENV, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("DOCMAPPER_ENV"); env != "" {
		return env
	}

	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Logging.Env == "" {
		c.Logging.Env = GetEnv()
	}

	if c.Engine.PathCacheSize <= 0 {
		c.Engine.PathCacheSize = defaultPathCacheSize
	}

	if c.Engine.Parallelism <= 0 {
		c.Engine.Parallelism = defaultParallelism
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	var errs []error

	switch c.Logging.Env {
	case "local", "dev", "prod":
	default:
		errs = append(errs, fmt.Errorf("logging.env must be local, dev or prod, got %q", c.Logging.Env))
	}

	if c.Logging.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
			errs = append(errs, fmt.Errorf("logging.level: %w", err))
		}
	}

	if _, err := c.Categories(); err != nil {
		errs = append(errs, fmt.Errorf("engine.conversions: %w", err))
	}

	return errors.Join(errs...)
}

// Categories returns the enabled conversion categories.
func (c *Config) Categories() (options.CategoryEnum, error) {
	return options.ParseCategories(c.Engine.Conversions)
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")

		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}

		return []byte(val)
	})
}
