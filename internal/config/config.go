// Package config loads ghost settings from a TOML or YAML file, a .env file
// and the environment. Command line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zinc-sig/ghost-allure/pkg/sink"
)

// Environment overrides.
const (
	EnvSuite     = "GHOST_SUITE"
	EnvLogFormat = "GHOST_LOG_FORMAT"
	EnvLogLevel  = "GHOST_LOG_LEVEL"
)

// History id strategies.
const (
	HistoryStable = "stable"
	HistoryRandom = "random"
)

// DefaultFiles are looked up in the working directory when no file is given.
var DefaultFiles = []string{".ghost.toml", ".ghost.yaml", ".ghost.yml"}

// Config holds all ghost configuration.
type Config struct {
	ResultsDir string            `toml:"results_dir" yaml:"results_dir"`
	Suite      string            `toml:"suite" yaml:"suite"`
	HistoryID  string            `toml:"history_id" yaml:"history_id"`
	HostLabel  bool              `toml:"host_label" yaml:"host_label"`
	Labels     map[string]string `toml:"labels" yaml:"labels"`
	Log        LogConfig         `toml:"log" yaml:"log"`
	Upload     UploadConfig      `toml:"upload" yaml:"upload"`

	// Webhook uses the same keys as --webhook-config: url, method,
	// auth_type, auth_token, timeout, retries, retry_delay.
	Webhook map[string]any `toml:"webhook" yaml:"webhook"`

	// Path of the file the configuration was read from, if any.
	Path string `toml:"-" yaml:"-"`
}

type LogConfig struct {
	Format string `toml:"format" yaml:"format"` // text or json
	Level  string `toml:"level" yaml:"level"`
}

type UploadConfig struct {
	Provider string         `toml:"provider" yaml:"provider"`
	Timeout  string         `toml:"timeout" yaml:"timeout"`
	Options  map[string]any `toml:"options" yaml:"options"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ResultsDir: sink.DefaultResultsDir,
		HistoryID:  HistoryStable,
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the configuration file at path. With an empty path the first
// existing DefaultFiles entry is used, and no file at all is not an error.
// Environment variables take precedence over file values:
//   - ALLURE_RESULTS_DIR overrides results_dir
//   - GHOST_SUITE        overrides suite
//   - GHOST_LOG_FORMAT   overrides log.format
//   - GHOST_LOG_LEVEL    overrides log.level
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, candidate := range DefaultFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.Path = path
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q: use .toml, .yaml or .yml", ext)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(sink.ResultsDirEnv); v != "" {
		cfg.ResultsDir = v
	}
	if v := os.Getenv(EnvSuite); v != "" {
		cfg.Suite = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.Log.Format)
	}
	switch c.HistoryID {
	case HistoryStable, HistoryRandom:
	default:
		return fmt.Errorf("invalid history_id %q: must be %s or %s", c.HistoryID, HistoryStable, HistoryRandom)
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("results_dir must not be empty")
	}
	return nil
}
