// Package config loads the sentinel.yml configuration file.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/grovetools/sentinel/errors"
	"github.com/grovetools/sentinel/pkg/paths"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Config is the full sentinel configuration. Every field has a working
// default; a missing sentinel.yml is not an error.
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	Monitor  MonitorConfig  `yaml:"monitor"`

	// Sounds overrides the system sound per severity class. Keys are
	// "failed", "ready", and "building".
	Sounds map[string]string `yaml:"sounds"`
}

// RegistryConfig locates the environment registry.
type RegistryConfig struct {
	// Dir overrides the registry directory. Empty means the standard
	// resolution (SENTINEL_REGISTRY, then ~/.dev-runner).
	Dir string `yaml:"dir"`
}

// MonitorConfig tunes the reconciliation loop.
type MonitorConfig struct {
	// RefreshInterval is the fallback rescan period as a Go duration string
	// (e.g. "2s"). The filesystem watcher usually fires first; this bounds
	// the staleness when it doesn't.
	RefreshInterval string `yaml:"refresh_interval"`

	// Alerts disables all alert delivery when false. The snapshot pipeline
	// keeps running; only the sink goes quiet.
	Alerts *bool `yaml:"alerts"`
}

// RegistryDir resolves the effective registry directory.
func (c *Config) RegistryDir() string {
	if c.Registry.Dir != "" {
		return expandHome(c.Registry.Dir)
	}
	return paths.RegistryDir()
}

// Interval resolves the effective refresh interval.
func (c *Config) Interval() time.Duration {
	if c.Monitor.RefreshInterval == "" {
		return 2 * time.Second
	}
	d, err := time.ParseDuration(c.Monitor.RefreshInterval)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// AlertsEnabled reports whether alert delivery is on (the default).
func (c *Config) AlertsEnabled() bool {
	return c.Monitor.Alerts == nil || *c.Monitor.Alerts
}

// Load reads and parses a sentinel configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration data with environment variable
// expansion and validation.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault loads sentinel.yml from the config directory, falling back to
// built-in defaults when the file does not exist.
func LoadDefault() (*Config, error) {
	dir := paths.ConfigDir()
	if dir == "" {
		return &Config{}, nil
	}
	path := filepath.Join(dir, "sentinel.yml")
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, errors.ErrCodeConfigNotFound) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parsed values that can't be silently defaulted.
func (c *Config) Validate() error {
	if c.Monitor.RefreshInterval != "" {
		d, err := time.ParseDuration(c.Monitor.RefreshInterval)
		if err != nil {
			return errors.ConfigInvalid("monitor.refresh_interval is not a valid duration: " + c.Monitor.RefreshInterval)
		}
		if d <= 0 {
			return errors.ConfigInvalid("monitor.refresh_interval must be positive")
		}
	}
	for class := range c.Sounds {
		switch class {
		case "failed", "ready", "building":
		default:
			return errors.ConfigInvalid("unknown sound class: " + class)
		}
	}
	return nil
}

// expandEnvVars replaces ${VAR} references with environment values.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		name := envVarRegex.FindStringSubmatch(match)[1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}

// expandHome expands a leading tilde in configured paths.
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
