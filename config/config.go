// Package config loads and saves client configuration from YAML files and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/glazeworks/glaze/core"
)

// ErrAPIKeyNotFound is returned when no API key can be resolved for a
// provider.
var ErrAPIKeyNotFound = errors.New("config: api key not found")

// Duration wraps time.Duration with YAML support for strings like "1s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// RetrySettings configures the retry policy.
type RetrySettings struct {
	MaxAttempts int      `yaml:"max_attempts,omitempty"`
	BaseDelay   Duration `yaml:"base_delay,omitempty"`
	MaxDelay    Duration `yaml:"max_delay,omitempty"`
}

// Policy builds a core retry policy from the settings. Zero fields fall
// back to the core defaults.
func (r RetrySettings) Policy() core.RetryPolicy {
	return core.NewRetryPolicy(core.RetryConfig{
		MaxAttempts: r.MaxAttempts,
		BaseDelay:   r.BaseDelay.Std(),
		MaxDelay:    r.MaxDelay.Std(),
	})
}

// ProviderConfig holds per-provider settings.
type ProviderConfig struct {
	// APIKeyRef names the environment variable holding the API key.
	APIKeyRef string `yaml:"api_key_ref,omitempty"`
	// BaseURL overrides the provider's default endpoint.
	BaseURL string `yaml:"base_url,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	DefaultModel    string                    `yaml:"default_model,omitempty"`
	MaxMessages     int                       `yaml:"max_messages,omitempty"`
	Retry           RetrySettings             `yaml:"retry,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

// DefaultConfigPath returns the default configuration file location,
// ~/.glaze/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			home = os.Getenv("USERPROFILE")
		} else {
			home = os.Getenv("HOME")
		}
	}
	return filepath.Join(home, ".glaze", "config.yaml")
}

// LoadConfig reads the configuration from path. A missing file is not an
// error: an empty configuration is returned so first runs work without
// setup.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveConfig writes the configuration to path, creating parent directories
// as needed.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads variables from a .env file in the working directory, if one
// exists. A missing file is ignored.
func LoadEnv() {
	_ = godotenv.Load()
}

// ResolveAPIKey resolves the API key for the named provider. The provider's
// api_key_ref names the environment variable to read; without one, the
// conventional <PROVIDER>_API_KEY variable is tried.
func (c *Config) ResolveAPIKey(provider string) (core.Secret, error) {
	ref := ""
	if pc, ok := c.Providers[provider]; ok {
		ref = pc.APIKeyRef
	}
	if ref == "" {
		ref = defaultKeyEnvVar(provider)
	}

	value := os.Getenv(ref)
	if value == "" {
		return core.Secret{}, fmt.Errorf("%w: provider %q (checked $%s)", ErrAPIKeyNotFound, provider, ref)
	}
	return core.NewSecret(value), nil
}

// defaultKeyEnvVar derives the conventional env var name for a provider,
// e.g. "openai" -> "OPENAI_API_KEY".
func defaultKeyEnvVar(provider string) string {
	upper := make([]byte, len(provider))
	for i := 0; i < len(provider); i++ {
		ch := provider[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch == '-' {
			ch = '_'
		}
		upper[i] = ch
	}
	return string(upper) + "_API_KEY"
}
