package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glazeworks/glaze/core"
)

const sampleYAML = `
default_provider: openai
default_model: gpt-4o-mini
max_messages: 32
retry:
  max_attempts: 5
  base_delay: 500ms
  max_delay: 20s
providers:
  openai:
    api_key_ref: MY_OPENAI_KEY
    base_url: https://proxy.example/v1
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, sampleYAML)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DefaultProvider != "openai" {
		t.Errorf("DefaultProvider = %q", cfg.DefaultProvider)
	}
	if cfg.DefaultModel != "gpt-4o-mini" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.MaxMessages != 32 {
		t.Errorf("MaxMessages = %d, want 32", cfg.MaxMessages)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("Retry.MaxAttempts = %d, want 5", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay.Std() != 500*time.Millisecond {
		t.Errorf("Retry.BaseDelay = %v, want 500ms", cfg.Retry.BaseDelay.Std())
	}
	if cfg.Retry.MaxDelay.Std() != 20*time.Second {
		t.Errorf("Retry.MaxDelay = %v, want 20s", cfg.Retry.MaxDelay.Std())
	}

	pc, ok := cfg.Providers["openai"]
	if !ok {
		t.Fatal("providers.openai missing")
	}
	if pc.APIKeyRef != "MY_OPENAI_KEY" || pc.BaseURL != "https://proxy.example/v1" {
		t.Errorf("provider config = %+v", pc)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want missing file tolerated", err)
	}
	if cfg == nil || cfg.DefaultProvider != "" {
		t.Errorf("cfg = %+v, want empty config", cfg)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "default_provider: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() error = nil for invalid YAML")
	}
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	path := writeConfigFile(t, "retry:\n  base_delay: fast\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() error = nil for invalid duration")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &Config{
		DefaultProvider: "openai",
		Retry: RetrySettings{
			MaxAttempts: 4,
			BaseDelay:   Duration(2 * time.Second),
		},
		Providers: map[string]ProviderConfig{
			"openai": {APIKeyRef: "KEY_VAR"},
		},
	}
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got.DefaultProvider != want.DefaultProvider {
		t.Errorf("DefaultProvider = %q", got.DefaultProvider)
	}
	if got.Retry.BaseDelay.Std() != 2*time.Second {
		t.Errorf("BaseDelay = %v, want 2s", got.Retry.BaseDelay.Std())
	}
	if got.Providers["openai"].APIKeyRef != "KEY_VAR" {
		t.Errorf("Providers = %+v", got.Providers)
	}
}

func TestRetrySettingsPolicy(t *testing.T) {
	policy := RetrySettings{
		MaxAttempts: 2,
		BaseDelay:   Duration(time.Millisecond),
	}.Policy()

	if _, ok := policy.NextDelay(0, core.ErrRateLimited); !ok {
		t.Error("policy should allow one retry with MaxAttempts=2")
	}
	if _, ok := policy.NextDelay(1, core.ErrRateLimited); ok {
		t.Error("policy should honor MaxAttempts=2")
	}
}

func TestResolveAPIKey(t *testing.T) {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"openai": {APIKeyRef: "CUSTOM_KEY_VAR"},
		},
	}

	t.Setenv("CUSTOM_KEY_VAR", "sk-from-ref")
	secret, err := cfg.ResolveAPIKey("openai")
	if err != nil {
		t.Fatalf("ResolveAPIKey() error = %v", err)
	}
	if secret.Expose() != "sk-from-ref" {
		t.Errorf("secret = %q, want value from api_key_ref", secret.Expose())
	}
}

func TestResolveAPIKeyConventionalFallback(t *testing.T) {
	cfg := &Config{}

	t.Setenv("OPENAI_API_KEY", "sk-conventional")
	secret, err := cfg.ResolveAPIKey("openai")
	if err != nil {
		t.Fatalf("ResolveAPIKey() error = %v", err)
	}
	if secret.Expose() != "sk-conventional" {
		t.Errorf("secret = %q, want conventional env var value", secret.Expose())
	}
}

func TestResolveAPIKeyMissing(t *testing.T) {
	cfg := &Config{}

	t.Setenv("MISSING_PROVIDER_API_KEY", "")
	_, err := cfg.ResolveAPIKey("missing-provider")
	if !errors.Is(err, ErrAPIKeyNotFound) {
		t.Errorf("ResolveAPIKey() error = %v, want ErrAPIKeyNotFound", err)
	}
}

func TestDefaultKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"openai", "OPENAI_API_KEY"},
		{"some-provider", "SOME_PROVIDER_API_KEY"},
	}
	for _, tt := range tests {
		if got := defaultKeyEnvVar(tt.provider); got != tt.want {
			t.Errorf("defaultKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("DefaultConfigPath() = %q, want .../config.yaml", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".glaze" {
		t.Errorf("DefaultConfigPath() = %q, want .glaze directory", path)
	}
}
