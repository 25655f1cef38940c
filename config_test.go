package main

import (
	"os"
	"path/filepath"
	"testing"
)

// setMinimalEnv points CONFIG_PATH away from any real config.yaml and sets
// just enough env for LoadConfig's validation to pass.
func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MEDUSA_BASE_URL", "https://store.example.com")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
}

func TestLoadConfigDefaults(t *testing.T) {
	setMinimalEnv(t)

	cfg := LoadConfig()

	if cfg.FXBaseURL != "https://api.exchangerate.host" {
		t.Errorf("FXBaseURL = %q", cfg.FXBaseURL)
	}
	if cfg.DBPath != "./revreport.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.LLMProvider != "anthropic" {
		t.Errorf("LLMProvider = %q", cfg.LLMProvider)
	}
	if cfg.BrandName != "Ecommerce" {
		t.Errorf("BrandName = %q", cfg.BrandName)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.UnknownCurrencyPolicy != UnknownCurrencyPassthrough {
		t.Errorf("UnknownCurrencyPolicy = %q", cfg.UnknownCurrencyPolicy)
	}
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `medusa_base_url: https://yaml.example.com
slack_webhook_url: https://hooks.slack.com/services/T/B/Y
store_backend: sqlite
anthropic_api_key: sk-ant-yaml
brand_name: YAML Brand
listen_addr: ":9090"
`
	if err := os.WriteFile(yamlPath, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("CONFIG_PATH", yamlPath)
	t.Setenv("BRAND_NAME", "Env Brand") // env wins over yaml
	t.Setenv("EXTERNAL_HTTP_TIMEOUT_SECONDS", "30")

	cfg := LoadConfig()

	if cfg.MedusaBaseURL != "https://yaml.example.com" {
		t.Errorf("MedusaBaseURL = %q", cfg.MedusaBaseURL)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.BrandName != "Env Brand" {
		t.Errorf("BrandName = %q", cfg.BrandName)
	}
	if cfg.ExternalHTTPTimeoutSeconds != 30 {
		t.Errorf("ExternalHTTPTimeoutSeconds = %d", cfg.ExternalHTTPTimeoutSeconds)
	}
}

func TestValidUnknownCurrencyPolicy(t *testing.T) {
	tests := []struct {
		policy string
		want   bool
	}{
		{UnknownCurrencyPassthrough, true},
		{UnknownCurrencySkip, true},
		{"  passthrough ", true},
		{"drop", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validUnknownCurrencyPolicy(tt.policy); got != tt.want {
			t.Errorf("validUnknownCurrencyPolicy(%q) = %v, want %v", tt.policy, got, tt.want)
		}
	}
}
