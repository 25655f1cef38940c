package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	MedusaBaseURL  string `yaml:"medusa_base_url"`
	MedusaAPIToken string `yaml:"medusa_api_token"`

	FXBaseURL string `yaml:"fx_base_url"`

	StoreBackend          string `yaml:"store_backend"` // "sheets" or "sqlite"
	SpreadsheetID         string `yaml:"sheets_spreadsheet_id"`
	GoogleCredentialsJSON string `yaml:"google_credentials_json"`
	GoogleCredentialsFile string `yaml:"google_credentials_file"`
	DBPath                string `yaml:"db_path"`

	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`

	SlackWebhookURL string `yaml:"slack_webhook_url"`
	BrandName       string `yaml:"brand_name"`

	ListenAddr            string `yaml:"listen_addr"`
	ReportSchedule        string `yaml:"report_schedule"` // 5-field cron expression, empty disables
	UnknownCurrencyPolicy string `yaml:"unknown_currency_policy"`

	ExternalHTTPTimeoutSeconds int `yaml:"external_http_timeout_seconds"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.MedusaBaseURL, "MEDUSA_BASE_URL")
	envOverride(&cfg.MedusaAPIToken, "MEDUSA_API_TOKEN")
	envOverride(&cfg.FXBaseURL, "FX_BASE_URL")
	envOverride(&cfg.StoreBackend, "STORE_BACKEND")
	envOverride(&cfg.SpreadsheetID, "GOOGLE_SHEETS_SPREADSHEET_ID")
	envOverride(&cfg.GoogleCredentialsJSON, "GOOGLE_SERVICE_ACCOUNT_KEY")
	envOverride(&cfg.GoogleCredentialsFile, "GOOGLE_SERVICE_ACCOUNT_FILE")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.SlackWebhookURL, "SLACK_WEBHOOK_URL")
	envOverride(&cfg.BrandName, "BRAND_NAME")
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.ReportSchedule, "REPORT_SCHEDULE")
	envOverride(&cfg.UnknownCurrencyPolicy, "UNKNOWN_CURRENCY_POLICY")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")

	// Defaults
	if cfg.FXBaseURL == "" {
		cfg.FXBaseURL = "https://api.exchangerate.host"
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = "sheets"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./revreport.db"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "anthropic"
	}
	if cfg.BrandName == "" {
		cfg.BrandName = "Ecommerce"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.UnknownCurrencyPolicy == "" {
		cfg.UnknownCurrencyPolicy = UnknownCurrencyPassthrough
	}

	// Validate required fields
	required := map[string]string{
		"medusa_base_url":   cfg.MedusaBaseURL,
		"slack_webhook_url": cfg.SlackWebhookURL,
	}
	for name, val := range required {
		if val == "" {
			log.Fatalf("Required config '%s' is not set (via config.yaml or env var)", name)
		}
	}

	switch cfg.StoreBackend {
	case "sheets":
		if cfg.SpreadsheetID == "" {
			log.Fatalf("sheets_spreadsheet_id is required when store_backend=sheets")
		}
		if cfg.GoogleCredentialsJSON == "" && cfg.GoogleCredentialsFile == "" {
			log.Fatalf("google_credentials_json or google_credentials_file is required when store_backend=sheets")
		}
	case "sqlite":
		// db_path already defaulted
	default:
		log.Fatalf("store_backend must be 'sheets' or 'sqlite', got '%s'", cfg.StoreBackend)
	}

	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Fatalf("anthropic_api_key is required when llm_provider=anthropic")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Fatalf("openai_api_key is required when llm_provider=openai")
		}
	default:
		log.Fatalf("llm_provider must be 'anthropic' or 'openai', got '%s'", cfg.LLMProvider)
	}

	if !validUnknownCurrencyPolicy(cfg.UnknownCurrencyPolicy) {
		log.Fatalf("unknown_currency_policy must be '%s' or '%s', got '%s'",
			UnknownCurrencyPassthrough, UnknownCurrencySkip, cfg.UnknownCurrencyPolicy)
	}

	return cfg
}

func validUnknownCurrencyPolicy(policy string) bool {
	switch strings.TrimSpace(policy) {
	case UnknownCurrencyPassthrough, UnknownCurrencySkip:
		return true
	}
	return false
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
