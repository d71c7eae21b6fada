package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Provider names recognized for the LLM backend.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration for bq-agent.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys) must only come from environment variables.
type Config struct {
	// Server configuration for the MCP/HTTP front end
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// AgentName appears in the CLI banner and MCP server identity.
	AgentName string `yaml:"agent_name" env:"AGENT_NAME" env-default:"bigquery_analytics_agent"`

	// LLM backend selection and per-provider settings
	LLM LLMConfig `yaml:"llm"`

	// BigQuery target identifiers and credentials
	BigQuery BigQueryConfig `yaml:"bigquery"`
}

// LLMConfig selects and configures the generative-model backend.
type LLMConfig struct {
	// Provider is one of "openai" or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`

	// OpenAI-compatible endpoint settings. BaseURL may point at any
	// OpenAI-compatible server (including Gemini's compatibility endpoint).
	OpenAI OpenAIConfig `yaml:"openai"`

	// Anthropic settings.
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// OpenAIConfig holds settings for the OpenAI-compatible backend.
type OpenAIConfig struct {
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model   string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4-turbo"`
	APIKey  string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
}

// AnthropicConfig holds settings for the Anthropic backend.
type AnthropicConfig struct {
	Model  string `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-sonnet-4-5-20250929"`
	APIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
}

// BigQueryConfig holds the warehouse target and credential location.
type BigQueryConfig struct {
	ProjectID string `yaml:"project_id" env:"PROJECT_ID" env-default:""`
	DatasetID string `yaml:"dataset_id" env:"DATASET_ID" env-default:""`
	TableID   string `yaml:"table_id" env:"TABLE_ID" env-default:""`

	// CredentialsFile points at a service-account JSON key. Empty means
	// application-default credentials resolved by the driver.
	CredentialsFile string `yaml:"-" env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// A missing config.yaml is not an error; env vars and defaults then apply alone.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks required identifiers and provider selection.
func (c *Config) validate() error {
	var missing []string
	if c.BigQuery.ProjectID == "" {
		missing = append(missing, "PROJECT_ID")
	}
	if c.BigQuery.DatasetID == "" {
		missing = append(missing, "DATASET_ID")
	}
	if c.BigQuery.TableID == "" {
		missing = append(missing, "TABLE_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported LLM provider: %q", c.LLM.Provider)
	}

	return nil
}

// HasModelCredentials reports whether the selected provider has an API key
// configured. When false the agent runs on the deterministic fallback path.
func (c *Config) HasModelCredentials() bool {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		return c.LLM.OpenAI.APIKey != ""
	case ProviderAnthropic:
		return c.LLM.Anthropic.APIKey != ""
	}
	return false
}

// ModelName returns the configured model for the selected provider.
func (c *Config) ModelName() string {
	if c.LLM.Provider == ProviderAnthropic {
		return c.LLM.Anthropic.Model
	}
	return c.LLM.OpenAI.Model
}
