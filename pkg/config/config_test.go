package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PROJECT_ID", "test-project")
	t.Setenv("DATASET_ID", "IndianAPI")
	t.Setenv("TABLE_ID", "IndianAPI")
}

func TestLoad_EnvOnly(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BigQuery.ProjectID != "test-project" {
		t.Errorf("expected ProjectID=test-project, got %s", cfg.BigQuery.ProjectID)
	}
	if cfg.LLM.Provider != ProviderOpenAI {
		t.Errorf("expected default provider openai, got %s", cfg.LLM.Provider)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected version to be set, got %s", cfg.Version)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	yamlContent := `
port: "8000"
env: "test"
bigquery:
  project_id: "yaml-project"
  dataset_id: "yaml-dataset"
  table_id: "yaml-table"
llm:
  provider: "openai"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	chdir(t, tmpDir)

	t.Setenv("PORT", "9000")
	t.Setenv("PROJECT_ID", "env-project")
	t.Setenv("DATASET_ID", "yaml-dataset")
	t.Setenv("TABLE_ID", "yaml-table")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("expected Port=9000 (from env), got %s", cfg.Port)
	}
	if cfg.BigQuery.ProjectID != "env-project" {
		t.Errorf("expected ProjectID=env-project (from env), got %s", cfg.BigQuery.ProjectID)
	}
}

func TestLoad_MissingIdentifiers(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PROJECT_ID", "")
	t.Setenv("DATASET_ID", "")
	t.Setenv("TABLE_ID", "")

	_, err := Load("dev")
	if err == nil {
		t.Fatal("expected error for missing identifiers")
	}
}

func TestLoad_UnsupportedProvider(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)
	t.Setenv("LLM_PROVIDER", "bard")

	_, err := Load("dev")
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestHasModelCredentials(t *testing.T) {
	cfg := &Config{}
	cfg.LLM.Provider = ProviderOpenAI
	if cfg.HasModelCredentials() {
		t.Error("expected no credentials")
	}

	cfg.LLM.OpenAI.APIKey = "sk-test"
	if !cfg.HasModelCredentials() {
		t.Error("expected credentials present")
	}

	cfg.LLM.Provider = ProviderAnthropic
	if cfg.HasModelCredentials() {
		t.Error("anthropic key not set, expected false")
	}
	cfg.LLM.Anthropic.APIKey = "sk-ant"
	if !cfg.HasModelCredentials() {
		t.Error("expected anthropic credentials present")
	}
}

func TestModelName(t *testing.T) {
	cfg := &Config{}
	cfg.LLM.Provider = ProviderOpenAI
	cfg.LLM.OpenAI.Model = "gpt-4-turbo"
	cfg.LLM.Anthropic.Model = "claude-sonnet-4-5-20250929"

	if got := cfg.ModelName(); got != "gpt-4-turbo" {
		t.Errorf("expected openai model, got %s", got)
	}
	cfg.LLM.Provider = ProviderAnthropic
	if got := cfg.ModelName(); got != "claude-sonnet-4-5-20250929" {
		t.Errorf("expected anthropic model, got %s", got)
	}
}
