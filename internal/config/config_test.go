package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lamim/clipwright/pkg/models"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	clf := cfg.Phase(models.PhaseClassification)
	if clf.MaxContentChars != DefaultClassificationBudget {
		t.Errorf("classification budget = %d, want %d", clf.MaxContentChars, DefaultClassificationBudget)
	}
	if clf.Temperature != 0.3 {
		t.Errorf("classification temperature = %v, want 0.3", clf.Temperature)
	}

	ext := cfg.Phase(models.PhaseExtraction)
	if ext.MaxContentChars != DefaultExtractionBudget {
		t.Errorf("extraction budget = %d, want %d", ext.MaxContentChars, DefaultExtractionBudget)
	}

	wri := cfg.Phase(models.PhaseWriting)
	if wri.MaxContentChars != -1 {
		t.Errorf("writing budget = %d, want -1 (unlimited)", wri.MaxContentChars)
	}
	if wri.MaxOutputTokens != 4000 {
		t.Errorf("writing max tokens = %d, want 4000", wri.MaxOutputTokens)
	}

	if cfg.PromptTemplates.Classification == "" || cfg.PromptTemplates.Extraction == "" || cfg.PromptTemplates.Writing == "" {
		t.Error("expected default prompt templates to be filled")
	}
	if cfg.CaptionLanguage != "en" {
		t.Errorf("caption language = %q, want en", cfg.CaptionLanguage)
	}
	if cfg.OutputDir != "output" {
		t.Errorf("output dir = %q, want output", cfg.OutputDir)
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Phases: map[string]ModelConfig{
			"extraction": {MaxContentChars: -1, Temperature: 0.9},
		},
	}
	ApplyDefaults(cfg)

	ext := cfg.Phase(models.PhaseExtraction)
	if ext.MaxContentChars != -1 {
		t.Errorf("explicit -1 budget must survive defaulting, got %d", ext.MaxContentChars)
	}
	if ext.Temperature != 0.9 {
		t.Errorf("explicit temperature must survive defaulting, got %v", ext.Temperature)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name: "missing phase",
			mutate: func(c *Config) {
				delete(c.Phases, "extraction")
			},
			wantErr: "phases.extraction is required",
		},
		{
			name: "missing base URL",
			mutate: func(c *Config) {
				pc := c.Phases["classification"]
				pc.BaseURL = ""
				c.Phases["classification"] = pc
			},
			wantErr: "base_url is required",
		},
		{
			name: "temperature out of range",
			mutate: func(c *Config) {
				pc := c.Phases["writing"]
				pc.Temperature = 3.0
				c.Phases["writing"] = pc
			},
			wantErr: "temperature must be between",
		},
		{
			name: "invalid content budget",
			mutate: func(c *Config) {
				pc := c.Phases["extraction"]
				pc.MaxContentChars = -2
				c.Phases["extraction"] = pc
			},
			wantErr: "max_content_chars",
		},
		{
			name: "missing template",
			mutate: func(c *Config) {
				c.PromptTemplates.Writing = ""
			},
			wantErr: "prompt_templates.writing is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `caption_language = "de"

[phases.classification]
model_name = "small-model"

[phases.extraction]
max_content_chars = -1

[phases.writing]
temperature = 0.9
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, secrets, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if secrets == nil {
		t.Fatal("expected secrets")
	}

	if cfg.CaptionLanguage != "de" {
		t.Errorf("caption language = %q, want de", cfg.CaptionLanguage)
	}
	if cfg.Phase(models.PhaseClassification).ModelName != "small-model" {
		t.Errorf("unexpected classification model: %s", cfg.Phase(models.PhaseClassification).ModelName)
	}
	if cfg.Phase(models.PhaseExtraction).MaxContentChars != -1 {
		t.Errorf("expected unlimited extraction budget, got %d", cfg.Phase(models.PhaseExtraction).MaxContentChars)
	}
	if cfg.Phase(models.PhaseWriting).Temperature != 0.9 {
		t.Errorf("unexpected writing temperature: %v", cfg.Phase(models.PhaseWriting).Temperature)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSecretsGetAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "generic-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("TOGETHER_API_KEY", "")

	secrets, err := LoadSecrets()
	if err != nil {
		t.Fatalf("LoadSecrets failed: %v", err)
	}

	if got := secrets.GetAPIKey("https://api.openai.com/v1"); got != "openai-key" {
		t.Errorf("openai key = %q, want openai-key", got)
	}
	if got := secrets.GetAPIKey("https://api.together.xyz/v1"); got != "generic-key" {
		t.Errorf("expected generic fallback, got %q", got)
	}
	if got := secrets.GetAPIKey("http://localhost:8080/v1"); got != "generic-key" {
		t.Errorf("expected generic fallback for local endpoint, got %q", got)
	}
}

func TestSecretsNoKeys(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("TOGETHER_API_KEY", "")

	secrets, err := LoadSecrets()
	if err != nil {
		t.Fatalf("LoadSecrets failed: %v", err)
	}
	if got := secrets.GetAPIKey("http://localhost:8080/v1"); got != "" {
		t.Errorf("expected empty key for unauthenticated local endpoint, got %q", got)
	}
}
