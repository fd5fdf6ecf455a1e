package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/lamim/clipwright/pkg/models"
)

// Config represents the complete application configuration
type Config struct {
	Phases          map[string]ModelConfig `toml:"phases"`
	PromptTemplates PromptTemplates        `toml:"prompt_templates"`
	CaptionLanguage string                 `toml:"caption_language"` // Language code for caption fetching (default: en)
	OutputDir       string                 `toml:"output_dir"`       // Session output root (default: output)
}

// ModelConfig represents generation settings for a single pipeline phase
type ModelConfig struct {
	BaseURL            string  `toml:"base_url"`
	ModelName          string  `toml:"model_name"`
	Temperature        float64 `toml:"temperature"`
	TopP               float64 `toml:"top_p"`
	MaxOutputTokens    int     `toml:"max_output_tokens"`
	RateLimitPerMinute int     `toml:"rate_limit_per_minute"`
	// MaxContentChars is the truncation budget for the phase's primary
	// content input.
	// NOTE: In TOML, we can't distinguish 0 from unset, so:
	// - Unset (0) → defaults to the per-phase budget
	// - Explicitly set to -1 → no truncation
	// - Any positive number → use that value
	MaxContentChars int `toml:"max_content_chars"`
}

// PromptTemplates holds the customizable per-phase prompt templates
type PromptTemplates struct {
	Classification string `toml:"classification"`
	Extraction     string `toml:"extraction"`
	Writing        string `toml:"writing"`
}

// Template returns the template text for the given phase
func (p PromptTemplates) Template(phase models.Phase) string {
	switch phase {
	case models.PhaseClassification:
		return p.Classification
	case models.PhaseExtraction:
		return p.Extraction
	default:
		return p.Writing
	}
}

// Secrets holds sensitive credentials loaded from environment variables
type Secrets struct {
	APIKeys map[string]string
}

// Phase returns the model configuration for the given phase
func (c *Config) Phase(phase models.Phase) ModelConfig {
	return c.Phases[string(phase)]
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for _, phase := range models.Phases {
		pc, ok := c.Phases[string(phase)]
		if !ok {
			return fmt.Errorf("phases.%s is required", phase)
		}
		if err := validateModelConfig(string(phase), pc); err != nil {
			return err
		}
	}

	if c.PromptTemplates.Classification == "" {
		return fmt.Errorf("prompt_templates.classification is required")
	}
	if c.PromptTemplates.Extraction == "" {
		return fmt.Errorf("prompt_templates.extraction is required")
	}
	if c.PromptTemplates.Writing == "" {
		return fmt.Errorf("prompt_templates.writing is required")
	}

	return nil
}

func validateModelConfig(name string, mc ModelConfig) error {
	if mc.BaseURL == "" {
		return fmt.Errorf("phases.%s.base_url is required", name)
	}
	if mc.ModelName == "" {
		return fmt.Errorf("phases.%s.model_name is required", name)
	}
	if mc.Temperature < 0 || mc.Temperature > 2 {
		return fmt.Errorf("phases.%s.temperature must be between 0 and 2", name)
	}
	if mc.TopP < 0 || mc.TopP > 1 {
		return fmt.Errorf("phases.%s.top_p must be between 0 and 1", name)
	}
	if mc.MaxOutputTokens < 1 {
		return fmt.Errorf("phases.%s.max_output_tokens must be at least 1", name)
	}
	if mc.RateLimitPerMinute < 1 {
		return fmt.Errorf("phases.%s.rate_limit_per_minute must be at least 1", name)
	}
	if mc.MaxContentChars < -1 {
		return fmt.Errorf("phases.%s.max_content_chars must be -1, 0, or positive (got %d)", name, mc.MaxContentChars)
	}
	return nil
}

// LoadSecrets loads sensitive credentials from environment variables
func LoadSecrets() (*Secrets, error) {
	secrets := &Secrets{
		APIKeys: make(map[string]string),
	}

	// Load generic API key (provider-agnostic)
	if key := os.Getenv("API_KEY"); key != "" {
		secrets.APIKeys["generic"] = key
	}

	// Load provider-specific API keys (optional, override generic)
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		secrets.APIKeys["openai"] = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		secrets.APIKeys["anthropic"] = key
	}
	if key := os.Getenv("TOGETHER_API_KEY"); key != "" {
		secrets.APIKeys["together"] = key
	}

	return secrets, nil
}

// GetAPIKey returns the API key for a given base URL
func (s *Secrets) GetAPIKey(baseURL string) string {
	if strings.Contains(baseURL, "openai.com") {
		if key := s.APIKeys["openai"]; key != "" {
			return key
		}
	}
	if strings.Contains(baseURL, "anthropic.com") {
		if key := s.APIKeys["anthropic"]; key != "" {
			return key
		}
	}
	if strings.Contains(baseURL, "together.xyz") || strings.Contains(baseURL, "together.ai") {
		if key := s.APIKeys["together"]; key != "" {
			return key
		}
	}

	// Fall back to generic API_KEY for any OpenAI-compatible provider
	if key := s.APIKeys["generic"]; key != "" {
		return key
	}

	// No key found; could be a local server without auth
	return ""
}
