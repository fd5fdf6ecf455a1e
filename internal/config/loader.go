package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lamim/clipwright/pkg/models"
)

// Load reads and parses the configuration file and environment variables
func Load(configPath string) (*Config, *Secrets, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	secrets, err := LoadSecrets()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	return &cfg, secrets, nil
}

// ApplyDefaults sets default values for optional configuration fields
func ApplyDefaults(cfg *Config) {
	if cfg.Phases == nil {
		cfg.Phases = make(map[string]ModelConfig)
	}

	for _, phase := range models.Phases {
		pc := cfg.Phases[string(phase)]

		if pc.BaseURL == "" {
			pc.BaseURL = "https://api.openai.com/v1"
		}
		if pc.ModelName == "" {
			pc.ModelName = "gpt-4o-mini"
		}
		if pc.Temperature == 0 {
			pc.Temperature = defaultTemperature(phase)
		}
		if pc.TopP == 0 {
			pc.TopP = 1.0
		}
		if pc.MaxOutputTokens == 0 {
			pc.MaxOutputTokens = defaultMaxOutputTokens(phase)
		}
		if pc.RateLimitPerMinute == 0 {
			pc.RateLimitPerMinute = 60
		}
		if pc.MaxContentChars == 0 {
			pc.MaxContentChars = DefaultContentBudget(phase)
		}

		cfg.Phases[string(phase)] = pc
	}

	if cfg.PromptTemplates.Classification == "" {
		cfg.PromptTemplates.Classification = GetDefaultClassificationTemplate()
	}
	if cfg.PromptTemplates.Extraction == "" {
		cfg.PromptTemplates.Extraction = GetDefaultExtractionTemplate()
	}
	if cfg.PromptTemplates.Writing == "" {
		cfg.PromptTemplates.Writing = GetDefaultWritingTemplate()
	}

	if cfg.CaptionLanguage == "" {
		cfg.CaptionLanguage = "en"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
}

func defaultTemperature(phase models.Phase) float64 {
	switch phase {
	case models.PhaseClassification:
		return 0.3
	case models.PhaseExtraction:
		return 0.5
	default:
		return 0.7
	}
}

func defaultMaxOutputTokens(phase models.Phase) int {
	switch phase {
	case models.PhaseClassification:
		return 512
	case models.PhaseExtraction:
		return 2048
	default:
		return 4000
	}
}
