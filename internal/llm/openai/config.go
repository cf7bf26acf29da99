package openai

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds OpenAI-specific settings.
type Config struct {
	APIKey  string `env:"OPENAI_API_KEY,notEmpty"`
	Model   string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	BaseURL string `env:"OPENAI_BASE_URL"`
}

func NewConfig() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("openai config: %w", err)
	}
	return &cfg, nil
}
