package gemini

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds Gemini-specific settings.
type Config struct {
	APIKey string `env:"GEMINI_API_KEY,notEmpty"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	// BaseURL overrides the API endpoint; tests point it at a stub server.
	BaseURL string `env:"GEMINI_BASE_URL"`
}

func NewConfig() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("gemini config: %w", err)
	}
	return &cfg, nil
}
