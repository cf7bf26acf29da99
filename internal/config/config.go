package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/AbiralTr/Arc-Web/internal/llm"
)

const (
	EnvProduction    = "production"
	devSecret        = "dev"
	supportedDrivers = "postgres, sqlite"
	defaultSQLiteDSN = "arc.db"
)

// app config, read once at startup
type Config struct {
	Port   string `env:"PORT" envDefault:"3000"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	JWTSecret  string        `env:"JWT_SECRET"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	GuestTTL   time.Duration `env:"GUEST_TTL" envDefault:"168h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`

	Provider        string        `env:"AI_PROVIDER" envDefault:"gemini"`
	GenerateTimeout time.Duration `env:"QUEST_GENERATE_TIMEOUT" envDefault:"30s"`

	RedisAddr       string `env:"REDIS_ADDR"`
	RefreshSchedule string `env:"LEADERBOARD_REFRESH_SCHEDULE" envDefault:"@every 5m"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = devSecret
	}
	if cfg.DatabaseURL == "" && cfg.DBDriver == "sqlite" {
		cfg.DatabaseURL = defaultSQLiteDSN
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// SecureCookies reports whether session cookies need the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.IsProduction()
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q, supported: %s", c.DBDriver, supportedDrivers))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.GuestTTL <= 0 {
		errs = append(errs, errors.New("GUEST_TTL must be positive"))
	}
	if !slices.Contains(llm.Registered(), c.Provider) {
		errs = append(errs, fmt.Errorf("unsupported AI_PROVIDER %q, supported: %s", c.Provider, strings.Join(llm.Registered(), ", ")))
	}
	if c.GenerateTimeout <= 0 {
		errs = append(errs, errors.New("QUEST_GENERATE_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}
