package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration of the API service.
type Config struct {
	HTTPAddr         string        `envconfig:"HTTP_ADDR" default:":3001"`
	JWTSecret        string        `envconfig:"JWT_SECRET"`
	JWTIssuer        string        `envconfig:"JWT_ISSUER" default:"service-academics"`
	TokenTTL         time.Duration `envconfig:"TOKEN_TTL" default:"3h"`
	FrontendURL      string        `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	AIAgentURL       string        `envconfig:"AI_AGENT_URL"`
	AIAgentTimeout   time.Duration `envconfig:"AI_AGENT_TIMEOUT" default:"30s"`
	RedisAddr        string        `envconfig:"REDIS_ADDR"`
	RedisPassword    string        `envconfig:"REDIS_PASSWORD"`
	SemesterCacheTTL time.Duration `envconfig:"SEMESTER_CACHE_TTL" default:"10m"`
	LoginRateLimit   int           `envconfig:"LOGIN_RATE_LIMIT" default:"20"`
	AutoMigrate      bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`
	Env              string        `envconfig:"APP_ENV" default:"development"`
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("config: JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("config: TOKEN_TTL must be positive"))
	}
	if c.LoginRateLimit <= 0 {
		errs = append(errs, errors.New("config: LOGIN_RATE_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
