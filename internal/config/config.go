// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/osustats/osustats/internal/model"
)

// upstreamCalls is the number of osu! API requests in one generation run.
const upstreamCalls = 3

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080" validate:"min=1,max=65535"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`

	// Server timeouts. Generation runs inside the /generate request, so the
	// write timeout has to cover two upstream calls and a render.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// osu! API credentials and endpoints
	ClientID     string        `env:"OSU_CLIENT_ID,required" validate:"required"`
	ClientSecret string        `env:"OSU_CLIENT_SECRET,required" validate:"required"`
	TokenURL     string        `env:"OSU_TOKEN_URL" envDefault:"https://osu.ppy.sh/oauth/token" validate:"url"`
	APIBaseURL   string        `env:"OSU_API_BASE_URL" envDefault:"https://osu.ppy.sh/api/v2" validate:"url"`
	HTTPTimeout  time.Duration `env:"OSU_HTTP_TIMEOUT" envDefault:"15s" validate:"gt=0"`

	// Which player and leaderboard slice to compare against
	UserID       int    `env:"OSU_USER_ID" envDefault:"14337744" validate:"min=1"`
	Mode         string `env:"OSU_MODE" envDefault:"fruits" validate:"required"`
	RankingPage  int    `env:"OSU_RANKING_PAGE" envDefault:"20" validate:"min=1"`
	RankingLimit int    `env:"OSU_RANKING_LIMIT" envDefault:"50" validate:"min=1,max=50"`

	// Circuit breaker around the upstream API
	BreakerEnabled     bool          `env:"BREAKER_ENABLED" envDefault:"true"`
	BreakerMaxFailures uint32        `env:"BREAKER_MAX_FAILURES" envDefault:"5" validate:"min=1"`
	BreakerTimeout     time.Duration `env:"BREAKER_TIMEOUT" envDefault:"1m"`

	// Rendering assets
	BackgroundPath string  `env:"BACKGROUND_PATH" envDefault:"bg.png" validate:"required"`
	FontPath       string  `env:"FONT_PATH" envDefault:"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"`
	FontSize       float64 `env:"FONT_SIZE" envDefault:"20" validate:"gt=0"`
	OutputPath     string  `env:"OUTPUT_PATH" envDefault:"data/stats_image.png" validate:"required"`
	Headline       string  `env:"CARD_HEADLINE" envDefault:"3 DIGIT WHEN??"`

	// Optional Redis for the last-run status record. Empty keeps it in memory.
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Per-IP limit on /generate. Zero disables the limiter.
	RateLimitGeneratePerMinute int `env:"RATE_LIMIT_GENERATE_PER_MINUTE" envDefault:"0" validate:"min=0"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks field constraints that env tags cannot express.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !model.IsMode(c.Mode) {
		return fmt.Errorf("invalid config: OSU_MODE %q is not one of %v", c.Mode, model.Modes)
	}
	// /generate makes up to three upstream calls inside one response.
	if budget := upstreamCalls * c.HTTPTimeout; c.WriteTimeout <= budget {
		return fmt.Errorf("invalid config: WRITE_TIMEOUT %s must exceed %d x OSU_HTTP_TIMEOUT (%s)",
			c.WriteTimeout, upstreamCalls, budget)
	}
	return nil
}

// LoadDotenv reads a .env file into the process environment when one exists.
// Variables already set in the environment win. It is a no-op in production.
func LoadDotenv() {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
}

// Load parses environment variables and returns a validated Config.
// Returns an error if required variables are missing or a value is out of range.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
