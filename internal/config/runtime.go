package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Runtime is the environment-driven configuration: identifiers, endpoints
// and credentials that change per deployment rather than per tuning pass.
type Runtime struct {
	LeagueID string `envconfig:"LEAGUE_ID"`
	Season   int    `envconfig:"SEASON" default:"2025"`

	SleeperBaseURL string        `envconfig:"SLEEPER_BASE_URL" default:"https://api.sleeper.app/v1"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	RateLimitRPS   float64       `envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" default:"20"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"15m"`

	DatabaseURL  string        `envconfig:"DATABASE_URL"`
	RunRetention time.Duration `envconfig:"RUN_RETENTION" default:"720h"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	RankingsConfigPath string `envconfig:"RANKINGS_CONFIG" default:"config/weights.yaml"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadRuntime reads the environment, after loading .env if one exists.
func LoadRuntime() (Runtime, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded environment from .env")
	}
	var rt Runtime
	if err := envconfig.Process("CPR", &rt); err != nil {
		return Runtime{}, fmt.Errorf("failed to process environment: %w", err)
	}
	return rt, nil
}
