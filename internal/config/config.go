package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv      string   `envconfig:"APP_ENV" default:"dev"`
	ProdOrigins []string `envconfig:"PROD_ORIGINS"`
	HTTPAddr    string   `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`

	DBDSN         string `envconfig:"DB_DSN" required:"true"`
	DBAutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	// JWTSecret validates seller and customer tokens issued by the auth service.
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Ownerless customer endpoints. Turning these off tightens cancel and
	// delete-by-id to 403 without touching the booking lifecycle.
	AllowAnonymousCancel bool `envconfig:"ALLOW_ANONYMOUS_CANCEL" default:"true"`
	AllowAnonymousDelete bool `envconfig:"ALLOW_ANONYMOUS_DELETE" default:"true"`

	// BookingRateLimit is the number of creation attempts allowed per phone
	// inside BookingRateWindow. Zero disables throttling.
	BookingRateLimit  int           `envconfig:"BOOKING_RATE_LIMIT" default:"5"`
	BookingRateWindow time.Duration `envconfig:"BOOKING_RATE_WINDOW" default:"10m"`

	// RedisAddr moves rate-limit counters out of process when set.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	// AMQPURL enables publishing confirmation events when set.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"bookings"`
}

// IsProduction reports whether APP_ENV selects the production profile.
func (c *Config) IsProduction() bool {
	return c.AppEnv == PROD_STRING
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if cfg.BookingRateLimit < 0 {
		return nil, fmt.Errorf("invalid BOOKING_RATE_LIMIT: must not be negative")
	}
	if cfg.BookingRateLimit > 0 && cfg.BookingRateWindow <= 0 {
		return nil, fmt.Errorf("invalid BOOKING_RATE_WINDOW: must be positive")
	}

	return cfg, nil
}
