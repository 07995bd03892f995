package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application settings, populated from environment variables.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// JWTSecret signs bearer tokens, SecretKey keys the API-key HMAC,
	// WebhookSecret verifies identity-provider webhook signatures.
	JWTSecret     string `env:"JWT_SECRET,required"`
	SecretKey     string `env:"SECRET_KEY,required"`
	WebhookSecret string `env:"WEBHOOK_SECRET" envDefault:""`

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DefaultUserEmail string `env:"DEFAULT_USER_EMAIL" envDefault:"admin@example.com"`
	DefaultUserRole  string `env:"DEFAULT_USER_ROLE" envDefault:"admin"`

	UserSyncSchedule string `env:"USER_SYNC_SCHEDULE" envDefault:"@hourly"`
	KeyAuditSchedule string `env:"KEY_AUDIT_SCHEDULE" envDefault:"@daily"`
}

// Load reads configuration from the environment. A .env file is honored when
// present but its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// AllowedCORSOrigins splits the comma separated origin list.
func (c *Config) AllowedCORSOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
