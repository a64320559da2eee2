package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting of the API server.
type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL       string `envconfig:"DATABASE_URL" required:"true"`
	MigrationsEnabled bool   `envconfig:"MIGRATIONS_ENABLED" default:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Bootstrap administrator, created at startup when ADMIN_USERNAME is set.
	AdminUsername string `envconfig:"ADMIN_USERNAME"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	MinioBucket    string `envconfig:"MINIO_BUCKET" default:"patient-documents"`

	// Empty disables event publishing.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"dentiq.events"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	AuthRateLimit float64 `envconfig:"AUTH_RATE_LIMIT" default:"1"`
	AuthRateBurst int     `envconfig:"AUTH_RATE_BURST" default:"5"`

	ExpirationSweepInterval time.Duration `envconfig:"EXPIRATION_SWEEP_INTERVAL" default:"15m"`
	LowStockCheckInterval   time.Duration `envconfig:"LOW_STOCK_CHECK_INTERVAL" default:"1h"`
	FinanceCacheTTL         time.Duration `envconfig:"FINANCE_CACHE_TTL" default:"5m"`

	VerificationCodeTTL time.Duration `envconfig:"VERIFICATION_CODE_TTL" default:"10m"`
	DocumentURLTTL      time.Duration `envconfig:"DOCUMENT_URL_TTL" default:"15m"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	for i, origin := range cfg.CORSAllowedOrigins {
		cfg.CORSAllowedOrigins[i] = strings.TrimSpace(origin)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
