package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the insecure fallback used when AUTH_JWT_SECRET is unset.
// Startup warns when it is active outside development.
const DefaultJWTSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token issuance parameters.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
}

// RateLimitConfig defines the issuance rate governor parameters.
type RateLimitConfig struct {
	WindowSeconds int
	MaxRequests   int
	Store         string // "memory" or "redis"
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "token-gate"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", DefaultJWTSecret),
			TokenTTLMinutes: getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 60),
		},
		RateLimit: RateLimitConfig{
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			MaxRequests:   getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 5),
			Store:         getEnv("RATE_LIMIT_STORE", "memory"),
		},
	}

	if cfg.RateLimit.WindowSeconds <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive")
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// Window returns the rate-limit window duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
