package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the storefront client and the
// local stub API server.
type Config struct {
	API    APIConfig
	State  StateConfig
	Logger LoggerConfig
	Stub   StubConfig
}

// APIConfig controls how the client reaches the commerce REST API.
type APIConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
}

// StateConfig locates durable client-side state (guest session id, admin
// token). The primary user's access token is deliberately never persisted.
type StateConfig struct {
	DBPath string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// StubConfig parameterizes the local reference API server.
type StubConfig struct {
	Host                   string
	Port                   string
	JWTSecret              string
	AccessTokenTTLMinutes  int
	RefreshTokenTTLMinutes int
	BcryptCost             int
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:               getEnv("BACKLOG_API_URL", "http://localhost:3001/api"),
			RequestTimeoutSeconds: getEnvAsInt("BACKLOG_HTTP_TIMEOUT_SECONDS", 15),
		},
		State: StateConfig{
			DBPath: getEnv("BACKLOG_STATE_DB", defaultStatePath()),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Stub: StubConfig{
			Host:                   getEnv("STUB_HOST", "127.0.0.1"),
			Port:                   getEnv("STUB_PORT", "3001"),
			JWTSecret:              getEnv("STUB_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:  getEnvAsInt("STUB_ACCESS_TOKEN_TTL_MINUTES", 15),
			RefreshTokenTTLMinutes: getEnvAsInt("STUB_REFRESH_TOKEN_TTL_MINUTES", 60*24*7),
			BcryptCost:             getEnvAsInt("STUB_BCRYPT_COST", 10),
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("BACKLOG_API_URL must not be empty")
	}
	return cfg, nil
}

// RequestTimeout returns the configured request timeout duration.
func (a APIConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Addr returns the stub server bind address.
func (s StubConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// AccessTokenTTL returns the stub's access token lifetime.
func (s StubConfig) AccessTokenTTL() time.Duration {
	if s.AccessTokenTTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(s.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the stub's refresh token lifetime.
func (s StubConfig) RefreshTokenTTL() time.Duration {
	if s.RefreshTokenTTLMinutes <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(s.RefreshTokenTTLMinutes) * time.Minute
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "backlog-state.db"
	}
	return filepath.Join(home, ".backlog", "state.db")
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
