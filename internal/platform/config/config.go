package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const insecureJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	StorageDriver     string
	RunMigrations     bool
	MigrationsPath    string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	LoginRateLimit    string
	APIRateLimit      string
	RateLimitRedisURL string

	CORSAllowedOrigins []string
	CashAccountPrefix  string
	LogLevel           slog.Level
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "contabilidad-ve")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("API_RATE_LIMIT", "300-M")
	viper.SetDefault("RATE_LIMIT_REDIS_URL", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CASH_ACCOUNT_PREFIX", "1.1.01")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       viper.GetString("PGSQL_URL"),
		Port:              viper.GetString("PORT"),
		IsProduction:      viper.GetBool("IS_PRODUCTION"),
		StorageDriver:     strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		RunMigrations:     viper.GetBool("RUN_MIGRATIONS"),
		MigrationsPath:    viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:         viper.GetString("JWT_SECRET"),
		JWTIssuer:         viper.GetString("JWT_ISSUER"),
		LoginRateLimit:    viper.GetString("LOGIN_RATE_LIMIT"),
		APIRateLimit:      viper.GetString("API_RATE_LIMIT"),
		RateLimitRedisURL: viper.GetString("RATE_LIMIT_REDIS_URL"),
		CashAccountPrefix: viper.GetString("CASH_ACCOUNT_PREFIX"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("PGSQL_URL must be set when STORAGE_DRIVER is postgres")
		}
	case StorageMemory:
		slog.Warn("Using in-memory storage; data is lost on restart")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
		cfg.JWTSecret = insecureJWTSecret
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = time.Hour
		slog.Warn("Invalid value for JWT_EXPIRY_DURATION, using default",
			slog.String("value", jwtExpiryStr),
			slog.String("default", jwtExpiryDuration.String()))
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o := strings.TrimSpace(origin); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		slog.Warn("Invalid LOG_LEVEL, using info", slog.String("value", viper.GetString("LOG_LEVEL")))
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg, nil
}
