package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Auth      AuthConfig
	Scheduler SchedulerConfig
	Prices    PriceConfig
	Log       LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds token signing and internal API key settings.
type AuthConfig struct {
	SecretKey             string
	AccessTokenTTLMinutes int
	InternalAPIKey        string
}

// SchedulerConfig controls the in-process cron jobs.
type SchedulerConfig struct {
	Enabled               bool
	SnapshotSchedule      string
	TickerRefreshSchedule string
}

// PriceConfig controls how market prices are fetched.
type PriceConfig struct {
	LookbackDays     int
	FetchConcurrency int
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("DB_PATH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Auth: AuthConfig{
			SecretKey:             v.GetString("SECRET_KEY"),
			AccessTokenTTLMinutes: v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES"),
			InternalAPIKey:        v.GetString("INTERNAL_API_KEY"),
		},
		Scheduler: SchedulerConfig{
			Enabled:               v.GetBool("SCHEDULER_ENABLED"),
			SnapshotSchedule:      v.GetString("SNAPSHOT_SCHEDULE"),
			TickerRefreshSchedule: v.GetString("TICKER_REFRESH_SCHEDULE"),
		},
		Prices: PriceConfig{
			LookbackDays:     v.GetInt("PRICE_LOOKBACK_DAYS"),
			FetchConcurrency: v.GetInt("PRICE_FETCH_CONCURRENCY"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
	}

	if config.Auth.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY must be set")
	}
	if config.Auth.AccessTokenTTLMinutes <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", config.Auth.AccessTokenTTLMinutes)
	}
	if config.Prices.LookbackDays <= 0 {
		return nil, fmt.Errorf("PRICE_LOOKBACK_DAYS must be positive, got %d", config.Prices.LookbackDays)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("DB_PATH", "./data/peasy_money.db")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")
	v.SetDefault("SECRET_KEY", "dev-secret-change-me")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	v.SetDefault("INTERNAL_API_KEY", "")
	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SNAPSHOT_SCHEDULE", "0 30 1 * * *")
	v.SetDefault("TICKER_REFRESH_SCHEDULE", "0 0 3 * * MON")
	v.SetDefault("PRICE_LOOKBACK_DAYS", 30)
	v.SetDefault("PRICE_FETCH_CONCURRENCY", 4)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
}

// splitList turns a comma separated env value into a trimmed slice, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
