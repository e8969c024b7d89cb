package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates all configuration settings for the application.
type Config struct {
	// Environment indicates the running environment (e.g., "development", "production").
	Environment string `mapstructure:"environment"`
	// LogLevel sets the global logging verbosity.
	LogLevel string `mapstructure:"log_level"`
	// Server holds configuration for the HTTP server.
	Server ServerConfig `mapstructure:"server"`
	// Database holds configuration for the database connection.
	Database DatabaseConfig `mapstructure:"database"`
	// Redis holds configuration for the Redis connection.
	Redis RedisConfig `mapstructure:"redis"`
	// Feed holds configuration for the upstream drawing feed.
	Feed FeedConfig `mapstructure:"feed"`
	// Telegram holds configuration for Telegram prediction digests.
	Telegram TelegramConfig `mapstructure:"telegram"`
	// Telemetry holds configuration for OpenTelemetry integration.
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	// Auth holds configuration for admin authentication.
	Auth AuthConfig `mapstructure:"auth"`
	// Analysis holds tuning knobs for the statistical aggregators.
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// ServerConfig defines the HTTP server settings.
type ServerConfig struct {
	// Port is the TCP port the server listens on.
	Port int `mapstructure:"port"`
}

// DatabaseConfig defines the PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	// DatabaseURL is a connection string that overrides the individual fields.
	DatabaseURL string `mapstructure:"database_url"`
}

// RedisConfig defines the Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FeedConfig defines settings for the upstream open-data drawing feed.
type FeedConfig struct {
	// BaseURL is the base URL of the NY open-data portal.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the request timeout in seconds.
	Timeout int `mapstructure:"timeout"`
	// SyncInterval is the pause between background sync runs.
	SyncInterval time.Duration `mapstructure:"sync_interval"`
	// InitialLoadLimit caps how many drawings the first load pulls in.
	InitialLoadLimit int `mapstructure:"initial_load_limit"`
	// MaxErrors stops the background worker after this many consecutive failures.
	MaxErrors int `mapstructure:"max_errors"`
	// CacheTTL is how long the raw feed payload is cached in Redis.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// TelegramConfig defines settings for the Telegram digest bot.
type TelegramConfig struct {
	// BotToken is the authentication token for the Telegram bot.
	BotToken string `mapstructure:"bot_token"`
	// ChatID is the chat that receives prediction digests.
	ChatID string `mapstructure:"chat_id"`
	// Enabled controls whether digests are sent at all.
	Enabled bool `mapstructure:"enabled"`
}

// TelemetryConfig defines settings for OpenTelemetry.
type TelemetryConfig struct {
	// Enabled controls whether telemetry is active.
	Enabled bool `mapstructure:"enabled"`
	// OTLPEndpoint is the OTLP collector endpoint for traces and logs.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	// ServiceName is the name of the service for tracing.
	ServiceName string `mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `mapstructure:"service_version"`
	// LogLevel sets the log level for telemetry components.
	LogLevel string `mapstructure:"log_level"`
}

// AuthConfig defines admin authentication settings.
type AuthConfig struct {
	// JWTSecret is the secret key used for signing admin JWT tokens.
	JWTSecret string `mapstructure:"jwt_secret"`
	// AdminKeyHash is the bcrypt hash of the admin API key.
	AdminKeyHash string `mapstructure:"admin_key_hash"`
	// TokenTTL is the lifetime string of issued admin tokens.
	TokenTTL string `mapstructure:"token_ttl"`
}

// AnalysisConfig defines tuning knobs for the statistical aggregators.
type AnalysisConfig struct {
	// LookbackDays are the bounded frequency windows in days; all-time is
	// always computed in addition.
	LookbackDays []int `mapstructure:"lookback_days"`
	// PatternLength is the consecutive-run window size.
	PatternLength int `mapstructure:"pattern_length"`
	// Simulations is the Monte-Carlo trial count inside the comprehensive
	// analysis.
	Simulations int `mapstructure:"simulations"`
	// TrendPeriod is the moving-average period for the white-ball sum trend.
	TrendPeriod int `mapstructure:"trend_period"`
}

// Load reads the configuration from .env, the config file, and environment
// variables.
//
// Returns:
//
//	*Config: The loaded configuration structure.
//	error: An error if the configuration could not be parsed.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Map flat environment variables onto nested keys
	_ = viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = viper.BindEnv("auth.admin_key_hash", "ADMIN_KEY_HASH")
	_ = viper.BindEnv("database.database_url", "DATABASE_URL")
	_ = viper.BindEnv("feed.base_url", "FEED_BASE_URL")
	_ = viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	_ = viper.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults initializes the default configuration values in Viper.
func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "change-me-in-production")
	viper.SetDefault("database.dbname", "powerball_edge")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.database_url", "")

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Feed
	viper.SetDefault("feed.base_url", "https://data.ny.gov")
	viper.SetDefault("feed.timeout", 30)
	viper.SetDefault("feed.sync_interval", "6h")
	viper.SetDefault("feed.initial_load_limit", 2000)
	viper.SetDefault("feed.max_errors", 5)
	viper.SetDefault("feed.cache_ttl", "1h")

	// Telegram
	viper.SetDefault("telegram.enabled", false)
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.chat_id", "")

	// Telemetry
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.otlp_endpoint", "")
	viper.SetDefault("telemetry.service_name", "powerball-edge")
	viper.SetDefault("telemetry.service_version", "1.0.0")
	viper.SetDefault("telemetry.log_level", "info")

	// Auth
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.admin_key_hash", "")
	viper.SetDefault("auth.token_ttl", "1h")

	// Analysis
	viper.SetDefault("analysis.lookback_days", []int{30, 90, 365})
	viper.SetDefault("analysis.pattern_length", 3)
	viper.SetDefault("analysis.simulations", 1000)
	viper.SetDefault("analysis.trend_period", 20)
}

// validateConfig validates critical security and operational settings.
func validateConfig(config *Config) error {
	if config.Environment == "production" || config.Environment == "staging" {
		if config.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET cannot be empty in %s environment", config.Environment)
		}
		if len(config.Auth.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long in %s environment", config.Environment)
		}
		if config.Auth.AdminKeyHash == "" {
			return fmt.Errorf("ADMIN_KEY_HASH cannot be empty in %s environment", config.Environment)
		}
	}

	if config.Analysis.PatternLength < 2 {
		return fmt.Errorf("analysis.pattern_length must be at least 2, got %d", config.Analysis.PatternLength)
	}
	if config.Analysis.Simulations <= 0 {
		return fmt.Errorf("analysis.simulations must be positive, got %d", config.Analysis.Simulations)
	}

	return nil
}
