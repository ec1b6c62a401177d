package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Seconds between dependency pings for /health/details.
	HealthCheckIntervalSecs int `mapstructure:"HEALTH_CHECK_INTERVAL_SECS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisStateDB  int    `mapstructure:"REDIS_STATE_DB"`
	RedisTasksDB  int    `mapstructure:"REDIS_TASKS_DB"`

	// Gemini API key for the slot extractor.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Service account used by the speech-to-text voice channel.
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// Booking engine policy.
	SelfServeMaxParty   int `mapstructure:"SELF_SERVE_MAX_PARTY"`
	TurnoverBufferMins  int `mapstructure:"TURNOVER_BUFFER_MINS"`
	DefaultDurationMins int `mapstructure:"DEFAULT_DURATION_MINS"`
	ConversationTTLMins int `mapstructure:"CONVERSATION_TTL_MINS"`

	// Trial plan limits.
	TrialDays        int `mapstructure:"TRIAL_DAYS"`
	TrialMaxBookings int `mapstructure:"TRIAL_MAX_BOOKINGS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("HEALTH_CHECK_INTERVAL_SECS", 60)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_STATE_DB", 1)
	viper.SetDefault("REDIS_TASKS_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "appointmint")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "google-service-account.json")
	viper.SetDefault("SELF_SERVE_MAX_PARTY", 8)
	viper.SetDefault("TURNOVER_BUFFER_MINS", 90)
	viper.SetDefault("DEFAULT_DURATION_MINS", 90)
	viper.SetDefault("CONVERSATION_TTL_MINS", 30)
	viper.SetDefault("TRIAL_DAYS", 14)
	viper.SetDefault("TRIAL_MAX_BOOKINGS", 15)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
