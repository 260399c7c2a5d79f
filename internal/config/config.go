package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"vocalhire/interview/internal/store"
)

// app config, read once at startup
type Config struct {
	Port     string
	Provider string

	// Postgres is nil when POSTGRES_HOST is unset; state then lives in memory.
	Postgres *store.PostgresConfig
	// RedisAddr is empty when completion events are not published.
	RedisAddr string

	AllowedOrigins   []string
	FeedbackCacheTTL time.Duration
	SessionIdle      time.Duration
	SweepSchedule    string

	ExportSchedule  string
	ExportDir       string
	ExportEnabled   bool
	ExportBatchSize int
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Provider:         getEnvOrDefault("AI_PROVIDER", "gemini"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		AllowedOrigins:   splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		FeedbackCacheTTL: getEnvDuration("FEEDBACK_CACHE_TTL", 15*time.Minute),
		SessionIdle:      getEnvDuration("SESSION_IDLE_TIMEOUT", 10*time.Minute),
		SweepSchedule:    getEnvOrDefault("SESSION_SWEEP_SCHEDULE", "@every 1m"),
		ExportSchedule:   getEnvOrDefault("REPORT_EXPORT_SCHEDULE", "0 2 * * *"),
		ExportDir:        getEnvOrDefault("REPORT_EXPORT_DIR", "./exports"),
		ExportEnabled:    getEnvOrDefault("REPORT_EXPORT_ENABLED", "false") == "true",
		ExportBatchSize:  getEnvInt("REPORT_EXPORT_BATCH_SIZE", 50),
	}

	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		config.Postgres = &store.PostgresConfig{
			Host:     host,
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			User:     getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("POSTGRES_DB", "vocalhire"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		}
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	// Gemini validation is handled by gemini.NewConfig()
	if config.SessionIdle <= 0 {
		return errors.New("SESSION_IDLE_TIMEOUT must be positive")
	}
	if config.ExportBatchSize < 0 {
		return errors.New("REPORT_EXPORT_BATCH_SIZE must not be negative")
	}
	if config.ExportEnabled {
		if _, err := cron.ParseStandard(config.ExportSchedule); err != nil {
			return errors.New("invalid REPORT_EXPORT_SCHEDULE: " + err.Error())
		}
	}
	if config.SweepSchedule != "" {
		if _, err := cron.ParseStandard(config.SweepSchedule); err != nil {
			return errors.New("invalid SESSION_SWEEP_SCHEDULE: " + err.Error())
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
