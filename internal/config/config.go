package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	HTTP_ADDR       string
	ALLOWED_HEADERS string

	JWT_SECRET      string
	JWT_ACCESS_TTL  time.Duration
	JWT_REFRESH_TTL time.Duration

	// Redis backs the analytics throttle when set; otherwise buckets live in memory
	REDIS_ADDR     string
	REDIS_PASSWORD string
	REDIS_DB       int

	ANALYTICS_RATE_LIMIT  int
	ANALYTICS_RATE_WINDOW time.Duration

	// ClickHouse mirror for analytics events, disabled when CLICKHOUSE_HOST is empty
	CLICKHOUSE_HOST     string
	CLICKHOUSE_PORT     int
	CLICKHOUSE_DATABASE string
	CLICKHOUSE_USERNAME string
	CLICKHOUSE_PASSWORD string
	CLICKHOUSE_USE_TLS  bool

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	return &Config{
		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     getEnvOrDefault("DB_HOST", "localhost"),
		DB_PORT:     getEnvOrDefault("DB_PORT", "5432"),
		DB_NAME:     getEnvOrDefault("DB_NAME", "civicpulse"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		HTTP_ADDR:       getEnvOrDefault("HTTP_ADDR", "0.0.0.0:8000"),
		ALLOWED_HEADERS: getEnvOrDefault("ALLOWED_HEADERS", "Authorization,Content-Type"),

		JWT_SECRET:      os.Getenv("JWT_SECRET"),
		JWT_ACCESS_TTL:  getDurationOrDefault("JWT_ACCESS_TTL", 5*time.Minute),
		JWT_REFRESH_TTL: getDurationOrDefault("JWT_REFRESH_TTL", 24*time.Hour),

		REDIS_ADDR:     os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:       getIntOrDefault("REDIS_DB", 0),

		ANALYTICS_RATE_LIMIT:  getIntOrDefault("ANALYTICS_RATE_LIMIT", 60),
		ANALYTICS_RATE_WINDOW: getDurationOrDefault("ANALYTICS_RATE_WINDOW", time.Minute),

		// Default to HTTP port 8123 (more compatible than native port 9000)
		CLICKHOUSE_HOST:     os.Getenv("CLICKHOUSE_HOST"),
		CLICKHOUSE_PORT:     getIntOrDefault("CLICKHOUSE_PORT", 8123),
		CLICKHOUSE_DATABASE: getEnvOrDefault("CLICKHOUSE_DATABASE", "analytics"),
		CLICKHOUSE_USERNAME: getEnvOrDefault("CLICKHOUSE_USERNAME", "default"),
		CLICKHOUSE_PASSWORD: os.Getenv("CLICKHOUSE_PASSWORD"),
		CLICKHOUSE_USE_TLS:  os.Getenv("CLICKHOUSE_USE_TLS") == "true",

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

// DSN builds the postgres connection string shared by the pool and the migrator.
func (c *Config) DSN() string {
	str := "postgresql://" + c.DB_USERNAME + ":" + c.DB_PASSWORD + "@" + c.DB_HOST + ":" + c.DB_PORT + "/" + c.DB_NAME
	if c.DISABLE_TLS == "true" {
		str = str + "?sslmode=disable"
	}
	return str
}

func GetEnvOrDefault(key, defaultValue string) string {
	return getEnvOrDefault(key, defaultValue)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil {
			return v
		}
	}
	return defaultValue
}
