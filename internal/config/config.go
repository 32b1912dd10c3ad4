// Package config reads process settings from the environment and league
// defaults from an optional TOML file.
package config

import (
	"os"
	"strings"
)

// ClickHouseConfig locates the projection warehouse
type ClickHouseConfig struct {
	Addr          string
	Database      string
	User          string
	Password      string
	ProjectionSet string
}

// Config holds all process configuration
type Config struct {
	Port        string
	GRPCPort    string
	Environment string
	LogLevel    string

	DBDriver    string
	SQLiteFile  string
	DatabaseURL string

	NATSURL     string
	NATSSubject string

	ClickHouse ClickHouseConfig
	RedisURL   string

	CORSOrigins  []string
	LeagueConfig string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		GRPCPort:    getEnv("GRPC_PORT", "50051"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBDriver:    getEnv("DB_DRIVER", "memory"),
		SQLiteFile:  getEnv("SQLITE_FILE", "dev.sqlite"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		NATSURL:     getEnv("NATS_URL", "nats://localhost:4222"),
		NATSSubject: getEnv("NATS_SUBJECT", "valuation.events"),

		ClickHouse: ClickHouseConfig{
			Addr:          getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
			Database:      getEnv("CLICKHOUSE_DB", "default"),
			User:          getEnv("CLICKHOUSE_USER", "default"),
			Password:      getEnv("CLICKHOUSE_PASSWORD", ""),
			ProjectionSet: getEnv("CLICKHOUSE_PROJECTION_SET", "default"),
		},
		RedisURL: getEnv("REDIS_URL", ""),

		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		LeagueConfig: getEnv("LEAGUE_CONFIG", ""),
	}
}

// IsDevelopment reports whether in-process stand-ins replace external services
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
