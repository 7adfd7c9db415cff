package config

import (
	"os"
	"strconv"
)

// Config holds environment-specific settings; everything has a local
// development default.
type Config struct {
	HTTPAddr    string
	MySQLDSN    string
	RedisAddr   string
	JWTSecret   string
	WorkerCount int
	QueueSize   int
}

func Load() Config {
	return Config{
		HTTPAddr:    getEnvOrDefault("HTTP_ADDR", ":8080"),
		MySQLDSN:    getEnvOrDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/stockroom?parseTime=true"),
		RedisAddr:   getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		JWTSecret:   getEnvOrDefault("JWT_SECRET", "dev-secret-change-in-production"),
		WorkerCount: getEnvIntOrDefault("WORKER_COUNT", 4),
		QueueSize:   getEnvIntOrDefault("QUEUE_SIZE", 1024),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
