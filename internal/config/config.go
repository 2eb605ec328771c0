package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Table Settings
	TickRateHz          int
	FrameBroadcastEvery int
	ShotPowerScale      float64
	RackSeed            int64

	// Caching and idle tracking
	SnapshotTTLMinutes     int
	IdleTableSeconds       int
	IdleWorkerPollInterval int

	// Security
	JWTSecret            string
	TableTokenTTLMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Table Settings
		TickRateHz:          getEnvInt("TICK_RATE_HZ", 60),
		FrameBroadcastEvery: getEnvInt("FRAME_BROADCAST_EVERY", 2),
		ShotPowerScale:      getEnvFloat("SHOT_POWER_SCALE", 1.0),
		RackSeed:            int64(getEnvInt("RACK_SEED", 0)),

		// Caching and idle tracking
		SnapshotTTLMinutes:     getEnvInt("SNAPSHOT_TTL_MINUTES", 60),
		IdleTableSeconds:       getEnvInt("IDLE_TABLE_SECONDS", 900),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_INTERVAL", 5),

		// Security
		JWTSecret:            getEnv("JWT_SECRET", "change-me-in-production"),
		TableTokenTTLMinutes: getEnvInt("TABLE_TOKEN_TTL_MINUTES", 240),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
