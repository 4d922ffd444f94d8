package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string        // dev, prod
	HTTPPort        string        // default 8080
	APIKey          string        // shared secret checked against x-api-key; may be empty
	SlotDays        int           // how many days ahead of today the seeded demo day lies
	ShutdownTimeout time.Duration // graceful shutdown timeout
}

// Load reads configuration from the environment, with a local .env file as
// the usual source in dev. Nothing here is required: a missing API_KEY is
// the caller's problem to warn about, not a reason to refuse startup.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		APIKey:          os.Getenv("API_KEY"),
		SlotDays:        getInt("SLOT_DAYS", 1),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		fmt.Fprintf(os.Stderr, "invalid integer for %s=%q, using default %d\n", key, v, def)
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}
