// internal/config/config.go
//
// Environment configuration. A .env file in the working directory is loaded
// first when present; real environment variables always win.

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           string
	DBPath         string
	RedisURL       string // empty selects the in-memory session store
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	RegionsFile    string // empty selects the embedded demo map
	Lang           string
	Production     bool
}

// Load reads .env (if any) and the environment, applying defaults.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:           envOrDefault("PORT", "8000"),
		DBPath:         envOrDefault("DB_PATH", "./data/rayonlar.db"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      envOrDefault("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: envInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     envOrDefault("COOKIE_NAME", "rayonlar_token"),
		ClientOrigin:   envOrDefault("CLIENT_ORIGIN", "http://localhost:3000"),
		DailySalt:      envOrDefault("DAILY_SALT", "local_dev_salt"),
		RegionsFile:    os.Getenv("REGIONS_FILE"),
		Lang:           envOrDefault("RAYONLAR_LANG", "az"),
		Production:     os.Getenv("NODE_ENV") == "production" || os.Getenv("APP_ENV") == "production",
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
