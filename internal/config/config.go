package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is used when API_BASE_URL is not set.
const DefaultAPIBaseURL = "https://flores-backend-px2c.onrender.com/api"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	APIBaseURL     string
	APITimeout     time.Duration
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	SessionTTL     time.Duration
	SessionSweep   time.Duration
	CookieSecure   bool
	ListCacheTTL   time.Duration
	ReconcileDelay time.Duration
	LoginRateLimit float64
	LogLevel       string

	// Backend double (cmd/devbackend).
	BackendPort       string
	MySQLDSN          string
	JWTSecret         string
	SeedAdminPassword string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is applied first when present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		APIBaseURL:     getEnv("API_BASE_URL", DefaultAPIBaseURL),
		APITimeout:     getEnvDuration("API_TIMEOUT", 15*time.Second),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionSweep:   getEnvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),
		ListCacheTTL:   getEnvDuration("LIST_CACHE_TTL", 30*time.Second),
		ReconcileDelay: getEnvDuration("RECONCILE_DELAY", 2*time.Second),
		LoginRateLimit: getEnvFloat("LOGIN_RATE_LIMIT", 5),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		BackendPort:       getEnv("BACKEND_PORT", "4000"),
		MySQLDSN:          os.Getenv("MYSQL_DSN"),
		JWTSecret:         getEnv("JWT_SECRET", "change-me"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
