package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devClientSecret = "pawplan_dev_client_secret"

type Config struct {
	Addr           string
	APIBaseURL     string
	StoreBackend   string
	DBPath         string
	RedisURL       string
	ClientSecret   []byte
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	ClientIdleTTL  time.Duration
	AllowedOrigins []string
	LogLevel       string
	// SecureCookie marks the client cookie Secure; set it when served over TLS.
	SecureCookie bool

	// UsingDevSecret is set when PAWPLAN_CLIENT_SECRET was empty.
	UsingDevSecret bool
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("PAWPLAN_ADDR", ":8081"),
		APIBaseURL:     strings.TrimRight(getEnv("PAWPLAN_API_BASE_URL", "http://localhost:5000"), "/"),
		StoreBackend:   strings.ToLower(getEnv("PAWPLAN_STORE_BACKEND", "sqlite")),
		DBPath:         getEnv("PAWPLAN_DB_PATH", "./pawplan_client.db"),
		RedisURL:       getEnv("PAWPLAN_REDIS_URL", "redis://localhost:6379"),
		RequestTimeout: getEnvDuration("PAWPLAN_REQUEST_TIMEOUT", 0),
		RateLimitRPS:   getEnvFloat("PAWPLAN_RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("PAWPLAN_RATE_LIMIT_BURST", 10),
		ClientIdleTTL:  getEnvDuration("PAWPLAN_CLIENT_IDLE_TTL", 30*time.Minute),
		AllowedOrigins: splitList(getEnv("PAWPLAN_ALLOWED_ORIGINS", "*")),
		LogLevel:       strings.ToLower(getEnv("PAWPLAN_LOG_LEVEL", "info")),
		SecureCookie:   getEnvBool("PAWPLAN_SECURE_COOKIE", false),
	}

	secret := os.Getenv("PAWPLAN_CLIENT_SECRET")
	if secret == "" {
		secret = devClientSecret
		cfg.UsingDevSecret = true
	}
	cfg.ClientSecret = []byte(secret)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("PAWPLAN_API_BASE_URL must not be empty")
	}
	switch c.StoreBackend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("PAWPLAN_STORE_BACKEND: unsupported backend %q", c.StoreBackend)
	}
	if c.ClientIdleTTL <= 0 {
		return fmt.Errorf("PAWPLAN_CLIENT_IDLE_TTL must be positive, got %s", c.ClientIdleTTL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("PAWPLAN_REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive (rps=%v burst=%d)", c.RateLimitRPS, c.RateLimitBurst)
	}
	return nil
}

// AllowAllOrigins reports whether CORS should be fully open.
func (c *Config) AllowAllOrigins() bool {
	return len(c.AllowedOrigins) == 0 || (len(c.AllowedOrigins) == 1 && c.AllowedOrigins[0] == "*")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
