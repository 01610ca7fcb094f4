package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct, populated from the
// environment (plus optional .env files) once at bootstrap.
type Config struct {
	App  AppConfig
	Log  LogConfig
	Auth AuthConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	URL   string
	Port  string
}

type LogConfig struct {
	Level  string // trace | debug | info | warn | error
	Format string // console | json
}

type AuthConfig struct {
	// Secret signs access tokens. Empty disables the token endpoints.
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Load reads .env (if present) and populates a Config from environment
// variables. Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "Armature"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			URL:   env("APP_URL", "http://localhost"),
			Port:  env("APP_PORT", "8000"),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "console"),
		},
		Auth: AuthConfig{
			Secret:     env("AUTH_SECRET", ""),
			AccessTTL:  envDuration("AUTH_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: envDuration("AUTH_REFRESH_TTL", 30*24*time.Hour),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
