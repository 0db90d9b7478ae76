package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	DB      DatabaseConfig
	Display DisplayConfig
}

// APIConfig points the console at the market REST API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig controls the admin cookies and the per-session view state.
type SessionConfig struct {
	CookieSecure  bool
	StateTTL      time.Duration
	SweepInterval time.Duration
	// AllowedHosts are extra hosts allowed to post forms to the console,
	// e.g. when it sits behind a proxy with a different public name.
	AllowedHosts []string
}

// RedisConfig contains Redis connection parameters. An empty Host keeps view
// state in process memory.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// DatabaseConfig contains PostgreSQL connection parameters for the audit log.
// An empty Host disables the audit log.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DisplayConfig holds presentation settings for dates.
type DisplayConfig struct {
	UTCOffsetHours int
}

// Enabled reports whether Redis should be used for view state.
func (c RedisConfig) Enabled() bool { return c.Host != "" }

// Enabled reports whether the audit database is configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// Location returns the fixed zone used to render timestamps.
func (c DisplayConfig) Location() *time.Location {
	return time.FixedZone("TRT", c.UTCOffsetHours*3600)
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8081")
	cfg.Env = getEnv("ENV", "development")

	// Market API
	cfg.API.BaseURL = strings.TrimSuffix(getEnv("MARKET_API_URL", ""), "/")

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Audit database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	cfg.Display.UTCOffsetHours = getEnvInt("DISPLAY_UTC_OFFSET_HOURS", 3)
	cfg.Session.CookieSecure = getEnvBool("COOKIE_SECURE", cfg.Env == "production")
	cfg.Session.AllowedHosts = getEnvList("ALLOWED_HOSTS")

	var err error
	if cfg.API.Timeout, err = parseDurationEnv("MARKET_API_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid MARKET_API_TIMEOUT: %w", err)
	}
	if cfg.Session.StateTTL, err = parseDurationEnv("STATE_TTL", "12h"); err != nil {
		return nil, fmt.Errorf("invalid STATE_TTL: %w", err)
	}
	if cfg.Session.SweepInterval, err = parseDurationEnv("STATE_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid STATE_SWEEP_INTERVAL: %w", err)
	}

	if cfg.API.BaseURL == "" {
		return nil, errors.New("MARKET_API_URL must be set to the market API base URL")
	}

	if cfg.DB.Enabled() && (cfg.DB.User == "" || cfg.DB.Name == "") {
		return nil, errors.New("database configuration incomplete: ensure DB_USER and DB_NAME are set when DB_HOST is")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
