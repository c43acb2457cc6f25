package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the console.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	LogLevel          string
	BackendURL        string
	BackendToken      string
	BackendTimeout    time.Duration
	DatabaseURL       string
	SQLitePath        string
	RedisURL          string
	NATSURL           string
	DashboardCacheTTL time.Duration
	UploadMaxMB       int
	RateLimitMax      int
	RateLimitWindow   time.Duration
	CORSOrigins       string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the console runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SCHOOL_CONSOLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "School Console")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("backend.url", "http://localhost:3500/api/v1")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("sqlite.path", "school-console.db")
	v.SetDefault("dashboard.cache_ttl", "1m")
	v.SetDefault("upload.max_mb", 5)
	v.SetDefault("rate_limit.max", 60)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("cors.origins", "*")

	backendTimeout, err := parseDuration(v, "backend.timeout", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid backend timeout: %w", err)
	}

	ttl, err := parseDuration(v, "dashboard.cache_ttl", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	window, err := parseDuration(v, "rate_limit.window", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		LogLevel:          strings.ToLower(v.GetString("log.level")),
		BackendURL:        strings.TrimRight(v.GetString("backend.url"), "/"),
		BackendToken:      v.GetString("backend.token"),
		BackendTimeout:    backendTimeout,
		DatabaseURL:       v.GetString("database.url"),
		SQLitePath:        v.GetString("sqlite.path"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		DashboardCacheTTL: ttl,
		UploadMaxMB:       v.GetInt("upload.max_mb"),
		RateLimitMax:      v.GetInt("rate_limit.max"),
		RateLimitWindow:   window,
		CORSOrigins:       v.GetString("cors.origins"),
	}

	parsed, err := url.Parse(cfg.BackendURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("backend url must be absolute, got %q", cfg.BackendURL)
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 5
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 60
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}
