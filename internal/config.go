package internal

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/DukeRupert/wrestaurant/internal/domain"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Screen state held per browser session
	SessionIdleTimeout time.Duration

	// Remote images for the page background
	BackgroundImageURL string
	FallbackImageURL   string

	// Rate limit applied to the three form submissions, per client IP
	SubmitRateLimit  int
	SubmitRateWindow time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),

		BackgroundImageURL: getEnv("BACKGROUND_IMAGE_URL", domain.DefaultBackgroundImage),
		FallbackImageURL:   getEnv("FALLBACK_IMAGE_URL", domain.DefaultFallbackImage),

		SubmitRateLimit:  getEnvInt("SUBMIT_RATE_LIMIT", 30),
		SubmitRateWindow: getEnvDuration("SUBMIT_RATE_WINDOW", time.Minute),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ImageOrigins returns the scheme://host of both background images, for the
// Content-Security-Policy img-src list.
func (c *Config) ImageOrigins() []string {
	seen := make(map[string]bool)
	var origins []string
	for _, raw := range []string{c.BackgroundImageURL, c.FallbackImageURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		origin := u.Scheme + "://" + u.Host
		if !seen[origin] {
			seen[origin] = true
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got: %s", c.SessionIdleTimeout)
	}
	if c.SubmitRateLimit < 1 {
		return fmt.Errorf("SUBMIT_RATE_LIMIT must be at least 1, got: %d", c.SubmitRateLimit)
	}
	if c.SubmitRateWindow <= 0 {
		return fmt.Errorf("SUBMIT_RATE_WINDOW must be positive, got: %s", c.SubmitRateWindow)
	}
	for name, raw := range map[string]string{
		"BACKGROUND_IMAGE_URL": c.BackgroundImageURL,
		"FALLBACK_IMAGE_URL":   c.FallbackImageURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got: %q", name, raw)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
