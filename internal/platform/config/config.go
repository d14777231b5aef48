package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server needs from the environment.
type Config struct {
	Addr string

	// DatabaseURL selects the postgres store; empty falls back to the
	// in-memory store for development.
	DatabaseURL string

	TrialsBaseURL  string
	TrialsTimeout  time.Duration
	TrialsPageSize int

	AdminUsername string
	AdminPassword string
	SessionSecret string
	SessionTTL    time.Duration

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	VisitorLogFile string

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
// Defaults are for development and should be overridden in production.
func FromEnv() Config {
	return Config{
		Addr:        envOr("CLINICALGOTO_ADDR", ":3001"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		TrialsBaseURL:  envOr("TRIALS_BASE_URL", "https://clinicaltrials.gov/api/v2"),
		TrialsTimeout:  envDuration("TRIALS_TIMEOUT", 5*time.Second),
		TrialsPageSize: envInt("TRIALS_PAGE_SIZE", 10),

		AdminUsername: envOr("ADMIN_USERNAME", "admin"),
		AdminPassword: envOr("ADMIN_PASSWORD", "admin123"),
		SessionSecret: envOr("SESSION_SECRET", "dev-secret-key-change-this-in-production"),
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),

		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  envInt("SMTP_PORT", 587),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		FromEmail: envOr("FROM_EMAIL", "noreply@clinicalgoto.com"),

		VisitorLogFile: envOr("VISITOR_LOG_FILE", "visitors.csv"),

		RateLimitMax:    envInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
	}
}

// EmailConfigured reports whether outbound mail can be sent.
func (c Config) EmailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
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
