package config

import (
	"os"
	"time"
)

// Config holds the client's environment-driven settings.
type Config struct {
	APIBaseURL      string
	IdentityURL     string
	IdentityClient  string
	CredentialsFile string
	MetricsAddr     string
	OTLPEndpoint    string
	HTTPTimeout     time.Duration
	PollInterval    time.Duration
}

// Load reads configuration from the environment with development fallbacks.
func Load() Config {
	return Config{
		APIBaseURL:      getenv("API_BASE_URL", "https://api.school.example.com"),
		IdentityURL:     getenv("IDENTITY_URL", "https://auth.school.example.com"),
		IdentityClient:  getenv("IDENTITY_CLIENT_ID", "mobile-app"),
		CredentialsFile: getenv("CREDENTIALS_FILE", "credentials.json"),
		MetricsAddr:     getenv("METRICS_ADDR", ":9464"),
		OTLPEndpoint:    getenv("OTLP_ENDPOINT", ""),
		HTTPTimeout:     getenvDuration("HTTP_TIMEOUT", 15*time.Second),
		PollInterval:    getenvDuration("CHAT_POLL_INTERVAL", 15*time.Second),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
