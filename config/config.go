package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Session   SessionConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instances launched per query.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is an optional proxy URL applied to the launched browser.
	Proxy string
}

// SessionConfig controls the outbound identity and navigation bounds of an
// extraction session. The identity is applied once per session and shared by
// every adapter that runs against it.
type SessionConfig struct {
	// UserAgent is the desktop-browser user agent sent by every navigation.
	UserAgent string

	// AcceptLanguage is the Accept-Language header value.
	AcceptLanguage string

	// MaxNavTimeout caps any adapter's per-navigation timeout.
	MaxNavTimeout time.Duration // default: 90s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per identity.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per identity.
	Burst int // default: 3
}

// CacheConfig controls the in-memory search result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached result sets.
	MaxEntries int // default: 500

	// TTL is how long a cached result set stays valid. 0 disables caching.
	TTL time.Duration // default: 10m
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultUserAgent is a realistic desktop Chrome identity. Several of the
// target sites serve degraded or bot-gated markup to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("FITSCOUT_HOST", "0.0.0.0"),
			Port: envIntOr("FITSCOUT_PORT", 8080),
			Mode: envOr("FITSCOUT_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("FITSCOUT_HEADLESS", true),
			NoSandbox:  envBoolOr("FITSCOUT_NO_SANDBOX", false),
			BrowserBin: os.Getenv("FITSCOUT_BROWSER_BIN"),
			Proxy:      os.Getenv("FITSCOUT_PROXY"),
		},
		Session: SessionConfig{
			UserAgent:      envOr("FITSCOUT_USER_AGENT", DefaultUserAgent),
			AcceptLanguage: envOr("FITSCOUT_ACCEPT_LANGUAGE", "en-IN,en;q=0.9"),
			MaxNavTimeout:  envDurationOr("FITSCOUT_MAX_NAV_TIMEOUT", 90*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("FITSCOUT_AUTH_ENABLED", false),
			APIKeys: envSliceOr("FITSCOUT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("FITSCOUT_RATE_RPS", 1.0),
			Burst:             envIntOr("FITSCOUT_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("FITSCOUT_CACHE_MAX_ENTRIES", 500),
			TTL:        envDurationOr("FITSCOUT_CACHE_TTL", 10*time.Minute),
		},
		Log: LogConfig{
			Level:  envOr("FITSCOUT_LOG_LEVEL", "info"),
			Format: envOr("FITSCOUT_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
