package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTargetURL is the Threads post whose like count is served.
const DefaultTargetURL = "https://www.threads.net/@rioleia.cafe_satoka/post/DUrqbHRAbtV"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Log      LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// UpstreamConfig controls the outbound fetch of the post page.
type UpstreamConfig struct {
	// TargetURL is the post page to scrape.
	TargetURL string

	// Timeout bounds the whole fetch including the body read.
	// Zero disables the deadline.
	Timeout time.Duration // default: 15s

	// MaxBodyBytes caps how much of the page is read.
	MaxBodyBytes int64 // default: 10 MiB

	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects int // default: 10

	// Proxy is an optional http(s) proxy URL.
	Proxy string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory, if present, is loaded first and
// never overrides variables that are already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: envOr("THREADLIKES_HOST", "0.0.0.0"),
			Port: envIntOr("THREADLIKES_PORT", 8080),
			Mode: envOr("THREADLIKES_MODE", "release"),
		},
		Upstream: UpstreamConfig{
			TargetURL:    envOr("THREADLIKES_TARGET_URL", DefaultTargetURL),
			Timeout:      envDurationOr("THREADLIKES_UPSTREAM_TIMEOUT", 15*time.Second),
			MaxBodyBytes: int64(envIntOr("THREADLIKES_MAX_BODY_BYTES", 10<<20)),
			MaxRedirects: envIntOr("THREADLIKES_MAX_REDIRECTS", 10),
			Proxy:        os.Getenv("THREADLIKES_PROXY"),
		},
		Log: LogConfig{
			Level:  envOr("THREADLIKES_LOG_LEVEL", "info"),
			Format: envOr("THREADLIKES_LOG_FORMAT", "json"),
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

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
