package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable read by Load,
// e.g. TRACTORGURU_SERVER_PORT.
const Prefix = "TRACTORGURU"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig `envconfig:"RATE"`
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"8080"`
	// Mode is the gin mode: "debug", "release" or "test".
	Mode string `envconfig:"MODE" default:"release"`
}

// UpstreamConfig controls how pages are fetched from the TractorGuru site.
type UpstreamConfig struct {
	// BaseURL is the site origin every relative path is resolved against.
	BaseURL string `envconfig:"BASE_URL" default:"https://tractorguru.in"`

	// Engine selects the transport: "resty" (standard TLS) or "utls"
	// (Chrome TLS fingerprint).
	Engine string `envconfig:"ENGINE" default:"resty"`

	// Timeout is applied to every upstream request.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`

	UserAgent      string `envconfig:"USER_AGENT" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"`
	AcceptLanguage string `envconfig:"ACCEPT_LANGUAGE" default:"en-US,en;q=0.9"`

	// Proxy is an optional http(s) or socks5 proxy URL.
	Proxy string `envconfig:"PROXY"`

	// RequestsPerSecond spaces out network fetches to the site.
	// Zero disables the limiter. Cache hits are never limited.
	RequestsPerSecond float64 `envconfig:"RPS" default:"2"`
	Burst             int     `envconfig:"BURST" default:"4"`
}

// CacheConfig controls the page and result caches.
type CacheConfig struct {
	TTL time.Duration `envconfig:"TTL" default:"24h"`

	PageEntries   int `envconfig:"PAGE_ENTRIES" default:"128"`
	BrandEntries  int `envconfig:"BRAND_ENTRIES" default:"1"`
	ModelEntries  int `envconfig:"MODEL_ENTRIES" default:"128"`
	DetailEntries int `envconfig:"DETAIL_ENTRIES" default:"256"`
}

// RateLimitConfig controls per-client rate limiting of the HTTP API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	// Zero disables the middleware.
	RequestsPerSecond float64 `envconfig:"RPS" default:"5"`

	// Burst is the maximum burst size per client IP.
	Burst int `envconfig:"BURST" default:"10"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"` // "json" or "text"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is the normal production case.
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			slog.Warn(".env file found but could not be loaded", "error", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SlogLevel maps the configured level name onto a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
