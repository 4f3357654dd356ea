package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration, sourced from the environment.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Redis    RedisConfig
	Browser  BrowserConfig
	Scraper  ScraperConfig
	Analyzer AnalyzerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// RedisConfig holds the optional Redis session-store settings. An empty
// address selects the in-memory session store.
type RedisConfig struct {
	Addr       string        `envconfig:"REDIS_ADDR" default:""`
	Password   string        `envconfig:"REDIS_PASSWORD" default:""`
	DB         int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"1h"`
}

// BrowserConfig holds headless-browser settings.
type BrowserConfig struct {
	RequestTimeoutMS int    `envconfig:"REQUEST_TIMEOUT" default:"30000"`
	PageWaitMS       int    `envconfig:"PAGE_WAIT_TIMEOUT" default:"2000"`
	UserAgent        string `envconfig:"SCRAPER_USER_AGENT" default:"Custom Web Scraper (contact@example.com)"`
	AcceptHeader     string `envconfig:"SCRAPER_ACCEPT_HEADER" default:"text/html,application/xhtml+xml"`
	MaxConcurrency   int    `envconfig:"MAX_CONCURRENCY" default:"4"`
}

// NavigationTimeout bounds one page render.
func (c BrowserConfig) NavigationTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// SettleWait is the fixed pause after navigation completes.
func (c BrowserConfig) SettleWait() time.Duration {
	return time.Duration(c.PageWaitMS) * time.Millisecond
}

// ScraperConfig holds the pipeline's rate-limit and query limits.
type ScraperConfig struct {
	RateLimitDelaySeconds float64 `envconfig:"RATE_LIMIT_DELAY" default:"1.0"`
	MaxQueryLength        int     `envconfig:"MAX_QUERY_LENGTH" default:"1000"`
}

// RateLimitDelay is the minimum spacing between requests to one domain.
func (c ScraperConfig) RateLimitDelay() time.Duration {
	return time.Duration(c.RateLimitDelaySeconds * float64(time.Second))
}

// AnalyzerConfig holds generative-text provider settings.
type AnalyzerConfig struct {
	APIKey          string `envconfig:"ANTHROPIC_API_KEY" default:""`
	Model           string `envconfig:"ANALYZER_MODEL" default:"claude-haiku-4-5"`
	MaxTokens       int64  `envconfig:"ANALYZER_MAX_TOKENS" default:"1024"`
	MaxContentChars int    `envconfig:"MAX_CONTENT_LENGTH" default:"2000"`
	MaxTables       int    `envconfig:"MAX_TABLES" default:"3"`
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Analyzer.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not found in environment variables")
	}
	return &cfg, nil
}
