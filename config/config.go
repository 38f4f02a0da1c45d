package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Render engines
const (
	EngineRod    = "rod"
	EngineStatic = "static"
)

// Configuration validation errors
var (
	ErrMissingOutputDir     = errors.New("output_dir is required")
	ErrMissingLinkSelector  = errors.New("crawl.link_selector is required")
	ErrMissingTitleSelector = errors.New("crawl.title_selector is required")
	ErrInvalidCrawlTimeout  = errors.New("crawl.timeout_sec must be at least 1")
	ErrInvalidRenderEngine  = errors.New("render.engine must be 'rod' or 'static'")
	ErrInvalidRenderTimeout = errors.New("render.timeout_sec must be at least 1")
	ErrMissingHost          = errors.New("summarizer.host is required")
	ErrMissingModel         = errors.New("summarizer.model is required")
	ErrInvalidSummaryTime   = errors.New("summarizer.timeout_sec must be at least 1")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidQueueSize     = errors.New("bot.queue_size must be at least 1")
)

// Config represents the scraper configuration
type Config struct {
	OutputDir  string           `yaml:"output_dir"`
	Crawl      CrawlConfig      `yaml:"crawl"`
	Render     RenderConfig     `yaml:"render"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Logging    LoggingConfig    `yaml:"logging"`
	Bot        BotConfig        `yaml:"bot"`
}

// CrawlConfig holds the hub crawler settings. The selectors are the
// site-specific part of the crawl and can be swapped per hub.
type CrawlConfig struct {
	HubURL         string   `yaml:"hub_url"`
	AllowedDomains []string `yaml:"allowed_domains"`
	LinkSelector   string   `yaml:"link_selector"`
	LinkAttr       string   `yaml:"link_attr"`
	TitleSelector  string   `yaml:"title_selector"`
	UserAgent      string   `yaml:"user_agent"`
	TimeoutSec     int      `yaml:"timeout_sec"`
}

// RenderConfig holds the single-page renderer settings
type RenderConfig struct {
	Engine        string   `yaml:"engine"`
	TimeoutSec    int      `yaml:"timeout_sec"`
	StableWaitMs  int      `yaml:"stable_wait_ms"`
	BrowserBin    string   `yaml:"browser_bin"`
	UserDataDir   string   `yaml:"user_data_dir"`
	ShowBrowser   bool     `yaml:"show_browser"`
	StripElements []string `yaml:"strip_elements"`
}

// SummarizerConfig holds the local inference endpoint settings
type SummarizerConfig struct {
	Host       string `yaml:"host"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
	Disabled   bool   `yaml:"disabled"`
}

// LoggingConfig holds the logger settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// BotConfig holds the Telegram front end settings
type BotConfig struct {
	AllowedUserIDs []int64 `yaml:"allowed_user_ids"`
	QueueSize      int     `yaml:"queue_size"`
	PollTimeoutSec int     `yaml:"poll_timeout_sec"`
}

// LoadConfig loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	return &Config{
		OutputDir: "articles",
		Crawl: CrawlConfig{
			HubURL:         "https://apnews.com/hub/technology",
			AllowedDomains: []string{"apnews.com"},
			LinkSelector:   `a[data-key="card-headline"]`,
			LinkAttr:       "href",
			TitleSelector:  "h1",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			TimeoutSec:     30,
		},
		Render: RenderConfig{
			Engine:        EngineRod,
			TimeoutSec:    60,
			StableWaitMs:  500,
			StripElements: []string{"script", "style", "noscript"},
		},
		Summarizer: SummarizerConfig{
			Host:       "http://localhost:11434",
			Model:      "gemma3:4b",
			TimeoutSec: 120,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Bot: BotConfig{
			QueueSize:      16,
			PollTimeoutSec: 60,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return ErrMissingOutputDir
	}

	if c.Crawl.LinkSelector == "" {
		return ErrMissingLinkSelector
	}

	if c.Crawl.TitleSelector == "" {
		return ErrMissingTitleSelector
	}

	if c.Crawl.TimeoutSec < 1 {
		return ErrInvalidCrawlTimeout
	}

	if c.Render.Engine != EngineRod && c.Render.Engine != EngineStatic {
		return fmt.Errorf("%w: got %q", ErrInvalidRenderEngine, c.Render.Engine)
	}

	if c.Render.TimeoutSec < 1 {
		return ErrInvalidRenderTimeout
	}

	if c.Summarizer.Host == "" {
		return ErrMissingHost
	}

	if c.Summarizer.Model == "" {
		return ErrMissingModel
	}

	if c.Summarizer.TimeoutSec < 1 {
		return ErrInvalidSummaryTime
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Bot.QueueSize < 1 {
		return ErrInvalidQueueSize
	}

	return nil
}

// CrawlTimeout returns the per-request timeout of the hub crawler
func (c *Config) CrawlTimeout() time.Duration {
	return time.Duration(c.Crawl.TimeoutSec) * time.Second
}

// RenderTimeout returns the page render timeout
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.TimeoutSec) * time.Second
}

// RenderStableWait returns how long the DOM must stay unchanged before a
// rendered page is captured
func (c *Config) RenderStableWait() time.Duration {
	return time.Duration(c.Render.StableWaitMs) * time.Millisecond
}

// SummarizerTimeout returns the inference request timeout
func (c *Config) SummarizerTimeout() time.Duration {
	return time.Duration(c.Summarizer.TimeoutSec) * time.Second
}

// IsUserAllowed reports whether a Telegram user may submit URLs.
// An empty allow-list admits everyone.
func (b BotConfig) IsUserAllowed(userID int64) bool {
	if len(b.AllowedUserIDs) == 0 {
		return true
	}
	for _, id := range b.AllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
