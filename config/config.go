package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// configPathEnv points at an optional YAML file; environment variables
// override whatever the file sets.
const configPathEnv = "SCRAPER_CONFIG"

// Config holds all application configuration.
type Config struct {
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Retry   RetryConfig   `yaml:"retry"`
	Browser BrowserConfig `yaml:"browser"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
}

// ScrapeConfig controls discovery and per-page fetching.
type ScrapeConfig struct {
	// ListPageURL is the starting index page.
	ListPageURL string `yaml:"listPageUrl"` // default: vestbee LP list

	// MaxPages is the pagination safety bound.
	MaxPages int `yaml:"maxPages"` // default: 100

	// PageTimeout is the per-page-load deadline.
	PageTimeout time.Duration `yaml:"pageTimeout"` // default: 30s
}

// RetryConfig shapes the retry/backoff policy and the rate-limit floor.
type RetryConfig struct {
	// MaxAttempts is the per-request attempt cap (>= 1).
	MaxAttempts int `yaml:"maxAttempts"` // default: 3

	// BaseDelay is the first backoff delay.
	BaseDelay time.Duration `yaml:"baseDelay"` // default: 2s

	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration `yaml:"maxDelay"` // default: 30s

	// Multiplier is the backoff growth factor.
	Multiplier float64 `yaml:"multiplier"` // default: 2.0

	// MinRequestInterval is the rate-limit floor between any two fetches.
	MinRequestInterval time.Duration `yaml:"minRequestInterval"` // default: 2s
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool `yaml:"headless"` // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool `yaml:"noSandbox"` // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string `yaml:"browserBin"`

	// BlockedResourceTypes lists resource types not worth downloading.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string `yaml:"blockedResourceTypes"`
}

// OutputConfig names the export targets.
type OutputConfig struct {
	CSVPath   string `yaml:"csvPath"`   // default: "data/funds.csv"
	ExcelPath string `yaml:"excelPath"` // default: "data/funds.xlsx"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "info"
	Format string `yaml:"format"` // "json" or "text"; default: "text"
}

// Load builds the configuration: defaults, then the optional YAML file,
// then environment variable overrides.
func Load() *Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("config file unreadable, using defaults", "path", path, "error", err)
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			slog.Warn("config file unparsable, using defaults", "path", path, "error", err)
		}
	}

	cfg.applyEnv()
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			ListPageURL: "https://www.vestbee.com/lp-list",
			MaxPages:    100,
			PageTimeout: 30 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts:        3,
			BaseDelay:          2 * time.Second,
			MaxDelay:           30 * time.Second,
			Multiplier:         2.0,
			MinRequestInterval: 2 * time.Second,
		},
		Browser: BrowserConfig{
			Headless: true,
			BlockedResourceTypes: []string{
				"Image", "Stylesheet", "Font", "Media",
			},
		},
		Output: OutputConfig{
			CSVPath:   "data/funds.csv",
			ExcelPath: "data/funds.xlsx",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func (c *Config) applyEnv() {
	c.Scrape.ListPageURL = envOr("SCRAPER_LIST_URL", c.Scrape.ListPageURL)
	c.Scrape.MaxPages = envIntOr("SCRAPER_MAX_PAGES", c.Scrape.MaxPages)
	c.Scrape.PageTimeout = envDurationOr("SCRAPER_PAGE_TIMEOUT", c.Scrape.PageTimeout)

	c.Retry.MaxAttempts = envIntOr("SCRAPER_MAX_RETRIES", c.Retry.MaxAttempts)
	c.Retry.BaseDelay = envDurationOr("SCRAPER_BASE_DELAY", c.Retry.BaseDelay)
	c.Retry.MaxDelay = envDurationOr("SCRAPER_MAX_DELAY", c.Retry.MaxDelay)
	c.Retry.Multiplier = envFloatOr("SCRAPER_BACKOFF_MULTIPLIER", c.Retry.Multiplier)
	c.Retry.MinRequestInterval = envDurationOr("SCRAPER_MIN_REQUEST_INTERVAL", c.Retry.MinRequestInterval)

	c.Browser.Headless = envBoolOr("SCRAPER_HEADLESS", c.Browser.Headless)
	c.Browser.NoSandbox = envBoolOr("SCRAPER_NO_SANDBOX", c.Browser.NoSandbox)
	c.Browser.BrowserBin = envOr("SCRAPER_BROWSER_BIN", c.Browser.BrowserBin)
	c.Browser.BlockedResourceTypes = envSliceOr("SCRAPER_BLOCKED_RESOURCES", c.Browser.BlockedResourceTypes)

	c.Output.CSVPath = envOr("SCRAPER_CSV_PATH", c.Output.CSVPath)
	c.Output.ExcelPath = envOr("SCRAPER_EXCEL_PATH", c.Output.ExcelPath)

	c.Log.Level = envOr("SCRAPER_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("SCRAPER_LOG_FORMAT", c.Log.Format)
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
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
