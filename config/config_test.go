package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Scrape.ListPageURL != "https://www.vestbee.com/lp-list" {
		t.Errorf("ListPageURL = %q", cfg.Scrape.ListPageURL)
	}
	if cfg.Scrape.MaxPages != 100 {
		t.Errorf("MaxPages = %d, want 100", cfg.Scrape.MaxPages)
	}
	if cfg.Scrape.PageTimeout != 30*time.Second {
		t.Errorf("PageTimeout = %v, want 30s", cfg.Scrape.PageTimeout)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay != 2*time.Second || cfg.Retry.MaxDelay != 30*time.Second {
		t.Errorf("backoff = %v/%v, want 2s/30s", cfg.Retry.BaseDelay, cfg.Retry.MaxDelay)
	}
	if cfg.Retry.Multiplier != 2.0 {
		t.Errorf("Multiplier = %v, want 2.0", cfg.Retry.Multiplier)
	}
	if cfg.Retry.MinRequestInterval != 2*time.Second {
		t.Errorf("MinRequestInterval = %v, want 2s", cfg.Retry.MinRequestInterval)
	}
	if !cfg.Browser.Headless {
		t.Error("Headless = false, want true")
	}
	if len(cfg.Browser.BlockedResourceTypes) != 4 {
		t.Errorf("BlockedResourceTypes = %v", cfg.Browser.BlockedResourceTypes)
	}
	if cfg.Output.CSVPath != "data/funds.csv" || cfg.Output.ExcelPath != "data/funds.xlsx" {
		t.Errorf("output paths = %q, %q", cfg.Output.CSVPath, cfg.Output.ExcelPath)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log = %q/%q, want info/text", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCRAPER_LIST_URL", "https://example.com/other-list")
	t.Setenv("SCRAPER_MAX_PAGES", "5")
	t.Setenv("SCRAPER_PAGE_TIMEOUT", "45s")
	t.Setenv("SCRAPER_MAX_RETRIES", "7")
	t.Setenv("SCRAPER_BACKOFF_MULTIPLIER", "1.5")
	t.Setenv("SCRAPER_MIN_REQUEST_INTERVAL", "500ms")
	t.Setenv("SCRAPER_HEADLESS", "false")
	t.Setenv("SCRAPER_BLOCKED_RESOURCES", "Image, Media")
	t.Setenv("SCRAPER_CSV_PATH", "/tmp/out.csv")
	t.Setenv("SCRAPER_LOG_FORMAT", "json")

	cfg := Load()

	if cfg.Scrape.ListPageURL != "https://example.com/other-list" {
		t.Errorf("ListPageURL = %q", cfg.Scrape.ListPageURL)
	}
	if cfg.Scrape.MaxPages != 5 {
		t.Errorf("MaxPages = %d, want 5", cfg.Scrape.MaxPages)
	}
	if cfg.Scrape.PageTimeout != 45*time.Second {
		t.Errorf("PageTimeout = %v, want 45s", cfg.Scrape.PageTimeout)
	}
	if cfg.Retry.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d, want 7", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.Multiplier != 1.5 {
		t.Errorf("Multiplier = %v, want 1.5", cfg.Retry.Multiplier)
	}
	if cfg.Retry.MinRequestInterval != 500*time.Millisecond {
		t.Errorf("MinRequestInterval = %v, want 500ms", cfg.Retry.MinRequestInterval)
	}
	if cfg.Browser.Headless {
		t.Error("Headless = true, want false")
	}
	want := []string{"Image", "Media"}
	if len(cfg.Browser.BlockedResourceTypes) != len(want) {
		t.Fatalf("BlockedResourceTypes = %v, want %v", cfg.Browser.BlockedResourceTypes, want)
	}
	for i := range want {
		if cfg.Browser.BlockedResourceTypes[i] != want[i] {
			t.Errorf("BlockedResourceTypes[%d] = %q, want %q", i, cfg.Browser.BlockedResourceTypes[i], want[i])
		}
	}
	if cfg.Output.CSVPath != "/tmp/out.csv" {
		t.Errorf("CSVPath = %q", cfg.Output.CSVPath)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoad_InvalidEnvValuesKeepDefaults(t *testing.T) {
	t.Setenv("SCRAPER_MAX_PAGES", "lots")
	t.Setenv("SCRAPER_PAGE_TIMEOUT", "soon")
	t.Setenv("SCRAPER_HEADLESS", "maybe")

	cfg := Load()

	if cfg.Scrape.MaxPages != 100 {
		t.Errorf("MaxPages = %d, want the default 100", cfg.Scrape.MaxPages)
	}
	if cfg.Scrape.PageTimeout != 30*time.Second {
		t.Errorf("PageTimeout = %v, want the default 30s", cfg.Scrape.PageTimeout)
	}
	if !cfg.Browser.Headless {
		t.Error("Headless = false, want the default true")
	}
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	yaml := `
scrape:
  listPageUrl: https://example.com/from-yaml
  maxPages: 10
retry:
  maxAttempts: 5
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCRAPER_CONFIG", path)
	t.Setenv("SCRAPER_MAX_PAGES", "20")

	cfg := Load()

	if cfg.Scrape.ListPageURL != "https://example.com/from-yaml" {
		t.Errorf("ListPageURL = %q, want the YAML value", cfg.Scrape.ListPageURL)
	}
	if cfg.Scrape.MaxPages != 20 {
		t.Errorf("MaxPages = %d, want env to win over YAML", cfg.Scrape.MaxPages)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want the YAML value", cfg.Retry.MaxAttempts)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Log.Level)
	}
	// Sections the file does not mention keep their defaults.
	if cfg.Retry.BaseDelay != 2*time.Second {
		t.Errorf("BaseDelay = %v, want the default 2s", cfg.Retry.BaseDelay)
	}
}

func TestLoad_MissingConfigFileFallsBack(t *testing.T) {
	t.Setenv("SCRAPER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg := Load()
	if cfg.Scrape.MaxPages != 100 {
		t.Errorf("MaxPages = %d, want the default 100", cfg.Scrape.MaxPages)
	}
}
