package browser

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/thanosdpapaioannou/ora-global-website-scraper/config"
	"github.com/thanosdpapaioannou/ora-global-website-scraper/models"
)

// Navigator is the narrow capability the rest of the pipeline depends
// on: load a URL and return its rendered HTML, or release the driver.
// Tests implement it with canned fakes; Session backs it with a real
// browser.
type Navigator interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close()
}

// Session owns the browser process for the lifetime of one run. Only
// one page load is ever in flight (the pool holds a single tab), which
// is what the rate-limit discipline upstream assumes.
type Session struct {
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	cfg         config.BrowserConfig
	pageTimeout time.Duration
}

// NewSession launches a headless browser and prepares the single-tab pool.
func NewSession(cfg config.BrowserConfig, pageTimeout time.Duration) (*Session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	// Mask the most common automation giveaways at the process level.
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewFetchError(models.FailRender, "", err)
	}
	slog.Info("browser launched", "controlURL", controlURL, "headless", cfg.Headless)

	br := rod.New().ControlURL(controlURL)
	if err := br.Connect(); err != nil {
		return nil, models.NewFetchError(models.FailRender, "", err)
	}

	return &Session{
		browser:     br,
		pagePool:    rod.NewPagePool(1),
		cfg:         cfg,
		pageTimeout: pageTimeout,
	}, nil
}

// Close drains the page pool and kills the browser process. It must run
// on every exit path, including cancellation, to avoid zombie Chrome
// processes.
func (s *Session) Close() {
	slog.Info("browser shutting down: draining page pool")
	s.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	s.browser.MustClose()
	slog.Info("browser shutdown complete")
}
