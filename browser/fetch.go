package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/thanosdpapaioannou/ora-global-website-scraper/models"
)

// Fetch performs exactly one navigation and returns the rendered HTML.
// Retries are the caller's responsibility.
//
// Lifecycle:
//
//  1. Validate the URL and arm the deadline
//  2. Acquire the tab from the pool; defer about:blank + return
//  3. Stealth injection and Referer header (before navigation)
//  4. Mount the hijack router blocking heavy resource types
//  5. Navigate, wait for the DOM to stabilise
//  6. Read the HTTP status via the performance API
//  7. Classify blocks/errors, extract HTML
func (s *Session) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return "", models.NewFetchError(models.FailNetwork, rawURL,
			fmt.Errorf("not an absolute http(s) url"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.pageTimeout)
	defer cancel()

	page, acquireErr := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return "", models.NewFetchError(models.FailRender, rawURL, acquireErr)
	}

	// Cleanup uses the original page reference (no request context), so
	// the tab is returned even after the deadline has expired.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		s.pagePool.Put(page)
	}()

	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	// A search Referer makes the visit look organic.
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: proto.NetworkHeaders{
			"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
		},
	}.Call(page)

	router := setupHijack(page, s.cfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)

	if navErr := p.Navigate(rawURL); navErr != nil {
		return "", classifyNavError(rawURL, navErr)
	}

	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"url", rawURL, "error", stableErr)
	}

	statusCode := navigationStatus(p)

	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return "", classifyNavError(rawURL, htmlErr)
	}

	if fe := classifyResponse(rawURL, statusCode, rawHTML); fe != nil {
		return "", fe
	}

	return rawHTML, nil
}

// navigationStatus reads the HTTP status of the main document from the
// performance API, which needs no CDP event listeners.
func navigationStatus(p *rod.Page) int {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// blockSignatures are substrings that mark interstitial/denial pages
// served in place of real content.
var blockSignatures = []string{
	"just a moment...",
	"checking your browser",
	"verify you are human",
	"access denied",
	"too many requests",
	"captcha",
	"attention required! | cloudflare",
}

// looksBlocked reports whether the rendered HTML is a block page rather
// than the site's own template.
func looksBlocked(html string) bool {
	// Signature pages are small; real detail pages are not.
	if len(html) > 64*1024 {
		return false
	}
	lower := strings.ToLower(html)
	for _, sig := range blockSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// classifyResponse maps a completed navigation to a FetchError, or nil
// when the page content is usable.
func classifyResponse(url string, status int, html string) *models.FetchError {
	switch {
	case status == 403 || status == 429:
		fe := models.NewFetchError(models.FailBlocked, url, nil)
		fe.StatusCode = status
		return fe
	case status >= 400:
		fe := models.NewFetchError(models.FailHTTPStatus, url, nil)
		fe.StatusCode = status
		return fe
	case looksBlocked(html):
		return models.NewFetchError(models.FailBlocked, url, nil)
	case strings.TrimSpace(html) == "" || strings.TrimSpace(html) == "<html><head></head><body></body></html>":
		return models.NewFetchError(models.FailRender, url,
			fmt.Errorf("driver returned empty document"))
	}
	return nil
}

// classifyNavError wraps raw driver errors into typed FetchErrors.
func classifyNavError(url string, err error) *models.FetchError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewFetchError(models.FailTimeout, url, err)
	case errors.Is(err, context.Canceled):
		return models.NewFetchError(models.FailTimeout, url, err)
	case strings.Contains(err.Error(), "net::ERR"):
		return models.NewFetchError(models.FailNetwork, url, err)
	default:
		return models.NewFetchError(models.FailRender, url, err)
	}
}
