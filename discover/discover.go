// Package discover walks the paginated fund listing and harvests the
// detail-page URLs. All page loads go through the injected fetcher, so
// retry and rate limiting apply here exactly as they do to detail pages.
package discover

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/thanosdpapaioannou/ora-global-website-scraper/models"
)

// Fetcher loads a URL and returns its rendered HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Discoverer accumulates detail links across list pages.
type Discoverer struct {
	fetcher  Fetcher
	maxPages int
}

// New creates a Discoverer bounded at maxPages list pages.
func New(fetcher Fetcher, maxPages int) *Discoverer {
	if maxPages < 1 {
		maxPages = 1
	}
	return &Discoverer{fetcher: fetcher, maxPages: maxPages}
}

// DiscoverAll loads the list page and follows pagination until no next
// control is found or the page bound is hit. Links come back in
// first-seen order, deduplicated by exact URL.
//
// The returned flag is true when discovery stopped early (a later list
// page failed after retries, or the bound was reached): the links
// gathered so far are still valid, just not the whole list. Only a
// failure of the *first* page is an error.
func (d *Discoverer) DiscoverAll(ctx context.Context, listURL string) ([]models.DiscoveredLink, bool, error) {
	seen := make(map[string]struct{})
	visitedPages := map[string]struct{}{listURL: {}}
	var links []models.DiscoveredLink

	pageURL := listURL
	for pageIndex := 0; ; pageIndex++ {
		rawHTML, err := d.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if pageIndex == 0 {
				return nil, false, err
			}
			slog.Warn("list page failed after retries, returning partial discovery",
				"url", pageURL, "page", pageIndex, "error", err)
			return links, true, nil
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
		if err != nil {
			if pageIndex == 0 {
				return nil, false, models.NewFetchError(models.FailRender, pageURL, err)
			}
			return links, true, nil
		}

		base, err := url.Parse(pageURL)
		if err != nil {
			return links, true, nil
		}

		pageLinks := detailLinks(doc, base)
		added := 0
		for _, link := range pageLinks {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, models.DiscoveredLink{URL: link, SourcePage: pageIndex})
			added++
		}
		slog.Info("list page scanned", "page", pageIndex, "links", len(pageLinks), "new", added)

		next := nextPageURL(doc, base)
		if next == "" {
			return links, false, nil
		}
		if pageIndex+1 >= d.maxPages {
			slog.Warn("pagination bound reached, stopping discovery",
				"maxPages", d.maxPages, "next", next)
			return links, true, nil
		}
		if _, ok := visitedPages[next]; ok {
			// Cyclic pagination; nothing new past this point.
			return links, false, nil
		}
		visitedPages[next] = struct{}{}
		pageURL = next
	}
}

// detailLinks extracts every "Details" action's target from a list
// page. The primary pass reads the Details anchors/buttons; when the
// template hides the link on a card wrapper, the fallback pass walks
// card-shaped containers instead.
func detailLinks(doc *goquery.Document, base *url.URL) []string {
	var out []string
	pageSeen := make(map[string]struct{})

	add := func(raw string) {
		resolved := resolveLink(base, raw)
		if resolved == "" {
			return
		}
		if _, ok := pageSeen[resolved]; ok {
			return
		}
		pageSeen[resolved] = struct{}{}
		out = append(out, resolved)
	}

	doc.Find("a, button").Each(func(_ int, s *goquery.Selection) {
		if !strings.Contains(s.Text(), "Details") {
			return
		}
		if href, ok := s.Attr("href"); ok && href != "" {
			add(href)
			return
		}
		if href, ok := s.Attr("data-href"); ok && href != "" {
			add(href)
			return
		}
		if href, ok := s.Closest("a").Attr("href"); ok && href != "" {
			add(href)
			return
		}
		if card := s.Closest("[data-href], [href]"); card.Length() > 0 {
			if href, ok := card.Attr("data-href"); ok && href != "" {
				add(href)
			} else if href, ok := card.Attr("href"); ok && href != "" {
				add(href)
			}
		}
	})

	if len(out) > 0 {
		return out
	}

	doc.Find(`[class*="card"], [class*="item"], [class*="fund"]`).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Find("a[href]").First().Attr("href"); ok && href != "" {
			add(href)
			return
		}
		if href, ok := s.Attr("data-href"); ok && href != "" {
			add(href)
		}
	})
	return out
}

// resolveLink makes raw absolute against base and filters out
// non-http(s) schemes and template artifacts.
func resolveLink(base *url.URL, raw string) string {
	resolved, err := base.Parse(raw)
	if err != nil {
		return ""
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	abs := resolved.String()
	if strings.Contains(abs, "undefined") {
		return ""
	}
	return abs
}

// nextPageURL resolves the next list page, trying rel=next, then
// next-labeled controls, then numbered pagination. Returns "" when the
// listing is exhausted.
func nextPageURL(doc *goquery.Document, base *url.URL) string {
	if href, ok := doc.Find(`a[rel="next"]`).First().Attr("href"); ok && href != "" {
		return resolveLink(base, href)
	}

	var next string
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if isDisabled(s) {
			return true
		}
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		aria, _ := s.Attr("aria-label")
		if text == "next" || strings.Contains(text, "next") ||
			strings.Contains(strings.ToLower(aria), "next") ||
			text == "→" || text == ">" {
			if href, ok := s.Attr("href"); ok && href != "" {
				next = resolveLink(base, href)
				return false
			}
		}
		return true
	})
	if next != "" {
		return next
	}

	// Numbered pagination: find the active page N, follow N+1.
	current := strings.TrimSpace(doc.Find(`.pagination .active, [aria-current="page"]`).First().Text())
	n, err := strconv.Atoi(current)
	if err != nil {
		return ""
	}
	want := strconv.Itoa(n + 1)
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != want {
			return true
		}
		if href, ok := s.Attr("href"); ok && href != "" {
			next = resolveLink(base, href)
			return false
		}
		return true
	})
	return next
}

func isDisabled(s *goquery.Selection) bool {
	if _, ok := s.Attr("disabled"); ok {
		return true
	}
	if aria, _ := s.Attr("aria-disabled"); aria == "true" {
		return true
	}
	if class, _ := s.Attr("class"); strings.Contains(class, "disabled") {
		return true
	}
	return false
}
