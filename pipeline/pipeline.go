// Package pipeline sequences discovery, per-URL fetching, extraction
// and record assembly, and owns the run's report and seen-URL set.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/thanosdpapaioannou/ora-global-website-scraper/extract"
	"github.com/thanosdpapaioannou/ora-global-website-scraper/models"
)

// Fetcher loads a detail page; in production this is the retry-wrapped
// browser session.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Discoverer yields the detail links of the paginated listing.
type Discoverer interface {
	DiscoverAll(ctx context.Context, listURL string) ([]models.DiscoveredLink, bool, error)
}

// ExtractFunc parses a detail page into field values.
type ExtractFunc func(html string) (models.PartialFundFields, error)

// Deps wires the collaborators into the runner.
type Deps struct {
	Fetcher    Fetcher
	Discoverer Discoverer
	Sink       Sink

	// Extract defaults to extract.Extract when nil.
	Extract ExtractFunc
}

// Runner executes one scrape run. The report and seen-URL set are
// per-run state, so independent runs can share a process.
type Runner struct {
	listURL    string
	fetcher    Fetcher
	discoverer Discoverer
	extract    ExtractFunc
	sink       Sink
}

// NewRunner constructs the orchestration component.
func NewRunner(listURL string, deps Deps) *Runner {
	ex := deps.Extract
	if ex == nil {
		ex = extract.Extract
	}
	return &Runner{
		listURL:    listURL,
		fetcher:    deps.Fetcher,
		discoverer: deps.Discoverer,
		extract:    ex,
		sink:       deps.Sink,
	}
}

// Run drives the whole pipeline and returns the finalized report.
//
// The only fatal conditions are an invalid or unreachable starting URL
// and a broken sink; every per-page failure is recorded on the report
// and skipped. Cancellation between pages stops the run cleanly, and
// the partial report is valid output.
func (r *Runner) Run(ctx context.Context) (*models.RunReport, error) {
	report := models.NewRunReport()

	u, err := url.Parse(r.listURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid list page url %q", r.listURL)
	}

	links, partial, err := r.discoverer.DiscoverAll(ctx, r.listURL)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", r.listURL, err)
	}
	report.Discovered = len(links)
	report.PartialDiscovery = partial
	slog.Info("discovery complete", "links", len(links), "partial", partial)

	seen := make(map[string]struct{}, len(links))

	for i, link := range links {
		select {
		case <-ctx.Done():
			slog.Warn("run canceled, returning partial report",
				"processed", report.Processed(), "discovered", report.Discovered)
			report.Canceled = true
			return report.Finalize(), nil
		default:
		}

		if _, dup := seen[link.URL]; dup {
			report.Duplicates++
			continue
		}

		slog.Info("scraping fund", "index", i+1, "total", len(links), "url", link.URL)

		rawHTML, err := r.fetcher.Fetch(ctx, link.URL)
		if err != nil {
			var fe *models.FetchError
			if errors.As(err, &fe) {
				report.AddFetchFailure(link.URL, fe.Kind, fe.Error(), fe.Attempt)
			} else {
				report.AddFetchFailure(link.URL, models.FailRender, err.Error(), 1)
			}
			slog.Error("fetch failed after retries", "url", link.URL, "error", err)
			continue
		}

		fields, err := r.extract(rawHTML)
		if err != nil {
			report.AddExtractFailure(link.URL, err.Error())
			slog.Error("extraction failed", "url", link.URL, "error", err)
			continue
		}

		rec := fields.Record(link.URL)
		if err := r.sink.Append(rec); err != nil {
			// A dead sink is not a per-page condition; stop the run but
			// keep the accounting done so far.
			return report.Finalize(), fmt.Errorf("sink append %s: %w", link.URL, err)
		}
		seen[link.URL] = struct{}{}
		report.Successes++
		slog.Info("fund scraped", "name", rec.Name, "url", link.URL)
	}

	return report.Finalize(), nil
}
