package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thanosdpapaioannou/ora-global-website-scraper/browser"
	"github.com/thanosdpapaioannou/ora-global-website-scraper/config"
	"github.com/thanosdpapaioannou/ora-global-website-scraper/discover"
	"github.com/thanosdpapaioannou/ora-global-website-scraper/export"
	"github.com/thanosdpapaioannou/ora-global-website-scraper/models"
	"github.com/thanosdpapaioannou/ora-global-website-scraper/pipeline"
	"github.com/thanosdpapaioannou/ora-global-website-scraper/retry"
)

func main() {
	os.Exit(run())
}

// run is separated from main so deferred cleanup (browser shutdown,
// sink flush) survives the non-zero exit paths.
func run() int {
	headed := flag.Bool("headed", false, "run with a visible browser window")
	flag.Parse()

	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()
	if *headed {
		cfg.Browser.Headless = false
	}

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("fund scraper starting",
		"listURL", cfg.Scrape.ListPageURL,
		"maxPages", cfg.Scrape.MaxPages,
		"maxAttempts", cfg.Retry.MaxAttempts,
		"headless", cfg.Browser.Headless,
	)

	// ── 3. Launch browser session ───────────────────────────────────
	session, err := browser.NewSession(cfg.Browser, cfg.Scrape.PageTimeout)
	if err != nil {
		slog.Error("failed to launch browser", "error", err)
		return 1
	}
	defer session.Close()

	// ── 4. Wrap the session with retry + rate limiting ──────────────
	controller := retry.NewController(session, retry.PolicyFromConfig(cfg.Retry), cfg.Retry.MinRequestInterval)

	// ── 5. Open the export sinks ────────────────────────────────────
	csvSink, err := export.NewCSVSink(cfg.Output.CSVPath)
	if err != nil {
		slog.Error("failed to open csv output", "path", cfg.Output.CSVPath, "error", err)
		return 1
	}
	excelSink, err := export.NewExcelSink(cfg.Output.ExcelPath)
	if err != nil {
		csvSink.Close()
		slog.Error("failed to open excel output", "path", cfg.Output.ExcelPath, "error", err)
		return 1
	}
	sink := pipeline.MultiSink{csvSink, excelSink}

	// ── 6. Cancel the run on SIGINT/SIGTERM ─────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		slog.Info("shutdown signal received, finishing current page", "signal", sig.String())
		cancel()
	}()

	// ── 7. Run the pipeline ─────────────────────────────────────────
	runner := pipeline.NewRunner(cfg.Scrape.ListPageURL, pipeline.Deps{
		Fetcher:    controller,
		Discoverer: discover.New(controller, cfg.Scrape.MaxPages),
		Sink:       sink,
	})

	report, runErr := runner.Run(ctx)

	if err := sink.Close(); err != nil {
		slog.Error("failed to finalize outputs", "error", err)
	}

	if runErr != nil {
		slog.Error("run failed", "error", runErr)
		if report != nil {
			logSummary(report, cfg)
		}
		return 1
	}

	// ── 8. Summarise ────────────────────────────────────────────────
	logSummary(report, cfg)
	return 0
}

func logSummary(report *models.RunReport, cfg *config.Config) {
	slog.Info("scrape complete",
		"discovered", report.Discovered,
		"successes", report.Successes,
		"fetchFailures", report.FetchFailures,
		"extractFailures", report.ExtractFailures,
		"duplicates", report.Duplicates,
		"partialDiscovery", report.PartialDiscovery,
		"canceled", report.Canceled,
		"duration", report.FinishedAt.Sub(report.StartedAt),
		"csv", cfg.Output.CSVPath,
		"excel", cfg.Output.ExcelPath,
	)
	for _, f := range report.Failures {
		slog.Warn("needs manual follow-up",
			"url", f.URL,
			"stage", string(f.Stage),
			"reason", f.Reason,
			"attempts", f.Attempts,
		)
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
