// Package retry shepherds fetch calls through a bounded retry policy
// with exponential backoff and a minimum inter-request interval. It
// does not interpret HTML.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/thanosdpapaioannou/ora-global-website-scraper/config"
	"github.com/thanosdpapaioannou/ora-global-website-scraper/models"
)

// Fetcher is the single-attempt page-load primitive being wrapped.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Policy shapes the retry schedule.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// PolicyFromConfig converts the configuration block into a Policy,
// clamping nonsensical values.
func PolicyFromConfig(cfg config.RetryConfig) Policy {
	p := Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
		Multiplier:  cfg.Multiplier,
	}
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	return p
}

// Delay returns the backoff before retrying after the given 1-based
// attempt: min(BaseDelay * Multiplier^(attempt-1), MaxDelay).
func (p Policy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.Multiplier
	}
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(d)
}

// Retryable reports whether a failure kind is worth another attempt.
// Blocks, timeouts, network errors and 5xx responses are transient;
// other 4xx responses and render errors are not.
func Retryable(fe *models.FetchError) bool {
	switch fe.Kind {
	case models.FailBlocked, models.FailTimeout, models.FailNetwork:
		return true
	case models.FailHTTPStatus:
		return fe.StatusCode >= 500
	default:
		return false
	}
}

// Controller wraps a Fetcher with retry, backoff and rate limiting.
// It implements the same Fetch signature, so consumers cannot tell a
// wrapped fetcher from a bare one. A mutex keeps at most one page load
// in flight, which is what the inter-request interval is defined over.
type Controller struct {
	inner   Fetcher
	policy  Policy
	limiter *rate.Limiter
	mu      sync.Mutex

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewController wraps inner with the given policy. minInterval is the
// rate-limit floor between any two fetches issued through this
// controller, retries included.
func NewController(inner Fetcher, policy Policy, minInterval time.Duration) *Controller {
	return &Controller{
		inner:   inner,
		policy:  policy,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		sleep:   sleepCtx,
	}
}

// Fetch attempts the page load up to MaxAttempts times. The returned
// error is the last attempt's FetchError with its attempt count set, so
// diagnostics survive intact.
func (c *Controller) Fetch(ctx context.Context, url string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr *models.FetchError
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			if lastErr != nil {
				return "", lastErr
			}
			return "", models.NewFetchError(models.FailTimeout, url, err)
		}

		html, err := c.inner.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}

		var fe *models.FetchError
		if !errors.As(err, &fe) {
			fe = models.NewFetchError(models.FailRender, url, err)
		}
		fe.Attempt = attempt
		lastErr = fe

		if !Retryable(fe) || attempt == c.policy.MaxAttempts {
			return "", lastErr
		}

		delay := c.policy.Delay(attempt) + jitter(c.policy.Delay(attempt))
		slog.Warn("fetch failed, backing off",
			"url", url,
			"attempt", attempt,
			"kind", string(fe.Kind),
			"delay", delay,
		)
		if err := c.sleep(ctx, delay); err != nil {
			return "", lastErr
		}
	}
	return "", lastErr
}

// jitter returns up to 10% of d, desynchronising retry schedules.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(d)/10 + 1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
