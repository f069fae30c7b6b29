// Package checker drives normalize, fetch and classify over a batch of targets.
package checker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/certwatch-app/cw-expiry/internal/expiry"
	"github.com/certwatch-app/cw-expiry/internal/scanner"
	"github.com/certwatch-app/cw-expiry/internal/target"
)

// Fetcher retrieves a certificate expiration for a normalized URL
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (scanner.Result, error)
}

// Checker runs checks with bounded concurrency
// Fields are ordered for optimal memory alignment
type Checker struct {
	fetcher     Fetcher
	logger      *zap.Logger
	now         func() time.Time
	concurrency int
}

// New creates a new Checker. Concurrency below one is treated as one.
func New(fetcher Fetcher, concurrency int, logger *zap.Logger) *Checker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Checker{
		fetcher:     fetcher,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock replaces the clock used for classification
func (c *Checker) SetClock(now func() time.Time) {
	c.now = now
}

// CheckAll checks every target and returns outcomes in input order.
// One target's failure never affects another.
func (c *Checker) CheckAll(ctx context.Context, targets []string) []Outcome {
	outcomes := make([]Outcome, len(targets))
	var wg sync.WaitGroup

	sem := make(chan struct{}, c.concurrency)

	for i, t := range targets {
		wg.Add(1)
		go func(idx int, raw string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomes[idx] = c.canceled(raw, ctx.Err())
				return
			}

			outcomes[idx] = c.Check(ctx, raw)
		}(i, t)
	}

	wg.Wait()
	return outcomes
}

// Check runs the pipeline for a single raw target
func (c *Checker) Check(ctx context.Context, raw string) Outcome {
	start := time.Now()
	out := Outcome{
		Target: raw,
		URL:    target.Normalize(raw),
	}

	res, err := c.fetcher.Fetch(ctx, out.URL)
	out.CheckedAt = c.now().UTC()
	out.Duration = time.Since(start)
	out.Attempts = res.Attempts

	if err != nil {
		out.Err = asFetchError(err)
		c.logger.Debug("check failed",
			zap.String("url", out.URL),
			zap.String("kind", out.Err.Kind.String()),
			zap.Bool("expired", out.Err.Expired),
			zap.Error(err),
		)
		return out
	}

	out.Expiration = res.NotAfter.UTC()
	out.Subject = res.Subject
	out.Severity = expiry.Classify(out.Expiration, out.CheckedAt)

	c.logger.Debug("check complete",
		zap.String("url", out.URL),
		zap.String("severity", out.Severity.String()),
		zap.Duration("remaining", out.Remaining()),
	)

	return out
}

func (c *Checker) canceled(raw string, cause error) Outcome {
	return Outcome{
		Target:    raw,
		URL:       target.Normalize(raw),
		CheckedAt: c.now().UTC(),
		Err:       &scanner.FetchError{Kind: scanner.KindCanceled, Err: cause},
	}
}

func asFetchError(err error) *scanner.FetchError {
	var fe *scanner.FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &scanner.FetchError{Err: err}
}
