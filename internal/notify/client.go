package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/certwatch-app/cw-expiry/internal/checker"
	"github.com/certwatch-app/cw-expiry/internal/config"
	"github.com/certwatch-app/cw-expiry/internal/report"
	"github.com/certwatch-app/cw-expiry/internal/version"
)

// Client posts batch results to a webhook
type Client struct {
	httpClient    *http.Client
	logger        *zap.Logger
	url           string
	apiKey        string
	hostname      string
	retryInterval time.Duration
	retries       int
	onlyUnhealthy bool
}

// New creates a new webhook Client
func New(cfg config.WebhookConfig, logger *zap.Logger) *Client {
	hostname, _ := os.Hostname()

	return &Client{
		url:           cfg.URL,
		apiKey:        cfg.APIKey,
		retries:       cfg.Retries,
		onlyUnhealthy: cfg.OnlyUnhealthy,
		hostname:      hostname,
		retryInterval: time.Second,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Send posts the batch. It is a no-op when only unhealthy batches are sent
// and every certificate is valid.
func (c *Client) Send(ctx context.Context, outcomes []checker.Outcome, summary checker.Summary) error {
	if c.onlyUnhealthy && summary.Healthy() {
		c.logger.Debug("batch healthy, skipping webhook")
		return nil
	}

	body, err := json.Marshal(c.buildPayload(outcomes, summary))
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	attempt := 0
	op := func() error {
		attempt++
		err := c.post(ctx, body)
		if err != nil {
			c.logger.Debug("webhook attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.retries)), ctx)); err != nil {
		return fmt.Errorf("webhook failed after %d attempt(s): %w", attempt, err)
	}

	c.logger.Info("webhook delivered",
		zap.Int("outcomes", len(outcomes)),
		zap.Int("attempts", attempt),
	)
	return nil
}

func (c *Client) buildPayload(outcomes []checker.Outcome, summary checker.Summary) *BatchPayload {
	records := make([]report.Record, 0, len(outcomes))
	checkedAt := time.Now().UTC()
	for i, o := range outcomes {
		records = append(records, report.NewRecord(o))
		if i == 0 || o.CheckedAt.Before(checkedAt) {
			checkedAt = o.CheckedAt
		}
	}

	return &BatchPayload{
		CheckedAt: checkedAt,
		Tool:      "cw-expiry",
		Version:   version.GetVersion(),
		Hostname:  c.hostname,
		Outcomes:  records,
		Summary: SummaryData{
			ByTag:   summary.ByTag,
			Total:   summary.Total,
			Failed:  summary.Failed,
			Healthy: summary.Healthy(),
		},
	}
}

// post sends one request. Client errors other than 408 and 429 are permanent.
func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("cw-expiry/%s", version.GetVersion()))
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("received webhook response",
		zap.Int("status", resp.StatusCode),
		zap.Int("body_length", len(respBody)),
	)

	if resp.StatusCode < 300 {
		return nil
	}

	statusErr := statusError(resp.StatusCode, respBody)
	if resp.StatusCode < 500 && resp.StatusCode != http.StatusRequestTimeout && resp.StatusCode != http.StatusTooManyRequests {
		return backoff.Permanent(statusErr)
	}
	return statusErr
}

func statusError(status int, body []byte) error {
	var errResp struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		return fmt.Errorf("webhook error (%s): %s", errResp.Error.Code, errResp.Error.Message)
	}
	return fmt.Errorf("webhook returned status %d: %s", status, string(body))
}
