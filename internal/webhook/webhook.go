// Package webhook delivers exported quotes to an external workflow system.
package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Simplici0/poolsmart/internal/export"
	"github.com/Simplici0/poolsmart/internal/logger"
	"github.com/Simplici0/poolsmart/internal/metrics"
)

// ErrNoURL is returned when neither the client nor the call provides a URL.
var ErrNoURL = errors.New("webhook url is not configured")

// StatusError reports a non-2xx response from the webhook.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook responded %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the same request may succeed later.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Options configures a Client.
type Options struct {
	URL        string
	Timeout    time.Duration
	MaxRetries uint64
	BaseDelay  time.Duration
}

// Client posts payloads as JSON.
type Client struct {
	url        string
	httpClient *http.Client
	maxRetries uint64
	baseDelay  time.Duration
	logger     logger.Logger
}

func NewClient(opts Options, log logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	return &Client{
		url:        opts.URL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		logger:     log.WithFields(map[string]interface{}{"component": "webhook"}),
	}
}

// Send posts the payload to the configured URL.
func (c *Client) Send(ctx context.Context, p export.Payload) error {
	return c.SendTo(ctx, "", p)
}

// SendTo posts the payload to target, or to the configured URL when target is
// empty. Network failures, 429 and 5xx responses are retried with exponential
// backoff; other responses end the delivery.
func (c *Client) SendTo(ctx context.Context, target string, p export.Payload) error {
	if target == "" {
		target = c.url
	}
	if target == "" {
		return ErrNoURL
	}
	if _, err := url.ParseRequestURI(target); err != nil {
		return fmt.Errorf("parse webhook url: %w", err)
	}

	body, err := export.Marshal(p)
	if err != nil {
		return err
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.baseDelay))

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.post(ctx, target, body)
		if err == nil {
			return nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			return err
		}

		c.logger.Warn("webhook delivery attempt failed", map[string]interface{}{
			"attempt":   attempt,
			"reference": p.Reference,
			"error":     err.Error(),
		})
		metrics.WebhookDeliveries.WithLabelValues("retry").Inc()
		return retry.RetryableError(err)
	})
	if err != nil {
		metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
		c.logger.Error("webhook delivery failed", map[string]interface{}{
			"attempts":  attempt,
			"reference": p.Reference,
			"error":     err.Error(),
		})
		return fmt.Errorf("deliver webhook: %w", err)
	}

	metrics.WebhookDeliveries.WithLabelValues("delivered").Inc()
	c.logger.Info("webhook delivered", map[string]interface{}{
		"attempts":  attempt,
		"reference": p.Reference,
	})
	return nil
}

func (c *Client) post(ctx context.Context, target string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
}
