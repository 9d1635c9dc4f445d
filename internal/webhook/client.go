// Package webhook delivers finished result documents to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout bounds a whole delivery, retries included.
	DefaultTimeout = 30 * time.Second

	// attemptTimeout bounds a single request.
	attemptTimeout = 10 * time.Second
)

// Client posts JSON documents to one webhook endpoint.
type Client struct {
	httpClient  *http.Client
	config      *Config
	retryConfig *RetryConfig
	logger      logrus.FieldLogger
}

// NewClient creates a new webhook client. A nil logger discards client logs.
func NewClient(config *Config, retryConfig *RetryConfig, logger logrus.FieldLogger) *Client {
	if config.Method == "" {
		config.Method = http.MethodPost
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	return &Client{
		httpClient:  &http.Client{Timeout: min(attemptTimeout, config.Timeout)},
		config:      config,
		retryConfig: retryConfig,
		logger:      logger.WithField("webhook", config.URL),
	}
}

// URL returns the endpoint the client delivers to.
func (c *Client) URL() string {
	return c.config.URL
}

// Send marshals payload as JSON and delivers it, retrying transport errors
// and retryable statuses until the retry budget or the timeout runs out.
func (c *Client) Send(ctx context.Context, payload any) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var lastErr error

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryConfig.Backoff(attempt)
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"max":     c.retryConfig.MaxRetries,
				"delay":   delay,
			}).Debug("retrying webhook")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("webhook timeout after %d attempts: %w", attempt, ctx.Err())
			}
		}

		statusCode, err := c.sendRequest(ctx, jsonPayload)

		if err == nil && statusCode >= 200 && statusCode < 300 {
			c.logger.WithField("status", statusCode).Debug("webhook delivered")
			return nil
		}

		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed: %w", attempt+1, err)
		} else {
			lastErr = fmt.Errorf("attempt %d failed with status %d", attempt+1, statusCode)
		}

		if statusCode > 0 && !retryable(statusCode) {
			c.logger.WithField("status", statusCode).Debug("non-retryable webhook status, giving up")
			return lastErr
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", c.retryConfig.MaxRetries+1, lastErr)
}

func (c *Client) sendRequest(ctx context.Context, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, c.config.Method, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	switch c.config.AuthType {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	case AuthAPIKey:
		req.Header.Set("X-API-Key", c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
