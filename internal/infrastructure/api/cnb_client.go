package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
)

const (
	// DefaultDailyURL is the English daily fixing published by the Czech National Bank
	DefaultDailyURL = "https://www.cnb.cz/en/financial-markets/foreign-exchange-market/central-bank-exchange-rate-fixing/central-bank-exchange-rate-fixing/daily.txt"

	defaultMaxRetries = 3
	defaultTimeout    = 10 * time.Second

	// maxBulletinSize bounds how much of the response body is read
	maxBulletinSize = 1 << 20
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=api -destination=mock_http_client_test.go -source=cnb_client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CNBClient fetches the raw daily bulletin from the Czech National Bank
type CNBClient struct {
	baseURL    string
	httpClient HTTPClient
	logger     logger.Logger
	maxRetries int
	backoff    func(attempt int) time.Duration
}

// CNBClientOption is a configuration option for the CNB client
type CNBClientOption func(*CNBClient)

// WithBaseURL sets the bulletin URL
func WithBaseURL(baseURL string) CNBClientOption {
	return func(c *CNBClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(httpClient HTTPClient) CNBClientOption {
	return func(c *CNBClient) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger; nil keeps the default logger
func WithLogger(log logger.Logger) CNBClientOption {
	return func(c *CNBClient) {
		c.logger = log
	}
}

// WithMaxRetries sets how many attempts are made on transport errors; values below 1 mean one
func WithMaxRetries(n int) CNBClientOption {
	return func(c *CNBClient) {
		c.maxRetries = n
	}
}

// WithBackoff sets the wait before the retry that follows the given attempt
func WithBackoff(backoff func(attempt int) time.Duration) CNBClientOption {
	return func(c *CNBClient) {
		c.backoff = backoff
	}
}

// NewCNBClient creates a new CNB client
func NewCNBClient(options ...CNBClientOption) *CNBClient {
	c := &CNBClient{
		baseURL:    DefaultDailyURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
		backoff:    quadraticBackoff,
	}
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = logger.GetDefaultLogger()
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}
	return c
}

func quadraticBackoff(attempt int) time.Duration {
	return time.Duration(attempt*attempt) * time.Second
}

// FetchBulletin downloads the bulletin text. Transport failures are retried; a response with a
// status other than 200 is not.
func (c *CNBClient) FetchBulletin(ctx context.Context) (string, error) {
	log := c.logger.WithField("url", c.baseURL)

	var (
		resp *http.Response
		err  error
	)

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "text/plain")

		resp, err = c.httpClient.Do(req)
		if err == nil {
			break
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", apperrors.Upstream("failed to fetch CNB data", ctxErr)
		}

		if attempt < c.maxRetries {
			wait := c.backoff(attempt)
			log.Warn("Bulletin request failed, retrying", map[string]interface{}{
				"attempt":     attempt,
				"max_retries": c.maxRetries,
				"retry_in":    wait.String(),
				"error":       err.Error(),
			})

			select {
			case <-ctx.Done():
				return "", apperrors.Upstream("failed to fetch CNB data", ctx.Err())
			case <-time.After(wait):
			}
		}
	}

	if err != nil {
		log.Error("Bulletin request failed", map[string]interface{}{
			"attempts": c.maxRetries,
			"error":    err.Error(),
		})
		return "", apperrors.Upstream("failed to fetch CNB data", fmt.Errorf("after %d attempts: %w", c.maxRetries, err))
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("Error closing response body", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	if resp.StatusCode != http.StatusOK {
		log.Error("CNB returned an error status", map[string]interface{}{"status": resp.StatusCode})
		return "", apperrors.Upstream("failed to fetch CNB data", errors.New(statusText(resp)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBulletinSize+1))
	if err != nil {
		return "", apperrors.Upstream("failed to read CNB response", err)
	}
	if len(body) > maxBulletinSize {
		log.Error("CNB response too large", map[string]interface{}{"limit": maxBulletinSize})
		return "", apperrors.Upstream(fmt.Sprintf("CNB response exceeds %d bytes", maxBulletinSize), nil)
	}

	log.Debug("Bulletin fetched", map[string]interface{}{"bytes": len(body)})

	return string(body), nil
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
