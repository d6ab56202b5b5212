// Package search holds the resilient client for the downstream flight
// search service.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/flightagent/internal/models"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
	defaultTimeout    = 15 * time.Second
)

type Config struct {
	// Endpoint is the full URL of the downstream search route.
	Endpoint string
	// MaxRetries bounds the total number of attempts.
	MaxRetries int
	// BaseDelay seeds the exponential backoff between attempts.
	BaseDelay time.Duration
	// Timeout applies per HTTP attempt.
	Timeout time.Duration
}

type Client struct {
	endpoint   string
	maxRetries int
	baseDelay  time.Duration
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Search posts the query to the downstream service and returns the decoded
// offer list. Transient statuses (429, 502, 503, 504) and network failures
// are retried with exponential backoff; any other status fails immediately
// with a StatusError, and a malformed body fails immediately with an
// UnexpectedError. Backoff sleeps are cancellable through ctx.
func (c *Client) Search(ctx context.Context, query models.StructuredQuery) ([]models.FlightResult, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("encode query: %w", err)}
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		results, retry, err := c.attempt(ctx, body, attempt)
		if err == nil {
			return results, nil
		}
		if !retry {
			return nil, err
		}

		lastErr = err
		if attempt == c.maxRetries {
			break
		}

		// Exponential backoff before the next attempt only; the final
		// failure returns without sleeping.
		delay := c.baseDelay * (1 << (attempt - 1))
		c.log.Warn("retrying search call",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrUnavailable, c.maxRetries, lastErr)
}

// attempt runs one HTTP call. The second return value reports whether the
// failure is retryable.
func (c *Client) attempt(ctx context.Context, body []byte, attempt int) ([]models.FlightResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, &UnexpectedError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		// Timeouts and connection failures are transient.
		return nil, true, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var results []models.FlightResult
		if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
			return nil, false, &UnexpectedError{Err: fmt.Errorf("decode search response: %w", err)}
		}
		return results, false, nil

	case isRetryableStatus(resp.StatusCode):
		return nil, true, fmt.Errorf("search service returned HTTP %d", resp.StatusCode)

	default:
		data, _ := io.ReadAll(resp.Body)
		return nil, false, &StatusError{Status: resp.StatusCode, Body: string(data)}
	}
}

// Overload and availability signals worth absorbing; everything else fails
// fast.
func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
