package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mekedron/tableorder-cli/internal/domain"
)

const (
	// DefaultBaseURL is the backend used when nothing else is configured.
	DefaultBaseURL = "http://localhost:3000/api/v1"

	defaultUserAgent = "tableorder-cli/1.0"
)

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the restaurant ordering backend.
type Client struct {
	httpClient     HTTPClient
	baseURL        string
	logger         *zap.Logger
	minRequestGap  time.Duration
	requestWindowM sync.Mutex
	nextRequestAt  time.Time
}

// Option applies Client options.
type Option func(*Client)

// WithHTTPClient replaces default HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL replaces the backend base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithLogger sets the logger used for request traces.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestMinInterval limits request bursts by enforcing a minimum delay between calls.
func WithRequestMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval < 0 {
			interval = 0
		}
		c.minRequestGap = interval
	}
}

// NewClient creates a backend client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    DefaultBaseURL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) restaurantURL(restaurantID string) string {
	return c.baseURL + "/restaurants/" + url.PathEscape(strings.TrimSpace(restaurantID)) + ".json"
}

func (c *Client) ordersURL(restaurantID string) string {
	return c.baseURL + "/restaurants/" + url.PathEscape(strings.TrimSpace(restaurantID)) + "/orders.json"
}

func (c *Client) doJSONRequest(ctx context.Context, method, rawURL string, body any) ([]byte, int, error) {
	var bodyReader io.Reader
	bodyBytes := 0
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request body: %w", err)
		}
		bodyBytes = len(payload)
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.waitForRequestSlot(ctx); err != nil {
		return nil, 0, err
	}

	startedAt := time.Now()
	c.traceRequestStart(method, rawURL, bodyBytes)

	res, err := c.httpClient.Do(req)
	if err != nil {
		upstreamErr := &UpstreamRequestError{
			Method: method,
			URL:    rawURL,
			Cause:  err,
		}
		c.traceRequestDone(method, rawURL, 0, 0, startedAt, upstreamErr)
		return nil, 0, upstreamErr
	}
	defer func() {
		_ = res.Body.Close()
	}()

	rawResponse, err := io.ReadAll(res.Body)
	if err != nil {
		upstreamErr := &UpstreamRequestError{
			Method:     method,
			URL:        rawURL,
			StatusCode: res.StatusCode,
			Cause:      fmt.Errorf("read response body: %w", err),
		}
		c.traceRequestDone(method, rawURL, res.StatusCode, 0, startedAt, upstreamErr)
		return nil, res.StatusCode, upstreamErr
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		upstreamErr := &UpstreamRequestError{
			Method:     method,
			URL:        rawURL,
			StatusCode: res.StatusCode,
			Body:       string(rawResponse),
		}
		c.traceRequestDone(method, rawURL, res.StatusCode, len(rawResponse), startedAt, upstreamErr)
		return nil, res.StatusCode, upstreamErr
	}

	c.traceRequestDone(method, rawURL, res.StatusCode, len(rawResponse), startedAt, nil)
	return rawResponse, res.StatusCode, nil
}

func (c *Client) traceRequestStart(method, rawURL string, bodyBytes int) {
	fields := []zap.Field{zap.String("method", method), zap.String("url", rawURL)}
	if bodyBytes > 0 {
		fields = append(fields, zap.Int("body_bytes", bodyBytes))
	}
	c.logger.Debug("http request", fields...)
}

func (c *Client) traceRequestDone(method, rawURL string, statusCode int, responseBytes int, startedAt time.Time, reqErr error) {
	duration := time.Since(startedAt).Round(time.Millisecond)
	if reqErr != nil {
		c.logger.Debug("http request failed",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.Error(reqErr),
		)
		return
	}
	c.logger.Debug("http response",
		zap.String("method", method),
		zap.String("url", rawURL),
		zap.Int("status", statusCode),
		zap.Duration("duration", duration),
		zap.Int("bytes", responseBytes),
	)
}

func (c *Client) waitForRequestSlot(ctx context.Context) error {
	interval := c.minRequestGap
	if interval <= 0 {
		return nil
	}
	for {
		c.requestWindowM.Lock()
		wait := time.Until(c.nextRequestAt)
		if wait <= 0 {
			c.nextRequestAt = time.Now().Add(interval)
			c.requestWindowM.Unlock()
			return nil
		}
		c.requestWindowM.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) restaurantPage(ctx context.Context, restaurantID string) (restaurantPayload, error) {
	rawURL := c.restaurantURL(restaurantID)
	raw, status, err := c.doJSONRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return restaurantPayload{}, err
	}
	var payload restaurantPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return restaurantPayload{}, &UpstreamRequestError{
			Method:     http.MethodGet,
			URL:        rawURL,
			StatusCode: status,
			Body:       string(raw),
			Cause:      fmt.Errorf("decode response body: %w", err),
		}
	}
	return payload, nil
}

// FetchRestaurantInfo loads restaurant metadata, filling backend omissions with defaults.
func (c *Client) FetchRestaurantInfo(ctx context.Context, restaurantID string) (*domain.Restaurant, error) {
	payload, err := c.restaurantPage(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	restaurant := payload.toDomain(restaurantID)
	return &restaurant, nil
}

// FetchMenuItems loads the flat menu item list of a restaurant.
func (c *Client) FetchMenuItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	payload, err := c.restaurantPage(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	items, err := payload.menuItems()
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SubmitOrder posts an order for a restaurant.
func (c *Client) SubmitOrder(ctx context.Context, restaurantID string, order domain.OrderRequest) error {
	_, _, err := c.doJSONRequest(ctx, http.MethodPost, c.ordersURL(restaurantID), order)
	return err
}
