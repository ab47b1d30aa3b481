package catapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const (
	DefaultBaseURL       = "https://cataas.com"
	DefaultMinInterval   = 2 * time.Second
	DefaultMaxAttempts   = 3
	DefaultTimeout       = 10 * time.Second
	DefaultMaxImageBytes = 10 * 1024 * 1024
)

// Client fetches random cat images from a cataas-compatible service.
//
// Calls on one Client are serialised: every network attempt, including
// retries, waits on the same Throttle, so consecutive attempts start at least
// MinInterval apart.
type Client struct {
	mu            sync.Mutex
	baseURL       string
	httpClient    *http.Client
	clock         Clock
	throttle      *Throttle
	minInterval   time.Duration
	maxAttempts   int
	maxImageBytes int64
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithClock(clock Clock) Option {
	return func(c *Client) { c.clock = clock }
}

func WithMinInterval(d time.Duration) Option {
	return func(c *Client) { c.minInterval = d }
}

func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

func WithMaxImageBytes(n int64) Option {
	return func(c *Client) { c.maxImageBytes = n }
}

// NewClient creates a client with its own throttle state.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		clock:         SystemClock{},
		minInterval:   DefaultMinInterval,
		maxAttempts:   DefaultMaxAttempts,
		maxImageBytes: DefaultMaxImageBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	if c.maxImageBytes <= 0 {
		c.maxImageBytes = DefaultMaxImageBytes
	}
	c.throttle = NewThrottle(c.minInterval, c.clock)
	return c
}

func (c *Client) Throttle() *Throttle { return c.throttle }

func (c *Client) MaxAttempts() int { return c.maxAttempts }

// Fetch retrieves one image. Invalid input fails immediately without a network
// call. Otherwise up to MaxAttempts throttled attempts are made and the first
// success, or the last failure, is returned.
func (c *Client) Fetch(ctx context.Context, opts ...FetchOption) Result {
	req, err := newFetchRequest(opts...).normalize()
	if err != nil {
		slog.Debug("Rejected cat request", "error", err)
		return failure(err, 0)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The caller may have given up while queued behind another fetch.
	if err := ctx.Err(); err != nil {
		return failure(err, 0)
	}

	endpoint := c.baseURL + req.path()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if _, err := c.throttle.Wait(ctx); err != nil {
			return failure(fmt.Errorf("waiting for attempt %d: %w", attempt, err), attempt-1)
		}

		img, err := c.attempt(ctx, endpoint)
		if err == nil {
			slog.Info("Fetched cat", "url", img.SourceURL, "attempts", attempt, "bytes", len(img.Bytes))
			return success(req, img, attempt)
		}

		lastErr = err
		if ctx.Err() != nil {
			return failure(ctx.Err(), attempt)
		}
		slog.Warn("Cat fetch attempt failed", "attempt", attempt, "max_attempts", c.maxAttempts, "error", err)
	}

	slog.Error("Cat fetch failed", "url", endpoint, "attempts", c.maxAttempts, "error", lastErr)
	return failure(lastErr, c.maxAttempts)
}

func (c *Client) attempt(ctx context.Context, endpoint string) (*Image, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		// A bad base URL will not get better on retry, but it still counts
		// against the budget like any other failed attempt.
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrTransient, err)
	}
	httpReq.Header.Set("Accept", "image/*")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch image: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: unexpected status code: %d, body: %s", ErrTransient, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image data: %v", ErrTransient, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if int64(len(data)) > c.maxImageBytes {
		return nil, fmt.Errorf("%w: image larger than %d bytes", ErrMalformedResponse, c.maxImageBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: body is not an image: %v", ErrMalformedResponse, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}

	sourceURL := endpoint
	if resp.Request != nil && resp.Request.URL != nil {
		sourceURL = resp.Request.URL.String()
	}

	return &Image{
		ID:          uuid.NewString(),
		Bytes:       data,
		ContentType: contentType,
		Format:      format,
		SourceURL:   sourceURL,
		Width:       cfg.Width,
		Height:      cfg.Height,
		FetchedAt:   c.clock.Now(),
	}, nil
}

// IsRetryable reports whether err belongs to a class Fetch retries.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrMalformedResponse)
}
