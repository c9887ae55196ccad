package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	listingEndpoint  = "https://app.scrapeak.com/v1/scrapers/zillow/listing"
	propertyEndpoint = "https://app.scrapeak.com/v1/scrapers/zillow/property"
)

// ErrCircuitOpen is returned while the breaker is holding requests back.
var ErrCircuitOpen = errors.New("provider: circuit breaker open, upstream paused")

// Client talks to the scraping API. All methods return the raw JSON
// payload; decoding and shaping happen in the normalize package.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseListing  string
	baseProperty string
	maxRetries   int
	retryDelay   time.Duration
	requestDelay time.Duration
	breaker      *CircuitBreaker

	mu              sync.Mutex
	lastRequestTime time.Time
}

type ClientConfig struct {
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	RequestDelay time.Duration

	// BaseListingURL and BasePropertyURL override the upstream
	// endpoints, used by tests.
	BaseListingURL  string
	BasePropertyURL string
}

func NewClient(apiKey string) *Client {
	return NewClientWithConfig(ClientConfig{
		APIKey:       apiKey,
		Timeout:      60 * time.Second,
		MaxRetries:   3,
		RetryDelay:   2 * time.Second,
		RequestDelay: 1 * time.Second,
	})
}

func NewClientWithConfig(config ClientConfig) *Client {
	if config.BaseListingURL == "" {
		config.BaseListingURL = listingEndpoint
	}
	if config.BasePropertyURL == "" {
		config.BasePropertyURL = propertyEndpoint
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		httpClient:   &http.Client{Timeout: config.Timeout},
		apiKey:       config.APIKey,
		baseListing:  config.BaseListingURL,
		baseProperty: config.BasePropertyURL,
		maxRetries:   config.MaxRetries,
		retryDelay:   config.RetryDelay,
		requestDelay: config.RequestDelay,
		breaker:      NewCircuitBreaker(8, 15*time.Minute),
	}
}

// Listings fetches the raw listing search payload for a Zillow search URL.
func (c *Client) Listings(ctx context.Context, searchURL string) ([]byte, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("url", searchURL)
	return c.fetch(ctx, c.baseListing, params)
}

// Property fetches the raw property detail payload. Exactly one of
// zpid or address should be set; zpid wins when both are present.
func (c *Client) Property(ctx context.Context, zpid, address string) ([]byte, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	switch {
	case zpid != "":
		params.Set("zpid", zpid)
	case address != "":
		params.Set("address", address)
	default:
		return nil, errors.New("provider: property lookup needs a zpid or address")
	}
	return c.fetch(ctx, c.baseProperty, params)
}

// Breaker exposes circuit state for the status endpoint.
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if !c.breaker.CanProceed() {
		return nil, ErrCircuitOpen
	}

	c.throttle()

	full := endpoint + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: delay * 2^(attempt-1), max 30s
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * c.retryDelay
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
			log.Printf("[provider] retry %d/%d after %v", attempt, c.maxRetries, backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = readErr
				continue
			}
			c.breaker.RecordSuccess()
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			c.breaker.RecordFailure(resp.StatusCode)
			lastErr = fmt.Errorf("provider: upstream returned %d", resp.StatusCode)
			if !c.breaker.CanProceed() {
				return nil, ErrCircuitOpen
			}
			continue
		default:
			// 4xx other than 429 will not improve with retries.
			c.breaker.RecordFailure(resp.StatusCode)
			return nil, fmt.Errorf("provider: upstream returned %d", resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("provider: request failed after %d retries: %w", c.maxRetries, lastErr)
}

// throttle enforces a minimum delay between upstream requests.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.requestDelay == 0 {
		return
	}
	elapsed := time.Since(c.lastRequestTime)
	if elapsed < c.requestDelay {
		time.Sleep(c.requestDelay - elapsed)
	}
	c.lastRequestTime = time.Now()
}
