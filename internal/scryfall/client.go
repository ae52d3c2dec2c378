package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"cardsort/internal/services"
)

// Card models the subset of the Scryfall card payload the pipeline uses.
type Card struct {
	Name          string            `json:"name"`
	TypeLine      string            `json:"type_line"`
	CMC           float64           `json:"cmc"`
	ColorIdentity []string          `json:"color_identity"`
	Prices        Prices            `json:"prices"`
	ImageURIs     map[string]string `json:"image_uris"`
}

// Prices carries the string-encoded price fields Scryfall returns.
type Prices struct {
	EUR string `json:"eur"`
	USD string `json:"usd"`
}

// Price returns the first available price, preferring EUR, or nil when the
// service reported none.
func (p Prices) Price() *float64 {
	for _, raw := range []string{p.EUR, p.USD} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return &value
	}
	return nil
}

// ColorIdentityString joins the identity symbols, defaulting to "C" for
// colorless cards.
func (c *Card) ColorIdentityString() string {
	if len(c.ColorIdentity) == 0 {
		return "C"
	}
	return strings.Join(c.ColorIdentity, "")
}

// ImageURI returns the best available card image reference.
func (c *Card) ImageURI() string {
	for _, key := range []string{"normal", "large", "small"} {
		if uri := c.ImageURIs[key]; uri != "" {
			return uri
		}
	}
	return ""
}

// Client provides access to the Scryfall API for exact-name lookups.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client

	// Scryfall asks integrators to keep at least 50-100ms between requests.
	minInterval time.Duration
	mu          sync.Mutex
	lastLookup  time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMinInterval overrides the courtesy delay between requests.
func WithMinInterval(interval time.Duration) Option {
	return func(c *Client) { c.minInterval = interval }
}

// New creates a Scryfall client.
func New(baseURL, userAgent string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("scryfall base url required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   strings.TrimSpace(userAgent),
		httpClient:  &http.Client{Timeout: timeout},
		minInterval: 100 * time.Millisecond,
		lastLookup:  time.Unix(0, 0),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Named fetches a card by its exact canonical name. A missing card maps to
// services.ErrNotFound; every other failure is an enrichment failure the
// caller degrades on.
func (c *Client) Named(ctx context.Context, name string) (*Card, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("card name must not be empty")
	}

	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scryfall request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, "enrich", "named", name, nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("scryfall rate limited (status %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scryfall status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var card Card
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("decode card: %w", err)
	}
	return &card, nil
}

func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	wait := c.minInterval - time.Since(c.lastLookup)
	if wait > 0 {
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		c.mu.Lock()
	}
	c.lastLookup = time.Now()
	c.mu.Unlock()
	return nil
}
