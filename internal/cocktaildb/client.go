package cocktaildb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public v1 API with the shared test key.
const DefaultBaseURL = "https://www.thecocktaildb.com/api/json/v1/1"

const (
	defaultUserAgent = "shaker/0.1"
	defaultTimeout   = 10 * time.Second
)

// ErrNotFound is returned by LookupByID when no drink has the id.
var ErrNotFound = errors.New("drink not found")

// Lookup is the remote recipe lookup used by the session. *Client
// implements it; tests substitute fakes.
type Lookup interface {
	SearchByName(ctx context.Context, term string) ([]Drink, error)
	LookupByID(ctx context.Context, id string) (*Drink, error)
}

var _ Lookup = (*Client)(nil)

// Client talks to the recipe API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// NewClient builds a Client for baseURL. An empty baseURL uses DefaultBaseURL
// and a non-positive timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// SearchByName returns the drinks whose name matches term. No match is an
// empty result, not an error.
func (c *Client) SearchByName(ctx context.Context, term string) ([]Drink, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("s", strings.TrimSpace(term))
	var payload drinksResponse
	if err := c.get(ctx, "search.php", values, &payload); err != nil {
		return nil, err
	}
	drinks, err := payload.decode()
	if err != nil {
		return nil, fmt.Errorf("decode drinks: %w", err)
	}
	return drinks, nil
}

// LookupByID returns the drink with id.
func (c *Client) LookupByID(ctx context.Context, id string) (*Drink, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("drink id required")
	}
	values := url.Values{}
	values.Set("i", id)
	var payload drinksResponse
	if err := c.get(ctx, "lookup.php", values, &payload); err != nil {
		return nil, err
	}
	drinks, err := payload.decode()
	if err != nil {
		return nil, fmt.Errorf("decode drinks: %w", err)
	}
	if len(drinks) == 0 {
		return nil, fmt.Errorf("lookup %s: %w", id, ErrNotFound)
	}
	return &drinks[0], nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: path, RawQuery: query.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseBaseURL normalizes baseURL so relative endpoint paths resolve under it.
func parseBaseURL(baseURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", baseURL, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
