// Package listdex is a typed client for the listdex HTTP API.
package listdex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the API's error envelope.
// Code carries the machine-readable discriminant, e.g. "query_invalid".
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("listdex: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithUserID sets the authenticated user sent on write operations.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

// Client is the listdex SDK entry point.
type Client struct {
	baseURL string
	userID  string
	hc      *http.Client
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs a ranked listing search.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]Item, error) {
	q := url.Values{}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	var out itemList
	if err := c.do(ctx, http.MethodGet, "/v1/search?"+searchValues(q, p).Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Feed returns the recency feed, optionally narrowed and location-ordered.
func (c *Client) Feed(ctx context.Context, p SearchParams) ([]Item, error) {
	var out itemList
	if err := c.do(ctx, http.MethodGet, "/v1/items?"+searchValues(url.Values{}, p).Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// GetItem fetches one listing.
func (c *Client) GetItem(ctx context.Context, id string) (Item, error) {
	var out Item
	if err := c.do(ctx, http.MethodGet, "/v1/items/"+url.PathEscape(id), nil, &out); err != nil {
		return Item{}, err
	}
	return out, nil
}

// CreateItem posts a new listing as the configured user.
func (c *Client) CreateItem(ctx context.Context, draft ItemDraft) (Item, error) {
	var out Item
	if err := c.do(ctx, http.MethodPost, "/v1/items", draft, &out); err != nil {
		return Item{}, err
	}
	return out, nil
}

// UpdateItem edits an owned listing.
func (c *Client) UpdateItem(ctx context.Context, id string, draft ItemDraft) (Item, error) {
	var out Item
	if err := c.do(ctx, http.MethodPut, "/v1/items/"+url.PathEscape(id), draft, &out); err != nil {
		return Item{}, err
	}
	return out, nil
}

// DeleteItem removes an owned listing.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/items/"+url.PathEscape(id), nil, nil)
}

// Categories lists the category directory.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out categoryList
	if err := c.do(ctx, http.MethodGet, "/v1/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CategoryItems returns a category's listings.
func (c *Client) CategoryItems(ctx context.Context, categoryID string, p SearchParams) ([]Item, error) {
	path := "/v1/categories/" + url.PathEscape(categoryID) + "/items?" + searchValues(url.Values{}, p).Encode()
	var out itemList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Health checks the health of all system components. A degraded system is a
// decoded report, not an error: the endpoint answers 503 with the same body.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("listdex: build request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("listdex: health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return HealthStatus{}, &APIError{
			StatusCode: resp.StatusCode, Code: "unknown", Message: resp.Status,
		}
	}
	var out HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return HealthStatus{}, fmt.Errorf("listdex: decode response: %w", err)
	}
	return out, nil
}

func searchValues(q url.Values, p SearchParams) url.Values {
	if p.CategoryID != "" {
		q.Set("category", p.CategoryID)
	}
	if p.Location != nil {
		q.Set("lat", strconv.FormatFloat(p.Location.Lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(p.Location.Lon, 'f', -1, 64))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("listdex: encode request: %w", err)
		}
		reqBody = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("listdex: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("listdex: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: resp.Status}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("listdex: decode response: %w", err)
	}
	return nil
}
