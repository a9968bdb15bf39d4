package itemstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/logging"
)

const (
	// DefaultEndpoint is the public placeholder collection the original app talked to.
	// It accepts writes but never persists them.
	DefaultEndpoint = "https://jsonplaceholder.typicode.com/posts"

	// PlaceholderListLimit is how many items are kept from DefaultEndpoint,
	// which serves a hundred posts
	PlaceholderListLimit = 5

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// RequestIDHeader carries a per-request id for log correlation
	RequestIDHeader = "X-Request-Id"
)

// Client talks to a REST item collection:
//
//	GET    {Endpoint}        list
//	GET    {Endpoint}/{id}   get
//	POST   {Endpoint}        create
//	PUT    {Endpoint}/{id}   update
//	DELETE {Endpoint}/{id}   delete
type Client struct {
	// Endpoint is the collection URL (e.g., "http://localhost:8080/items")
	Endpoint string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for idempotent requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff
	MaxRetryDelay time.Duration

	// ListLimit truncates List results when > 0
	ListLimit int
}

// NewClient creates a client for the collection at endpoint. Clients of
// DefaultEndpoint start with ListLimit set to PlaceholderListLimit.
func NewClient(endpoint string) *Client {
	c := &Client{
		Endpoint:      strings.TrimRight(endpoint, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
	if c.Endpoint == DefaultEndpoint {
		c.ListLimit = PlaceholderListLimit
	}
	return c
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Record is the JSON shape exchanged with a store. Price travels as a bare
// JSON number; quoted numbers are accepted on decode.
type Record struct {
	ID       int         `json:"id,omitempty"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    json.Number `json:"price"`
}

// NewRecord converts it to its wire form.
func NewRecord(it item.Item) Record {
	return Record{ID: it.ID, Name: it.Name, Quantity: it.Quantity, Price: json.Number(it.Price.String())}
}

// Item converts the record back. A missing price decodes as zero.
func (r Record) Item() (item.Item, error) {
	price := decimal.Zero
	if r.Price != "" {
		p, err := decimal.NewFromString(string(r.Price))
		if err != nil {
			return item.Item{}, err
		}
		price = p
	}
	return item.Item{ID: r.ID, Name: r.Name, Quantity: r.Quantity, Price: price}, nil
}

// List fetches all items
func (c *Client) List(ctx context.Context) ([]item.Item, error) {
	var records []Record
	if err := c.doWithRetry(ctx, "list", http.MethodGet, c.Endpoint, nil, &records); err != nil {
		return nil, err
	}

	if c.ListLimit > 0 && len(records) > c.ListLimit {
		records = records[:c.ListLimit]
	}

	items := make([]item.Item, 0, len(records))
	for _, r := range records {
		it, err := r.Item()
		if err != nil {
			return nil, NewParseError("list", fmt.Sprintf("invalid price for item %d", r.ID), err)
		}
		items = append(items, it)
	}
	return items, nil
}

// Get fetches a single item
func (c *Client) Get(ctx context.Context, id int) (item.Item, error) {
	var r Record
	if err := c.doWithRetry(ctx, "get", http.MethodGet, c.itemURL(id), nil, &r); err != nil {
		return item.Item{}, err
	}
	it, err := r.Item()
	if err != nil {
		return item.Item{}, NewParseError("get", "invalid price in response", err)
	}
	return it, nil
}

// Create posts a new item. Create is never retried: the store may have
// applied a request whose response was lost.
func (c *Client) Create(ctx context.Context, d item.Draft) (item.Item, error) {
	rec := NewRecord(d.Item())
	var r Record
	if err := c.doAttempt(ctx, "create", http.MethodPost, c.Endpoint, &rec, &r); err != nil {
		return item.Item{}, err
	}
	it, err := r.Item()
	if err != nil {
		return item.Item{}, NewParseError("create", "invalid price in response", err)
	}
	return it, nil
}

// Update replaces the item stored under it.ID
func (c *Client) Update(ctx context.Context, it item.Item) (item.Item, error) {
	rec := NewRecord(it)
	var r Record
	if err := c.doWithRetry(ctx, "update", http.MethodPut, c.itemURL(it.ID), &rec, &r); err != nil {
		return item.Item{}, err
	}
	updated, err := r.Item()
	if err != nil {
		return item.Item{}, NewParseError("update", "invalid price in response", err)
	}
	return updated, nil
}

// Delete removes the item with the given id
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.doWithRetry(ctx, "delete", http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) itemURL(id int) string {
	return fmt.Sprintf("%s/%d", c.Endpoint, id)
}

// doWithRetry runs an idempotent request, retrying retryable failures with
// exponential backoff.
func (c *Client) doWithRetry(ctx context.Context, op, method, url string, body, out any) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Debug("Retrying store request",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Duration("delay", currentDelay),
				zap.Error(lastErr),
			)

			select {
			case <-ctx.Done():
				return NewNetworkError(op, "request cancelled", ctx.Err())
			case <-time.After(currentDelay):
			}

			currentDelay *= 2
			if c.MaxRetryDelay > 0 && currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		err := c.doAttempt(ctx, op, method, url, body, out)
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry non-retryable errors
		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// doAttempt performs a single request/response exchange
func (c *Client) doAttempt(ctx context.Context, op, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return NewNetworkError(op, "failed to create request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	logging.LogHTTPRequest(requestID, method, url)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError(op, method+" request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogHTTPResponse(requestID, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError(op, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("%s %s returned status %d", method, url, resp.StatusCode)
		if text := strings.TrimSpace(string(data)); text != "" && len(text) < 200 {
			msg += ": " + text
		}
		return NewHTTPError(op, resp.StatusCode, msg)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError(op, "failed to parse JSON response", err)
	}

	return nil
}
