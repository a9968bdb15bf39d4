package itemstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/shoplist/internal/item"
)

func newTestClient(url string) *Client {
	c := NewClient(url)
	c.RetryDelay = time.Millisecond
	c.MaxRetryDelay = 5 * time.Millisecond
	return c
}

func TestClientList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/items", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Books","quantity":1,"price":7},
			{"id":2,"name":"Juice","quantity":2,"price":"3.5"},
			{"id":3,"title":"placeholder record"}
		]`))
	}))
	defer server.Close()

	items, err := newTestClient(server.URL + "/items/").List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Books", items[0].Name)
	assert.True(t, items[1].Price.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, items[2].Price.IsZero())
}

func TestClientListLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1},{"id":2},{"id":3},{"id":4}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.ListLimit = 2

	items, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestNewClientLimitsPlaceholderEndpoint(t *testing.T) {
	assert.Equal(t, PlaceholderListLimit, NewClient(DefaultEndpoint).ListLimit)
	assert.Equal(t, PlaceholderListLimit, NewClient(DefaultEndpoint+"/").ListLimit)
	assert.Zero(t, NewClient("http://localhost:8080/items").ListLimit)
}

func TestClientUpdateSendsFullItem(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/items/1", r.URL.Path)
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err, "request id should be a uuid")

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	it := item.New(1, "Books", 1, 12.5)
	updated, err := newTestClient(server.URL+"/items").Update(context.Background(), it)
	require.NoError(t, err)

	assert.True(t, updated.Equal(it))
	assert.Equal(t, "Books", got["name"])
	assert.Equal(t, 12.5, got["price"], "price is sent as a JSON number")
}

func TestClientRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"name":"Books","quantity":1,"price":7}`))
	}))
	defer server.Close()

	it, err := newTestClient(server.URL).Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Books", it.Name)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.MaxRetries = 2

	err := client.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, int32(3), attempts.Load())

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrTypeHTTP, se.Type)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "bad item", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Update(context.Background(), item.New(1, "Books", 1, 7))
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
	assert.Equal(t, int32(1), attempts.Load())
	assert.Contains(t, err.Error(), "bad item")
}

func TestClientDoesNotRetryCreate(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d := item.Draft{Name: "Milk", Quantity: 2, Price: decimal.RequireFromString("3.5")}
	_, err := newTestClient(server.URL).Create(context.Background(), d)
	require.Error(t, err)
	assert.True(t, IsRetryable(err), "the error itself is retryable")
	assert.Equal(t, int32(1), attempts.Load(), "but POST is sent once")
}

func TestClientCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rec Record
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		assert.Zero(t, rec.ID, "drafts carry no id")
		rec.ID = 101
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(rec)
	}))
	defer server.Close()

	d := item.Draft{Name: "Milk", Quantity: 2, Price: decimal.RequireFromString("3.5")}
	it, err := newTestClient(server.URL).Create(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 101, it.ID)
	assert.Equal(t, "Milk", it.Name)
	assert.True(t, it.Price.Equal(d.Price))
}

func TestClientNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := newTestClient(server.URL).Get(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsRetryable(err))
}

func TestClientMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 1, "name": `))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).List(context.Background())
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestClientConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestClient(url)
	client.MaxRetries = 0

	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.True(t, IsRetryable(err))
}

func TestClientRetryHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.RetryDelay = time.Hour
	client.MaxRetryDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.List(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
