package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dharmasatrya/flightagent/internal/models"
)

func testQuery() models.StructuredQuery {
	return models.StructuredQuery{Origin: "DEL", Destination: "DXB", Currency: "INR"}
}

func newTestClient(endpoint string) *Client {
	return NewClient(Config{
		Endpoint:   endpoint,
		MaxRetries: 3,
		BaseDelay:  10 * time.Millisecond,
		Timeout:    2 * time.Second,
	}, nil)
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}

		var q models.StructuredQuery
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			t.Errorf("failed to decode query: %v", err)
		}
		if q.Origin != "DEL" {
			t.Errorf("unexpected origin %q", q.Origin)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"provider":"amadeus","price":4500,"currency":"INR"}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	results, err := client.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("unexpected result count: %d", len(results))
	}
	if results[0].String("provider") != "amadeus" {
		t.Fatalf("unexpected provider: %q", results[0].String("provider"))
	}
}

func TestSearch_RecoversAfterTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"provider":"sabre","price":100}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	start := time.Now()
	results, err := client.Search(context.Background(), testQuery())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("unexpected result count: %d", len(results))
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("unexpected call count: %d", got)
	}
	// Backoff between the three attempts is base + 2*base = 30ms.
	if elapsed < 30*time.Millisecond {
		t.Fatalf("expected exponential backoff between attempts, elapsed %v", elapsed)
	}
}

func TestSearch_ExhaustedRetriesReturnsUnavailable(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Search(context.Background(), testQuery())

	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("unexpected call count: %d", got)
	}
}

func TestSearch_NonRetryableStatusFailsImmediately(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad query"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Search(context.Background(), testQuery())

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", statusErr.Status)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("non-retryable status must not retry, calls = %d", got)
	}
}

func TestSearch_MalformedBodyFailsImmediately(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"not":"a list"`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Search(context.Background(), testQuery())

	var unexpectedErr *UnexpectedError
	if !errors.As(err, &unexpectedErr) {
		t.Fatalf("expected UnexpectedError, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("malformed body must not retry, calls = %d", got)
	}
}

func TestSearch_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{
		Endpoint:   server.URL,
		MaxRetries: 3,
		BaseDelay:  5 * time.Second,
		Timeout:    2 * time.Second,
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, testQuery())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline, got %v", err)
	}
}

func TestSearch_EmptyResultList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	results, err := client.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("unexpected result count: %d", len(results))
	}
}
