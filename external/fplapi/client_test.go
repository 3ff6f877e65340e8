package fplapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fplmate/fpl-companion/internal/usecase"
)

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"events":[],"teams":[],"elements":[]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, MaxRetries: 2})
	_, err := client.FetchBootstrap(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got err=%v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got=%d", calls.Load())
	}
}

func TestClientNotFoundIsTerminal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, MaxRetries: 3})
	_, err := client.FetchManager(context.Background(), 999)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected not-found error, got=%v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no retries on 404, got=%d calls", calls.Load())
	}
}

func TestClientRejectsInvalidIDs(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://localhost:0"})

	if _, err := client.FetchManager(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero team id")
	}
	if _, err := client.FetchPicks(context.Background(), 1, 0); err == nil {
		t.Fatal("expected error for zero gameweek")
	}
	if _, err := client.FetchClassicLeague(context.Background(), -1); err == nil {
		t.Fatal("expected error for negative league id")
	}
}
