package notify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fplmate/fpl-companion/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmailPublisherSendsScheduledEmail(t *testing.T) {
	sendAt := time.Date(2025, 11, 7, 19, 0, 0, 0, time.UTC)

	var gotAuth, gotIdempotency string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotIdempotency = r.Header.Get("Idempotency-Key")
		raw, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(raw, &gotPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewEmailPublisher(EmailPublisherConfig{
		BaseURL:     server.URL,
		Token:       "tok-123",
		FromAddress: "alerts@fpl-companion.app",
	}, discardLogger())

	err := publisher.Send(context.Background(), usecase.EmailMessage{
		To:             "alice@example.com",
		Subject:        "Gameweek 11 deadline approaching",
		Body:           "Transfers lock Saturday 11:00 UTC.",
		SendAt:         &sendAt,
		IdempotencyKey: "deadline:11:r-alice",
	})
	if err != nil {
		t.Fatalf("expected send to succeed, got err=%v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotIdempotency != "deadline:11:r-alice" {
		t.Fatalf("unexpected idempotency key %q", gotIdempotency)
	}
	if gotPayload["scheduled_at"] != sendAt.Format(time.RFC3339) {
		t.Fatalf("unexpected scheduled_at %v", gotPayload["scheduled_at"])
	}
	if gotPayload["from"] != "alerts@fpl-companion.app" {
		t.Fatalf("unexpected from %v", gotPayload["from"])
	}
}

func TestEmailPublisherRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewEmailPublisher(EmailPublisherConfig{
		BaseURL: server.URL,
		Token:   "tok-123",
		Retries: 2,
	}, discardLogger())

	err := publisher.Send(context.Background(), usecase.EmailMessage{
		To:      "alice@example.com",
		Subject: "Deadline",
	})
	if err != nil {
		t.Fatalf("expected retry to succeed, got err=%v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got=%d", calls.Load())
	}
}

func TestEmailPublisherClientErrorIsTerminal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	publisher := NewEmailPublisher(EmailPublisherConfig{
		BaseURL: server.URL,
		Token:   "tok-123",
		Retries: 3,
	}, discardLogger())

	err := publisher.Send(context.Background(), usecase.EmailMessage{
		To:      "alice@example.com",
		Subject: "Deadline",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no retries on 422, got=%d calls", calls.Load())
	}
}

func TestEmailPublisherGeneratesIdempotencyKey(t *testing.T) {
	var gotIdempotency string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdempotency = r.Header.Get("Idempotency-Key")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewEmailPublisher(EmailPublisherConfig{
		BaseURL: server.URL,
		Token:   "tok-123",
	}, discardLogger())

	err := publisher.Send(context.Background(), usecase.EmailMessage{
		To:      "alice@example.com",
		Subject: "Deadline",
	})
	if err != nil {
		t.Fatalf("expected send to succeed, got err=%v", err)
	}
	if !strings.HasPrefix(gotIdempotency, "email-") {
		t.Fatalf("expected generated idempotency key, got %q", gotIdempotency)
	}
}

func TestEmailPublisherValidatesInput(t *testing.T) {
	publisher := NewEmailPublisher(EmailPublisherConfig{
		BaseURL: "http://localhost:0",
		Token:   "tok-123",
	}, discardLogger())

	if err := publisher.Send(context.Background(), usecase.EmailMessage{Subject: "Deadline"}); err == nil {
		t.Fatal("expected error for missing recipient")
	}
	if err := publisher.Send(context.Background(), usecase.EmailMessage{To: "alice@example.com"}); err == nil {
		t.Fatal("expected error for missing subject")
	}
}
