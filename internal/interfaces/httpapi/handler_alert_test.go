package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fplmate/fpl-companion/internal/infrastructure/repository/memory"
	"github.com/fplmate/fpl-companion/internal/usecase"
)

var readinessDeadline = time.Date(2025, 11, 8, 11, 0, 0, 0, time.UTC)

type readinessProvider struct{}

func (readinessProvider) FetchBootstrap(context.Context) (usecase.ExternalBootstrap, error) {
	return usecase.ExternalBootstrap{
		Gameweeks: []usecase.ExternalGameweek{
			{ID: 10, Name: "Gameweek 10", Finished: true},
			{
				ID:              11,
				Name:            "Gameweek 11",
				DeadlineISO:     readinessDeadline.Format(time.RFC3339),
				DeadlineEpochMs: readinessDeadline.UnixMilli(),
				IsNext:          true,
			},
		},
	}, nil
}

func (readinessProvider) FetchManager(context.Context, int64) (usecase.ExternalManager, error) {
	return usecase.ExternalManager{}, nil
}

func (readinessProvider) FetchPicks(context.Context, int64, int) (usecase.ExternalPicks, error) {
	return usecase.ExternalPicks{}, nil
}

func (readinessProvider) FetchClassicLeague(context.Context, int64) (usecase.ExternalLeague, error) {
	return usecase.ExternalLeague{}, nil
}

type dropSender struct{}

func (dropSender) Send(context.Context, usecase.EmailMessage) error { return nil }

func newReadinessHandler(t *testing.T) *Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fplData := usecase.NewFPLDataService(readinessProvider{}, time.Minute, logger)
	alertSvc := usecase.NewAlertService(
		memory.NewRecipientRepository(nil),
		memory.NewUserTeamRepository(nil),
		fplData,
		dropSender{},
		1,
		logger,
	)
	return NewHandler(nil, nil, alertSvc, nil, 24, logger)
}

func readinessStatus(t *testing.T, handler *Handler, target string) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	handler.GetAlertReadiness(rec, req)

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response envelope: %v", err)
	}
	return rec.Code, envelope
}

func TestGetAlertReadinessRejectsInvalidParams(t *testing.T) {
	handler := newReadinessHandler(t)

	for _, target := range []string{
		"/v1/alerts/ready?windowHours=abc",
		"/v1/alerts/ready?windowHours=-2",
		"/v1/alerts/ready?windowHours=0",
		"/v1/alerts/ready?now=tomorrow",
		"/v1/alerts/ready?gw=first",
		"/v1/alerts/ready?gw=0",
	} {
		code, _ := readinessStatus(t, handler, target)
		if code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", target, code)
		}
	}
}

func TestGetAlertReadinessHonorsSimulatedNow(t *testing.T) {
	handler := newReadinessHandler(t)

	inside := readinessDeadline.Add(-2 * time.Hour).Format(time.RFC3339)
	code, envelope := readinessStatus(t, handler, "/v1/alerts/ready?now="+inside)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	data, _ := envelope["data"].(map[string]any)
	if data == nil || data["inWindow"] != true {
		t.Fatalf("expected inWindow=true for simulated instant, got %v", envelope)
	}

	outside := readinessDeadline.Add(-72 * time.Hour).Format(time.RFC3339)
	code, envelope = readinessStatus(t, handler, "/v1/alerts/ready?now="+outside)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	data, _ = envelope["data"].(map[string]any)
	if data == nil || data["inWindow"] != false {
		t.Fatalf("expected inWindow=false for simulated instant, got %v", envelope)
	}
}

func TestGetAlertReadinessHonorsWindowAndGameweekOverrides(t *testing.T) {
	handler := newReadinessHandler(t)

	// 20 hours out falls inside the default 24-hour window but outside a
	// 2-hour one.
	probe := readinessDeadline.Add(-20 * time.Hour).Format(time.RFC3339)
	code, envelope := readinessStatus(t, handler, "/v1/alerts/ready?now="+probe+"&windowHours=2")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	data, _ := envelope["data"].(map[string]any)
	if data == nil || data["inWindow"] != false {
		t.Fatalf("expected inWindow=false for 2-hour window, got %v", envelope)
	}

	code, envelope = readinessStatus(t, handler, "/v1/alerts/ready?gw=10")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	data, _ = envelope["data"].(map[string]any)
	if data == nil || data["gameweekId"] != float64(10) {
		t.Fatalf("expected gameweek override to apply, got %v", envelope)
	}

	code, _ = readinessStatus(t, handler, "/v1/alerts/ready?gw=38")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown gameweek, got %d", code)
	}
}
