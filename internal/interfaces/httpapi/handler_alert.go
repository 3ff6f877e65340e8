package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fplmate/fpl-companion/internal/domain/alert"
	"github.com/fplmate/fpl-companion/internal/usecase"
)

// HandleDeadlineWebhook accepts deadline alert notifications and fans them
// out to every enabled recipient. The request body is capped at 1 MiB.
func (h *Handler) HandleDeadlineWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.HandleDeadlineWebhook")
	defer span.End()

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read request body", usecase.ErrInvalidInput))
		return
	}

	a, err := alert.ParseDeadlineAlert(raw)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	h.logger.InfoContext(ctx, "deadline alert received",
		"gameweek_id", a.GameweekID,
		"gameweek_name", a.GameweekName,
		"deadline_epoch_ms", a.DeadlineEpochMs,
	)

	result, err := h.alertService.HandleDeadlineAlert(ctx, a)
	if err != nil {
		h.logger.ErrorContext(ctx, "deadline alert handling failed", "gameweek_id", a.GameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// GetAlertReadiness reports whether the current time falls inside the
// pre-deadline send window and what each linked squad looks like.
// Optional gw, now, and windowHours query params override the next
// gameweek, the clock, and the configured window so the upstream cron
// can probe a simulated instant.
func (h *Handler) GetAlertReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAlertReadiness")
	defer span.End()

	params, err := h.parseReadinessParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.alertService.ReadyCheck(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "alert readiness check failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) parseReadinessParams(r *http.Request) (usecase.ReadyCheckParams, error) {
	params := usecase.ReadyCheckParams{HoursBefore: h.alertHoursBefore}
	query := r.URL.Query()

	if raw := query.Get("windowHours"); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours <= 0 {
			return usecase.ReadyCheckParams{}, fmt.Errorf("%w: invalid windowHours parameter %q", usecase.ErrInvalidInput, raw)
		}
		params.HoursBefore = hours
	}

	if raw := query.Get("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return usecase.ReadyCheckParams{}, fmt.Errorf("%w: invalid now parameter %q, expected RFC3339", usecase.ErrInvalidInput, raw)
		}
		params.Now = &parsed
	}

	if raw := query.Get("gw"); raw != "" {
		gw, err := strconv.Atoi(raw)
		if err != nil || gw <= 0 {
			return usecase.ReadyCheckParams{}, fmt.Errorf("%w: invalid gw parameter %q", usecase.ErrInvalidInput, raw)
		}
		params.GameweekID = gw
	}

	return params, nil
}
