package httpapi

import (
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/fplmate/fpl-companion/internal/usecase"
)

type updateSettingsPayload struct {
	TeamID         *int64 `json:"teamId" validate:"omitempty,gt=0"`
	LeagueID       *int64 `json:"leagueId" validate:"omitempty,gt=0"`
	TimeZone       string `json:"timeZone" validate:"omitempty,max=64"`
	WindowStart    string `json:"windowStart" validate:"omitempty,len=5"`
	WindowEnd      string `json:"windowEnd" validate:"omitempty,len=5"`
	AlertsDisabled bool   `json:"alertsDisabled"`
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSettings")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	settings, err := h.settingsService.Get(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get settings failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSettings")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read request body", usecase.ErrInvalidInput))
		return
	}

	var payload updateSettingsPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	settings, err := h.settingsService.Update(ctx, principal.UserID, principal.Email, usecase.UpdateSettingsInput{
		TeamID:         payload.TeamID,
		LeagueID:       payload.LeagueID,
		TimeZone:       payload.TimeZone,
		WindowStart:    payload.WindowStart,
		WindowEnd:      payload.WindowEnd,
		AlertsDisabled: payload.AlertsDisabled,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "update settings failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settings)
}
