package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fplmate/fpl-companion/internal/usecase"
)

type Handler struct {
	dashboardService      *usecase.DashboardService
	recommendationService *usecase.RecommendationService
	alertService          *usecase.AlertService
	settingsService       *usecase.SettingsService
	alertHoursBefore      float64
	logger                *slog.Logger
	validator             *validator.Validate
}

func NewHandler(
	dashboardService *usecase.DashboardService,
	recommendationService *usecase.RecommendationService,
	alertService *usecase.AlertService,
	settingsService *usecase.SettingsService,
	alertHoursBefore float64,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		dashboardService:      dashboardService,
		recommendationService: recommendationService,
		alertService:          alertService,
		settingsService:       settingsService,
		alertHoursBefore:      alertHoursBefore,
		logger:                logger,
		validator:             validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	dashboard, err := h.dashboardService.Get(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboard)
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRecommendations")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	payload, err := h.recommendationService.Recommendations(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get recommendations failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, payload)
}
