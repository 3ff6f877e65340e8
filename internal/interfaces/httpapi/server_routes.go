package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/dashboard", RequireAuth(verifier, http.HandlerFunc(handler.GetDashboard)))
	mux.Handle("GET /v1/recommendations", RequireAuth(verifier, http.HandlerFunc(handler.GetRecommendations)))
	mux.Handle("GET /v1/settings", RequireAuth(verifier, http.HandlerFunc(handler.GetSettings)))
	mux.Handle("PUT /v1/settings", RequireAuth(verifier, http.HandlerFunc(handler.UpdateSettings)))
}

func registerAlertWebhookRoutes(mux *http.ServeMux, handler *Handler, token, signingSecret string) {
	mux.Handle("POST /v1/webhooks/fpl-deadline", RequireAlertWebhookAuth(token, signingSecret, http.HandlerFunc(handler.HandleDeadlineWebhook)))
	mux.Handle("GET /v1/alerts/ready", RequireAlertWebhookAuth(token, signingSecret, http.HandlerFunc(handler.GetAlertReadiness)))
}
