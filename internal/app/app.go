package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	_ "github.com/lib/pq"

	"github.com/fplmate/fpl-companion/external/accounts"
	"github.com/fplmate/fpl-companion/external/fplapi"
	"github.com/fplmate/fpl-companion/external/notify"
	"github.com/fplmate/fpl-companion/internal/config"
	"github.com/fplmate/fpl-companion/internal/domain/alert"
	"github.com/fplmate/fpl-companion/internal/domain/recommend"
	"github.com/fplmate/fpl-companion/internal/domain/userteam"
	"github.com/fplmate/fpl-companion/internal/infrastructure/repository/memory"
	"github.com/fplmate/fpl-companion/internal/infrastructure/repository/postgres"
	"github.com/fplmate/fpl-companion/internal/interfaces/httpapi"
	"github.com/fplmate/fpl-companion/internal/platform/logging"
	"github.com/fplmate/fpl-companion/internal/platform/resilience"
	"github.com/fplmate/fpl-companion/internal/usecase"
)

type repositories struct {
	links           userteam.Repository
	recipients      alert.RecipientRepository
	recommendations recommend.CacheRepository
}

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	fplClient := fplapi.NewClient(fplapi.ClientConfig{
		BaseURL:    cfg.FPLBaseURL,
		Timeout:    cfg.FPLTimeout,
		MaxRetries: cfg.FPLMaxRetries,
		Logger:     logging.Default(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMaxReq,
		},
	})

	cacheTTL := cfg.CacheTTL
	if !cfg.CacheEnabled {
		// A one-second TTL effectively disables the read-through caches
		// without a second code path in the data service.
		cacheTTL = time.Second
	}
	fplData := usecase.NewFPLDataService(fplClient, cacheTTL, logger)

	sender := buildEmailSender(cfg, logger)

	dashboardSvc := usecase.NewDashboardService(fplData, repos.links, logger)
	recommendationSvc := usecase.NewRecommendationService(fplData, repos.links, repos.recommendations, recommend.DefaultConfig(), logger)
	alertSvc := usecase.NewAlertService(repos.recipients, repos.links, fplData, sender, cfg.AlertWorkerCount, logger)
	settingsSvc := usecase.NewSettingsService(repos.links, repos.recipients, logger)

	verifier := accounts.NewClient(accounts.ClientConfig{
		BaseURL:        cfg.AccountsBaseURL,
		IntrospectPath: cfg.AccountsIntrospectURL,
		AdminKey:       cfg.AccountsAdminKey,
		Timeout:        cfg.AccountsTimeout,
		Logger:         logging.Default(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountsCircuitEnabled,
			FailureThreshold: cfg.AccountsCircuitFailureCount,
			OpenTimeout:      cfg.AccountsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountsCircuitHalfOpenMaxReq,
		},
	})

	handler := httpapi.NewHandler(dashboardSvc, recommendationSvc, alertSvc, settingsSvc, cfg.AlertHoursBefore, logger)
	router := httpapi.NewRouter(
		handler,
		verifier,
		logger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.AlertWebhookToken,
		cfg.AlertSigningSecret,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	if db != nil {
		server.RegisterOnShutdown(func() {
			_ = db.Close()
		})
	}

	return server, nil
}

// buildRepositories connects to postgres when DB_URL is set and falls back
// to seeded in-memory repositories otherwise, which keeps local development
// free of infrastructure.
func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, *sqlx.DB, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Warn("DB_URL is empty, using in-memory repositories with seed data")
		return repositories{
			links:           memory.NewUserTeamRepository(memory.SeedUserTeamLinks()),
			recipients:      memory.NewRecipientRepository(memory.SeedRecipients()),
			recommendations: memory.NewRecommendationCacheRepository(),
		}, nil, nil
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return repositories{
		links:           postgres.NewUserTeamRepository(db),
		recipients:      postgres.NewRecipientRepository(db),
		recommendations: postgres.NewRecommendationCacheRepository(db),
	}, db, nil
}

func buildEmailSender(cfg config.Config, logger *slog.Logger) usecase.EmailSender {
	if !cfg.EmailEnabled {
		logger.Warn("email delivery is disabled, alerts will only be logged")
		return noopEmailSender{logger: logger}
	}

	return notify.NewEmailPublisher(notify.EmailPublisherConfig{
		BaseURL:     cfg.EmailBaseURL,
		Token:       cfg.EmailToken,
		FromAddress: cfg.EmailFrom,
		Retries:     cfg.EmailRetries,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.EmailCircuitEnabled,
			FailureThreshold: cfg.EmailCircuitFailureCount,
			OpenTimeout:      cfg.EmailCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.EmailCircuitHalfOpenMaxReq,
		},
	}, logger)
}
