package fplapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/fplmate/fpl-companion/internal/platform/logging"
	"github.com/fplmate/fpl-companion/internal/platform/resilience"
	"github.com/fplmate/fpl-companion/internal/usecase"
)

const defaultBaseURL = "https://fantasy.premierleague.com/api"

var errFPLTransient = crerr.New("fpl transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the official FPL REST API. The API is unauthenticated
// and read-only but rate-limited, so every response the app needs twice
// should come from a cache in front of this client.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

var _ usecase.FPLProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchBootstrap(ctx context.Context) (usecase.ExternalBootstrap, error) {
	var envelope bootstrapEnvelope
	if err := c.doJSON(ctx, "/bootstrap-static/", &envelope); err != nil {
		return usecase.ExternalBootstrap{}, fmt.Errorf("fetch bootstrap: %w", err)
	}
	return mapBootstrap(envelope), nil
}

func (c *Client) FetchManager(ctx context.Context, teamID int64) (usecase.ExternalManager, error) {
	if teamID <= 0 {
		return usecase.ExternalManager{}, fmt.Errorf("team id must be greater than zero")
	}

	var envelope entryEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/entry/%d/", teamID), &envelope); err != nil {
		return usecase.ExternalManager{}, fmt.Errorf("fetch entry team_id=%d: %w", teamID, err)
	}
	return mapManager(teamID, envelope), nil
}

func (c *Client) FetchPicks(ctx context.Context, teamID int64, gameweekID int) (usecase.ExternalPicks, error) {
	if teamID <= 0 {
		return usecase.ExternalPicks{}, fmt.Errorf("team id must be greater than zero")
	}
	if gameweekID <= 0 {
		return usecase.ExternalPicks{}, fmt.Errorf("gameweek id must be greater than zero")
	}

	var envelope picksEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/entry/%d/event/%d/picks/", teamID, gameweekID), &envelope); err != nil {
		return usecase.ExternalPicks{}, fmt.Errorf("fetch picks team_id=%d gameweek=%d: %w", teamID, gameweekID, err)
	}
	return mapPicks(teamID, gameweekID, envelope), nil
}

func (c *Client) FetchClassicLeague(ctx context.Context, leagueID int64) (usecase.ExternalLeague, error) {
	if leagueID <= 0 {
		return usecase.ExternalLeague{}, fmt.Errorf("league id must be greater than zero")
	}

	var envelope classicLeagueEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/leagues-classic/%d/standings/", leagueID), &envelope); err != nil {
		return usecase.ExternalLeague{}, fmt.Errorf("fetch classic league league_id=%d: %w", leagueID, err)
	}
	return mapClassicLeague(leagueID, envelope), nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fpl circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: fpl api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFPLTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode fpl payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		// The FPL API rejects default Go user agents with 403.
		req.Header.Set("user-agent", "fpl-companion/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFPLTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFPLTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: fpl resource not found", usecase.ErrNotFound)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: fpl status=%d body=%s", errFPLTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("fpl status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("fpl request failed")
	}
	c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > maxLen {
		return body[:maxLen] + "..."
	}
	return body
}
