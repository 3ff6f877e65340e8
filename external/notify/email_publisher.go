package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	idgen "github.com/fplmate/fpl-companion/internal/platform/id"
	"github.com/fplmate/fpl-companion/internal/platform/resilience"
	"github.com/fplmate/fpl-companion/internal/usecase"
)

var errEmailTransient = crerr.New("email delivery transient failure")

type EmailPublisherConfig struct {
	BaseURL        string
	Token          string
	FromAddress    string
	Retries        int
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// EmailPublisher delivers alert emails through an external transactional
// email API. Scheduled sends use the provider's delayed-delivery support;
// the idempotency key makes re-delivery of the same alert a no-op on the
// provider side.
type EmailPublisher struct {
	client         *http.Client
	baseURL        string
	token          string
	fromAddress    string
	retries        int
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	idGen          idgen.Generator
}

var _ usecase.EmailSender = (*EmailPublisher)(nil)

func NewEmailPublisher(cfg EmailPublisherConfig, logger *slog.Logger) *EmailPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &EmailPublisher{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		fromAddress:    strings.TrimSpace(cfg.FromAddress),
		retries:        cfg.Retries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		idGen:          idgen.NewRandomGenerator(),
	}
}

func (p *EmailPublisher) Send(ctx context.Context, msg usecase.EmailMessage) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "email circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("email delivery is temporarily unavailable: %w", err)
		}
	}

	if strings.TrimSpace(msg.To) == "" {
		return crerr.New("recipient address is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return crerr.New("subject is required")
	}

	if strings.TrimSpace(msg.IdempotencyKey) == "" {
		if generated, genErr := p.idGen.NewID(); genErr == nil {
			msg.IdempotencyKey = "email-" + generated
		}
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid EMAIL_API_BASE_URL")
	}
	sendURL := baseURL + "/emails"

	bodyPayload := map[string]any{
		"from":    p.fromAddress,
		"to":      []string{msg.To},
		"subject": msg.Subject,
		"text":    msg.Body,
	}
	if msg.SendAt != nil {
		bodyPayload["scheduled_at"] = msg.SendAt.UTC().Format(time.RFC3339)
	}

	body, err := sonic.Marshal(bodyPayload)
	if err != nil {
		return crerr.Wrap(err, "marshal email payload")
	}
	curlPreview := buildEmailCurlPreview(sendURL, msg.IdempotencyKey, msg.SendAt, truncateForLog(string(body), 2048))

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("email.send_url", sendURL),
			attribute.String("email.to", msg.To),
			attribute.String("email.idempotency_key", msg.IdempotencyKey),
			attribute.String("email.request_curl_preview", curlPreview),
		)
	}
	p.logger.InfoContext(ctx, "email send request", "to", msg.To, "subject", msg.Subject, "idempotency_key", msg.IdempotencyKey, "curl_preview", curlPreview)

	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		callErr := p.attemptSend(ctx, sendURL, body, msg)
		p.recordCircuitResult(callErr)
		if callErr == nil {
			p.logger.InfoContext(ctx, "email accepted by provider", "to", msg.To, "idempotency_key", msg.IdempotencyKey, "scheduled", msg.SendAt != nil)
			return nil
		}
		lastErr = callErr
		if !stderrors.Is(callErr, errEmailTransient) {
			return callErr
		}

		if attempt == p.retries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	p.logger.WarnContext(ctx, "email send failed", "to", msg.To, "idempotency_key", msg.IdempotencyKey, "error", lastErr)
	return lastErr
}

func (p *EmailPublisher) attemptSend(ctx context.Context, sendURL string, body []byte, msg usecase.EmailMessage) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create email request")
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(msg.IdempotencyKey) != "" {
		req.Header.Set("Idempotency-Key", strings.TrimSpace(msg.IdempotencyKey))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send email to=%s: %v", errEmailTransient, msg.To, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isEmailRetryableStatus(resp.StatusCode) {
			return fmt.Errorf(
				"%w: send email status=%d to=%s body=%s",
				errEmailTransient,
				resp.StatusCode,
				msg.To,
				strings.TrimSpace(string(raw)),
			)
		}

		return fmt.Errorf(
			"send email status=%d to=%s body=%s",
			resp.StatusCode,
			msg.To,
			strings.TrimSpace(string(raw)),
		)
	}

	return nil
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildEmailCurlPreview(sendURL, idempotencyKey string, sendAt *time.Time, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(sendURL))
	appendFlagHeader("Authorization: Bearer ***")
	appendFlagHeader("Content-Type: application/json")
	if strings.TrimSpace(idempotencyKey) != "" {
		appendFlagHeader("Idempotency-Key: " + strings.TrimSpace(idempotencyKey))
	}
	if sendAt != nil {
		appendPart("#")
		appendPart(shellQuote("scheduled_at=" + sendAt.UTC().Format(time.RFC3339)))
	}
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (p *EmailPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errEmailTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func isEmailRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
