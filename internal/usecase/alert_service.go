package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fplmate/fpl-companion/internal/domain/alert"
	"github.com/fplmate/fpl-companion/internal/domain/playerrisk"
	"github.com/fplmate/fpl-companion/internal/domain/userteam"
)

// EmailMessage is one outbound alert email. SendAt nil means immediate
// delivery; a future instant requests provider-side scheduled delivery.
type EmailMessage struct {
	To             string
	Subject        string
	Body           string
	SendAt         *time.Time
	IdempotencyKey string
}

// EmailSender is the outbound port to the transactional email provider.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

const (
	alertDispatchStatusSent      = "sent"
	alertDispatchStatusScheduled = "scheduled"
	alertDispatchStatusSkipped   = "skipped"
	alertDispatchStatusFailed    = "failed"
)

// AlertDispatch is the outcome for one recipient of a deadline alert.
type AlertDispatch struct {
	Plan    alert.SerializedPlan `json:"plan"`
	Status  string               `json:"status"`
	Message string               `json:"message,omitempty"`
}

// DeadlineAlertResult summarizes one webhook-triggered dispatch run.
type DeadlineAlertResult struct {
	GameweekID     int             `json:"gameweekId"`
	Dispatches     []AlertDispatch `json:"dispatches"`
	SentCount      int             `json:"sentCount"`
	ScheduledCount int             `json:"scheduledCount"`
	SkippedCount   int             `json:"skippedCount"`
	FailedCount    int             `json:"failedCount"`
}

// AlertService turns deadline alerts into per-recipient email dispatches.
type AlertService struct {
	recipientRepo alert.RecipientRepository
	linkRepo      userteam.Repository
	fplData       *FPLDataService
	sender        EmailSender
	workerCount   int
	logger        *slog.Logger
	now           func() time.Time
}

func NewAlertService(
	recipientRepo alert.RecipientRepository,
	linkRepo userteam.Repository,
	fplData *FPLDataService,
	sender EmailSender,
	workerCount int,
	logger *slog.Logger,
) *AlertService {
	if workerCount <= 0 {
		workerCount = 8
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AlertService{
		recipientRepo: recipientRepo,
		linkRepo:      linkRepo,
		fplData:       fplData,
		sender:        sender,
		workerCount:   workerCount,
		logger:        logger,
		now:           time.Now,
	}
}

// HandleDeadlineAlert evaluates every recipient against the alert's
// notification window and dispatches emails in parallel. A failure for
// one recipient never blocks the others; failures surface in the result
// rows and counters.
func (s *AlertService) HandleDeadlineAlert(ctx context.Context, a alert.DeadlineAlert) (DeadlineAlertResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AlertService.HandleDeadlineAlert")
	defer span.End()

	recipients, err := s.recipientRepo.List(ctx)
	if err != nil {
		return DeadlineAlertResult{}, fmt.Errorf("list alert recipients: %w", err)
	}

	result := DeadlineAlertResult{GameweekID: a.GameweekID}
	if len(recipients) == 0 {
		s.logger.InfoContext(ctx, "deadline alert received with no recipients", "gameweek_id", a.GameweekID)
		return result, nil
	}

	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		return DeadlineAlertResult{}, fmt.Errorf("create dispatch worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan AlertDispatch, len(recipients))

	var sentCount atomic.Int32
	var scheduledCount atomic.Int32
	var skippedCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, recipient := range recipients {
		recipient := recipient
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.dispatchToRecipient(ctx, a, recipient)
			switch row.Status {
			case alertDispatchStatusSent:
				sentCount.Add(1)
			case alertDispatchStatusScheduled:
				scheduledCount.Add(1)
			case alertDispatchStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return DeadlineAlertResult{}, fmt.Errorf("submit dispatch to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Dispatches = append(result.Dispatches, row)
	}
	sort.SliceStable(result.Dispatches, func(i, j int) bool {
		return result.Dispatches[i].Plan.RecipientID < result.Dispatches[j].Plan.RecipientID
	})

	result.SentCount = int(sentCount.Load())
	result.ScheduledCount = int(scheduledCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "deadline alert dispatched",
		"gameweek_id", a.GameweekID,
		"sent", result.SentCount,
		"scheduled", result.ScheduledCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *AlertService) dispatchToRecipient(ctx context.Context, a alert.DeadlineAlert, r alert.Recipient) AlertDispatch {
	plan, err := alert.EvaluateRecipient(a, r, s.now())
	if err != nil {
		return AlertDispatch{
			Plan:    alert.Plan{GameweekID: a.GameweekID, Recipient: r, Action: alert.ActionSkip}.Serialize(),
			Status:  alertDispatchStatusFailed,
			Message: err.Error(),
		}
	}

	serialized := plan.Serialize()
	if plan.Action == alert.ActionSkip {
		return AlertDispatch{Plan: serialized, Status: alertDispatchStatusSkipped}
	}

	msg := EmailMessage{
		To:             r.Email,
		Subject:        a.Subject,
		Body:           s.renderBody(ctx, a, r),
		IdempotencyKey: fmt.Sprintf("deadline:%d:%s", a.GameweekID, r.ID),
	}
	if plan.Action == alert.ActionSchedule {
		msg.SendAt = plan.SendAt
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "deadline alert email failed", "recipient_id", r.ID, "gameweek_id", a.GameweekID, "error", err)
		return AlertDispatch{Plan: serialized, Status: alertDispatchStatusFailed, Message: err.Error()}
	}

	if err := s.recipientRepo.MarkNotified(ctx, r.ID, a.GameweekID); err != nil {
		// The email is out; losing the marker risks a duplicate next run,
		// which the provider-side idempotency key absorbs.
		s.logger.ErrorContext(ctx, "mark notified failed", "recipient_id", r.ID, "gameweek_id", a.GameweekID, "error", err)
	}

	if plan.Action == alert.ActionSchedule {
		return AlertDispatch{Plan: serialized, Status: alertDispatchStatusScheduled}
	}
	return AlertDispatch{Plan: serialized, Status: alertDispatchStatusSent}
}

// renderBody appends a roster availability section to the upstream alert
// body when the recipient has a linked squad with flagged players.
func (s *AlertService) renderBody(ctx context.Context, a alert.DeadlineAlert, r alert.Recipient) string {
	body := a.Body
	if s.linkRepo == nil || s.fplData == nil {
		return body
	}

	link, found, err := s.linkRepo.GetByUserID(ctx, r.ID)
	if err != nil || !found || !link.HasTeam() {
		return body
	}

	players, err := s.fplData.Roster(ctx, *link.TeamID, 0)
	if err != nil {
		s.logger.WarnContext(ctx, "roster lookup for alert body failed", "recipient_id", r.ID, "error", err)
		return body
	}

	flagged := make([]playerrisk.Info, 0, len(players))
	for _, p := range players {
		if info := playerrisk.Assess(p); info.Badge != playerrisk.BadgeOK {
			flagged = append(flagged, info)
		}
	}
	if len(flagged) == 0 {
		return body
	}

	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n\nSquad watchlist:\n")
	for _, info := range flagged {
		sb.WriteString(fmt.Sprintf("- %s (%s): %s", info.Name, info.Team, info.Badge))
		if info.News != "" {
			sb.WriteString(" - " + info.News)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ReadyRoster is one linked user's readiness snapshot.
type ReadyRoster struct {
	UserID  string            `json:"userId"`
	TeamID  int64             `json:"teamId"`
	Players []playerrisk.Info `json:"players"`
}

// ReadyCheck reports whether the pre-deadline send window is open right
// now and, when it is, the roster risk snapshot for every linked user.
type ReadyCheckResult struct {
	GameweekID     int           `json:"gameweekId"`
	DeadlineUTC    string        `json:"deadlineUtc"`
	WindowStartUTC string        `json:"windowStartUtc"`
	InWindow       bool          `json:"inWindow"`
	Rosters        []ReadyRoster `json:"rosters,omitempty"`
}

// ReadyCheckParams carries optional probe overrides so the upstream cron
// can ask about a simulated instant, a custom window, or a specific
// gameweek. Zero values fall back to the clock, the configured window,
// and the next gameweek.
type ReadyCheckParams struct {
	GameweekID  int
	Now         *time.Time
	HoursBefore float64
}

func (s *AlertService) ReadyCheck(ctx context.Context, params ReadyCheckParams) (ReadyCheckResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AlertService.ReadyCheck")
	defer span.End()

	hoursBefore := params.HoursBefore
	if hoursBefore <= 0 {
		hoursBefore = 24
	}

	bootstrap, err := s.fplData.Bootstrap(ctx)
	if err != nil {
		return ReadyCheckResult{}, err
	}

	var gameweek ExternalGameweek
	if params.GameweekID > 0 {
		gw, ok := bootstrap.GameweekByID(params.GameweekID)
		if !ok {
			return ReadyCheckResult{}, fmt.Errorf("%w: gameweek %d not found", ErrNotFound, params.GameweekID)
		}
		gameweek = gw
	} else {
		next, ok := bootstrap.NextGameweek()
		if !ok {
			return ReadyCheckResult{}, fmt.Errorf("%w: season has no upcoming gameweek", ErrNotFound)
		}
		gameweek = next
	}

	now := s.now()
	if params.Now != nil {
		now = *params.Now
	}

	window := alert.CurrentWindow(gameweek.DeadlineEpochMs, hoursBefore)
	result := ReadyCheckResult{
		GameweekID:     gameweek.ID,
		DeadlineUTC:    window.EndUTC.Format(time.RFC3339),
		WindowStartUTC: window.StartUTC.Format(time.RFC3339),
		InWindow:       alert.InWindow(now.UTC(), window),
	}
	if !result.InWindow {
		return result, nil
	}

	links, err := s.linkRepo.ListLinked(ctx)
	if err != nil {
		return ReadyCheckResult{}, fmt.Errorf("list linked users: %w", err)
	}

	for _, link := range links {
		players, err := s.fplData.Roster(ctx, *link.TeamID, 0)
		if err != nil {
			s.logger.WarnContext(ctx, "roster lookup for ready check failed", "user_id", link.UserID, "error", err)
			continue
		}

		infos := make([]playerrisk.Info, 0, len(players))
		for _, p := range players {
			infos = append(infos, playerrisk.Assess(p))
		}
		result.Rosters = append(result.Rosters, ReadyRoster{
			UserID:  link.UserID,
			TeamID:  *link.TeamID,
			Players: infos,
		})
	}

	sort.SliceStable(result.Rosters, func(i, j int) bool {
		return result.Rosters[i].UserID < result.Rosters[j].UserID
	})
	return result, nil
}
