package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fplmate/fpl-companion/internal/domain/alert"
	"github.com/fplmate/fpl-companion/internal/domain/userteam"
)

const (
	defaultWindowStart = "19:00"
	defaultWindowEnd   = "21:00"
	defaultTimeZone    = "UTC"
)

// Settings is a user's companion configuration: the FPL identity link plus
// deadline-alert preferences.
type Settings struct {
	TeamID         *int64 `json:"teamId"`
	LeagueID       *int64 `json:"leagueId"`
	TimeZone       string `json:"timeZone"`
	WindowStart    string `json:"windowStart"`
	WindowEnd      string `json:"windowEnd"`
	AlertsDisabled bool   `json:"alertsDisabled"`
}

// UpdateSettingsInput carries a full settings replacement. Nil TeamID or
// LeagueID disconnects that identifier.
type UpdateSettingsInput struct {
	TeamID         *int64
	LeagueID       *int64
	TimeZone       string
	WindowStart    string
	WindowEnd      string
	AlertsDisabled bool
}

type SettingsService struct {
	linkRepo      userteam.Repository
	recipientRepo alert.RecipientRepository
	logger        *slog.Logger
	now           func() time.Time
}

func NewSettingsService(linkRepo userteam.Repository, recipientRepo alert.RecipientRepository, logger *slog.Logger) *SettingsService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsService{
		linkRepo:      linkRepo,
		recipientRepo: recipientRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// Get returns the stored settings, falling back to defaults for a user
// who has not configured anything yet.
func (s *SettingsService) Get(ctx context.Context, userID string) (Settings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.Get")
	defer span.End()

	if userID == "" {
		return Settings{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	out := Settings{
		TimeZone:    defaultTimeZone,
		WindowStart: defaultWindowStart,
		WindowEnd:   defaultWindowEnd,
	}

	link, found, err := s.linkRepo.GetByUserID(ctx, userID)
	if err != nil {
		return Settings{}, fmt.Errorf("get user team link: %w", err)
	}
	if found {
		out.TeamID = link.TeamID
		out.LeagueID = link.LeagueID
	}

	recipient, found, err := s.recipientRepo.GetByUserID(ctx, userID)
	if err != nil {
		return Settings{}, fmt.Errorf("get alert recipient: %w", err)
	}
	if found {
		out.TimeZone = recipient.TimeZone
		out.WindowStart = recipient.WindowStart
		out.WindowEnd = recipient.WindowEnd
		out.AlertsDisabled = recipient.Disabled
	}

	return out, nil
}

// Update validates and persists a full settings replacement: the team
// link and the alert recipient row move together.
func (s *SettingsService) Update(ctx context.Context, userID, email string, input UpdateSettingsInput) (Settings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.Update")
	defer span.End()

	if userID == "" {
		return Settings{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	input.TimeZone = strings.TrimSpace(input.TimeZone)
	input.WindowStart = strings.TrimSpace(input.WindowStart)
	input.WindowEnd = strings.TrimSpace(input.WindowEnd)
	if input.TimeZone == "" {
		input.TimeZone = defaultTimeZone
	}
	if input.WindowStart == "" {
		input.WindowStart = defaultWindowStart
	}
	if input.WindowEnd == "" {
		input.WindowEnd = defaultWindowEnd
	}

	if _, err := time.LoadLocation(input.TimeZone); err != nil {
		return Settings{}, fmt.Errorf("%w: unknown time zone %q", ErrInvalidInput, input.TimeZone)
	}
	if err := alert.ValidateWindowTime(input.WindowStart); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := alert.ValidateWindowTime(input.WindowEnd); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	link := userteam.Link{
		UserID:    userID,
		Email:     email,
		TeamID:    input.TeamID,
		LeagueID:  input.LeagueID,
		UpdatedAt: s.now().UTC(),
	}
	if err := link.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.linkRepo.Upsert(ctx, link); err != nil {
		return Settings{}, fmt.Errorf("upsert user team link: %w", err)
	}

	// Preserve the idempotency marker across preference edits so a
	// settings save never re-triggers an already-sent alert.
	var lastSent *int
	if existing, found, err := s.recipientRepo.GetByUserID(ctx, userID); err != nil {
		return Settings{}, fmt.Errorf("get alert recipient: %w", err)
	} else if found {
		lastSent = existing.LastSentGameweekID
	}

	recipient := alert.Recipient{
		ID:                 userID,
		Email:              email,
		TimeZone:           input.TimeZone,
		WindowStart:        input.WindowStart,
		WindowEnd:          input.WindowEnd,
		LastSentGameweekID: lastSent,
		Disabled:           input.AlertsDisabled,
	}
	if err := s.recipientRepo.Upsert(ctx, recipient); err != nil {
		return Settings{}, fmt.Errorf("upsert alert recipient: %w", err)
	}

	s.logger.InfoContext(ctx, "settings updated", "user_id", userID, "time_zone", input.TimeZone, "alerts_disabled", input.AlertsDisabled)
	return s.Get(ctx, userID)
}
