package alert

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Recipient is a user's deadline-alert preferences. WindowStart/WindowEnd
// are local times of day in strict 24-hour HH:MM form, interpreted in the
// recipient's IANA time zone.
type Recipient struct {
	ID                 string
	Email              string
	TimeZone           string
	WindowStart        string
	WindowEnd          string
	LastSentGameweekID *int
	Disabled           bool
}

type Action string

const (
	ActionSendNow  Action = "send-now"
	ActionSchedule Action = "schedule"
	ActionSkip     Action = "skip"
)

type Reason string

const (
	ReasonAlreadySent       Reason = "already-sent"
	ReasonRecipientDisabled Reason = "recipient-disabled"
	ReasonInsideWindow      Reason = "inside-window"
	ReasonWindowFuture      Reason = "window-future"
	ReasonWindowMissed      Reason = "window-missed"
)

// Plan is the scheduler's decision for one recipient. Created fresh per
// evaluation, never mutated.
type Plan struct {
	GameweekID  int
	Recipient   Recipient
	Action      Action
	SendAt      *time.Time
	WindowStart time.Time
	WindowEnd   time.Time
	Reason      Reason

	location *time.Location
}

// SerializedPlan is the transport form of a Plan. Every timestamp appears
// both as an absolute UTC instant and as a recipient-local wall-clock
// string so no zone information is lost.
type SerializedPlan struct {
	GameweekID       int    `json:"gameweekId"`
	RecipientID      string `json:"recipientId"`
	Action           Action `json:"action"`
	Reason           Reason `json:"reason,omitempty"`
	TimeZone         string `json:"timeZone"`
	SendAtUTC        string `json:"sendAtUtc,omitempty"`
	SendAtLocal      string `json:"sendAtLocal,omitempty"`
	WindowStartUTC   string `json:"windowStartUtc"`
	WindowStartLocal string `json:"windowStartLocal"`
	WindowEndUTC     string `json:"windowEndUtc"`
	WindowEndLocal   string `json:"windowEndLocal"`
}

var windowTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ValidateWindowTime checks the strict 24-hour HH:MM form used for
// recipient window bounds.
func ValidateWindowTime(value string) error {
	_, _, err := parseWindowTime(value)
	return err
}

func parseWindowTime(value string) (hour, minute int, err error) {
	match := windowTimeRegex.FindStringSubmatch(value)
	if match == nil {
		return 0, 0, fmt.Errorf("invalid time window value %q, expected HH:MM format", value)
	}
	hour, _ = strconv.Atoi(match[1])
	minute, _ = strconv.Atoi(match[2])
	return hour, minute, nil
}

// ComputeEveningBeforeWindow derives the recipient-local notification
// window for a deadline: the deadline instant converted into the
// recipient's zone, truncated to the start of the previous calendar day,
// with the recipient's HH:MM times applied. A window whose end does not
// follow its start crosses local midnight, so the end moves one calendar
// day forward.
func ComputeEveningBeforeWindow(a DeadlineAlert, r Recipient) (start, end time.Time, loc *time.Location, err error) {
	loc, err = time.LoadLocation(r.TimeZone)
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("invalid deadline or timezone for recipient %s: %w", r.ID, err)
	}

	startHour, startMinute, err := parseWindowTime(r.WindowStart)
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("unable to compute window start for recipient %s: %w", r.ID, err)
	}
	endHour, endMinute, err := parseWindowTime(r.WindowEnd)
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("unable to compute window end for recipient %s: %w", r.ID, err)
	}

	deadlineLocal := time.UnixMilli(a.DeadlineEpochMs).In(loc)
	year, month, day := deadlineLocal.AddDate(0, 0, -1).Date()

	start = time.Date(year, month, day, startHour, startMinute, 0, 0, loc)
	end = time.Date(year, month, day, endHour, endMinute, 0, 0, loc)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	return start, end, loc, nil
}

// EvaluateRecipient decides whether to notify a recipient about a deadline
// now, later, or not at all. Pure function of its inputs; idempotency
// state (LastSentGameweekID) is persisted externally between calls.
func EvaluateRecipient(a DeadlineAlert, r Recipient, now time.Time) (Plan, error) {
	windowStart, windowEnd, loc, err := ComputeEveningBeforeWindow(a, r)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		GameweekID:  a.GameweekID,
		Recipient:   r,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		location:    loc,
	}

	if r.Disabled {
		plan.Action = ActionSkip
		plan.Reason = ReasonRecipientDisabled
		return plan, nil
	}

	if r.LastSentGameweekID != nil && *r.LastSentGameweekID >= a.GameweekID {
		plan.Action = ActionSkip
		plan.Reason = ReasonAlreadySent
		return plan, nil
	}

	localNow := now.In(loc)
	switch {
	case localNow.Before(windowStart):
		plan.Action = ActionSchedule
		plan.SendAt = &windowStart
		plan.Reason = ReasonWindowFuture
	case !localNow.After(windowEnd):
		plan.Action = ActionSendNow
		plan.SendAt = &localNow
		plan.Reason = ReasonInsideWindow
	default:
		// Window already passed: send immediately rather than drop, so a
		// late-arriving alert never disappears silently.
		plan.Action = ActionSendNow
		plan.SendAt = &localNow
		plan.Reason = ReasonWindowMissed
	}

	return plan, nil
}

// Serialize renders a plan for transport, with every instant in both UTC
// and recipient-local forms.
func (p Plan) Serialize() SerializedPlan {
	loc := p.location
	if loc == nil {
		loc = time.UTC
	}

	out := SerializedPlan{
		GameweekID:       p.GameweekID,
		RecipientID:      p.Recipient.ID,
		Action:           p.Action,
		Reason:           p.Reason,
		TimeZone:         p.Recipient.TimeZone,
		WindowStartUTC:   p.WindowStart.UTC().Format(time.RFC3339),
		WindowStartLocal: p.WindowStart.In(loc).Format(time.RFC3339),
		WindowEndUTC:     p.WindowEnd.UTC().Format(time.RFC3339),
		WindowEndLocal:   p.WindowEnd.In(loc).Format(time.RFC3339),
	}
	if p.SendAt != nil {
		out.SendAtUTC = p.SendAt.UTC().Format(time.RFC3339)
		out.SendAtLocal = p.SendAt.In(loc).Format(time.RFC3339)
	}

	return out
}

// Window is a simple UTC send window used by the polling readiness check,
// independent of the evening-before local-time logic.
type Window struct {
	StartUTC time.Time
	EndUTC   time.Time
}

// CurrentWindow computes [deadline − hoursBefore, deadline) in UTC.
func CurrentWindow(deadlineEpochMs int64, hoursBefore float64) Window {
	deadline := time.UnixMilli(deadlineEpochMs).UTC()
	return Window{
		StartUTC: deadline.Add(-time.Duration(hoursBefore * float64(time.Hour))),
		EndUTC:   deadline,
	}
}

// InWindow tests half-open inclusion: start ≤ now < end.
func InWindow(now time.Time, w Window) bool {
	return !now.Before(w.StartUTC) && now.Before(w.EndUTC)
}
