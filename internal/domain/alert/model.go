package alert

// TypeDeadline is the only alert type accepted by the deadline webhook.
const TypeDeadline = "fpl_deadline_alert"

// Trigger describes what fired the upstream cron alert.
type Trigger struct {
	Type      string   `json:"type"`
	LeadHours *float64 `json:"leadHours,omitempty"`
	Forced    *bool    `json:"forced,omitempty"`
}

// Source identifies the upstream provider that produced the alert.
type Source struct {
	Provider string `json:"provider,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// DeadlineAlert is the webhook payload announcing an upcoming gameweek
// deadline.
type DeadlineAlert struct {
	Type             string   `json:"type"`
	GameweekID       int      `json:"gameweekId"`
	GameweekName     string   `json:"gameweekName"`
	DeadlineISO      string   `json:"deadlineISO"`
	DeadlineEpochMs  int64    `json:"deadlineEpochMs"`
	HoursLeft        float64  `json:"hoursLeft"`
	MatchedThreshold float64  `json:"matchedThreshold"`
	Subject          string   `json:"subject"`
	Body             string   `json:"body"`
	Trigger          *Trigger `json:"trigger,omitempty"`
	Source           *Source  `json:"source,omitempty"`
}

// RedactForLog strips the rendered email body, which may repeat recipient
// content, before the alert is echoed into logs or webhook responses.
func (a DeadlineAlert) RedactForLog() DeadlineAlert {
	redacted := a
	redacted.Body = ""
	return redacted
}
