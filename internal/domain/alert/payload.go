package alert

import (
	"fmt"
	"math"

	sonic "github.com/bytedance/sonic"
)

// ParseDeadlineAlert decodes and strictly validates a webhook body. Every
// required field must be present with the right type and non-empty; the
// returned error names the first offending field so upstream cron
// misconfiguration is diagnosable from the rejection alone.
func ParseDeadlineAlert(raw []byte) (DeadlineAlert, error) {
	var parsed any
	if err := sonic.Unmarshal(raw, &parsed); err != nil {
		return DeadlineAlert{}, fmt.Errorf("invalid JSON payload: %w", err)
	}

	data, ok := parsed.(map[string]any)
	if !ok {
		return DeadlineAlert{}, fmt.Errorf("invalid payload: expected an object")
	}

	alertType, err := requireString(data, "type")
	if err != nil {
		return DeadlineAlert{}, err
	}
	if alertType != TypeDeadline {
		return DeadlineAlert{}, fmt.Errorf("invalid payload: unsupported alert type %q", alertType)
	}

	out := DeadlineAlert{Type: alertType}

	gameweekID, err := requireNumber(data, "gameweekId")
	if err != nil {
		return DeadlineAlert{}, err
	}
	out.GameweekID = int(gameweekID)

	if out.GameweekName, err = requireString(data, "gameweekName"); err != nil {
		return DeadlineAlert{}, err
	}
	if out.DeadlineISO, err = requireString(data, "deadlineISO"); err != nil {
		return DeadlineAlert{}, err
	}

	deadlineEpochMs, err := requireNumber(data, "deadlineEpochMs")
	if err != nil {
		return DeadlineAlert{}, err
	}
	out.DeadlineEpochMs = int64(deadlineEpochMs)

	if out.HoursLeft, err = requireNumber(data, "hoursLeft"); err != nil {
		return DeadlineAlert{}, err
	}
	if out.MatchedThreshold, err = requireNumber(data, "matchedThreshold"); err != nil {
		return DeadlineAlert{}, err
	}
	if out.Subject, err = requireString(data, "subject"); err != nil {
		return DeadlineAlert{}, err
	}
	if out.Body, err = requireString(data, "body"); err != nil {
		return DeadlineAlert{}, err
	}

	if rawTrigger, present := data["trigger"]; present {
		trigger, err := parseTrigger(rawTrigger)
		if err != nil {
			return DeadlineAlert{}, err
		}
		out.Trigger = trigger
	}

	if rawSource, present := data["source"]; present {
		source, err := parseSource(rawSource)
		if err != nil {
			return DeadlineAlert{}, err
		}
		out.Source = source
	}

	return out, nil
}

func parseTrigger(raw any) (*Trigger, error) {
	data, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid payload: trigger must be an object when provided")
	}

	triggerType, err := requireString(data, "type")
	if err != nil {
		return nil, fmt.Errorf("invalid trigger: %w", err)
	}

	out := &Trigger{Type: triggerType}
	if v, ok := data["leadHours"].(float64); ok && !math.IsNaN(v) {
		out.LeadHours = &v
	}
	if v, ok := data["forced"].(bool); ok {
		out.Forced = &v
	}

	return out, nil
}

func parseSource(raw any) (*Source, error) {
	data, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid payload: source must be an object when provided")
	}

	out := &Source{}
	if v, ok := data["provider"].(string); ok {
		out.Provider = v
	}
	if v, ok := data["endpoint"].(string); ok {
		out.Endpoint = v
	}

	return out, nil
}

func requireString(data map[string]any, key string) (string, error) {
	value, ok := data[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("invalid payload: %q must be a non-empty string", key)
	}
	return value, nil
}

func requireNumber(data map[string]any, key string) (float64, error) {
	value, ok := data[key].(float64)
	if !ok || math.IsNaN(value) {
		return 0, fmt.Errorf("invalid payload: %q must be a number", key)
	}
	return value, nil
}
