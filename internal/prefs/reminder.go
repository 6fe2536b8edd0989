// ABOUTME: Daily reminder time setting stored as JSON under notificationTime.
// ABOUTME: Values are zero-padded and clamped; scheduling the notification is external.
package prefs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// KeyReminder holds the reminder time as {"hour":"HH","minute":"MM"}.
const KeyReminder = "notificationTime"

// Reminder is the time of day a workout reminder should fire.
type Reminder struct {
	Hour   string `json:"hour"`
	Minute string `json:"minute"`
}

// DefaultReminder is used when no reminder time has been saved.
var DefaultReminder = Reminder{Hour: "16", Minute: "00"}

func (r Reminder) String() string {
	return r.Hour + ":" + r.Minute
}

// NewReminder normalizes an hour and minute: values are padded to two digits
// and clamped to 23 and 59.
func NewReminder(hour, minute string) (Reminder, error) {
	h, err := formatTime(hour, 23)
	if err != nil {
		return Reminder{}, fmt.Errorf("hour: %w", err)
	}
	m, err := formatTime(minute, 59)
	if err != nil {
		return Reminder{}, fmt.Errorf("minute: %w", err)
	}
	return Reminder{Hour: h, Minute: m}, nil
}

// ParseReminder parses "HH:MM".
func ParseReminder(s string) (Reminder, error) {
	hour, minute, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Reminder{}, fmt.Errorf("reminder %q: expected HH:MM", s)
	}
	return NewReminder(hour, minute)
}

func formatTime(value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return "", fmt.Errorf("%q is not a non-negative number", value)
	}
	if n > max {
		n = max
	}
	return fmt.Sprintf("%02d", n), nil
}

// GetReminder returns the saved reminder time, or DefaultReminder.
func GetReminder(s Store) (Reminder, error) {
	raw, ok, err := s.Get(KeyReminder)
	if err != nil {
		return Reminder{}, err
	}
	if !ok || raw == "" {
		return DefaultReminder, nil
	}
	var r Reminder
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Reminder{}, fmt.Errorf("decode reminder: %w", err)
	}
	return r, nil
}

// SetReminder saves the reminder time.
func SetReminder(s Store, r Reminder) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}
	return s.Set(KeyReminder, string(data))
}
