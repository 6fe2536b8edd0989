// ABOUTME: Daily workout streak rules over the preference store.
// ABOUTME: Completing a workout on consecutive local days grows the streak; a gap resets it.
package streak

import (
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/circuit/internal/prefs"
)

// Preference keys. Values are stored as strings.
const (
	KeyEnabled = "useStreak"
	KeyStreak  = "streak"
	KeyLastDay = "lastDayExercised"

	dayLayout = "2006-01-02"
)

// Tracker applies streak rules against a prefs.Store.
type Tracker struct {
	store prefs.Store
	now   func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithNow overrides the clock used to decide what "today" is.
func WithNow(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a tracker over store.
func NewTracker(store prefs.Store, opts ...Option) *Tracker {
	t := &Tracker{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Status is the streak as shown to the user.
type Status struct {
	Enabled bool   `json:"enabled"`
	Streak  int    `json:"streak"`
	LastDay string `json:"last_day,omitempty"`
}

// Result describes what RecordWorkout did.
type Result struct {
	Recorded bool `json:"recorded"`
	Previous int  `json:"previous"`
	Streak   int  `json:"streak"`
}

// Enabled reports whether streak tracking is on. Only the exact value
// "true" enables it.
func (t *Tracker) Enabled() (bool, error) {
	v, _, err := t.store.Get(KeyEnabled)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetEnabled turns streak tracking on or off.
func (t *Tracker) SetEnabled(enabled bool) error {
	return t.store.Set(KeyEnabled, strconv.FormatBool(enabled))
}

// RecordWorkout applies a completed workout to the streak. It does nothing
// when tracking is disabled. A second workout on the same day leaves the
// streak unchanged.
func (t *Tracker) RecordWorkout() (Result, error) {
	enabled, err := t.Enabled()
	if err != nil {
		return Result{}, err
	}
	if !enabled {
		return Result{}, nil
	}

	current, err := t.storedStreak()
	if err != nil {
		return Result{}, err
	}
	last, err := t.lastDay()
	if err != nil {
		return Result{}, err
	}

	today := t.today()
	next := 1
	switch last {
	case today:
		next = current
		if next < 1 {
			next = 1
		}
	case yesterday(today):
		next = current + 1
	}

	if err := t.store.Set(KeyStreak, strconv.Itoa(next)); err != nil {
		return Result{}, err
	}
	if err := t.store.Set(KeyLastDay, today); err != nil {
		return Result{}, err
	}
	return Result{Recorded: true, Previous: current, Streak: next}, nil
}

// Current returns the streak for display. When the last workout is older
// than yesterday, or there is none, the stored streak is reset to "0".
// Nothing is written while tracking is disabled.
func (t *Tracker) Current() (Status, error) {
	enabled, err := t.Enabled()
	if err != nil {
		return Status{}, err
	}
	last, err := t.lastDay()
	if err != nil {
		return Status{}, err
	}
	status := Status{Enabled: enabled, LastDay: last}
	if !enabled {
		return status, nil
	}

	today := t.today()
	if last != today && last != yesterday(today) {
		if err := t.store.Set(KeyStreak, "0"); err != nil {
			return Status{}, err
		}
		return status, nil
	}

	status.Streak, err = t.storedStreak()
	if err != nil {
		return Status{}, err
	}
	return status, nil
}

func (t *Tracker) storedStreak() (int, error) {
	v, ok, err := t.store.Get(KeyStreak)
	if err != nil {
		return 0, fmt.Errorf("read streak: %w", err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

func (t *Tracker) lastDay() (string, error) {
	v, _, err := t.store.Get(KeyLastDay)
	if err != nil {
		return "", fmt.Errorf("read last day: %w", err)
	}
	return v, nil
}

func (t *Tracker) today() string {
	return t.now().Local().Format(dayLayout)
}

func yesterday(today string) string {
	d, err := time.ParseInLocation(dayLayout, today, time.Local)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, -1).Format(dayLayout)
}
