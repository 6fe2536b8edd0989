// ABOUTME: Workout model and its ordered exercise list.
// ABOUTME: SubmitExercise is the write shape; WorkoutExercise is the resolved read shape.
package models

import (
	"fmt"
	"strings"
)

// Defaults applied when a new workout is created without explicit values.
const (
	DefaultEmoji    = "💪"
	DefaultRest     = 5
	DefaultDuration = 30
)

// Workout is an ordered routine of exercises with a uniform rest between them.
type Workout struct {
	ID    int64  `json:"id" yaml:"id"`
	Emoji string `json:"emoji" yaml:"emoji"`
	Name  string `json:"name" yaml:"name"`
	Rest  int    `json:"rest" yaml:"rest"` // seconds between consecutive exercises
}

// NewWorkout creates a Workout with the default emoji and rest.
func NewWorkout(name string) *Workout {
	return &Workout{
		Emoji: DefaultEmoji,
		Name:  strings.TrimSpace(name),
		Rest:  DefaultRest,
	}
}

// WithEmoji sets the emoji shown next to the workout.
func (w *Workout) WithEmoji(emoji string) *Workout {
	w.Emoji = emoji
	return w
}

// WithRest sets the rest interval in seconds.
func (w *Workout) WithRest(seconds int) *Workout {
	w.Rest = seconds
	return w
}

// Validate checks the scalar fields of the workout.
func (w *Workout) Validate() error {
	if strings.TrimSpace(w.Emoji) == "" {
		return invalid("emoji", "must not be empty")
	}
	if strings.TrimSpace(w.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if w.Rest < 0 {
		return invalid("rest", "must be zero or more seconds, got %d", w.Rest)
	}
	return nil
}

// SubmitExercise is one entry of a workout's exercise list as submitted for
// writing. Its position in the submitted slice becomes its order.
type SubmitExercise struct {
	ExerciseID int64 `json:"exercise_id" yaml:"exercise_id"`
	Duration   int   `json:"duration" yaml:"duration"` // seconds
}

// WorkoutExercise is a stored association resolved to its full exercise.
type WorkoutExercise struct {
	Exercise Exercise `json:"exercise" yaml:"exercise"`
	Duration int      `json:"duration" yaml:"duration"`
	Order    int      `json:"order" yaml:"order"`
}

// ValidateExerciseList checks an exercise list before it is written: it must
// be non-empty, every duration positive, and no exercise may repeat.
func ValidateExerciseList(list []SubmitExercise) error {
	if len(list) == 0 {
		return invalid("exercises", "a workout needs at least one exercise")
	}
	seen := make(map[int64]int, len(list))
	for i, ex := range list {
		if ex.Duration <= 0 {
			return invalid("exercises", "entry %d has duration %d, must be positive", i, ex.Duration)
		}
		if prev, ok := seen[ex.ExerciseID]; ok {
			return invalid("exercises", "exercise %d appears at positions %d and %d", ex.ExerciseID, prev, i)
		}
		seen[ex.ExerciseID] = i
	}
	return nil
}

// TotalSeconds returns the playback length of a workout: every exercise
// duration plus one rest between each consecutive pair.
func TotalSeconds(rest int, exercises []WorkoutExercise) int {
	if len(exercises) == 0 {
		return 0
	}
	total := 0
	for _, ex := range exercises {
		total += ex.Duration
	}
	return total + (len(exercises)-1)*rest
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
