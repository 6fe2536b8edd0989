// ABOUTME: Exercise model for the workout library.
// ABOUTME: Exercises are reusable; workouts reference them with a duration and order.
package models

import "strings"

// Exercise is a named movement that can appear in any number of workouts.
type Exercise struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewExercise creates an Exercise with trimmed fields. The ID is assigned by storage.
func NewExercise(name, description string) *Exercise {
	return &Exercise{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
}

// Validate checks that the exercise has a usable name.
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return nil
}
