// ABOUTME: Plan is the resolved, ordered input to a session.
// ABOUTME: Built from a stored workout and its ordered exercises.
package session

import (
	"github.com/harperreed/circuit/internal/models"
)

// CountdownSeconds is the fixed pre-roll before the first exercise.
const CountdownSeconds = 5

// Step is one exercise in a plan.
type Step struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"`
}

// Plan is what a session plays: steps in order with a uniform rest between
// consecutive steps. A Rest of 0 goes straight to the next exercise.
type Plan struct {
	WorkoutID int64  `json:"workout_id,omitempty"`
	Steps     []Step `json:"steps"`
	Rest      int    `json:"rest"`
}

// NewPlan resolves a workout and its ordered exercises into a plan.
func NewPlan(w *models.Workout, exercises []models.WorkoutExercise) Plan {
	p := Plan{Steps: make([]Step, 0, len(exercises))}
	if w != nil {
		p.WorkoutID = w.ID
		p.Rest = w.Rest
	}
	for _, we := range exercises {
		p.Steps = append(p.Steps, Step{
			Name:        we.Exercise.Name,
			Description: we.Exercise.Description,
			Duration:    we.Duration,
		})
	}
	return p
}

// Validate returns an InvalidSessionError if the plan cannot be played.
func (p Plan) Validate() error {
	if len(p.Steps) == 0 {
		return invalidSession("no exercises to play")
	}
	for i, st := range p.Steps {
		if st.Duration <= 0 {
			return invalidSession("exercise %d (%q) has duration %d", i, st.Name, st.Duration)
		}
	}
	if p.Rest < 0 {
		return invalidSession("rest %d is negative", p.Rest)
	}
	return nil
}

// TotalSeconds is the summed exercise time plus one rest between each pair.
func (p Plan) TotalSeconds() int {
	total := 0
	for _, st := range p.Steps {
		total += st.Duration
	}
	if n := len(p.Steps); n > 1 {
		total += (n - 1) * p.Rest
	}
	return total
}
