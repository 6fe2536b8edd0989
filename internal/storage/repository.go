// ABOUTME: Repository interface for workout library storage.
// ABOUTME: Defines contract for exercises, workouts, and their ordered associations.
package storage

import (
	"context"

	"github.com/harperreed/circuit/internal/models"
)

// Repository defines the storage interface for the workout library.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Exercise operations
	CreateExercise(ctx context.Context, name, description string) (int64, error)
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
	ListExercises(ctx context.Context) ([]*models.Exercise, error)
	UpdateExercise(ctx context.Context, id int64, name, description string) error
	DeleteExercise(ctx context.Context, id int64) error

	// Workout operations
	CreateWorkout(ctx context.Context, emoji, name string, rest int, exercises []models.SubmitExercise) (int64, error)
	GetWorkout(ctx context.Context, id int64) (*models.Workout, error)
	ListWorkouts(ctx context.Context) ([]*models.Workout, error)
	UpdateWorkout(ctx context.Context, id int64, emoji, name string, rest int, exercises []models.SubmitExercise) error
	DeleteWorkout(ctx context.Context, id int64) error

	// Ordered association reads
	GetWorkoutExercises(ctx context.Context, workoutID int64) ([]models.WorkoutExercise, error)

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) (*ImportSummary, error)
	ExportJSON(ctx context.Context) ([]byte, error)
	ExportYAML(ctx context.Context) ([]byte, error)

	// Lifecycle
	Close() error
}

var _ Repository = (*DB)(nil)
