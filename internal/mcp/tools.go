// ABOUTME: MCP tool implementations for exercises, workouts and streak.
// ABOUTME: Writes go through the same transactional repository as the CLI.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/circuit/internal/models"
	"github.com/harperreed/circuit/internal/storage"
	"github.com/harperreed/circuit/internal/streak"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// Exercises
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List every exercise in the library",
	}, s.handleListExercises)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise to the library",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_exercise",
		Description: "Rename an exercise or change its description",
	}, s.handleUpdateExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_exercise",
		Description: "Delete an exercise and remove it from every workout",
	}, s.handleDeleteExercise)

	// Workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List every workout",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with its ordered exercises and total time",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_workout",
		Description: "Create a workout from an ordered list of exercises",
	}, s.handleCreateWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_workout",
		Description: "Replace a workout's fields and its whole exercise list",
	}, s.handleUpdateWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout; its exercises stay in the library",
	}, s.handleDeleteWorkout)

	// Streak
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_streak",
		Description: "Get the current daily workout streak",
	}, s.handleGetStreak)
}

// Tool input/output types

type emptyInput struct{}

type idInput struct {
	ID int64 `json:"id" jsonschema:"Numeric ID"`
}

type addExerciseInput struct {
	Name        string `json:"name" jsonschema:"Exercise name"`
	Description string `json:"description,omitempty" jsonschema:"Optional description or cue"`
}

type updateExerciseInput struct {
	ID          int64  `json:"id" jsonschema:"Exercise ID"`
	Name        string `json:"name" jsonschema:"New exercise name"`
	Description string `json:"description,omitempty" jsonschema:"New description; empty clears it"`
}

type exerciseOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message"`
}

type exerciseListOutput struct {
	Exercises []*models.Exercise `json:"exercises"`
	Count     int                `json:"count"`
}

type workoutExerciseInput struct {
	ExerciseID int64 `json:"exercise_id" jsonschema:"Exercise ID from list_exercises"`
	Duration   int   `json:"duration,omitempty" jsonschema:"Seconds for this exercise (default 30)"`
}

type createWorkoutInput struct {
	Name      string                 `json:"name" jsonschema:"Workout name"`
	Emoji     string                 `json:"emoji,omitempty" jsonschema:"Emoji shown next to the name"`
	Rest      *int                   `json:"rest,omitempty" jsonschema:"Seconds of rest between exercises (default 5, 0 for none)"`
	Exercises []workoutExerciseInput `json:"exercises" jsonschema:"Exercises in play order"`
}

type updateWorkoutInput struct {
	ID        int64                  `json:"id" jsonschema:"Workout ID"`
	Name      string                 `json:"name" jsonschema:"Workout name"`
	Emoji     string                 `json:"emoji,omitempty" jsonschema:"Emoji shown next to the name"`
	Rest      *int                   `json:"rest,omitempty" jsonschema:"Seconds of rest between exercises (default 5, 0 for none)"`
	Exercises []workoutExerciseInput `json:"exercises" jsonschema:"Full replacement exercise list in play order"`
}

type workoutExerciseOutput struct {
	Order       int    `json:"order"`
	ExerciseID  int64  `json:"exercise_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"`
}

type workoutOutput struct {
	ID           int64                   `json:"id"`
	Emoji        string                  `json:"emoji"`
	Name         string                  `json:"name"`
	Rest         int                     `json:"rest"`
	Exercises    []workoutExerciseOutput `json:"exercises"`
	TotalSeconds int                     `json:"total_seconds"`
	Total        string                  `json:"total"`
}

type workoutListOutput struct {
	Workouts []*models.Workout `json:"workouts"`
	Count    int               `json:"count"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, exerciseListOutput, error) {
	exercises, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, exerciseListOutput{}, fmt.Errorf("failed to list exercises: %w", err)
	}
	return nil, exerciseListOutput{Exercises: exercises, Count: len(exercises)}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	id, err := s.repo.CreateExercise(ctx, input.Name, input.Description)
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}

	e, err := s.repo.GetExercise(ctx, id)
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to read exercise: %w", err)
	}

	return nil, exerciseOutput{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Message:     fmt.Sprintf("Added exercise %s (ID: %d)", e.Name, e.ID),
	}, nil
}

func (s *Server) handleUpdateExercise(ctx context.Context, req *mcp.CallToolRequest, input updateExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	if _, err := s.repo.GetExercise(ctx, input.ID); err != nil {
		return nil, exerciseOutput{}, notFound("exercise", input.ID, err)
	}
	if err := s.repo.UpdateExercise(ctx, input.ID, input.Name, input.Description); err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to update exercise: %w", err)
	}

	e, err := s.repo.GetExercise(ctx, input.ID)
	if err != nil {
		return nil, exerciseOutput{}, notFound("exercise", input.ID, err)
	}

	return nil, exerciseOutput{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Message:     fmt.Sprintf("Updated exercise %d", e.ID),
	}, nil
}

func (s *Server) handleDeleteExercise(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteExercise(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete exercise: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted exercise: %d", input.ID),
	}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, workoutListOutput, error) {
	workouts, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return nil, workoutListOutput{}, fmt.Errorf("failed to list workouts: %w", err)
	}
	return nil, workoutListOutput{Workouts: workouts, Count: len(workouts)}, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, workoutOutput, error) {
	out, err := s.loadWorkout(ctx, input.ID)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleCreateWorkout(ctx context.Context, req *mcp.CallToolRequest, input createWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	emoji, rest := s.workoutFields(input.Emoji, input.Rest)

	id, err := s.repo.CreateWorkout(ctx, emoji, input.Name, rest, s.submitted(input.Exercises))
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to create workout: %w", err)
	}

	out, err := s.loadWorkout(ctx, id)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleUpdateWorkout(ctx context.Context, req *mcp.CallToolRequest, input updateWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	emoji, rest := s.workoutFields(input.Emoji, input.Rest)

	if err := s.repo.UpdateWorkout(ctx, input.ID, emoji, input.Name, rest, s.submitted(input.Exercises)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, workoutOutput{}, notFound("workout", input.ID, err)
		}
		return nil, workoutOutput{}, fmt.Errorf("failed to update workout: %w", err)
	}

	out, err := s.loadWorkout(ctx, input.ID)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteWorkout(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted workout: %d", input.ID),
	}, nil
}

func (s *Server) handleGetStreak(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, streak.Status, error) {
	if s.tracker == nil {
		return nil, streak.Status{}, errors.New("streak tracking is not available")
	}
	status, err := s.tracker.Current()
	if err != nil {
		return nil, streak.Status{}, fmt.Errorf("failed to read streak: %w", err)
	}
	return nil, status, nil
}

// loadWorkout reads a workout and its ordered exercises.
func (s *Server) loadWorkout(ctx context.Context, id int64) (workoutOutput, error) {
	w, err := s.repo.GetWorkout(ctx, id)
	if err != nil {
		return workoutOutput{}, notFound("workout", id, err)
	}

	exercises, err := s.repo.GetWorkoutExercises(ctx, id)
	if err != nil {
		return workoutOutput{}, fmt.Errorf("failed to read workout exercises: %w", err)
	}

	return toWorkoutOutput(w, exercises), nil
}

func toWorkoutOutput(w *models.Workout, exercises []models.WorkoutExercise) workoutOutput {
	out := workoutOutput{
		ID:        w.ID,
		Emoji:     w.Emoji,
		Name:      w.Name,
		Rest:      w.Rest,
		Exercises: make([]workoutExerciseOutput, 0, len(exercises)),
	}
	for _, we := range exercises {
		out.Exercises = append(out.Exercises, workoutExerciseOutput{
			Order:       we.Order,
			ExerciseID:  we.Exercise.ID,
			Name:        we.Exercise.Name,
			Description: we.Exercise.Description,
			Duration:    we.Duration,
		})
	}
	out.TotalSeconds = models.TotalSeconds(w.Rest, exercises)
	out.Total = models.FormatClock(out.TotalSeconds)
	return out
}

func (s *Server) workoutFields(emoji string, rest *int) (string, int) {
	if emoji == "" {
		emoji = s.defaults.Emoji
	}
	r := s.defaults.Rest
	if rest != nil {
		r = *rest
	}
	return emoji, r
}

func (s *Server) submitted(in []workoutExerciseInput) []models.SubmitExercise {
	out := make([]models.SubmitExercise, 0, len(in))
	for _, e := range in {
		d := e.Duration
		if d == 0 {
			d = s.defaults.Duration
		}
		out = append(out, models.SubmitExercise{ExerciseID: e.ExerciseID, Duration: d})
	}
	return out
}

func notFound(kind string, id int64, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s not found: %d", kind, id)
	}
	return fmt.Errorf("failed to read %s %d: %w", kind, id, err)
}
