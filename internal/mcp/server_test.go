// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls handlers directly against a temp database and in-memory prefs.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/circuit/internal/prefs"
	"github.com/harperreed/circuit/internal/storage"
	"github.com/harperreed/circuit/internal/streak"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestServer creates a server over a temp database and in-memory prefs.
func setupTestServer(t *testing.T) (*Server, *storage.DB, prefs.Store) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "circuit.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := prefs.OpenMemory()
	if err != nil {
		t.Fatalf("Failed to open prefs: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	server, err := NewServer(db, streak.NewTracker(store))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db, store
}

func addExercise(t *testing.T, s *Server, name string) int64 {
	t.Helper()
	_, out, err := s.handleAddExercise(context.Background(), &mcp.CallToolRequest{}, addExerciseInput{Name: name})
	if err != nil {
		t.Fatalf("add_exercise %s failed: %v", name, err)
	}
	return out.ID
}

func intPtr(n int) *int { return &n }

func TestNewServer(t *testing.T) {
	server, _, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.defaults.Rest != 5 || server.defaults.Duration != 30 {
		t.Errorf("unexpected defaults: %+v", server.defaults)
	}
}

func TestHandleAddExercise(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addExerciseInput
		wantErr   bool
		errSubstr string
	}{
		{name: "valid", input: addExerciseInput{Name: "Squats", Description: "Slow"}},
		{name: "trimmed", input: addExerciseInput{Name: "  Lunges  "}},
		{name: "blank name", input: addExerciseInput{Name: "   "}, wantErr: true, errSubstr: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.ID == 0 {
				t.Error("Expected assigned ID")
			}
			if out.Name != strings.TrimSpace(tt.input.Name) {
				t.Errorf("Name = %q", out.Name)
			}
			if out.Message == "" {
				t.Error("Expected message")
			}
		})
	}
}

func TestHandleListAndUpdateExercises(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	_, list, err := server.handleListExercises(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("list_exercises failed: %v", err)
	}
	if list.Count != 0 || list.Exercises == nil {
		t.Errorf("expected empty non-nil list, got %+v", list)
	}

	id := addExercise(t, server, "Squats")
	addExercise(t, server, "Plank")

	_, out, err := server.handleUpdateExercise(ctx, &mcp.CallToolRequest{}, updateExerciseInput{ID: id, Name: "Air Squats", Description: "Arms out"})
	if err != nil {
		t.Fatalf("update_exercise failed: %v", err)
	}
	if out.Name != "Air Squats" || out.Description != "Arms out" {
		t.Errorf("update not applied: %+v", out)
	}

	_, list, _ = server.handleListExercises(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if list.Count != 2 || list.Exercises[0].Name != "Air Squats" {
		t.Errorf("unexpected list: %+v", list)
	}

	_, _, err = server.handleUpdateExercise(ctx, &mcp.CallToolRequest{}, updateExerciseInput{ID: 999, Name: "Ghost"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestHandleCreateWorkout(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()
	a := addExercise(t, server, "A")
	b := addExercise(t, server, "B")

	_, out, err := server.handleCreateWorkout(ctx, &mcp.CallToolRequest{}, createWorkoutInput{
		Name: "Morning",
		Exercises: []workoutExerciseInput{
			{ExerciseID: a, Duration: 10},
			{ExerciseID: b},
		},
	})
	if err != nil {
		t.Fatalf("create_workout failed: %v", err)
	}

	if out.Emoji != "💪" || out.Rest != 5 {
		t.Errorf("defaults not applied: emoji=%q rest=%d", out.Emoji, out.Rest)
	}
	want := []workoutExerciseOutput{
		{Order: 0, ExerciseID: a, Name: "A", Duration: 10},
		{Order: 1, ExerciseID: b, Name: "B", Duration: 30},
	}
	if diff := cmp.Diff(want, out.Exercises); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}
	if out.TotalSeconds != 45 || out.Total != "0:45" {
		t.Errorf("total = %d (%s), want 45 (0:45)", out.TotalSeconds, out.Total)
	}
}

func TestHandleCreateWorkoutZeroRest(t *testing.T) {
	server, _, _ := setupTestServer(t)
	a := addExercise(t, server, "A")

	_, out, err := server.handleCreateWorkout(context.Background(), &mcp.CallToolRequest{}, createWorkoutInput{
		Name:      "No Rest",
		Rest:      intPtr(0),
		Exercises: []workoutExerciseInput{{ExerciseID: a, Duration: 20}},
	})
	if err != nil {
		t.Fatalf("create_workout failed: %v", err)
	}
	if out.Rest != 0 {
		t.Errorf("Rest = %d, want 0", out.Rest)
	}
}

func TestHandleCreateWorkoutValidation(t *testing.T) {
	server, db, _ := setupTestServer(t)
	ctx := context.Background()
	a := addExercise(t, server, "A")

	tests := []struct {
		name  string
		input createWorkoutInput
	}{
		{name: "no exercises", input: createWorkoutInput{Name: "Empty", Exercises: nil}},
		{name: "blank name", input: createWorkoutInput{Name: " ", Exercises: []workoutExerciseInput{{ExerciseID: a}}}},
		{name: "duplicate exercise", input: createWorkoutInput{Name: "Dup", Exercises: []workoutExerciseInput{{ExerciseID: a}, {ExerciseID: a}}}},
		{name: "negative rest", input: createWorkoutInput{Name: "Neg", Rest: intPtr(-1), Exercises: []workoutExerciseInput{{ExerciseID: a}}}},
		{name: "unknown exercise", input: createWorkoutInput{Name: "Ghost", Exercises: []workoutExerciseInput{{ExerciseID: 999}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := server.handleCreateWorkout(ctx, &mcp.CallToolRequest{}, tt.input); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}

	workouts, err := db.ListWorkouts(ctx)
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(workouts) != 0 {
		t.Errorf("failed creates left %d workouts behind", len(workouts))
	}
}

func TestHandleUpdateWorkout(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()
	a := addExercise(t, server, "A")
	b := addExercise(t, server, "B")
	c := addExercise(t, server, "C")

	_, created, err := server.handleCreateWorkout(ctx, &mcp.CallToolRequest{}, createWorkoutInput{
		Name:      "Circuit",
		Exercises: []workoutExerciseInput{{ExerciseID: a, Duration: 10}, {ExerciseID: b, Duration: 10}},
	})
	if err != nil {
		t.Fatalf("create_workout failed: %v", err)
	}

	_, out, err := server.handleUpdateWorkout(ctx, &mcp.CallToolRequest{}, updateWorkoutInput{
		ID:        created.ID,
		Name:      "Circuit v2",
		Emoji:     "🔥",
		Rest:      intPtr(15),
		Exercises: []workoutExerciseInput{{ExerciseID: c, Duration: 40}, {ExerciseID: a, Duration: 20}},
	})
	if err != nil {
		t.Fatalf("update_workout failed: %v", err)
	}

	if out.Name != "Circuit v2" || out.Emoji != "🔥" || out.Rest != 15 {
		t.Errorf("fields not replaced: %+v", out)
	}
	var ids []int64
	for _, e := range out.Exercises {
		ids = append(ids, e.ExerciseID)
	}
	if diff := cmp.Diff([]int64{c, a}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	_, _, err = server.handleUpdateWorkout(ctx, &mcp.CallToolRequest{}, updateWorkoutInput{
		ID: 999, Name: "Ghost", Exercises: []workoutExerciseInput{{ExerciseID: a}},
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestHandleGetWorkoutNotFound(t *testing.T) {
	server, _, _ := setupTestServer(t)

	_, _, err := server.handleGetWorkout(context.Background(), &mcp.CallToolRequest{}, idInput{ID: 42})
	if err == nil || !strings.Contains(err.Error(), "workout not found: 42") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestHandleDeleteExerciseKeepsOrderDense(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()
	a := addExercise(t, server, "A")
	b := addExercise(t, server, "B")
	c := addExercise(t, server, "C")

	_, w, err := server.handleCreateWorkout(ctx, &mcp.CallToolRequest{}, createWorkoutInput{
		Name:      "ABC",
		Exercises: []workoutExerciseInput{{ExerciseID: a}, {ExerciseID: b}, {ExerciseID: c}},
	})
	if err != nil {
		t.Fatalf("create_workout failed: %v", err)
	}

	if _, _, err := server.handleDeleteExercise(ctx, &mcp.CallToolRequest{}, idInput{ID: b}); err != nil {
		t.Fatalf("delete_exercise failed: %v", err)
	}

	_, got, err := server.handleGetWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: w.ID})
	if err != nil {
		t.Fatalf("get_workout failed: %v", err)
	}
	if len(got.Exercises) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(got.Exercises))
	}
	for i, e := range got.Exercises {
		if e.Order != i {
			t.Errorf("exercise %d has order %d", i, e.Order)
		}
	}
	if got.Exercises[0].ExerciseID != a || got.Exercises[1].ExerciseID != c {
		t.Errorf("unexpected remaining exercises: %+v", got.Exercises)
	}
}

func TestHandleDeleteWorkout(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()
	a := addExercise(t, server, "A")

	_, w, err := server.handleCreateWorkout(ctx, &mcp.CallToolRequest{}, createWorkoutInput{
		Name: "Solo", Exercises: []workoutExerciseInput{{ExerciseID: a}},
	})
	if err != nil {
		t.Fatalf("create_workout failed: %v", err)
	}

	if _, _, err := server.handleDeleteWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: w.ID}); err != nil {
		t.Fatalf("delete_workout failed: %v", err)
	}

	_, list, _ := server.handleListWorkouts(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if list.Count != 0 {
		t.Errorf("expected no workouts, got %d", list.Count)
	}
	_, exercises, _ := server.handleListExercises(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if exercises.Count != 1 {
		t.Errorf("exercise library should be untouched, got %d", exercises.Count)
	}
}

func TestHandleGetStreak(t *testing.T) {
	server, _, store := setupTestServer(t)
	ctx := context.Background()

	_, status, err := server.handleGetStreak(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("get_streak failed: %v", err)
	}
	if status.Enabled || status.Streak != 0 {
		t.Errorf("expected disabled zero streak, got %+v", status)
	}

	today := time.Now().Format("2006-01-02")
	for k, v := range map[string]string{
		streak.KeyEnabled: "true",
		streak.KeyStreak:  "6",
		streak.KeyLastDay: today,
	} {
		if err := store.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}

	_, status, err = server.handleGetStreak(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("get_streak failed: %v", err)
	}
	if !status.Enabled || status.Streak != 6 || status.LastDay != today {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestHandleGetStreakWithoutTracker(t *testing.T) {
	_, db, _ := setupTestServer(t)
	server, err := NewServer(db, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	if _, _, err := server.handleGetStreak(context.Background(), &mcp.CallToolRequest{}, emptyInput{}); err == nil {
		t.Error("expected error without tracker")
	}
}

func TestWorkoutsResource(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()
	a := addExercise(t, server, "A")
	b := addExercise(t, server, "B")

	_, _, err := server.handleCreateWorkout(ctx, &mcp.CallToolRequest{}, createWorkoutInput{
		Name:      "Pair",
		Rest:      intPtr(10),
		Exercises: []workoutExerciseInput{{ExerciseID: b, Duration: 20}, {ExerciseID: a, Duration: 25}},
	})
	if err != nil {
		t.Fatalf("create_workout failed: %v", err)
	}

	result, err := server.handleWorkoutsResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("workouts resource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(result.Contents))
	}
	content := result.Contents[0]
	if content.URI != workoutsURI || content.MIMEType != "application/json" {
		t.Errorf("unexpected content header: %s %s", content.URI, content.MIMEType)
	}

	var parsed struct {
		Workouts []workoutOutput `json:"workouts"`
		Count    int             `json:"count"`
	}
	if err := json.Unmarshal([]byte(content.Text), &parsed); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}
	if parsed.Count != 1 || len(parsed.Workouts) != 1 {
		t.Fatalf("expected one workout, got %+v", parsed)
	}
	w := parsed.Workouts[0]
	if w.TotalSeconds != 55 || w.Exercises[0].ExerciseID != b {
		t.Errorf("unexpected plan: %+v", w)
	}
}

func TestStreakResource(t *testing.T) {
	server, _, _ := setupTestServer(t)

	result, err := server.handleStreakResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("streak resource failed: %v", err)
	}

	var status streak.Status
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &status); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}
	if status.Enabled {
		t.Errorf("expected streak disabled, got %+v", status)
	}
}
