// ABOUTME: Export and import functionality for the workout library.
// ABOUTME: Supports JSON and YAML; import replays through one transaction with fresh IDs.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/circuit/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the format version written to exports.
const ExportVersion = "1.0"

// ExportData represents the full export format for the workout library.
type ExportData struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Tool       string             `json:"tool" yaml:"tool"`
	Exercises  []*models.Exercise `json:"exercises" yaml:"exercises"`
	Workouts   []ExportWorkout    `json:"workouts" yaml:"workouts"`
}

// ExportWorkout is a workout together with its ordered exercise list.
// Exercise IDs refer to the Exercises section of the same export.
type ExportWorkout struct {
	models.Workout `yaml:",inline"`
	Exercises      []models.SubmitExercise `json:"exercises" yaml:"exercises"`
}

// ImportSummary holds counts of imported entities.
type ImportSummary struct {
	Exercises    int
	Workouts     int
	Associations int
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	exercises, err := d.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	workouts, err := d.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "circuit",
		Exercises:  exercises,
		Workouts:   make([]ExportWorkout, 0, len(workouts)),
	}

	// Populate ordered exercise lists
	for _, w := range workouts {
		list, err := d.GetWorkoutExercises(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("list exercises for workout %d: %w", w.ID, err)
		}
		ew := ExportWorkout{Workout: *w, Exercises: make([]models.SubmitExercise, 0, len(list))}
		for _, we := range list {
			ew.Exercises = append(ew.Exercises, models.SubmitExercise{
				ExerciseID: we.Exercise.ID,
				Duration:   we.Duration,
			})
		}
		data.Workouts = append(data.Workouts, ew)
	}

	return data, nil
}

// ImportData adds the exported library to this database in a single
// transaction. Exercises get new IDs and workout lists are remapped to them;
// either everything is imported or nothing is.
func (d *DB) ImportData(ctx context.Context, data *ExportData) (*ImportSummary, error) {
	if data == nil {
		return nil, &models.ValidationError{Field: "data", Message: "nothing to import"}
	}

	// Validate everything before touching the database
	known := make(map[int64]bool, len(data.Exercises))
	for _, e := range data.Exercises {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("exercise %d: %w", e.ID, err)
		}
		known[e.ID] = true
	}
	for _, w := range data.Workouts {
		// A workout whose exercises were all deleted exports with an empty list.
		err := w.Workout.Validate()
		if err == nil && len(w.Exercises) > 0 {
			err = models.ValidateExerciseList(w.Exercises)
		}
		if err != nil {
			return nil, fmt.Errorf("workout %q: %w", w.Name, err)
		}
		for _, ex := range w.Exercises {
			if !known[ex.ExerciseID] {
				return nil, fmt.Errorf("workout %q: %w", w.Name, &models.ValidationError{
					Field:   "exercises",
					Message: fmt.Sprintf("references exercise %d which is not in the export", ex.ExerciseID),
				})
			}
		}
	}

	summary := &ImportSummary{}
	err := d.withTx(ctx, "import data", func(tx *sql.Tx) error {
		idMap := make(map[int64]int64, len(data.Exercises))
		for _, e := range data.Exercises {
			ne := models.NewExercise(e.Name, e.Description)
			newID, err := insertExercise(ctx, tx, ne)
			if err != nil {
				return storageErr("import exercise", err)
			}
			idMap[e.ID] = newID
			summary.Exercises++
		}

		for _, w := range data.Workouts {
			nw := w.Workout
			newID, err := insertWorkout(ctx, tx, &nw)
			if err != nil {
				return storageErr("import workout", err)
			}
			list := make([]models.SubmitExercise, len(w.Exercises))
			for i, ex := range w.Exercises {
				list[i] = models.SubmitExercise{ExerciseID: idMap[ex.ExerciseID], Duration: ex.Duration}
			}
			if err := insertWorkoutExercises(ctx, tx, newID, list); err != nil {
				return storageErr("import workout exercises", err)
			}
			summary.Workouts++
			summary.Associations += len(list)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.log.Info("import complete",
		"exercises", summary.Exercises,
		"workouts", summary.Workouts,
		"associations", summary.Associations)
	return summary, nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ParseExport decodes an export in the given format ("json" or "yaml").
func ParseExport(format string, raw []byte) (*ExportData, error) {
	var data ExportData
	switch format {
	case "json":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parse json export: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parse yaml export: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
	return &data, nil
}
