// ABOUTME: Workout CRUD operations for SQLite storage.
// ABOUTME: Exercise lists are always rewritten whole inside one transaction to keep order dense.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harperreed/circuit/internal/models"
)

// CreateWorkout inserts the workout and its ordered exercise list
// atomically and returns the new workout ID.
func (d *DB) CreateWorkout(ctx context.Context, emoji, name string, rest int, exercises []models.SubmitExercise) (int64, error) {
	w := &models.Workout{Emoji: emoji, Name: name, Rest: rest}
	if err := validateWorkout(w, exercises); err != nil {
		return 0, err
	}

	var id int64
	err := d.withTx(ctx, "create workout", func(tx *sql.Tx) error {
		var err error
		id, err = insertWorkout(ctx, tx, w)
		if err != nil {
			return storageErr("create workout", err)
		}
		if err := insertWorkoutExercises(ctx, tx, id, exercises); err != nil {
			return storageErr("create workout", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	d.log.Debug("workout created", "id", id, "exercises", len(exercises))
	return id, nil
}

// GetWorkout retrieves a workout by ID.
func (d *DB) GetWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	query := `
		SELECT id, emoji, name, rest
		FROM workouts
		WHERE id = ?
	`
	w, err := scanWorkout(d.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get workout", err)
	}
	return w, nil
}

// ListWorkouts retrieves all workouts in insertion order.
func (d *DB) ListWorkouts(ctx context.Context) ([]*models.Workout, error) {
	query := `
		SELECT id, emoji, name, rest
		FROM workouts
		ORDER BY id ASC
	`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("list workouts", err)
	}
	defer rows.Close()

	workouts := make([]*models.Workout, 0)
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, storageErr("list workouts", err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list workouts", err)
	}
	return workouts, nil
}

// UpdateWorkout replaces the workout's scalar fields and its whole exercise
// list in one transaction: every prior association is deleted and the new
// list is reinserted with fresh 0-based order values. Returns ErrNotFound
// (with nothing written) when the workout does not exist.
func (d *DB) UpdateWorkout(ctx context.Context, id int64, emoji, name string, rest int, exercises []models.SubmitExercise) error {
	w := &models.Workout{ID: id, Emoji: emoji, Name: name, Rest: rest}
	if err := validateWorkout(w, exercises); err != nil {
		return err
	}

	err := d.withTx(ctx, "update workout", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE workouts SET emoji = ?, name = ?, rest = ? WHERE id = ?",
			w.Emoji, w.Name, w.Rest, id)
		if err != nil {
			return storageErr("update workout", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return storageErr("update workout", err)
		}
		if affected == 0 {
			return errNotFoundf("workout", id)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM workout_exercises WHERE workout_id = ?", id); err != nil {
			return storageErr("update workout", err)
		}
		if err := insertWorkoutExercises(ctx, tx, id, exercises); err != nil {
			return storageErr("update workout", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.log.Debug("workout updated", "id", id, "exercises", len(exercises))
	return nil
}

// DeleteWorkout removes a workout; CASCADE removes its associations.
// Deleting an ID that does not exist is a no-op.
func (d *DB) DeleteWorkout(ctx context.Context, id int64) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM workouts WHERE id = ?", id); err != nil {
		return storageErr("delete workout", err)
	}
	d.log.Debug("workout deleted", "id", id)
	return nil
}

// GetWorkoutExercises returns the workout's exercises resolved to full
// records, ascending by order. A workout with no rows (or no such workout)
// yields an empty list.
func (d *DB) GetWorkoutExercises(ctx context.Context, workoutID int64) ([]models.WorkoutExercise, error) {
	return listWorkoutExercises(ctx, d.db, workoutID)
}

func validateWorkout(w *models.Workout, exercises []models.SubmitExercise) error {
	if err := w.Validate(); err != nil {
		return err
	}
	return models.ValidateExerciseList(exercises)
}

func insertWorkout(ctx context.Context, q querier, w *models.Workout) (int64, error) {
	result, err := q.ExecContext(ctx,
		"INSERT INTO workouts (emoji, name, rest) VALUES (?, ?, ?)",
		w.Emoji, w.Name, w.Rest)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// insertWorkoutExercises writes one association per entry; the slice index
// is the order.
func insertWorkoutExercises(ctx context.Context, tx *sql.Tx, workoutID int64, exercises []models.SubmitExercise) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO workout_exercises (workout_id, exercise_id, duration, exercise_order)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for order, ex := range exercises {
		if _, err := stmt.ExecContext(ctx, workoutID, ex.ExerciseID, ex.Duration, order); err != nil {
			return err
		}
	}
	return nil
}

func listWorkoutExercises(ctx context.Context, q querier, workoutID int64) ([]models.WorkoutExercise, error) {
	query := `
		SELECT e.id, e.name, e.description, we.duration, we.exercise_order
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = ?
		ORDER BY we.exercise_order ASC
	`
	rows, err := q.QueryContext(ctx, query, workoutID)
	if err != nil {
		return nil, storageErr("get workout exercises", err)
	}
	defer rows.Close()

	exercises := []models.WorkoutExercise{}
	for rows.Next() {
		var we models.WorkoutExercise
		var description sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(&we.Exercise.ID, &we.Exercise.Name, &description, &duration, &we.Order); err != nil {
			return nil, storageErr("get workout exercises", err)
		}
		we.Exercise.Description = description.String
		we.Duration = int(duration.Int64)
		exercises = append(exercises, we)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("get workout exercises", err)
	}
	return exercises, nil
}

// renumber rewrites a workout's order values to 0..n-1, keeping their
// relative sequence. Rows are visited ascending so each target slot is free.
func renumber(ctx context.Context, tx *sql.Tx, workoutID int64) error {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, exercise_order FROM workout_exercises WHERE workout_id = ? ORDER BY exercise_order ASC",
		workoutID)
	if err != nil {
		return err
	}
	type slot struct {
		id    int64
		order int
	}
	var slots []slot
	for rows.Next() {
		var s slot
		if err := rows.Scan(&s.id, &s.order); err != nil {
			rows.Close()
			return err
		}
		slots = append(slots, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, s := range slots {
		if s.order == i {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE workout_exercises SET exercise_order = ? WHERE id = ?", i, s.id); err != nil {
			return err
		}
	}
	return nil
}

func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var rest sql.NullInt64
	if err := row.Scan(&w.ID, &w.Emoji, &w.Name, &rest); err != nil {
		return nil, err
	}
	w.Rest = models.DefaultRest
	if rest.Valid {
		w.Rest = int(rest.Int64)
	}
	return &w, nil
}
