// ABOUTME: Exercise CRUD operations for SQLite storage.
// ABOUTME: Deleting an exercise cascades to every workout association that used it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/circuit/internal/models"
)

// CreateExercise stores a new exercise and returns its generated ID.
func (d *DB) CreateExercise(ctx context.Context, name, description string) (int64, error) {
	e := models.NewExercise(name, description)
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := insertExercise(ctx, d.db, e)
	if err != nil {
		return 0, storageErr("create exercise", err)
	}
	d.log.Debug("exercise created", "id", id, "name", e.Name)
	return id, nil
}

// GetExercise retrieves an exercise by ID.
func (d *DB) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	query := `
		SELECT id, name, description
		FROM exercises
		WHERE id = ?
	`
	e, err := scanExercise(d.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get exercise", err)
	}
	return e, nil
}

// ListExercises retrieves all exercises in insertion order.
func (d *DB) ListExercises(ctx context.Context) ([]*models.Exercise, error) {
	query := `
		SELECT id, name, description
		FROM exercises
		ORDER BY id ASC
	`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("list exercises", err)
	}
	defer rows.Close()

	exercises := make([]*models.Exercise, 0)
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, storageErr("list exercises", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list exercises", err)
	}
	return exercises, nil
}

// UpdateExercise replaces every field of an existing exercise. Updating an
// ID that does not exist is a silent no-op.
func (d *DB) UpdateExercise(ctx context.Context, id int64, name, description string) error {
	e := models.NewExercise(name, description)
	if err := e.Validate(); err != nil {
		return err
	}
	result, err := d.db.ExecContext(ctx,
		"UPDATE exercises SET name = ?, description = ? WHERE id = ?",
		e.Name, nullString(e.Description), id)
	if err != nil {
		return storageErr("update exercise", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		d.log.Debug("update of missing exercise ignored", "id", id)
	}
	return nil
}

// DeleteExercise removes an exercise. The foreign key cascade removes its
// workout associations in the same statement, and every affected workout is
// renumbered so its order stays dense.
func (d *DB) DeleteExercise(ctx context.Context, id int64) error {
	return d.withTx(ctx, "delete exercise", func(tx *sql.Tx) error {
		affected, err := workoutsUsingExercise(ctx, tx, id)
		if err != nil {
			return storageErr("delete exercise", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM exercises WHERE id = ?", id); err != nil {
			return storageErr("delete exercise", err)
		}
		for _, workoutID := range affected {
			if err := renumber(ctx, tx, workoutID); err != nil {
				return storageErr("delete exercise", err)
			}
		}
		d.log.Debug("exercise deleted", "id", id, "workouts", len(affected))
		return nil
	})
}

func insertExercise(ctx context.Context, q querier, e *models.Exercise) (int64, error) {
	result, err := q.ExecContext(ctx,
		"INSERT INTO exercises (name, description) VALUES (?, ?)",
		e.Name, nullString(e.Description))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func workoutsUsingExercise(ctx context.Context, q querier, exerciseID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT DISTINCT workout_id FROM workout_exercises WHERE exercise_id = ?", exerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var e models.Exercise
	var description sql.NullString
	if err := row.Scan(&e.ID, &e.Name, &description); err != nil {
		return nil, err
	}
	if description.Valid {
		e.Description = description.String
	}
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// errNotFoundf wraps ErrNotFound with the kind and ID that were missing.
func errNotFoundf(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}
