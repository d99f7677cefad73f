package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tgienger/taskboard/internal/models"
)

const taskColumns = `id, name, description, status, completed, project_id,
	created_at, updated_at, completed_at, deleted_at`

// TaskFilter narrows ListTasks. Zero value lists every active task.
type TaskFilter struct {
	IncludeDeleted bool
	ProjectID      *int64
	Status         *models.Status
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t                                  models.Task
		status                             string
		description                        sql.NullString
		projectID                          sql.NullInt64
		updatedAt, completedAt, deletedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Name, &description, &status, &t.Completed, &projectID,
		&t.CreatedAt, &updatedAt, &completedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	t.Status = models.Status(status)
	if description.Valid {
		t.Description = &description.String
	}
	if projectID.Valid {
		t.ProjectID = &projectID.Int64
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = nullTime(updatedAt)
	t.CompletedAt = nullTime(completedAt)
	t.DeletedAt = nullTime(deletedAt)
	return &t, nil
}

// CreateTask inserts t and returns the stored row. ID, UpdatedAt and
// DeletedAt on t are ignored.
func (tx *Tx) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (name, description, status, completed, project_id, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.Name, t.Description, string(t.Status), t.Completed, t.ProjectID, t.CreatedAt.UTC(), timeArg(t.CompletedAt))
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return tx.GetTask(ctx, id, false)
}

// GetTask retrieves a task by ID with its subtasks. Unless includeDeleted is
// set, a soft-deleted task is reported as ErrNotFound and soft-deleted
// subtasks are left out.
func (tx *Tx) GetTask(ctx context.Context, id int64, includeDeleted bool) (*models.Task, error) {
	t, err := scanTask(tx.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE id = ? AND `+activeClause("deleted_at", includeDeleted), id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	subtasks, err := tx.ListSubtasks(ctx, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	t.Subtasks = subtasks

	return t, nil
}

// ListTasks returns tasks matching filter, oldest first, each with its
// subtasks filtered the same way.
func (tx *Tx) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	where := []string{activeClause("deleted_at", filter.IncludeDeleted)}
	var args []any

	if filter.ProjectID != nil {
		where = append(where, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY created_at ASC, id ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	// Load subtasks for each task
	for i := range tasks {
		subtasks, err := tx.ListSubtasks(ctx, tasks[i].ID, filter.IncludeDeleted)
		if err != nil {
			return nil, err
		}
		tasks[i].Subtasks = subtasks
	}

	return tasks, nil
}

// SaveTask writes the mutable columns of an active task. Deletion state is
// only changed through MarkTaskDeleted.
func (tx *Tx) SaveTask(ctx context.Context, t *models.Task) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE tasks SET name = ?, description = ?, status = ?, completed = ?, project_id = ?,
			updated_at = ?, completed_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, t.Name, t.Description, string(t.Status), t.Completed, t.ProjectID,
		timeArg(t.UpdatedAt), timeArg(t.CompletedAt), t.ID)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// MarkTaskDeleted sets deleted_at on an active task.
func (tx *Tx) MarkTaskDeleted(ctx context.Context, id int64, at time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE tasks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL
	`, at.UTC(), id)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// PurgeTask physically removes a task; its subtasks follow through the
// foreign key cascade.
func (tx *Tx) PurgeTask(ctx context.Context, id int64) error {
	result, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectRow(result)
}
