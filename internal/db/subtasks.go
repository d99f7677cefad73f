package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/tgienger/taskboard/internal/models"
)

const subtaskColumns = "id, task_id, name, completed, position, created_at, completed_at, deleted_at"

func scanSubtask(row rowScanner) (*models.Subtask, error) {
	var (
		s                      models.Subtask
		completedAt, deletedAt sql.NullTime
	)
	err := row.Scan(&s.ID, &s.TaskID, &s.Name, &s.Completed, &s.Position, &s.CreatedAt, &completedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.CompletedAt = nullTime(completedAt)
	s.DeletedAt = nullTime(deletedAt)
	return &s, nil
}

// CreateSubtask inserts an incomplete subtask at position
func (tx *Tx) CreateSubtask(ctx context.Context, taskID int64, name string, position int, createdAt time.Time) (*models.Subtask, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO subtasks (task_id, name, completed, position, created_at) VALUES (?, ?, 0, ?, ?)
	`, taskID, name, position, createdAt.UTC())
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return tx.GetSubtask(ctx, taskID, id, false)
}

// GetSubtask retrieves a subtask of taskID. Unless includeDeleted is set, a
// soft-deleted subtask is reported as ErrNotFound.
func (tx *Tx) GetSubtask(ctx context.Context, taskID, id int64, includeDeleted bool) (*models.Subtask, error) {
	s, err := scanSubtask(tx.QueryRowContext(ctx, `
		SELECT `+subtaskColumns+` FROM subtasks
		WHERE id = ? AND task_id = ? AND `+activeClause("deleted_at", includeDeleted), id, taskID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSubtasks returns the subtasks of a task ordered by position. Equal
// positions keep insertion order.
func (tx *Tx) ListSubtasks(ctx context.Context, taskID int64, includeDeleted bool) ([]models.Subtask, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT `+subtaskColumns+` FROM subtasks
		WHERE task_id = ? AND `+activeClause("deleted_at", includeDeleted)+`
		ORDER BY position ASC, id ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subtasks := []models.Subtask{}
	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, *s)
	}
	return subtasks, rows.Err()
}

// MaxActivePosition returns the highest position among the active subtasks
// of a task, or 0 when it has none.
func (tx *Tx) MaxActivePosition(ctx context.Context, taskID int64) (int, error) {
	var maxPos int
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0) FROM subtasks
		WHERE task_id = ? AND deleted_at IS NULL
	`, taskID).Scan(&maxPos)
	return maxPos, err
}

// SaveSubtask writes the mutable columns of an active subtask
func (tx *Tx) SaveSubtask(ctx context.Context, s *models.Subtask) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE subtasks SET name = ?, completed = ?, position = ?, completed_at = ?
		WHERE id = ? AND task_id = ? AND deleted_at IS NULL
	`, s.Name, s.Completed, s.Position, timeArg(s.CompletedAt), s.ID, s.TaskID)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// MarkSubtaskDeleted sets deleted_at on one active subtask
func (tx *Tx) MarkSubtaskDeleted(ctx context.Context, taskID, id int64, at time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE subtasks SET deleted_at = ? WHERE id = ? AND task_id = ? AND deleted_at IS NULL
	`, at.UTC(), id, taskID)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// MarkSubtasksDeleted sets deleted_at on every active subtask of a task and
// returns how many rows changed. Already deleted subtasks keep their
// original timestamp.
func (tx *Tx) MarkSubtasksDeleted(ctx context.Context, taskID int64, at time.Time) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		UPDATE subtasks SET deleted_at = ? WHERE task_id = ? AND deleted_at IS NULL
	`, at.UTC(), taskID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
