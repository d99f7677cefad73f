package board

import (
	"context"
	"errors"

	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/models"
)

// ActiveSubtasks returns the subtasks that have not been soft-deleted,
// preserving order.
func ActiveSubtasks(subtasks []models.Subtask) []models.Subtask {
	active := make([]models.Subtask, 0, len(subtasks))
	for _, s := range subtasks {
		if s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// ActiveTasks returns the tasks that have not been soft-deleted, each with
// its deleted subtasks stripped.
func ActiveTasks(tasks []models.Task) []models.Task {
	active := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Active() {
			continue
		}
		t.Subtasks = ActiveSubtasks(t.Subtasks)
		active = append(active, t)
	}
	return active
}

// activeTask loads a task that must exist and not be soft-deleted.
func activeTask(ctx context.Context, tx *db.Tx, id int64) (*models.Task, error) {
	return getTask(ctx, tx, id, false)
}

func getTask(ctx context.Context, tx *db.Tx, id int64, includeDeleted bool) (*models.Task, error) {
	t, err := tx.GetTask(ctx, id, includeDeleted)
	if errors.Is(err, db.ErrNotFound) {
		return nil, notFound("Task", id)
	}
	return t, err
}

// activeSubtask loads an active subtask of an active task.
func activeSubtask(ctx context.Context, tx *db.Tx, taskID, id int64) (*models.Task, *models.Subtask, error) {
	t, err := activeTask(ctx, tx, taskID)
	if err != nil {
		return nil, nil, err
	}
	s, err := tx.GetSubtask(ctx, taskID, id, false)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil, notFound("Subtask", id)
	}
	if err != nil {
		return nil, nil, err
	}
	return t, s, nil
}
