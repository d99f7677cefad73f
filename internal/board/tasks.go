package board

import (
	"context"
	"time"

	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/models"
)

// ListTasksOptions narrows ListTasks.
type ListTasksOptions struct {
	IncludeDeleted bool
	ProjectID      *int64
	Status         *models.Status
}

// CreateTask creates a task in backlog unless a status is given. A task
// created as done is completed from the start.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.clock()
	t := &models.Task{
		Name:        in.Name,
		Description: in.Description,
		Status:      models.StatusBacklog,
		ProjectID:   in.ProjectID,
		CreatedAt:   now,
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if t.Status == models.StatusDone {
		t.Completed = true
		t.CompletedAt = &now
	}

	var task *models.Task
	err := s.db.Update(ctx, func(tx *db.Tx) error {
		if err := requireProject(ctx, tx, in.ProjectID); err != nil {
			return err
		}
		var err error
		task, err = tx.CreateTask(ctx, t)
		return err
	})
	return task, err
}

// GetTask retrieves a task with its subtasks. Soft-deleted tasks and
// subtasks are hidden unless includeDeleted is set.
func (s *Service) GetTask(ctx context.Context, id int64, includeDeleted bool) (*models.Task, error) {
	var task *models.Task
	err := s.db.View(ctx, func(tx *db.Tx) error {
		var err error
		task, err = getTask(ctx, tx, id, includeDeleted)
		return err
	})
	return task, err
}

// ListTasks returns tasks with their subtasks. Soft-deleted tasks and
// subtasks are hidden unless opts.IncludeDeleted is set.
func (s *Service) ListTasks(ctx context.Context, opts ListTasksOptions) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.View(ctx, func(tx *db.Tx) error {
		var err error
		tasks, err = tx.ListTasks(ctx, db.TaskFilter{
			IncludeDeleted: opts.IncludeDeleted,
			ProjectID:      opts.ProjectID,
			Status:         opts.Status,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if !opts.IncludeDeleted {
		tasks = ActiveTasks(tasks)
	}
	return tasks, nil
}

// UpdateTask applies a partial update. When status or completed is part of
// the update the completion fields are reconciled by ApplyDirectEdit.
func (s *Service) UpdateTask(ctx context.Context, id int64, in UpdateTaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.mutateTask(ctx, id, func(tx *db.Tx, t *models.Task, now time.Time) error {
		if in.Name != nil {
			t.Name = *in.Name
		}
		if in.Description.Set {
			t.Description = in.Description.Value
		}
		if in.ProjectID.Set {
			if err := requireProject(ctx, tx, in.ProjectID.Value); err != nil {
				return err
			}
			t.ProjectID = in.ProjectID.Value
		}
		ApplyDirectEdit(t, DirectEdit{Status: in.Status, Completed: in.Completed}, now)
		return nil
	})
}

// ToggleTask flips the task's completion flag.
func (s *Service) ToggleTask(ctx context.Context, id int64) (*models.Task, error) {
	return s.mutateTask(ctx, id, func(_ *db.Tx, t *models.Task, now time.Time) error {
		completed := !t.Completed
		ApplyDirectEdit(t, DirectEdit{Completed: &completed}, now)
		return nil
	})
}

// PatchTaskStatus moves the task to another column.
func (s *Service) PatchTaskStatus(ctx context.Context, id int64, status models.Status) (*models.Task, error) {
	if _, ok := models.ParseStatus(string(status)); !ok {
		return nil, invalidField("new_status", "must be one of backlog, doing, done")
	}
	return s.mutateTask(ctx, id, func(_ *db.Tx, t *models.Task, now time.Time) error {
		ApplyDirectEdit(t, DirectEdit{Status: &status}, now)
		return nil
	})
}

// DeleteTask soft-deletes a task and its active subtasks.
func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return s.db.Update(ctx, func(tx *db.Tx) error {
		return cascadeDelete(ctx, tx, id, s.clock())
	})
}

// mutateTask loads an active task, lets fn change it and saves it with a
// fresh updated_at.
func (s *Service) mutateTask(ctx context.Context, id int64, fn func(tx *db.Tx, t *models.Task, now time.Time) error) (*models.Task, error) {
	var task *models.Task
	err := s.db.Update(ctx, func(tx *db.Tx) error {
		t, err := activeTask(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.clock()
		if err := fn(tx, t, now); err != nil {
			return err
		}
		t.UpdatedAt = &now
		if err := tx.SaveTask(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	return task, err
}
