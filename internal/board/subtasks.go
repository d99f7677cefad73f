package board

import (
	"context"
	"time"

	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/models"
)

// CreateSubtask appends an incomplete subtask to an active task and
// re-derives the task's completion.
func (s *Service) CreateSubtask(ctx context.Context, taskID int64, in CreateSubtaskInput) (*models.Subtask, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var subtask *models.Subtask
	err := s.db.Update(ctx, func(tx *db.Tx) error {
		t, err := activeTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		position, err := allocatePosition(ctx, tx, taskID, in.Position)
		if err != nil {
			return err
		}
		now := s.clock()
		subtask, err = tx.CreateSubtask(ctx, taskID, in.Name, position, now)
		if err != nil {
			return err
		}
		return syncFromSubtasks(ctx, tx, t, now)
	})
	return subtask, err
}

// ListSubtasks returns the subtasks of a task ordered by position. With
// includeDeleted the task itself may be soft-deleted too.
func (s *Service) ListSubtasks(ctx context.Context, taskID int64, includeDeleted bool) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	err := s.db.View(ctx, func(tx *db.Tx) error {
		if _, err := getTask(ctx, tx, taskID, includeDeleted); err != nil {
			return err
		}
		var err error
		subtasks, err = tx.ListSubtasks(ctx, taskID, includeDeleted)
		return err
	})
	return subtasks, err
}

// GetSubtask retrieves an active subtask of an active task.
func (s *Service) GetSubtask(ctx context.Context, taskID, id int64) (*models.Subtask, error) {
	var subtask *models.Subtask
	err := s.db.View(ctx, func(tx *db.Tx) error {
		var err error
		_, subtask, err = activeSubtask(ctx, tx, taskID, id)
		return err
	})
	return subtask, err
}

// UpdateSubtask applies a partial update and re-derives the task's
// completion.
func (s *Service) UpdateSubtask(ctx context.Context, taskID, id int64, in UpdateSubtaskInput) (*models.Subtask, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.mutateSubtask(ctx, taskID, id, func(st *models.Subtask, now time.Time) {
		if in.Name != nil {
			st.Name = *in.Name
		}
		if in.Position != nil {
			st.Position = *in.Position
		}
		if in.Completed != nil {
			setSubtaskCompleted(st, *in.Completed, now)
		}
	})
}

// ToggleSubtask flips a subtask's completion and re-derives the task's
// completion.
func (s *Service) ToggleSubtask(ctx context.Context, taskID, id int64) (*models.Subtask, error) {
	return s.mutateSubtask(ctx, taskID, id, func(st *models.Subtask, now time.Time) {
		setSubtaskCompleted(st, !st.Completed, now)
	})
}

// DeleteSubtask soft-deletes a subtask and re-derives the task's completion
// from the subtasks that remain.
func (s *Service) DeleteSubtask(ctx context.Context, taskID, id int64) error {
	return s.db.Update(ctx, func(tx *db.Tx) error {
		t, _, err := activeSubtask(ctx, tx, taskID, id)
		if err != nil {
			return err
		}
		now := s.clock()
		if err := tx.MarkSubtaskDeleted(ctx, taskID, id, now); err != nil {
			return err
		}
		return syncFromSubtasks(ctx, tx, t, now)
	})
}

func (s *Service) mutateSubtask(ctx context.Context, taskID, id int64, fn func(st *models.Subtask, now time.Time)) (*models.Subtask, error) {
	var subtask *models.Subtask
	err := s.db.Update(ctx, func(tx *db.Tx) error {
		t, st, err := activeSubtask(ctx, tx, taskID, id)
		if err != nil {
			return err
		}
		now := s.clock()
		fn(st, now)
		if err := tx.SaveSubtask(ctx, st); err != nil {
			return err
		}
		if err := syncFromSubtasks(ctx, tx, t, now); err != nil {
			return err
		}
		subtask = st
		return nil
	})
	return subtask, err
}
