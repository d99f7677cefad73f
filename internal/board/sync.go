package board

import (
	"time"

	"github.com/tgienger/taskboard/internal/models"
)

// DirectEdit is a task-level change to status and/or completion. Nil fields
// were not part of the request.
type DirectEdit struct {
	Status    *models.Status
	Completed *bool
}

// Empty reports whether the edit touches neither status nor completion.
func (e DirectEdit) Empty() bool {
	return e.Status == nil && e.Completed == nil
}

// ApplyDirectEdit reconciles status, completed and completed_at after a
// direct edit of the task:
//
//   - status alone: completed follows status == done
//   - completed alone: true moves the task to done; false moves a done task
//     back to backlog and leaves backlog or doing untouched
//   - both: completed wins, so completed=true forces done and completed=false
//     with status=done yields backlog
//
// updated_at is stamped whenever the edit is non-empty.
func ApplyDirectEdit(t *models.Task, edit DirectEdit, now time.Time) {
	if edit.Empty() {
		return
	}

	var (
		status    models.Status
		completed bool
	)
	if edit.Completed != nil {
		completed = *edit.Completed
		status = t.Status
		if edit.Status != nil {
			status = *edit.Status
		}
		switch {
		case completed:
			status = models.StatusDone
		case status == models.StatusDone:
			status = models.StatusBacklog
		}
	} else {
		status = *edit.Status
		completed = status == models.StatusDone
	}

	setCompletion(t, status, completed, now)
}

// DeriveFromSubtasks recomputes task completion from its active subtasks:
// the task is done exactly when every active subtask is completed, and falls
// back to backlog otherwise. With no active subtasks the task is left as is
// and DeriveFromSubtasks returns false.
func DeriveFromSubtasks(t *models.Task, subtasks []models.Subtask, now time.Time) bool {
	active := ActiveSubtasks(subtasks)
	if len(active) == 0 {
		return false
	}

	allDone := true
	for _, s := range active {
		if !s.Completed {
			allDone = false
			break
		}
	}

	status := models.StatusBacklog
	if allDone {
		status = models.StatusDone
	}
	setCompletion(t, status, allDone, now)
	return true
}

// setCompletion writes the status/completed/completed_at triple together.
// An already completed task keeps its original completed_at.
func setCompletion(t *models.Task, status models.Status, completed bool, now time.Time) {
	t.Status = status
	t.Completed = completed
	switch {
	case !completed:
		t.CompletedAt = nil
	case t.CompletedAt == nil:
		stamp := now
		t.CompletedAt = &stamp
	}
	stamp := now
	t.UpdatedAt = &stamp
}

// setSubtaskCompleted stamps or clears completed_at when completion changes.
func setSubtaskCompleted(s *models.Subtask, completed bool, now time.Time) {
	if s.Completed == completed {
		return
	}
	s.Completed = completed
	if completed {
		stamp := now
		s.CompletedAt = &stamp
	} else {
		s.CompletedAt = nil
	}
}
