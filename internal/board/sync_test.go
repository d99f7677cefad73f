package board

import (
	"testing"
	"time"

	"github.com/tgienger/taskboard/internal/models"
)

var (
	t0 = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func statusPtr(s models.Status) *models.Status { return &s }
func boolPtr(b bool) *bool                      { return &b }

// taskIn builds a consistent task in the given status
func taskIn(status models.Status) *models.Task {
	t := &models.Task{ID: 1, Name: "task", Status: status, CreatedAt: t0}
	if status == models.StatusDone {
		t.Completed = true
		stamp := t0
		t.CompletedAt = &stamp
	}
	return t
}

func TestApplyDirectEdit(t *testing.T) {
	tests := []struct {
		name            string
		start           models.Status
		edit            DirectEdit
		wantStatus      models.Status
		wantCompleted   bool
		wantCompletedAt *time.Time
	}{
		{
			name:            "Given backlog task When status set to doing Then stays incomplete",
			start:           models.StatusBacklog,
			edit:            DirectEdit{Status: statusPtr(models.StatusDoing)},
			wantStatus:      models.StatusDoing,
			wantCompleted:   false,
			wantCompletedAt: nil,
		},
		{
			name:            "Given doing task When status set to done Then completes now",
			start:           models.StatusDoing,
			edit:            DirectEdit{Status: statusPtr(models.StatusDone)},
			wantStatus:      models.StatusDone,
			wantCompleted:   true,
			wantCompletedAt: &t1,
		},
		{
			name:            "Given done task When status set to doing Then completion clears",
			start:           models.StatusDone,
			edit:            DirectEdit{Status: statusPtr(models.StatusDoing)},
			wantStatus:      models.StatusDoing,
			wantCompleted:   false,
			wantCompletedAt: nil,
		},
		{
			name:            "Given doing task When completed set true Then moves to done",
			start:           models.StatusDoing,
			edit:            DirectEdit{Completed: boolPtr(true)},
			wantStatus:      models.StatusDone,
			wantCompleted:   true,
			wantCompletedAt: &t1,
		},
		{
			name:            "Given done task When completed set false Then falls back to backlog",
			start:           models.StatusDone,
			edit:            DirectEdit{Completed: boolPtr(false)},
			wantStatus:      models.StatusBacklog,
			wantCompleted:   false,
			wantCompletedAt: nil,
		},
		{
			name:            "Given doing task When completed set false Then stays doing",
			start:           models.StatusDoing,
			edit:            DirectEdit{Completed: boolPtr(false)},
			wantStatus:      models.StatusDoing,
			wantCompleted:   false,
			wantCompletedAt: nil,
		},
		{
			name:            "Given backlog task When completed true with status backlog Then completed wins",
			start:           models.StatusBacklog,
			edit:            DirectEdit{Status: statusPtr(models.StatusBacklog), Completed: boolPtr(true)},
			wantStatus:      models.StatusDone,
			wantCompleted:   true,
			wantCompletedAt: &t1,
		},
		{
			name:            "Given backlog task When completed false with status done Then forced to backlog",
			start:           models.StatusBacklog,
			edit:            DirectEdit{Status: statusPtr(models.StatusDone), Completed: boolPtr(false)},
			wantStatus:      models.StatusBacklog,
			wantCompleted:   false,
			wantCompletedAt: nil,
		},
		{
			name:            "Given backlog task When completed false with status doing Then doing is kept",
			start:           models.StatusBacklog,
			edit:            DirectEdit{Status: statusPtr(models.StatusDoing), Completed: boolPtr(false)},
			wantStatus:      models.StatusDoing,
			wantCompleted:   false,
			wantCompletedAt: nil,
		},
		{
			name:            "Given done task When completed set true again Then original completed_at is kept",
			start:           models.StatusDone,
			edit:            DirectEdit{Completed: boolPtr(true)},
			wantStatus:      models.StatusDone,
			wantCompleted:   true,
			wantCompletedAt: &t0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := taskIn(tt.start)
			ApplyDirectEdit(task, tt.edit, t1)

			if task.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", task.Status, tt.wantStatus)
			}
			if task.Completed != tt.wantCompleted {
				t.Errorf("Completed = %v, want %v", task.Completed, tt.wantCompleted)
			}
			assertTimePtr(t, "CompletedAt", task.CompletedAt, tt.wantCompletedAt)
			if task.UpdatedAt == nil || !task.UpdatedAt.Equal(t1) {
				t.Errorf("UpdatedAt = %v, want %v", task.UpdatedAt, t1)
			}
		})
	}
}

func TestApplyDirectEditEmptyLeavesTask(t *testing.T) {
	task := taskIn(models.StatusDoing)
	ApplyDirectEdit(task, DirectEdit{}, t1)

	if task.Status != models.StatusDoing || task.Completed || task.UpdatedAt != nil {
		t.Errorf("empty edit changed task: %+v", task)
	}
}

func TestDeriveFromSubtasks(t *testing.T) {
	done := models.Subtask{ID: 1, Completed: true}
	open := models.Subtask{ID: 2}
	deletedOpen := models.Subtask{ID: 3, DeletedAt: &t0}

	tests := []struct {
		name          string
		start         models.Status
		subtasks      []models.Subtask
		wantDerived   bool
		wantStatus    models.Status
		wantCompleted bool
	}{
		{
			name:          "Given all active subtasks done When deriving Then task is done",
			start:         models.StatusBacklog,
			subtasks:      []models.Subtask{done, done},
			wantDerived:   true,
			wantStatus:    models.StatusDone,
			wantCompleted: true,
		},
		{
			name:          "Given one open subtask When deriving on a doing task Then task reverts to backlog",
			start:         models.StatusDoing,
			subtasks:      []models.Subtask{done, open},
			wantDerived:   true,
			wantStatus:    models.StatusBacklog,
			wantCompleted: false,
		},
		{
			name:          "Given only a deleted subtask is open When deriving Then it is ignored",
			start:         models.StatusBacklog,
			subtasks:      []models.Subtask{done, deletedOpen},
			wantDerived:   true,
			wantStatus:    models.StatusDone,
			wantCompleted: true,
		},
		{
			name:          "Given no active subtasks When deriving Then task is left untouched",
			start:         models.StatusDoing,
			subtasks:      []models.Subtask{deletedOpen},
			wantDerived:   false,
			wantStatus:    models.StatusDoing,
			wantCompleted: false,
		},
		{
			name:          "Given no subtasks at all When deriving on a done task Then stays done",
			start:         models.StatusDone,
			subtasks:      nil,
			wantDerived:   false,
			wantStatus:    models.StatusDone,
			wantCompleted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := taskIn(tt.start)
			derived := DeriveFromSubtasks(task, tt.subtasks, t1)

			if derived != tt.wantDerived {
				t.Errorf("DeriveFromSubtasks() = %v, want %v", derived, tt.wantDerived)
			}
			if task.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", task.Status, tt.wantStatus)
			}
			if task.Completed != tt.wantCompleted {
				t.Errorf("Completed = %v, want %v", task.Completed, tt.wantCompleted)
			}
			if task.Completed != (task.CompletedAt != nil) {
				t.Errorf("Completed = %v but CompletedAt = %v", task.Completed, task.CompletedAt)
			}
		})
	}
}

func TestSetSubtaskCompletedRoundTrip(t *testing.T) {
	s := &models.Subtask{ID: 1}

	setSubtaskCompleted(s, true, t1)
	if !s.Completed || s.CompletedAt == nil || !s.CompletedAt.Equal(t1) {
		t.Fatalf("after completing: %+v", s)
	}

	// Same value again keeps the stamp
	setSubtaskCompleted(s, true, t1.Add(time.Hour))
	if !s.CompletedAt.Equal(t1) {
		t.Errorf("CompletedAt moved to %v on a no-op completion", s.CompletedAt)
	}

	setSubtaskCompleted(s, false, t1)
	if s.Completed || s.CompletedAt != nil {
		t.Errorf("after reopening: %+v", s)
	}
}

func TestActiveTasksStripsDeletedSubtasks(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Subtasks: []models.Subtask{{ID: 1}, {ID: 2, DeletedAt: &t0}}},
		{ID: 2, DeletedAt: &t0},
	}

	got := ActiveTasks(tasks)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("ActiveTasks() = %+v, want only task 1", got)
	}
	if len(got[0].Subtasks) != 1 || got[0].Subtasks[0].ID != 1 {
		t.Errorf("nested subtasks = %+v, want only subtask 1", got[0].Subtasks)
	}
}

func assertTimePtr(t *testing.T, field string, got, want *time.Time) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %v, want nil", field, *got)
	case want != nil && got == nil:
		t.Errorf("%s = nil, want %v", field, *want)
	case want != nil && !got.Equal(*want):
		t.Errorf("%s = %v, want %v", field, *got, *want)
	}
}
