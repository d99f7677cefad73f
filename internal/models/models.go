package models

import "time"

// Status is the Kanban column a task sits in
type Status string

const (
	StatusBacklog Status = "backlog"
	StatusDoing   Status = "doing"
	StatusDone    Status = "done"
)

// Statuses returns every status in board order
func Statuses() []Status {
	return []Status{StatusBacklog, StatusDoing, StatusDone}
}

// ParseStatus converts a raw string into a Status, reporting whether it is known
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusBacklog, StatusDoing, StatusDone:
		return Status(s), true
	}
	return "", false
}

// Next returns the status to the right of s on the board, or s itself for done
func (s Status) Next() Status {
	switch s {
	case StatusBacklog:
		return StatusDoing
	case StatusDoing:
		return StatusDone
	default:
		return StatusDone
	}
}

// Prev returns the status to the left of s on the board, or s itself for backlog
func (s Status) Prev() Status {
	switch s {
	case StatusDone:
		return StatusDoing
	case StatusDoing:
		return StatusBacklog
	default:
		return StatusBacklog
	}
}

// Project groups tasks under a name and a display color
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// Task represents a single unit of work on the board
type Task struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Completed   bool       `json:"completed"`
	ProjectID   *int64     `json:"project_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
	Subtasks    []Subtask  `json:"subtasks"` // populated when loading tasks
}

// Active reports whether the task has not been soft-deleted
func (t *Task) Active() bool { return t.DeletedAt == nil }

// Subtask is a checklist item belonging to a task
type Subtask struct {
	ID          int64      `json:"id"`
	TaskID      int64      `json:"task_id"`
	Name        string     `json:"name"`
	Completed   bool       `json:"completed"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

// Active reports whether the subtask has not been soft-deleted
func (s *Subtask) Active() bool { return s.DeletedAt == nil }
