// Package board implements the task board: projects, tasks and their
// subtasks, the completion rules that keep a task's status in step with its
// completion flag and its subtasks, and soft deletion.
//
// Every operation runs in one store transaction. A task's status, completed
// and completed_at always agree (done, true, set) or (backlog/doing, false,
// nil). While a task has active subtasks, any subtask change re-derives the
// task's completion from them.
package board

import (
	"context"
	"errors"
	"time"

	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/models"
)

// Clock returns the current time.
type Clock func() time.Time

// Service exposes every board operation over a store.
type Service struct {
	db  *db.DB
	now Clock
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Service) { s.now = c }
}

// NewService creates a service backed by database
func NewService(database *db.DB, opts ...Option) *Service {
	s := &Service{
		db:  database,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// CreateProject creates a new project
func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var project *models.Project
	err := s.db.Update(ctx, func(tx *db.Tx) error {
		var err error
		project, err = tx.CreateProject(ctx, in.Name, in.Color, s.clock())
		return err
	})
	return project, err
}

// GetProject retrieves a project by ID
func (s *Service) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var project *models.Project
	err := s.db.View(ctx, func(tx *db.Tx) error {
		var err error
		project, err = getProject(ctx, tx, id)
		return err
	})
	return project, err
}

// ListProjects returns all projects
func (s *Service) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.View(ctx, func(tx *db.Tx) error {
		var err error
		projects, err = tx.ListProjects(ctx)
		return err
	})
	return projects, err
}

// UpdateProject applies a partial update to a project
func (s *Service) UpdateProject(ctx context.Context, id int64, patch ProjectPatch) (*models.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var project *models.Project
	err := s.db.Update(ctx, func(tx *db.Tx) error {
		p, err := getProject(ctx, tx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Color != nil {
			p.Color = *patch.Color
		}
		if err := tx.UpdateProject(ctx, id, p.Name, p.Color); err != nil {
			return err
		}
		project = p
		return nil
	})
	return project, err
}

// DeleteProject physically deletes a project and all of its tasks
func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	return s.db.Update(ctx, func(tx *db.Tx) error {
		err := tx.DeleteProject(ctx, id)
		if errors.Is(err, db.ErrNotFound) {
			return notFound("Project", id)
		}
		return err
	})
}

func getProject(ctx context.Context, tx *db.Tx, id int64) (*models.Project, error) {
	p, err := tx.GetProject(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, notFound("Project", id)
	}
	return p, err
}

// requireProject turns a dangling project reference into a validation error
func requireProject(ctx context.Context, tx *db.Tx, id *int64) error {
	if id == nil {
		return nil
	}
	_, err := tx.GetProject(ctx, *id)
	if errors.Is(err, db.ErrNotFound) {
		return invalidField("project_id", "refers to a project that does not exist")
	}
	return err
}

// syncFromSubtasks re-derives the task's completion from its active subtasks
// and persists it. Nothing is written when no active subtask remains.
func syncFromSubtasks(ctx context.Context, tx *db.Tx, t *models.Task, now time.Time) error {
	subtasks, err := tx.ListSubtasks(ctx, t.ID, false)
	if err != nil {
		return err
	}
	if !DeriveFromSubtasks(t, subtasks, now) {
		return nil
	}
	return tx.SaveTask(ctx, t)
}
