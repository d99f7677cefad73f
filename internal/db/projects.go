package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/tgienger/taskboard/internal/models"
)

const projectColumns = "id, name, color, created_at"

// CreateProject creates a new project
func (tx *Tx) CreateProject(ctx context.Context, name, color string, createdAt time.Time) (*models.Project, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO projects (name, color, created_at) VALUES (?, ?, ?)
	`, name, color, createdAt.UTC())
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return tx.GetProject(ctx, id)
}

// GetProject retrieves a project by ID
func (tx *Tx) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	p := &models.Project{}
	err := tx.QueryRowContext(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Color, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// ListProjects returns all projects, oldest first
func (tx *Tx) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject writes the name and color of a project
func (tx *Tx) UpdateProject(ctx context.Context, id int64, name, color string) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE projects SET name = ?, color = ? WHERE id = ?
	`, name, color, id)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// DeleteProject physically deletes a project together with its tasks. The
// subtasks of those tasks go with them through the subtasks foreign key.
func (tx *Tx) DeleteProject(ctx context.Context, id int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE project_id = ?", id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectRow(result)
}

func expectRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
