package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tgienger/taskboard/internal/models"
)

// createTestDB opens a fresh database in a temp dir
func createTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// seedTask creates a task with subtasks at the given positions
func seedTask(t *testing.T, database *DB, name string, positions ...int) *models.Task {
	t.Helper()

	var task *models.Task
	err := database.Update(context.Background(), func(tx *Tx) error {
		var err error
		task, err = tx.CreateTask(context.Background(), &models.Task{
			Name:      name,
			Status:    models.StatusBacklog,
			CreatedAt: testNow,
		})
		if err != nil {
			return err
		}
		for i, pos := range positions {
			if _, err := tx.CreateSubtask(context.Background(), task.ID, name+"-sub", pos, testNow.Add(time.Duration(i)*time.Second)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to seed task %s: %v", name, err)
	}
	return task
}

func TestUpdateRollsBackOnError(t *testing.T) {
	database := createTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.Update(ctx, func(tx *Tx) error {
		if _, err := tx.CreateProject(ctx, "Work", "#3498db", testNow); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want %v", err, boom)
	}

	err = database.View(ctx, func(tx *Tx) error {
		projects, err := tx.ListProjects(ctx)
		if err != nil {
			return err
		}
		if len(projects) != 0 {
			t.Errorf("got %d projects after rollback, want 0", len(projects))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestGetTaskSoftDeleteFiltering(t *testing.T) {
	database := createTestDB(t)
	ctx := context.Background()

	task := seedTask(t, database, "write docs", 1, 2)
	deletedAt := testNow.Add(time.Hour)

	err := database.Update(ctx, func(tx *Tx) error {
		subtasks, err := tx.ListSubtasks(ctx, task.ID, false)
		if err != nil {
			return err
		}
		return tx.MarkSubtaskDeleted(ctx, task.ID, subtasks[0].ID, deletedAt)
	})
	if err != nil {
		t.Fatalf("MarkSubtaskDeleted() error = %v", err)
	}

	tests := []struct {
		name           string
		includeDeleted bool
		wantSubtasks   int
	}{
		{
			name:           "Given one deleted subtask When getting active Then nested subtask is stripped",
			includeDeleted: false,
			wantSubtasks:   1,
		},
		{
			name:           "Given one deleted subtask When including deleted Then both subtasks return",
			includeDeleted: true,
			wantSubtasks:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := database.View(ctx, func(tx *Tx) error {
				got, err := tx.GetTask(ctx, task.ID, tt.includeDeleted)
				if err != nil {
					return err
				}
				if len(got.Subtasks) != tt.wantSubtasks {
					t.Errorf("got %d subtasks, want %d", len(got.Subtasks), tt.wantSubtasks)
				}
				return nil
			})
			if err != nil {
				t.Fatalf("GetTask() error = %v", err)
			}
		})
	}
}

func TestMarkTaskDeletedHidesTask(t *testing.T) {
	database := createTestDB(t)
	ctx := context.Background()

	kept := seedTask(t, database, "kept")
	gone := seedTask(t, database, "gone")

	err := database.Update(ctx, func(tx *Tx) error {
		return tx.MarkTaskDeleted(ctx, gone.ID, testNow)
	})
	if err != nil {
		t.Fatalf("MarkTaskDeleted() error = %v", err)
	}

	err = database.View(ctx, func(tx *Tx) error {
		if _, err := tx.GetTask(ctx, gone.ID, false); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetTask(deleted) error = %v, want ErrNotFound", err)
		}
		got, err := tx.GetTask(ctx, gone.ID, true)
		if err != nil {
			t.Fatalf("GetTask(includeDeleted) error = %v", err)
		}
		if got.DeletedAt == nil || !got.DeletedAt.Equal(testNow) {
			t.Errorf("DeletedAt = %v, want %v", got.DeletedAt, testNow)
		}

		active, err := tx.ListTasks(ctx, TaskFilter{})
		if err != nil {
			return err
		}
		if len(active) != 1 || active[0].ID != kept.ID {
			t.Errorf("ListTasks() = %+v, want only task %d", active, kept.ID)
		}

		all, err := tx.ListTasks(ctx, TaskFilter{IncludeDeleted: true})
		if err != nil {
			return err
		}
		if len(all) != 2 {
			t.Errorf("ListTasks(includeDeleted) returned %d tasks, want 2", len(all))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}

	// A second delete finds no active row
	err = database.Update(ctx, func(tx *Tx) error {
		return tx.MarkTaskDeleted(ctx, gone.ID, testNow)
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("second MarkTaskDeleted() error = %v, want ErrNotFound", err)
	}
}

func TestListTasksFilters(t *testing.T) {
	database := createTestDB(t)
	ctx := context.Background()

	var work *models.Project
	err := database.Update(ctx, func(tx *Tx) error {
		var err error
		work, err = tx.CreateProject(ctx, "Work", "#3498db", testNow)
		if err != nil {
			return err
		}
		for _, task := range []models.Task{
			{Name: "a", Status: models.StatusBacklog, ProjectID: &work.ID, CreatedAt: testNow},
			{Name: "b", Status: models.StatusDoing, ProjectID: &work.ID, CreatedAt: testNow.Add(time.Second)},
			{Name: "c", Status: models.StatusDoing, CreatedAt: testNow.Add(2 * time.Second)},
		} {
			if _, err := tx.CreateTask(ctx, &task); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed error = %v", err)
	}

	doing := models.StatusDoing
	tests := []struct {
		name      string
		filter    TaskFilter
		wantNames []string
	}{
		{
			name:      "Given three tasks When listing without filter Then returns all oldest first",
			filter:    TaskFilter{},
			wantNames: []string{"a", "b", "c"},
		},
		{
			name:      "Given three tasks When filtering by project Then returns only project tasks",
			filter:    TaskFilter{ProjectID: &work.ID},
			wantNames: []string{"a", "b"},
		},
		{
			name:      "Given three tasks When filtering by status Then returns only matching status",
			filter:    TaskFilter{Status: &doing},
			wantNames: []string{"b", "c"},
		},
		{
			name:      "Given three tasks When filtering by project and status Then both apply",
			filter:    TaskFilter{ProjectID: &work.ID, Status: &doing},
			wantNames: []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := database.View(ctx, func(tx *Tx) error {
				tasks, err := tx.ListTasks(ctx, tt.filter)
				if err != nil {
					return err
				}
				var names []string
				for _, task := range tasks {
					names = append(names, task.Name)
				}
				if len(names) != len(tt.wantNames) {
					t.Fatalf("got %v, want %v", names, tt.wantNames)
				}
				for i := range names {
					if names[i] != tt.wantNames[i] {
						t.Errorf("got %v, want %v", names, tt.wantNames)
						break
					}
				}
				return nil
			})
			if err != nil {
				t.Fatalf("ListTasks() error = %v", err)
			}
		})
	}
}

func TestMaxActivePosition(t *testing.T) {
	database := createTestDB(t)
	ctx := context.Background()

	empty := seedTask(t, database, "empty")
	task := seedTask(t, database, "full", 1, 2, 3)

	err := database.Update(ctx, func(tx *Tx) error {
		got, err := tx.MaxActivePosition(ctx, empty.ID)
		if err != nil {
			return err
		}
		if got != 0 {
			t.Errorf("MaxActivePosition(no subtasks) = %d, want 0", got)
		}

		subtasks, err := tx.ListSubtasks(ctx, task.ID, false)
		if err != nil {
			return err
		}
		// Delete the highest one; it no longer counts
		if err := tx.MarkSubtaskDeleted(ctx, task.ID, subtasks[2].ID, testNow); err != nil {
			return err
		}
		got, err = tx.MaxActivePosition(ctx, task.ID)
		if err != nil {
			return err
		}
		if got != 2 {
			t.Errorf("MaxActivePosition() = %d, want 2", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
}

func TestListSubtasksOrdersByPositionThenInsertion(t *testing.T) {
	database := createTestDB(t)
	ctx := context.Background()

	task := seedTask(t, database, "ordering", 3, 1, 3, 2)

	err := database.View(ctx, func(tx *Tx) error {
		subtasks, err := tx.ListSubtasks(ctx, task.ID, false)
		if err != nil {
			return err
		}
		wantPositions := []int{1, 2, 3, 3}
		for i, s := range subtasks {
			if s.Position != wantPositions[i] {
				t.Errorf("subtask %d position = %d, want %d", i, s.Position, wantPositions[i])
			}
		}
		if subtasks[2].ID > subtasks[3].ID {
			t.Errorf("equal positions out of insertion order: %d before %d", subtasks[2].ID, subtasks[3].ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestMarkSubtasksDeletedKeepsEarlierTimestamps(t *testing.T) {
	database := createTestDB(t)
	ctx := context.Background()

	task := seedTask(t, database, "cascade", 1, 2, 3)
	earlier := testNow.Add(time.Minute)
	later := testNow.Add(time.Hour)

	err := database.Update(ctx, func(tx *Tx) error {
		subtasks, err := tx.ListSubtasks(ctx, task.ID, false)
		if err != nil {
			return err
		}
		if err := tx.MarkSubtaskDeleted(ctx, task.ID, subtasks[0].ID, earlier); err != nil {
			return err
		}
		n, err := tx.MarkSubtasksDeleted(ctx, task.ID, later)
		if err != nil {
			return err
		}
		if n != 2 {
			t.Errorf("MarkSubtasksDeleted() changed %d rows, want 2", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	err = database.View(ctx, func(tx *Tx) error {
		subtasks, err := tx.ListSubtasks(ctx, task.ID, true)
		if err != nil {
			return err
		}
		want := []time.Time{earlier, later, later}
		for i, s := range subtasks {
			if s.DeletedAt == nil || !s.DeletedAt.Equal(want[i]) {
				t.Errorf("subtask %d DeletedAt = %v, want %v", i, s.DeletedAt, want[i])
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestPurgeTaskRemovesSubtasks(t *testing.T) {
	database := createTestDB(t)
	ctx := context.Background()

	task := seedTask(t, database, "purge", 1, 2)

	err := database.Update(ctx, func(tx *Tx) error {
		return tx.PurgeTask(ctx, task.ID)
	})
	if err != nil {
		t.Fatalf("PurgeTask() error = %v", err)
	}

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM subtasks WHERE task_id = ?", task.ID).Scan(&count); err != nil {
		t.Fatalf("count subtasks: %v", err)
	}
	if count != 0 {
		t.Errorf("got %d subtasks after purge, want 0", count)
	}
}

func TestDeleteProject(t *testing.T) {
	database := createTestDB(t)
	ctx := context.Background()

	var project *models.Project
	var taskID int64
	err := database.Update(ctx, func(tx *Tx) error {
		var err error
		project, err = tx.CreateProject(ctx, "Home", "#e74c3c", testNow)
		if err != nil {
			return err
		}
		task, err := tx.CreateTask(ctx, &models.Task{Name: "paint", Status: models.StatusBacklog, ProjectID: &project.ID, CreatedAt: testNow})
		if err != nil {
			return err
		}
		taskID = task.ID
		_, err = tx.CreateSubtask(ctx, task.ID, "buy paint", 1, testNow)
		return err
	})
	if err != nil {
		t.Fatalf("seed error = %v", err)
	}

	err = database.Update(ctx, func(tx *Tx) error {
		return tx.DeleteProject(ctx, project.ID)
	})
	if err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}

	for table, query := range map[string]string{
		"projects": "SELECT COUNT(*) FROM projects",
		"tasks":    "SELECT COUNT(*) FROM tasks",
		"subtasks": "SELECT COUNT(*) FROM subtasks WHERE task_id = ?",
	} {
		var count int
		args := []any{}
		if table == "subtasks" {
			args = append(args, taskID)
		}
		if err := database.QueryRow(query, args...).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("got %d rows in %s, want 0", count, table)
		}
	}

	err = database.Update(ctx, func(tx *Tx) error {
		return tx.DeleteProject(ctx, project.ID)
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteProject() error = %v, want ErrNotFound", err)
	}
}

func TestSettings(t *testing.T) {
	database := createTestDB(t)

	got, err := database.GetSetting("missing")
	if err != nil || got != "" {
		t.Fatalf("GetSetting(missing) = %q, %v; want empty, nil", got, err)
	}

	if err := database.SetSetting("last_project_id", "4"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if err := database.SetSetting("last_project_id", "7"); err != nil {
		t.Fatalf("SetSetting() overwrite error = %v", err)
	}
	got, err = database.GetSetting("last_project_id")
	if err != nil || got != "7" {
		t.Errorf("GetSetting() = %q, %v; want \"7\", nil", got, err)
	}
}
