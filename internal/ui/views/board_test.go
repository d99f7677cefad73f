package views

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/models"
)

func newTestBoard(t *testing.T) (*BoardView, *board.Service, models.Project) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "ui.db"))
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	svc := board.NewService(database)
	project, err := svc.CreateProject(context.Background(), board.ProjectInput{Name: "Home", Color: "#3498db"})
	if err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}
	return NewBoardView(svc, *project), svc, *project
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds any resulting reload back into the view
func press(t *testing.T, v *BoardView, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := v.Update(msg)
	settle(t, v, cmd)
}

func settle(t *testing.T, v *BoardView, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tasksLoadedMsg:
		v.Update(msg)
	case errMsg:
		t.Fatalf("command failed: %v", msg.err)
	}
}

func typeText(v *BoardView, s string) {
	for _, r := range s {
		v.Update(runes(string(r)))
	}
}

func columnNames(v *BoardView, col int) []string {
	var names []string
	for _, task := range v.columns[col] {
		names = append(names, task.Name)
	}
	return names
}

func TestBoardMovesAndTogglesCards(t *testing.T) {
	v, svc, project := newTestBoard(t)
	if _, err := svc.CreateTask(context.Background(), board.CreateTaskInput{Name: "alpha", ProjectID: &project.ID}); err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	settle(t, v, v.Init())
	if got := columnNames(v, 0); len(got) != 1 || got[0] != "alpha" {
		t.Fatalf("backlog = %v, want [alpha]", got)
	}

	press(t, v, runes("L"))
	if got := columnNames(v, 1); len(got) != 1 {
		t.Fatalf("doing = %v, want alpha moved there", got)
	}
	if v.col != 1 {
		t.Errorf("cursor column = %d, want it to follow the card", v.col)
	}

	press(t, v, runes(" "))
	done := v.columns[2]
	if len(done) != 1 || !done[0].Completed {
		t.Fatalf("done column = %+v, want alpha completed", done)
	}

	// Moving out of done clears completion
	press(t, v, runes("H"))
	if len(v.columns[1]) != 1 || v.columns[1][0].Completed {
		t.Errorf("doing column = %+v, want alpha incomplete", v.columns[1])
	}
}

func TestBoardCreatesTaskInFocusedColumn(t *testing.T) {
	v, svc, project := newTestBoard(t)
	settle(t, v, v.Init())

	press(t, v, runes("l"))
	press(t, v, runes("n"))
	if v.mode != modeCreating {
		t.Fatalf("mode = %v, want creating", v.mode)
	}
	typeText(v, "beta")
	press(t, v, tea.KeyMsg{Type: tea.KeyCtrlS})

	if v.mode != modeBoard {
		t.Fatalf("mode = %v, want board after saving (err %v)", v.mode, v.err)
	}
	tasks, err := svc.ListTasks(context.Background(), board.ListTasksOptions{ProjectID: &project.ID})
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Name != "beta" || tasks[0].Status != models.StatusDoing {
		t.Errorf("tasks = %+v, want beta in doing", tasks)
	}
}

func TestBoardRejectsEmptyTaskName(t *testing.T) {
	v, _, _ := newTestBoard(t)
	settle(t, v, v.Init())

	press(t, v, runes("n"))
	press(t, v, tea.KeyMsg{Type: tea.KeyCtrlS})

	if v.mode != modeCreating || v.err == nil {
		t.Errorf("mode = %v err = %v, want the form kept open with an error", v.mode, v.err)
	}
}

func TestBoardDetailSubtasks(t *testing.T) {
	v, svc, project := newTestBoard(t)
	if _, err := svc.CreateTask(context.Background(), board.CreateTaskInput{Name: "gamma", ProjectID: &project.ID}); err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	settle(t, v, v.Init())

	press(t, v, tea.KeyMsg{Type: tea.KeyEnter})
	if v.mode != modeDetail {
		t.Fatalf("mode = %v, want detail", v.mode)
	}

	press(t, v, runes("a"))
	typeText(v, "check")
	press(t, v, tea.KeyMsg{Type: tea.KeyEnter})
	if task := v.detailTask(); task == nil || len(task.Subtasks) != 1 {
		t.Fatalf("detail task = %+v, want one subtask", task)
	}

	// Completing the only subtask completes the card
	press(t, v, runes(" "))
	if task := v.detailTask(); task == nil || task.Status != models.StatusDone {
		t.Fatalf("detail task = %+v, want done", task)
	}
	if len(v.columns[2]) != 1 {
		t.Errorf("done column = %v, want gamma", columnNames(v, 2))
	}

	press(t, v, runes("x"))
	if task := v.detailTask(); task == nil || len(task.Subtasks) != 0 {
		t.Errorf("detail task = %+v, want the subtask removed", task)
	}
}

func TestBoardDeleteNeedsConfirmation(t *testing.T) {
	v, svc, project := newTestBoard(t)
	if _, err := svc.CreateTask(context.Background(), board.CreateTaskInput{Name: "delta", ProjectID: &project.ID}); err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	settle(t, v, v.Init())

	press(t, v, runes("d"))
	press(t, v, runes("n"))
	if len(v.columns[0]) != 1 {
		t.Fatal("task deleted without confirmation")
	}

	press(t, v, runes("d"))
	press(t, v, runes("y"))
	if len(v.columns[0]) != 0 {
		t.Errorf("backlog = %v, want empty after delete", columnNames(v, 0))
	}
}

func TestCardLabel(t *testing.T) {
	task := models.Task{
		Name:      "A fairly long task name that will not fit",
		Completed: false,
		Subtasks: []models.Subtask{
			{Completed: true},
			{},
		},
	}

	got := cardLabel(task, 20)
	if !strings.HasPrefix(got, "[ ] ") || !strings.HasSuffix(got, " 1/2") {
		t.Errorf("cardLabel() = %q", got)
	}
	if !strings.Contains(got, "…") {
		t.Errorf("cardLabel() = %q, want the name truncated", got)
	}
}
