package views

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/db"
)

func newTestPicker(t *testing.T) (*ProjectListView, *board.Service) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "picker.db"))
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	svc := board.NewService(database)
	v := NewProjectListView(svc)
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return v, svc
}

// pick sends a key and returns whatever message its command produced
func pick(v *ProjectListView, msg tea.KeyMsg) tea.Msg {
	_, cmd := v.Update(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	if loaded, ok := out.(projectsLoadedMsg); ok {
		v.Update(loaded)
	}
	return out
}

func typeInto(v *ProjectListView, s string) {
	for _, r := range s {
		v.Update(runes(string(r)))
	}
}

func TestPickerCreatesAndOpensProject(t *testing.T) {
	v, svc := newTestPicker(t)
	v.Update(v.Init()())

	pick(v, runes("n"))
	if v.mode != pickerForm {
		t.Fatalf("mode = %v, want form", v.mode)
	}
	typeInto(v, "Garden")

	msg := pick(v, tea.KeyMsg{Type: tea.KeyCtrlS})
	selected, ok := msg.(SelectedProject)
	if !ok {
		t.Fatalf("msg = %#v (err %v), want SelectedProject", msg, v.err)
	}
	if selected.Project.Name != "Garden" || selected.Project.Color != defaultProjectColor {
		t.Errorf("project = %+v, want Garden with the default color", selected.Project)
	}

	projects, err := svc.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects() failed: %v", err)
	}
	if len(projects) != 1 {
		t.Errorf("projects = %+v, want one", projects)
	}
}

func TestPickerKeepsFormOnInvalidColor(t *testing.T) {
	v, _ := newTestPicker(t)
	v.Update(v.Init()())

	pick(v, runes("n"))
	typeInto(v, "Garden")
	pick(v, tea.KeyMsg{Type: tea.KeyTab})
	typeInto(v, "green")
	pick(v, tea.KeyMsg{Type: tea.KeyCtrlS})

	if v.mode != pickerForm || v.err == nil {
		t.Errorf("mode = %v err = %v, want the form kept open with an error", v.mode, v.err)
	}
}

func TestPickerEditsSelectedProject(t *testing.T) {
	v, svc := newTestPicker(t)
	ctx := context.Background()
	project, err := svc.CreateProject(ctx, board.ProjectInput{Name: "Home", Color: "#112233"})
	if err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}
	v.Update(v.Init()())

	pick(v, runes("e"))
	if v.mode != pickerForm || v.form.target == nil {
		t.Fatalf("mode = %v, want the edit form", v.mode)
	}
	if got := v.form.name.Value(); got != "Home" {
		t.Errorf("name input = %q, want it prefilled", got)
	}
	typeInto(v, " office")
	pick(v, tea.KeyMsg{Type: tea.KeyCtrlS})

	if v.mode != pickerBrowse {
		t.Fatalf("mode = %v (err %v), want browse after saving", v.mode, v.err)
	}
	got, err := svc.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject() failed: %v", err)
	}
	if got.Name != "Home office" || got.Color != "#112233" {
		t.Errorf("project = %+v, want renamed with the color kept", got)
	}
	if it, ok := v.list.SelectedItem().(projectItem); !ok || it.project.Name != "Home office" {
		t.Errorf("list selection = %+v, want the reloaded name", v.list.SelectedItem())
	}
}

func TestPickerDeleteNeedsConfirmation(t *testing.T) {
	v, svc := newTestPicker(t)
	ctx := context.Background()
	if _, err := svc.CreateProject(ctx, board.ProjectInput{Name: "Home", Color: "#112233"}); err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}
	v.Update(v.Init()())

	pick(v, runes("d"))
	pick(v, runes("n"))
	if len(v.list.Items()) != 1 {
		t.Fatal("project deleted without confirmation")
	}

	pick(v, runes("d"))
	pick(v, runes("y"))
	if len(v.list.Items()) != 0 {
		t.Errorf("items = %d, want none after delete", len(v.list.Items()))
	}
}
