// Package ui is the terminal Kanban board.
package ui

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/ui/views"
)

const lastProjectSetting = "last_project_id"

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewBoard
)

// App switches between the project picker and a project's board
type App struct {
	db          *db.DB
	svc         *board.Service
	currentView View
	projectList *views.ProjectListView
	board       *views.BoardView
	width       int
	height      int
}

// NewApp creates a new application. The database is used directly only for
// UI settings; all task data goes through svc.
func NewApp(database *db.DB, svc *board.Service) *App {
	return &App{
		db:          database,
		svc:         svc,
		currentView: ViewProjects,
		projectList: views.NewProjectListView(svc),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the last project if it still exists
	if project, ok := a.lastProject(); ok {
		return a.openProject(project)
	}
	return a.projectList.Init()
}

func (a *App) lastProject() (models.Project, bool) {
	raw, err := a.db.GetSetting(lastProjectSetting)
	if err != nil || raw == "" {
		return models.Project{}, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return models.Project{}, false
	}
	project, err := a.svc.GetProject(context.Background(), id)
	if err != nil {
		return models.Project{}, false
	}
	return *project, true
}

func (a *App) openProject(project models.Project) tea.Cmd {
	a.currentView = ViewBoard
	a.board = views.NewBoardView(a.svc, project)

	// Errors here only lose the remembered project
	_ = a.db.SetSetting(lastProjectSetting, strconv.FormatInt(project.ID, 10))

	return tea.Batch(
		a.board.Init(),
		a.resize,
	)
}

func (a *App) resize() tea.Msg {
	return tea.WindowSizeMsg{Width: a.width, Height: a.height}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The project list persists behind the board
		a.projectList.Update(msg)

	case views.SelectedProject:
		return a, a.openProject(msg.Project)

	case views.BackToProjects:
		a.currentView = ViewProjects
		_ = a.db.SetSetting(lastProjectSetting, "")
		return a, tea.Batch(
			a.projectList.Init(),
			a.resize,
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewBoard:
		_, cmd = a.board.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	if a.currentView == ViewBoard && a.board != nil {
		return a.board.View()
	}
	return a.projectList.View()
}
