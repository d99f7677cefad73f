package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

const defaultProjectColor = "#3498db"

// SelectedProject asks the app to open a project's board
type SelectedProject struct {
	Project models.Project
}

type projectsLoadedMsg struct {
	projects []models.Project
}

// errMsg carries a failed operation back to the view that started it
type errMsg struct{ err error }

type projectItem struct {
	project models.Project
}

func (i projectItem) FilterValue() string { return i.project.Name }

// swatchDelegate draws one project per line behind its color dot
type swatchDelegate struct {
	styles *styles.Styles
	width  int
}

func (d *swatchDelegate) Height() int                         { return 1 }
func (d *swatchDelegate) Spacing() int                        { return 0 }
func (d *swatchDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d *swatchDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(projectItem)
	if !ok {
		return
	}
	style := d.styles.ListItem
	if index == m.Index() {
		style = d.styles.ListSelected
	}
	line := styles.Swatch(it.project.Color) + " " + it.project.Name
	fmt.Fprint(w, style.Width(max(d.width, 20)).Render(line))
}

type pickerMode int

const (
	pickerBrowse pickerMode = iota
	pickerForm
	pickerConfirmDelete
)

// projectForm edits the name and color of a new or existing project
type projectForm struct {
	target *models.Project // nil when creating
	name   textinput.Model
	color  textinput.Model
	field  int // 0=name, 1=color
}

func newProjectForm(target *models.Project) projectForm {
	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = board.MaxProjectNameLength

	color := textinput.New()
	color.Placeholder = defaultProjectColor
	color.CharLimit = len(defaultProjectColor)

	if target != nil {
		name.SetValue(target.Name)
		name.CursorEnd()
		color.SetValue(target.Color)
		color.CursorEnd()
	}
	f := projectForm{target: target, name: name, color: color}
	f.focus(0)
	return f
}

func (f *projectForm) focus(field int) {
	f.field = (field + 2) % 2
	if f.field == 0 {
		f.color.Blur()
		f.name.Focus()
	} else {
		f.name.Blur()
		f.color.Focus()
	}
}

func (f *projectForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.field == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.color, cmd = f.color.Update(msg)
	}
	return cmd
}

// values returns the trimmed inputs, defaulting an empty color
func (f *projectForm) values() (name, color string) {
	name = strings.TrimSpace(f.name.Value())
	color = strings.TrimSpace(f.color.Value())
	if color == "" {
		color = defaultProjectColor
	}
	return name, color
}

// ProjectListView picks a project and creates, renames or deletes projects
type ProjectListView struct {
	svc      *board.Service
	list     list.Model
	delegate *swatchDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	help     help.Model

	width  int
	height int
	loaded bool
	err    error

	mode   pickerMode
	form   projectForm
	doomed models.Project
}

// NewProjectListView creates the project picker
func NewProjectListView(svc *board.Service) *ProjectListView {
	s := styles.NewStyles()
	delegate := &swatchDelegate{styles: s, width: 40}

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Projects"
	l.Styles.Title = s.Title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return &ProjectListView{
		svc:      svc,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		help:     s.NewHelp(),
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

func (v *ProjectListView) loadProjects() tea.Msg {
	projects, err := v.svc.ListProjects(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return projectsLoadedMsg{projects: projects}
}

func (v *ProjectListView) selectedProject() (models.Project, bool) {
	it, ok := v.list.SelectedItem().(projectItem)
	return it.project, ok
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		w := styles.ContentWidth(msg.Width) - 4
		v.delegate.width = w
		v.list.SetSize(w, max(msg.Height-6, 3))
		v.help.Width = w
		return v, nil

	case projectsLoadedMsg:
		items := make([]list.Item, 0, len(msg.projects))
		for _, p := range msg.projects {
			items = append(items, projectItem{project: p})
		}
		v.loaded = true
		return v, v.list.SetItems(items)

	case errMsg:
		v.err = msg.err
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case pickerForm:
			return v.updateForm(msg)
		case pickerConfirmDelete:
			return v.updateConfirmDelete(msg)
		}
		if v.list.FilterState() != list.Filtering {
			if cmd, handled := v.handleBrowseKey(msg); handled {
				return v, cmd
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// handleBrowseKey reacts to picker shortcuts; unhandled keys go to the list
func (v *ProjectListView) handleBrowseKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	v.err = nil
	project, hasSelection := v.selectedProject()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, v.keys.Help):
		v.help.ShowAll = !v.help.ShowAll
		return nil, true
	case key.Matches(msg, v.keys.New):
		v.openForm(nil)
		return textinput.Blink, true
	case key.Matches(msg, v.keys.Edit) && hasSelection:
		v.openForm(&project)
		return textinput.Blink, true
	case key.Matches(msg, v.keys.Delete) && hasSelection:
		v.mode = pickerConfirmDelete
		v.doomed = project
		return nil, true
	case key.Matches(msg, v.keys.Enter) && hasSelection:
		return func() tea.Msg { return SelectedProject{Project: project} }, true
	}
	return nil, false
}

func (v *ProjectListView) openForm(target *models.Project) {
	v.mode = pickerForm
	v.err = nil
	v.form = newProjectForm(target)
}

func (v *ProjectListView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = pickerBrowse
		v.err = nil
		return v, nil
	case msg.String() == "shift+tab":
		v.form.focus(v.form.field - 1)
		return v, nil
	case key.Matches(msg, v.keys.Tab):
		v.form.focus(v.form.field + 1)
		return v, nil
	case key.Matches(msg, v.keys.Enter) && v.form.field == 0:
		v.form.focus(1)
		return v, nil
	case key.Matches(msg, v.keys.Save), key.Matches(msg, v.keys.Enter):
		return v, v.submitForm()
	}
	return v, v.form.update(msg)
}

// submitForm saves through the service. Validation errors keep the form
// open; a new project opens straight away, an edited one reloads the list.
func (v *ProjectListView) submitForm() tea.Cmd {
	name, color := v.form.values()
	ctx := context.Background()

	if v.form.target == nil {
		project, err := v.svc.CreateProject(ctx, board.ProjectInput{Name: name, Color: color})
		if err != nil {
			v.err = err
			return nil
		}
		v.mode = pickerBrowse
		return func() tea.Msg { return SelectedProject{Project: *project} }
	}

	_, err := v.svc.UpdateProject(ctx, v.form.target.ID, board.ProjectPatch{Name: &name, Color: &color})
	if err != nil {
		v.err = err
		return nil
	}
	v.mode = pickerBrowse
	return v.loadProjects
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		v.mode = pickerBrowse
		id := v.doomed.ID
		return v, func() tea.Msg {
			if err := v.svc.DeleteProject(context.Background(), id); err != nil {
				return errMsg{err}
			}
			return v.loadProjects()
		}
	case "n", "esc":
		v.mode = pickerBrowse
	}
	return v, nil
}

// View renders the view
func (v *ProjectListView) View() string {
	switch {
	case v.mode == pickerForm:
		return v.centered(v.renderForm())
	case v.mode == pickerConfirmDelete:
		return v.centered(v.renderDeleteConfirm())
	case !v.loaded:
		return v.styles.TitleMuted.Render("Loading...")
	case len(v.list.Items()) == 0:
		return v.centered(v.renderEmpty())
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		v.list.View(),
		v.renderError(),
		v.styles.Help.Render(v.help.View(keys.PickerHelp{KeyMap: v.keys})),
	)
	return styles.CenterView(body, v.width, v.height)
}

// centered places a dialog in the middle of the screen
func (v *ProjectListView) centered(content string) string {
	w := styles.ContentWidth(v.width)
	return styles.CenterView(lipgloss.Place(w, v.height, lipgloss.Center, lipgloss.Center, content), v.width, v.height)
}

func (v *ProjectListView) renderError() string {
	if v.err == nil {
		return ""
	}
	return v.styles.Error.Render(v.err.Error())
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	return lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No projects yet"),
		"",
		s.TitleMuted.Render("Tasks live in projects. Press n to start one."),
		"",
		s.ButtonPrimary.Render(" n  New project "),
		v.renderError(),
	)
}

func (v *ProjectListView) renderForm() string {
	s := v.styles
	name, color := v.form.values()

	nameBox, colorBox := s.Input, s.Input
	if v.form.field == 0 {
		nameBox = s.InputFocused
	} else {
		colorBox = s.InputFocused
	}

	heading := "New project"
	if v.form.target != nil {
		heading = "Edit " + v.form.target.Name
	}

	preview := styles.Swatch(color) + " " + name
	if name == "" {
		preview = styles.Swatch(color) + " " + s.TitleMuted.Render("untitled")
	}

	return s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(heading),
		"",
		"Name",
		nameBox.Width(clamp(styles.ContentWidth(v.width)-12, 20, 48)).Render(v.form.name.View()),
		"Color (#RRGGBB)",
		colorBox.Width(12).Render(v.form.color.View()),
		"",
		preview,
		v.renderError(),
		s.Help.Render(v.help.View(keys.FormHelp{KeyMap: v.keys})),
	))
}

func (v *ProjectListView) renderDeleteConfirm() string {
	s := v.styles
	return s.Popup.BorderForeground(styles.Current.Error).Render(lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete "+styles.Swatch(v.doomed.Color)+" "+v.doomed.Name+"?"),
		"",
		s.TitleMuted.Render("Its tasks and subtasks are removed for good."),
		"",
		s.ButtonPrimary.Render(" y  delete ")+"  "+s.Button.Render(" n  keep "),
	))
}
