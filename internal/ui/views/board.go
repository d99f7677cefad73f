package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

type boardMode int

const (
	modeBoard boardMode = iota
	modeCreating
	modeConfirmDelete
	modeDetail
	modeAddingSubtask
)

// BackToProjects signals to go back to project list
type BackToProjects struct{}

// tasksLoadedMsg replaces the board's tasks. A non-zero focus moves the
// cursor onto that task wherever it landed.
type tasksLoadedMsg struct {
	tasks []models.Task
	focus int64
}

// BoardView is the Kanban board of one project
type BoardView struct {
	svc     *board.Service
	project models.Project
	styles  *styles.Styles
	keys    keys.KeyMap
	help    help.Model

	width  int
	height int

	columns [3][]models.Task
	col     int
	cursor  [3]int
	loaded  bool
	err     error
	mode    boardMode

	// New task form
	newName  textinput.Model
	newDesc  textarea.Model
	focusIdx int // 0=name, 1=description, 2=save

	// Detail pane
	detailID   int64
	subCursor  int
	newSubtask textinput.Model
	desc       renderedDescription
}

type renderedDescription struct {
	taskID int64
	source string
	width  int
	text   string
}

// NewBoardView creates the board for a project
func NewBoardView(svc *board.Service, project models.Project) *BoardView {
	newName := textinput.New()
	newName.Placeholder = "Task name"
	newName.CharLimit = board.MaxTaskNameLength

	newDesc := textarea.New()
	newDesc.Placeholder = "Description (markdown)"
	newDesc.CharLimit = board.MaxDescriptionLength
	newDesc.SetWidth(50)
	newDesc.SetHeight(4)
	newDesc.ShowLineNumbers = false

	newSubtask := textinput.New()
	newSubtask.Placeholder = "Subtask name"
	newSubtask.CharLimit = board.MaxSubtaskNameLength

	s := styles.NewStyles()
	return &BoardView{
		svc:        svc,
		project:    project,
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		help:       s.NewHelp(),
		newName:    newName,
		newDesc:    newDesc,
		newSubtask: newSubtask,
	}
}

// Init loads the project's tasks
func (v *BoardView) Init() tea.Cmd {
	return v.loadTasks
}

func (v *BoardView) loadTasks() tea.Msg {
	return v.reload(0)
}

func (v *BoardView) reload(focus int64) tea.Msg {
	projectID := v.project.ID
	tasks, err := v.svc.ListTasks(context.Background(), board.ListTasksOptions{ProjectID: &projectID})
	if err != nil {
		return errMsg{err}
	}
	return tasksLoadedMsg{tasks: tasks, focus: focus}
}

// mutate runs fn and reloads the board, keeping the cursor on focus
func (v *BoardView) mutate(focus int64, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return errMsg{err}
		}
		return v.reload(focus)
	}
}

func columnIndex(s models.Status) int {
	for i, status := range models.Statuses() {
		if status == s {
			return i
		}
	}
	return 0
}

func (v *BoardView) setTasks(tasks []models.Task, focus int64) {
	var columns [3][]models.Task
	for _, t := range tasks {
		i := columnIndex(t.Status)
		columns[i] = append(columns[i], t)
	}
	v.columns = columns
	v.loaded = true

	for i := range v.cursor {
		v.cursor[i] = clamp(v.cursor[i], 0, max(len(v.columns[i])-1, 0))
	}

	if focus != 0 {
		for c, column := range v.columns {
			for i, t := range column {
				if t.ID == focus {
					v.col = c
					v.cursor[c] = i
				}
			}
		}
	}

	if (v.mode == modeDetail || v.mode == modeAddingSubtask) && v.detailTask() == nil {
		v.mode = modeBoard
	}
	if t := v.detailTask(); t != nil {
		v.subCursor = clamp(v.subCursor, 0, max(len(t.Subtasks)-1, 0))
	}
}

// selected returns the task under the cursor, if any
func (v *BoardView) selected() *models.Task {
	column := v.columns[v.col]
	if len(column) == 0 {
		return nil
	}
	return &column[v.cursor[v.col]]
}

func (v *BoardView) detailTask() *models.Task {
	if v.detailID == 0 {
		return nil
	}
	for c := range v.columns {
		for i := range v.columns[c] {
			if v.columns[c][i].ID == v.detailID {
				return &v.columns[c][i]
			}
		}
	}
	return nil
}

// Update handles messages
func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.newDesc.SetWidth(clamp(contentWidth-10, 20, 60))
		v.help.Width = contentWidth
		return v, nil

	case tasksLoadedMsg:
		v.setTasks(msg.tasks, msg.focus)
		return v, nil

	case errMsg:
		v.err = msg.err
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case modeCreating:
			return v.updateCreating(msg)
		case modeConfirmDelete:
			return v.updateConfirmDelete(msg)
		case modeDetail:
			return v.updateDetail(msg)
		case modeAddingSubtask:
			return v.updateAddingSubtask(msg)
		}
		return v.updateBoard(msg)
	}

	return v, nil
}

func (v *BoardView) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.err = nil

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Help):
		v.help.ShowAll = !v.help.ShowAll
		return v, nil

	case key.Matches(msg, v.keys.Left):
		v.col = clamp(v.col-1, 0, 2)
		return v, nil

	case key.Matches(msg, v.keys.Right):
		v.col = clamp(v.col+1, 0, 2)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor[v.col] > 0 {
			v.cursor[v.col]--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor[v.col] < len(v.columns[v.col])-1 {
			v.cursor[v.col]++
		}
		return v, nil

	case key.Matches(msg, v.keys.MoveLeft):
		return v, v.moveSelected(models.Status.Prev)

	case key.Matches(msg, v.keys.MoveRight):
		return v, v.moveSelected(models.Status.Next)

	case key.Matches(msg, v.keys.Toggle):
		t := v.selected()
		if t == nil {
			return v, nil
		}
		id := t.ID
		return v, v.mutate(id, func(ctx context.Context) error {
			_, err := v.svc.ToggleTask(ctx, id)
			return err
		})

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if v.selected() != nil {
			v.mode = modeConfirmDelete
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if t := v.selected(); t != nil {
			v.mode = modeDetail
			v.detailID = t.ID
			v.subCursor = 0
		}
		return v, nil
	}

	return v, nil
}

// moveSelected patches the selected task's status to step(status)
func (v *BoardView) moveSelected(step func(models.Status) models.Status) tea.Cmd {
	t := v.selected()
	if t == nil {
		return nil
	}
	next := step(t.Status)
	if next == t.Status {
		return nil
	}
	id := t.ID
	return v.mutate(id, func(ctx context.Context) error {
		_, err := v.svc.PatchTaskStatus(ctx, id, next)
		return err
	})
}

func (v *BoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = modeBoard
		t := v.selected()
		if t == nil {
			return v, nil
		}
		id := t.ID
		return v, v.mutate(0, func(ctx context.Context) error {
			return v.svc.DeleteTask(ctx, id)
		})
	case "n", "N", "esc":
		v.mode = modeBoard
	}
	return v, nil
}

func (v *BoardView) startNewTask() {
	v.mode = modeCreating
	v.err = nil
	v.focusIdx = 0
	v.newName.Reset()
	v.newDesc.Reset()
	v.updateCreateFocus()
}

func (v *BoardView) updateCreateFocus() {
	v.newName.Blur()
	v.newDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDesc.Focus()
	}
}

func (v *BoardView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeBoard
		v.err = nil
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.createTask()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateCreateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateCreateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		// Enter inside the description is a newline
		switch v.focusIdx {
		case 0:
			v.focusIdx = 1
			v.updateCreateFocus()
			return v, nil
		case 2:
			return v, v.createTask()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

// createTask adds a task to the focused column. Validation failures keep the
// form open.
func (v *BoardView) createTask() tea.Cmd {
	status := models.Statuses()[v.col]
	projectID := v.project.ID
	in := board.CreateTaskInput{
		Name:      strings.TrimSpace(v.newName.Value()),
		ProjectID: &projectID,
		Status:    &status,
	}
	if desc := strings.TrimSpace(v.newDesc.Value()); desc != "" {
		in.Description = &desc
	}

	t, err := v.svc.CreateTask(context.Background(), in)
	if err != nil {
		v.err = err
		return nil
	}
	v.mode = modeBoard
	v.err = nil
	id := t.ID
	return func() tea.Msg { return v.reload(id) }
}

func (v *BoardView) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := v.detailTask()
	if t == nil {
		v.mode = modeBoard
		return v, nil
	}
	v.err = nil
	taskID := t.ID

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		v.mode = modeBoard
		v.detailID = 0
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.subCursor > 0 {
			v.subCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.subCursor < len(t.Subtasks)-1 {
			v.subCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if len(t.Subtasks) == 0 {
			return v, nil
		}
		subtaskID := t.Subtasks[v.subCursor].ID
		return v, v.mutate(taskID, func(ctx context.Context) error {
			_, err := v.svc.ToggleSubtask(ctx, taskID, subtaskID)
			return err
		})

	case key.Matches(msg, v.keys.DeleteSubtask):
		if len(t.Subtasks) == 0 {
			return v, nil
		}
		subtaskID := t.Subtasks[v.subCursor].ID
		return v, v.mutate(taskID, func(ctx context.Context) error {
			return v.svc.DeleteSubtask(ctx, taskID, subtaskID)
		})

	case key.Matches(msg, v.keys.AddSubtask):
		v.mode = modeAddingSubtask
		v.newSubtask.Reset()
		v.newSubtask.Focus()
		return v, textinput.Blink
	}

	return v, nil
}

func (v *BoardView) updateAddingSubtask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeDetail
		v.newSubtask.Blur()
		v.err = nil
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		taskID := v.detailID
		_, err := v.svc.CreateSubtask(context.Background(), taskID, board.CreateSubtaskInput{
			Name: strings.TrimSpace(v.newSubtask.Value()),
		})
		if err != nil {
			v.err = err
			return v, nil
		}
		v.err = nil
		v.mode = modeDetail
		v.newSubtask.Blur()
		return v, func() tea.Msg { return v.reload(taskID) }
	}

	var cmd tea.Cmd
	v.newSubtask, cmd = v.newSubtask.Update(msg)
	return v, cmd
}

// View renders the view
func (v *BoardView) View() string {
	switch v.mode {
	case modeCreating:
		return v.renderCreateForm()
	case modeConfirmDelete:
		return v.renderDeleteConfirm()
	case modeDetail, modeAddingSubtask:
		return v.renderDetail()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderColumns())
	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString(v.styles.Help.Render(v.help.View(keys.BoardHelp{KeyMap: v.keys})))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *BoardView) renderHeader() string {
	s := v.styles
	return lipgloss.JoinHorizontal(lipgloss.Center,
		styles.Swatch(v.project.Color), " ",
		s.Title.Render(v.project.Name), "  ",
		s.TitleMuted.Render("esc: projects"),
	)
}

func (v *BoardView) renderStatus() string {
	if v.err == nil {
		return ""
	}
	return v.styles.Error.Render(v.err.Error()) + "\n"
}

// columnWidth is the inner width of one column
func (v *BoardView) columnWidth() int {
	contentWidth := styles.ContentWidth(v.width)
	// Each column spends 2 on its border and 2 on padding
	return max(contentWidth/3-4, 12)
}

func (v *BoardView) renderColumns() string {
	width := v.columnWidth()
	visible := max(v.height-10, 3)

	rendered := make([]string, 0, 3)
	for c, status := range models.Statuses() {
		style := v.styles.Column
		if c == v.col {
			style = v.styles.ColumnFocused
		}

		header := lipgloss.NewStyle().
			Foreground(styles.StatusColor(status)).
			Bold(true).
			Render(fmt.Sprintf("%s (%d)", strings.ToUpper(string(status)), len(v.columns[c])))

		lines := []string{header, ""}
		column := v.columns[c]
		if len(column) == 0 {
			lines = append(lines, v.styles.TitleMuted.Render("empty"))
		}

		start := 0
		if v.cursor[c] >= visible {
			start = v.cursor[c] - visible + 1
		}
		end := min(start+visible, len(column))
		for i := start; i < end; i++ {
			lines = append(lines, v.renderCard(column[i], width, c == v.col && i == v.cursor[c]))
		}

		rendered = append(rendered, style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// cardLabel is the one-line text of a card, cut to width
func cardLabel(t models.Task, width int) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	progress := ""
	if active := board.ActiveSubtasks(t.Subtasks); len(active) > 0 {
		done := 0
		for _, s := range active {
			if s.Completed {
				done++
			}
		}
		progress = fmt.Sprintf(" %d/%d", done, len(active))
	}
	nameWidth := max(width-len(check)-1-len(progress), 1)
	return check + " " + truncate.StringWithTail(t.Name, uint(nameWidth), "…") + progress
}

func (v *BoardView) renderCard(t models.Task, width int, selected bool) string {
	style := v.styles.Card
	switch {
	case selected:
		style = v.styles.CardSelected
	case t.Completed:
		style = v.styles.CardDone
	}
	return style.Width(width).Render(cardLabel(t, width))
}

func (v *BoardView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 60)
	status := models.Statuses()[v.col]

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Task"),
		s.TitleMuted.Render("in "+string(status)),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Description:",
		descStyle.Render(v.newDesc.View()),
		"",
		btnStyle.Render(" Create "),
		"",
		v.renderStatus(),
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	name := ""
	if t := v.selected(); t != nil {
		name = t.Name
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q and its subtasks will be deleted.", name)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

// renderDescription renders the markdown description, reusing the last
// result while the text and width are unchanged.
func (v *BoardView) renderDescription(t *models.Task, width int) string {
	if t.Description == nil || strings.TrimSpace(*t.Description) == "" {
		return v.styles.TitleMuted.Render("No description")
	}
	source := *t.Description
	if v.desc.taskID == t.ID && v.desc.source == source && v.desc.width == width {
		return v.desc.text
	}

	text := source
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if out, err := r.Render(source); err == nil {
			text = strings.Trim(out, "\n")
		}
	}

	v.desc = renderedDescription{taskID: t.ID, source: source, width: width, text: text}
	return text
}

func (v *BoardView) renderDetail() string {
	t := v.detailTask()
	if t == nil {
		return ""
	}

	s := v.styles
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 80)

	state := lipgloss.NewStyle().Foreground(styles.StatusColor(t.Status)).Render(string(t.Status))
	if t.Completed {
		state += s.TitleMuted.Render("  completed")
		if t.CompletedAt != nil {
			state += s.TitleMuted.Render(" " + t.CompletedAt.Local().Format("Jan 2, 2006 3:04 PM"))
		}
	}

	var subtasks []string
	if len(t.Subtasks) == 0 {
		subtasks = append(subtasks, s.TitleMuted.Render("No subtasks"))
	}
	for i, st := range t.Subtasks {
		check := "[ ]"
		if st.Completed {
			check = "[x]"
		}
		line := check + " " + truncate.StringWithTail(st.Name, uint(max(textWidth-4, 1)), "…")
		style := s.ListItem
		if i == v.subCursor && v.mode == modeDetail {
			style = s.ListSelected
		}
		subtasks = append(subtasks, style.Render(line))
	}

	parts := []string{
		s.Title.Render(t.Name),
		state,
		"",
		s.TitleMuted.Render("Description"),
		v.renderDescription(t, textWidth),
		"",
		s.TitleMuted.Render("Subtasks"),
		lipgloss.JoinVertical(lipgloss.Left, subtasks...),
	}
	if v.mode == modeAddingSubtask {
		parts = append(parts, "", s.InputFocused.Width(clamp(textWidth, 20, 50)).Render(v.newSubtask.View()))
	}
	parts = append(parts, "", v.renderStatus()+s.Help.Render(v.help.View(keys.DetailHelp{KeyMap: v.keys})))

	padded := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return styles.CenterView(padded, v.width, v.height)
}
