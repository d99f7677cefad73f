// Package keys defines the key bindings shared by the terminal views.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding used by the views
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Move the selected card to the previous or next status
	MoveLeft  key.Binding
	MoveRight key.Binding

	Toggle key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Filter key.Binding
	Enter  key.Binding
	Back   key.Binding
	Tab    key.Binding
	Save   key.Binding
	Help   key.Binding
	Quit   key.Binding

	// Detail pane
	AddSubtask    key.Binding
	DeleteSubtask key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "column"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "move left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "move right"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		AddSubtask: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add subtask"),
		),
		DeleteSubtask: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete subtask"),
		),
	}
}

// BoardHelp lists the bindings shown under the board.
type BoardHelp struct{ KeyMap }

func (h BoardHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.Left, h.MoveRight, h.Toggle, h.Enter, h.New, h.Delete, h.Back, h.Help}
}

func (h BoardHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.Up, h.Down, h.Left, h.Right},
		{h.MoveLeft, h.MoveRight, h.Toggle},
		{h.Enter, h.New, h.Delete},
		{h.Back, h.Quit, h.Help},
	}
}

// DetailHelp lists the bindings shown in the task detail pane.
type DetailHelp struct{ KeyMap }

func (h DetailHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.Up, h.Down, h.Toggle, h.AddSubtask, h.DeleteSubtask, h.Back}
}

func (h DetailHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// PickerHelp lists the bindings of the project picker.
type PickerHelp struct{ KeyMap }

func (h PickerHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.Enter, h.New, h.Edit, h.Delete, h.Filter, h.Quit, h.Help}
}

func (h PickerHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.Up, h.Down, h.Filter},
		{h.Enter, h.New, h.Edit, h.Delete},
		{h.Quit, h.Help},
	}
}

// FormHelp lists the bindings of the create and edit forms.
type FormHelp struct{ KeyMap }

func (h FormHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.Tab, h.Save, h.Back}
}

func (h FormHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
