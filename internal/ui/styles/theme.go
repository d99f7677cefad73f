package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskboard/internal/models"
)

// Palette is the set of colors every style is derived from
type Palette struct {
	Name string

	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color

	Backlog lipgloss.Color
	Doing   lipgloss.Color
	Done    lipgloss.Color
	Error   lipgloss.Color

	Frame      lipgloss.Color
	FrameFocus lipgloss.Color
	Highlight  lipgloss.Color
}

// TokyoNight is the default palette
var TokyoNight = Palette{
	Name: "Tokyo Night",

	Background: lipgloss.Color("#1a1b26"),
	Text:       lipgloss.Color("#c0caf5"),
	Muted:      lipgloss.Color("#565f89"),

	Backlog: lipgloss.Color("#7aa2f7"),
	Doing:   lipgloss.Color("#e0af68"),
	Done:    lipgloss.Color("#9ece6a"),
	Error:   lipgloss.Color("#f7768e"),

	Frame:      lipgloss.Color("#3b4261"),
	FrameFocus: lipgloss.Color("#7aa2f7"),
	Highlight:  lipgloss.Color("#33467c"),
}

// Current is the palette in use
var Current = TokyoNight

// MaxWidth caps the layout; three columns need more room than a single list.
const MaxWidth = 120

// ContentWidth clamps the terminal width to MaxWidth
func ContentWidth(terminalWidth int) int {
	return min(terminalWidth, MaxWidth)
}

// CenterView centers content horizontally on terminals wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Center, lipgloss.Top, content)
}

// StatusColor is the accent used for a board column
func StatusColor(s models.Status) lipgloss.Color {
	switch s {
	case models.StatusDoing:
		return Current.Doing
	case models.StatusDone:
		return Current.Done
	default:
		return Current.Backlog
	}
}

// Swatch renders a project color dot. Invalid colors fall back to muted.
func Swatch(color string) string {
	c := lipgloss.Color(color)
	if len(color) != 7 || color[0] != '#' {
		c = Current.Muted
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

// Styles are built once per view from the current palette
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	CardDone      lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Popup lipgloss.Style

	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	Error lipgloss.Style
}

func framed(border lipgloss.Color, padX int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, padX)
}

func highlighted(p Palette) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.FrameFocus).Background(p.Highlight).Bold(true)
}

// NewStyles derives every style from Current
func NewStyles() *Styles {
	p := Current
	text := lipgloss.NewStyle().Foreground(p.Text)
	muted := lipgloss.NewStyle().Foreground(p.Muted)

	return &Styles{
		Title:      lipgloss.NewStyle().Foreground(p.FrameFocus).Bold(true),
		TitleMuted: muted,

		ListItem:     text.Padding(0, 2),
		ListSelected: highlighted(p).Padding(0, 2),

		Column:        framed(p.Frame, 1),
		ColumnFocused: framed(p.FrameFocus, 1),
		Card:          text,
		CardSelected:  highlighted(p),
		CardDone:      muted.Strikethrough(true),

		Button:        framed(p.Frame, 2).Foreground(p.Text),
		ButtonFocused: framed(p.FrameFocus, 2).Foreground(p.FrameFocus).Bold(true),
		ButtonPrimary: lipgloss.NewStyle().Foreground(p.Background).Background(p.FrameFocus).Padding(0, 2).Bold(true),

		Input:        framed(p.Frame, 1).Foreground(p.Text),
		InputFocused: framed(p.FrameFocus, 1).Foreground(p.Text),

		Popup: framed(p.Frame, 1),

		Help:     muted.Padding(1, 2),
		HelpKey:  lipgloss.NewStyle().Foreground(p.FrameFocus).Bold(true),
		HelpDesc: muted,

		Error: lipgloss.NewStyle().Foreground(p.Error).Padding(0, 1),
	}
}

// NewHelp returns a help bar drawn in the palette's key and description colors
func (s *Styles) NewHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = s.HelpKey
	h.Styles.ShortDesc = s.HelpDesc
	h.Styles.FullKey = s.HelpKey
	h.Styles.FullDesc = s.HelpDesc
	return h
}
