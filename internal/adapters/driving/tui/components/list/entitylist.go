// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/styles"
)

// Row is one entry of an EntityList.
type Row struct {
	// ID is the entity identifier, shown first.
	ID string
	// Title is the display name.
	Title string
	// Tag is a short classifier shown right-aligned, such as a kind.
	Tag string
	// TagStyle overrides the muted style of Tag when set.
	TagStyle *lipgloss.Style
	// Detail is an optional second line.
	Detail string
}

// EntityList displays rows of domain entities in a navigable list.
type EntityList struct {
	title    string
	rows     []Row
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewEntityList creates a new entity list component.
func NewEntityList(s *styles.Styles, title string) *EntityList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &EntityList{
		title:  title,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *EntityList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *EntityList) Update(msg tea.Msg) (*EntityList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.rows) > 0 {
				l.selected = len(l.rows) - 1
			}
		}
	}
	return l, nil
}

// View renders the list.
func (l *EntityList) View() string {
	header := l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.title, len(l.rows)))
	if len(l.rows) == 0 {
		return header + "\n\n" + l.styles.Muted.Render("  none")
	}

	lines := make([]string, 0, len(l.rows)+2)
	lines = append(lines, header, "")

	// Rows with a detail line take two lines.
	visible := (l.height - 2) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.rows) {
		end = len(l.rows)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i, &l.rows[i]))
	}
	if end < len(l.rows) {
		lines = append(lines, l.styles.Muted.Render(fmt.Sprintf("  ... %d more", len(l.rows)-end)))
	}
	return strings.Join(lines, "\n")
}

func (l *EntityList) renderRow(index int, row *Row) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	label := row.ID
	if row.Title != "" && row.Title != row.ID {
		label += "  " + row.Title
	}
	maxLen := l.width - len(row.Tag) - 6
	if maxLen < 10 {
		maxLen = 10
	}
	label = truncate(label, maxLen)

	var line string
	if index == l.selected {
		line = l.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, maxLen, label))
	} else {
		line = l.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, maxLen, label))
	}
	if row.Tag != "" {
		tagStyle := l.styles.Muted
		if row.TagStyle != nil {
			tagStyle = *row.TagStyle
		}
		line += "  " + tagStyle.Render(row.Tag)
	}

	if row.Detail != "" {
		line += "\n" + l.styles.Muted.Render("    "+truncate(row.Detail, l.width-6))
	}
	return line
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetRows replaces the rows and resets the selection.
func (l *EntityList) SetRows(rows []Row) {
	l.rows = rows
	l.selected = 0
}

// Rows returns the current rows.
func (l *EntityList) Rows() []Row {
	return l.rows
}

// SetTitle changes the header text.
func (l *EntityList) SetTitle(title string) {
	l.title = title
}

// Title returns the header text.
func (l *EntityList) Title() string {
	return l.title
}

// Selected returns the index of the selected row.
func (l *EntityList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *EntityList) SetSelected(index int) {
	if index >= 0 && index < len(l.rows) {
		l.selected = index
	}
}

// SelectedRow returns the currently selected row, or nil if none.
func (l *EntityList) SelectedRow() *Row {
	if len(l.rows) == 0 || l.selected < 0 || l.selected >= len(l.rows) {
		return nil
	}
	return &l.rows[l.selected]
}

// MoveUp moves selection up.
func (l *EntityList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *EntityList) MoveDown() {
	if l.selected < len(l.rows)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *EntityList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of rows.
func (l *EntityList) Count() int {
	return len(l.rows)
}

// IsEmpty returns whether the list is empty.
func (l *EntityList) IsEmpty() bool {
	return len(l.rows) == 0
}
