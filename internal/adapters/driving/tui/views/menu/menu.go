// Package menu provides the document overview and navigation menu of the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
)

// Item represents a single menu option.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool // If true, selecting this item quits the app
}

// View is the overview of the open document with the navigation menu.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool

	info   *driving.DocumentInfo
	stats  *driving.DocumentStats
	result *domain.ValidationResult
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Ground models", View: messages.ViewModels},
			{Label: "Materials", View: messages.ViewMaterials},
			{Label: "Validation issues", View: messages.ViewIssues},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// SetDocument sets the summary shown above the menu.
func (v *View) SetDocument(info driving.DocumentInfo, stats driving.DocumentStats, result *domain.ValidationResult) {
	v.info = &info
	v.stats = &stats
	v.result = result
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the overview and menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("AGSi ground model browser"))
	b.WriteString("\n\n")
	b.WriteString(v.renderSummary())
	b.WriteString("\n")

	for i, item := range v.items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)
		}

		b.WriteString(cursor + style.Render(v.label(item)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [r] Reload  [q] Quit"))

	return b.String()
}

func (v *View) renderSummary() string {
	if v.info == nil {
		return v.styles.Muted.Render("No document loaded") + "\n"
	}

	var b strings.Builder
	name := v.info.Name
	if name == "" {
		name = "(unnamed)"
	}
	b.WriteString(v.styles.Subtitle.Render(name))
	b.WriteString(v.styles.Muted.Render("  " + v.info.ID))
	b.WriteString("\n")

	var meta []string
	if v.info.ProjectName != "" {
		meta = append(meta, "project "+v.info.ProjectName)
	}
	if v.info.Author != "" {
		meta = append(meta, "by "+v.info.Author)
	}
	meta = append(meta, "schema "+v.info.SchemaVersion)
	b.WriteString(v.styles.Muted.Render(strings.Join(meta, ", ")))
	b.WriteString("\n")
	return b.String()
}

// label decorates menu entries with counts once a document is loaded.
func (v *View) label(item Item) string {
	if v.stats == nil {
		return item.Label
	}
	switch item.View {
	case messages.ViewModels:
		return fmt.Sprintf("%s (%d)", item.Label, v.stats.Models)
	case messages.ViewMaterials:
		return fmt.Sprintf("%s (%d)", item.Label, v.stats.Materials)
	case messages.ViewIssues:
		if v.result == nil {
			return item.Label
		}
		return fmt.Sprintf("%s (%d errors, %d warnings)", item.Label, len(v.result.Errors), len(v.result.Warnings))
	case messages.ViewMenu, messages.ViewHelp:
	}
	return item.Label
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
