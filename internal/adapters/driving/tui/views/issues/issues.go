// Package issues provides the validation report view of the TUI.
package issues

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// View lists validation errors followed by warnings.
type View struct {
	styles *styles.Styles
	result *domain.ValidationResult
	issues []domain.Issue
	list   *list.EntityList
	width  int
	height int
}

// NewView creates a new issues view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		list:   list.NewEntityList(s, "Validation issues"),
		width:  80,
		height: 24,
	}
}

// SetResult replaces the shown report.
func (v *View) SetResult(result *domain.ValidationResult) {
	v.result = result
	v.issues = nil
	if result == nil {
		v.list.SetRows(nil)
		return
	}

	v.issues = make([]domain.Issue, 0, len(result.Errors)+len(result.Warnings))
	v.issues = append(v.issues, result.Errors...)
	v.issues = append(v.issues, result.Warnings...)

	errStyle := v.styles.Issue(true)
	warnStyle := v.styles.Issue(false)
	rows := make([]list.Row, len(v.issues))
	for i, issue := range v.issues {
		row := list.Row{
			ID:     issue.Path,
			Title:  issue.Message,
			Tag:    "warning",
			Detail: fmt.Sprintf("%s / %s / %s", issue.Tier, issue.Kind, issue.Code),
		}
		if i < len(result.Errors) {
			row.Tag = "error"
			row.TagStyle = &errStyle
		} else {
			row.TagStyle = &warnStyle
		}
		if row.ID == "" {
			row.ID = "(document)"
		}
		rows[i] = row
	}
	v.list.SetRows(rows)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the issues view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

// View renders the report.
func (v *View) View() string {
	var b strings.Builder

	switch {
	case v.result == nil:
		b.WriteString(v.styles.Muted.Render("No validation report"))
	case len(v.issues) == 0:
		b.WriteString(v.styles.Success.Render("✓ No errors or warnings"))
	default:
		if v.result.IsValid() {
			b.WriteString(v.styles.Success.Render("✓ Valid"))
		} else {
			b.WriteString(v.styles.Error.Render("✗ Invalid"))
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %d errors, %d warnings",
			len(v.result.Errors), len(v.result.Warnings))))
		b.WriteString("\n\n")
		b.WriteString(v.list.View())
		if issue := v.Selected(); issue != nil && issue.EntityID != "" {
			b.WriteString("\n\n")
			b.WriteString(fmt.Sprintf("Entity: %s", issue.EntityID))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Esc] Menu"))
	return b.String()
}

// Selected returns the selected issue, or nil.
func (v *View) Selected() *domain.Issue {
	i := v.list.Selected()
	if i < 0 || i >= len(v.issues) {
		return nil
	}
	return &v.issues[i]
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-6)
}
