// Package materials provides the material and property browser of the TUI.
package materials

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
)

// View lists the materials in scope of the document with the properties of
// the selected one. Materials can be filtered by name.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService

	doc       *domain.Document
	materials []*domain.Material
	list      *list.EntityList
	filter    *input.FilterInput
	err       error
	width     int
	height    int
}

// NewView creates a new materials view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		list:            list.NewEntityList(s, "Materials"),
		filter:          input.NewFilterInput(s),
		width:           80,
		height:          24,
	}
}

// SetDocument replaces the browsed document and clears the filter.
func (v *View) SetDocument(doc *domain.Document) tea.Cmd {
	v.doc = doc
	v.filter.Reset()
	v.filter.Blur()
	return v.query("")
}

// query returns a command that filters the materials by name.
func (v *View) query(name string) tea.Cmd {
	doc := v.doc
	svc := v.documentService
	return func() tea.Msg {
		if doc == nil || svc == nil {
			return messages.MaterialsFiltered{Filter: name, Err: fmt.Errorf("no document loaded")}
		}
		mats, err := svc.QueryMaterials(doc, driving.MaterialQuery{NameContains: name})
		return messages.MaterialsFiltered{Filter: name, Materials: mats, Err: err}
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the materials view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.filter.Focused() {
			return v.handleFilterKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.MaterialsFiltered:
		v.setMaterials(msg.Materials, msg.Err)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // other keys go to the text input
	switch msg.Type {
	case tea.KeyEnter:
		v.filter.Blur()
		return v, v.query(strings.TrimSpace(v.filter.Value()))
	case tea.KeyEsc:
		v.filter.Blur()
		v.filter.Reset()
		return v, v.query("")
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "/":
		return v, v.filter.Focus()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) setMaterials(mats []*domain.Material, err error) {
	v.err = err
	v.materials = mats

	rows := make([]list.Row, len(mats))
	for i, m := range mats {
		tagStyle := v.styles.Material(m.Kind)
		rows[i] = list.Row{
			ID:       m.ID,
			Title:    m.Name,
			Tag:      string(m.Kind),
			TagStyle: &tagStyle,
			Detail:   fmt.Sprintf("%d properties", len(m.Properties)),
		}
	}
	v.list.SetRows(rows)

	title := "Materials"
	if f := v.filter.Value(); f != "" {
		title = fmt.Sprintf("Materials matching %q", f)
	}
	v.list.SetTitle(title)
}

// View renders the list and the selected material.
func (v *View) View() string {
	var b strings.Builder

	if v.filter.Focused() || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(v.list.View())
	if m := v.Selected(); m != nil {
		b.WriteString("\n\n")
		b.WriteString(v.renderMaterial(m))
	}

	b.WriteString("\n\n")
	if v.filter.Focused() {
		b.WriteString(v.styles.Help.Render("[Enter] Apply  [Esc] Clear"))
	} else {
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [/] Filter  [Esc] Menu"))
	}
	return b.String()
}

func (v *View) renderMaterial(m *domain.Material) string {
	lines := []string{v.styles.Subtitle.Render(m.ID+"  "+m.Name) + "  " + v.styles.Material(m.Kind).Render(string(m.Kind))}
	if m.Description != "" {
		lines = append(lines, m.Description)
	}
	if m.Geology != "" {
		lines = append(lines, v.styles.Muted.Render(m.Geology))
	}
	if len(m.Properties) == 0 {
		lines = append(lines, v.styles.Muted.Render("no properties"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "")
	for _, p := range m.Properties {
		lines = append(lines, v.renderProperty(p))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderProperty(p domain.Property) string {
	value := ""
	if p.Value != nil {
		value = p.Value.String()
	}
	if unit := p.EffectiveUnit(); unit != "" {
		value += " " + unit
	}
	line := fmt.Sprintf("  %-28s %s", p.Code.String(), value)

	var meta []string
	if p.CaseID != "" {
		meta = append(meta, "case "+p.CaseID)
	}
	if p.Source != "" {
		meta = append(meta, strings.ToLower(string(p.Source)))
	}
	if p.Method != "" {
		meta = append(meta, p.Method)
	}
	if len(meta) > 0 {
		line += v.styles.Muted.Render("  [" + strings.Join(meta, ", ") + "]")
	}
	return line
}

// Selected returns the selected material, or nil.
func (v *View) Selected() *domain.Material {
	i := v.list.Selected()
	if i < 0 || i >= len(v.materials) {
		return nil
	}
	return v.materials[i]
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// SetDimensions sets the view dimensions. The property panel keeps half.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height/2)
	v.filter.SetWidth(width)
}
