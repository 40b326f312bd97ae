// Package models provides the ground model and component browser of the TUI.
package models

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// Level is the depth of the browser.
type Level int

const (
	// LevelModels lists the ground models of the document.
	LevelModels Level = iota
	// LevelComponents lists the components of one model.
	LevelComponents
)

// View browses models, then the components of the selected model.
type View struct {
	styles *styles.Styles

	doc        *domain.Document
	model      *domain.GroundModel
	level      Level
	modelList  *list.EntityList
	components *list.EntityList
	width      int
	height     int
}

// NewView creates a new models view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:     s,
		modelList:  list.NewEntityList(s, "Ground models"),
		components: list.NewEntityList(s, "Components"),
		width:      80,
		height:     24,
	}
}

// SetDocument replaces the browsed document and returns to the model list.
func (v *View) SetDocument(doc *domain.Document) {
	v.doc = doc
	v.model = nil
	v.level = LevelModels

	var rows []list.Row
	if doc != nil {
		rows = make([]list.Row, len(doc.Models))
		for i := range doc.Models {
			m := &doc.Models[i]
			detail := fmt.Sprintf("%d components, %d local materials", len(m.Components), len(m.Materials))
			if m.CRS != "" {
				detail += ", " + m.CRS
			}
			rows[i] = list.Row{
				ID:     m.ID,
				Title:  m.Name,
				Tag:    fmt.Sprintf("%s %s", m.Type, m.Dimension),
				Detail: detail,
			}
		}
	}
	v.modelList.SetRows(rows)
	v.components.SetRows(nil)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the models view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if v.level == LevelComponents {
			v.level = LevelModels
			v.model = nil
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case "enter", "right", "l":
		if v.level == LevelModels {
			v.openSelectedModel()
		}
		return v, nil
	}

	if v.level == LevelComponents {
		v.components, _ = v.components.Update(msg)
	} else {
		v.modelList, _ = v.modelList.Update(msg)
	}
	return v, nil
}

func (v *View) openSelectedModel() {
	row := v.modelList.SelectedRow()
	if row == nil || v.doc == nil {
		return
	}
	model, ok := v.doc.Model(row.ID)
	if !ok {
		return
	}
	v.model = model
	v.level = LevelComponents

	rows := make([]list.Row, len(model.Components))
	for i := range model.Components {
		c := &model.Components[i]
		rows[i] = list.Row{
			ID:     c.ID,
			Title:  c.Name,
			Tag:    string(c.Kind),
			Detail: "material " + v.materialLabel(c.MaterialID),
		}
	}
	v.components.SetTitle(fmt.Sprintf("Components of %s", model.ID))
	v.components.SetRows(rows)
}

// materialLabel resolves a material reference for display.
func (v *View) materialLabel(id string) string {
	if id == "" {
		return "(none)"
	}
	if m, ok := v.doc.ResolveMaterial(v.model, id); ok {
		return fmt.Sprintf("%s %s (%s)", m.ID, m.Name, m.Kind)
	}
	return id + " (unresolved)"
}

// View renders the current level.
func (v *View) View() string {
	var b strings.Builder

	if v.level == LevelModels {
		b.WriteString(v.modelList.View())
		if row := v.modelList.SelectedRow(); row != nil && v.doc != nil {
			if m, ok := v.doc.Model(row.ID); ok {
				b.WriteString("\n\n")
				b.WriteString(v.renderModel(m))
			}
		}
	} else {
		b.WriteString(v.components.View())
		if row := v.components.SelectedRow(); row != nil {
			if c, ok := v.model.Component(row.ID); ok {
				b.WriteString("\n\n")
				b.WriteString(v.renderComponent(c))
			}
		}
	}

	b.WriteString("\n\n")
	if v.level == LevelModels {
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Components  [Esc] Menu"))
	} else {
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Esc] Models"))
	}
	return b.String()
}

func (v *View) renderModel(m *domain.GroundModel) string {
	lines := []string{v.styles.Subtitle.Render(m.ID + "  " + m.Name)}
	if m.Description != "" {
		lines = append(lines, v.styles.Muted.Render(m.Description))
	}
	if bd := m.Boundary; bd != nil {
		extent := fmt.Sprintf("extent x %g..%g  y %g..%g", bd.MinX, bd.MaxX, bd.MinY, bd.MaxY)
		if bd.Top != nil && bd.Bottom != nil {
			extent += fmt.Sprintf("  z %g..%g", *bd.Bottom, *bd.Top)
		}
		lines = append(lines, extent)
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderComponent(c *domain.ModelComponent) string {
	lines := []string{v.styles.Subtitle.Render(c.ID + "  " + c.Name)}

	geom := "no geometry"
	if c.Geometry != nil {
		geom = fmt.Sprintf("%s, %d coordinates", c.Geometry.Kind(), domain.CoordCount(c.Geometry))
		if crs := c.Geometry.CRSID(); crs != "" {
			geom += ", " + crs
		}
	}
	lines = append(lines, formatField("Geometry", geom))

	if c.Top != nil {
		lines = append(lines, formatField("Top", fmt.Sprintf("%g", *c.Top)))
	}
	if c.Bottom != nil {
		lines = append(lines, formatField("Bottom", fmt.Sprintf("%g", *c.Bottom)))
	}
	if t, ok := c.Thickness(); ok {
		lines = append(lines, formatField("Thickness", fmt.Sprintf("%g", t)))
	}

	if len(c.Attributes) > 0 {
		keys := make([]string, 0, len(c.Attributes))
		for k := range c.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines = append(lines, "Attributes:")
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %s: %s", k, c.Attributes[k]))
		}
	}
	return strings.Join(lines, "\n")
}

func formatField(label, value string) string {
	return fmt.Sprintf("%-10s %s", label+":", value)
}

// SetDimensions sets the view dimensions. The detail panel keeps a third.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	listHeight := height * 2 / 3
	v.modelList.SetDimensions(width, listHeight)
	v.components.SetDimensions(width, listHeight)
}

// Level returns the current browser depth.
func (v *View) Level() Level {
	return v.level
}

// Model returns the model whose components are shown, or nil.
func (v *View) Model() *domain.GroundModel {
	return v.model
}
