package issues

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

func testResult() *domain.ValidationResult {
	r := &domain.ValidationResult{}
	r.AddError(domain.Issue{
		Tier:     domain.TierReferential,
		Kind:     domain.IssueReferentialViolation,
		Code:     domain.CodeDanglingReference,
		Path:     "models[1].components[0].materialRef",
		EntityID: "C001",
		Message:  "material MAT999 is not defined",
	})
	r.AddWarning(domain.Issue{
		Tier:    domain.TierSemantic,
		Kind:    domain.IssueImplausibleValue,
		Code:    domain.CodeImplausible,
		Path:    "materials[0].properties[0]",
		Message: "value 99 is outside the plausible range",
	})
	r.AddWarning(domain.Issue{
		Tier:    domain.TierSemantic,
		Kind:    domain.IssueSchemaVersionDrift,
		Message: "schema version drift",
	})
	return r
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.Nil(t, v.Selected())
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "No validation report")
}

func TestView_CleanResult(t *testing.T) {
	v := NewView(nil)

	v.SetResult(&domain.ValidationResult{})

	assert.Contains(t, v.View(), "No errors or warnings")
	assert.Nil(t, v.Selected())
}

func TestView_ErrorsBeforeWarnings(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(120, 40)

	v.SetResult(testResult())

	rows := v.list.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "error", rows[0].Tag)
	assert.Equal(t, "warning", rows[1].Tag)
	assert.Equal(t, "(document)", rows[2].ID)
	assert.Equal(t, "referential / ReferentialViolation / dangling_reference", rows[0].Detail)

	view := v.View()
	assert.Contains(t, view, "✗ Invalid")
	assert.Contains(t, view, "1 errors, 2 warnings")
	assert.Contains(t, view, "material MAT999 is not defined")
	assert.Contains(t, view, "Entity: C001")
}

func TestView_ValidWithWarnings(t *testing.T) {
	r := &domain.ValidationResult{}
	r.AddWarning(domain.Issue{Message: "odd", Path: "a"})
	v := NewView(nil)

	v.SetResult(r)

	assert.Contains(t, v.View(), "✓ Valid")
}

func TestView_Navigate(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(120, 40)
	v.SetResult(testResult())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	require.NotNil(t, v.Selected())
	assert.Equal(t, domain.IssueImplausibleValue, v.Selected().Kind)
	assert.NotContains(t, v.View(), "Entity:")
}

func TestView_NilResetsRows(t *testing.T) {
	v := NewView(nil)
	v.SetResult(testResult())

	v.SetResult(nil)

	assert.True(t, v.list.IsEmpty())
	assert.Nil(t, v.Selected())
}

func TestView_Esc(t *testing.T) {
	v := NewView(nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}
