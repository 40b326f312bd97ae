package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilterInput(t *testing.T) {
	f := NewFilterInput(nil)

	require.NotNil(t, f)
	assert.NotNil(t, f.styles)
	assert.False(t, f.Focused())
	assert.Empty(t, f.Value())
	assert.NotNil(t, f.Init())
}

func TestFilterInput_Typing(t *testing.T) {
	f := NewFilterInput(nil)
	f.Focus()

	for _, r := range "clay" {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "clay", f.Value())
	assert.Contains(t, f.View(), "Filter:")
}

func TestFilterInput_IgnoresKeysWhenBlurred(t *testing.T) {
	f := NewFilterInput(nil)

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Empty(t, f.Value())
}

func TestFilterInput_FocusBlurReset(t *testing.T) {
	f := NewFilterInput(nil)

	f.Focus()
	assert.True(t, f.Focused())

	f.SetValue("chalk")
	f.Blur()
	assert.False(t, f.Focused())
	assert.Equal(t, "chalk", f.Value())

	f.Reset()
	assert.Empty(t, f.Value())
}

func TestFilterInput_SetWidth(t *testing.T) {
	f := NewFilterInput(nil)

	f.SetWidth(100)
	assert.Equal(t, 100, f.Width())
	assert.Equal(t, 88, f.textinput.Width)

	f.SetWidth(10)
	assert.Equal(t, 20, f.textinput.Width)
}
