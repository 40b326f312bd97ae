// Package styles provides the colour theme and lipgloss styles of the browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// Theme defines the colour palette.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
	Bar        lipgloss.Color

	// Materials colours material kinds; kinds not listed use Foreground.
	Materials map[domain.MaterialKind]lipgloss.Color
}

// DefaultTheme returns the default palette, loosely following geological
// map conventions for the material kinds.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#D08C3C"),
		Secondary:  lipgloss.Color("#8FB573"),
		Foreground: lipgloss.Color("#E4DDD0"),
		Muted:      lipgloss.Color("#7D7468"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#4A443C"),
		Bar:        lipgloss.Color("#201D19"),
		Materials: map[domain.MaterialKind]lipgloss.Color{
			domain.MaterialKindSoil:       lipgloss.Color("#C9A66B"),
			domain.MaterialKindRock:       lipgloss.Color("#A0A4AB"),
			domain.MaterialKindFill:       lipgloss.Color("#B07D62"),
			domain.MaterialKindMadeGround: lipgloss.Color("#9C6B98"),
		},
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	// InputField frames the filter input.
	InputField lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style
	Border    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Bar).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Material renders text in the colour of a material kind.
func (s *Styles) Material(kind domain.MaterialKind) lipgloss.Style {
	if c, ok := s.theme.Materials[kind]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return s.Normal
}

// Issue returns the style of an error (true) or a warning (false).
func (s *Styles) Issue(isError bool) lipgloss.Style {
	if isError {
		return s.Error
	}
	return s.Warning
}
