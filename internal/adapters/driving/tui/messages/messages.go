// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the document overview and navigation menu.
	ViewMenu ViewType = iota
	// ViewModels browses ground models and their components.
	ViewModels
	// ViewMaterials browses materials and their properties.
	ViewMaterials
	// ViewIssues lists validation errors and warnings.
	ViewIssues
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewModels:
		return "models"
	case ViewMaterials:
		return "materials"
	case ViewIssues:
		return "issues"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// LoadRequested asks the app to read and validate Path again.
type LoadRequested struct {
	Path string
}

// DocumentLoaded carries a decoded document and its validation report.
// Result is nil when Err is set.
type DocumentLoaded struct {
	Path     string
	Document *domain.Document
	Result   *domain.ValidationResult
	Err      error
}

// MaterialsFiltered carries the materials matching a name filter.
type MaterialsFiltered struct {
	Filter    string
	Materials []*domain.Material
	Err       error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
