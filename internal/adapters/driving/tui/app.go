package tui

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/views/issues"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/views/materials"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/views/models"
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	statusBar     *status.Bar
	menuView      *menu.View
	modelsView    *models.View
	materialsView *materials.View
	issuesView    *issues.View

	// path and format locate the browsed file.
	path   string
	format domain.OutputFormat

	doc    *domain.Document
	result *domain.ValidationResult

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		statusBar:     status.NewBar(s, km),
		menuView:      menu.NewView(s),
		modelsView:    models.NewView(s),
		materialsView: materials.NewView(s, ports.Document),
		issuesView:    issues.NewView(s),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithFile sets the document to browse. An empty format is inferred by the
// caller before this point.
func (a *App) WithFile(path string, format domain.OutputFormat) *App {
	a.path = path
	a.format = format
	return a
}

// Init implements tea.Model.
// It loads the document when the program starts.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("agsi - "+filepath.Base(a.path)),
		a.load(),
	)
}

// load returns a command that reads and validates the file.
func (a *App) load() tea.Cmd {
	ctx, path, format := a.ctx, a.path, a.format
	document, validation := a.ports.Document, a.ports.Validation
	return func() tea.Msg {
		if path == "" {
			return messages.DocumentLoaded{Err: ErrNoFile}
		}
		doc, err := document.Load(ctx, path, format)
		if err != nil {
			return messages.DocumentLoaded{Path: path, Err: err}
		}
		return messages.DocumentLoaded{Path: path, Document: doc, Result: validation.Validate(doc)}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.LoadRequested:
		if msg.Path != "" {
			a.path = msg.Path
		}
		a.statusBar.SetState(status.StateLoading)
		return a, a.load()

	case messages.DocumentLoaded:
		return a, a.documentLoaded(msg)

	case messages.ViewChanged:
		a.setView(msg.View)
		return a, nil

	case messages.MaterialsFiltered:
		a.materialsView, cmd = a.materialsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		a.materialsView, cmd = a.materialsView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// While the filter has focus every key is text.
	typing := a.currentView == messages.ViewMaterials && a.materialsView.Filtering()
	if !typing {
		switch {
		case keymap.Matches(msg.String(), a.keymap.Reload):
			return a, func() tea.Msg { return messages.LoadRequested{} }
		case keymap.Matches(msg.String(), a.keymap.Help):
			a.setView(messages.ViewHelp)
			return a, nil
		}
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewModels:
		a.modelsView, cmd = a.modelsView.Update(msg)
	case messages.ViewMaterials:
		a.materialsView, cmd = a.materialsView.Update(msg)
	case messages.ViewIssues:
		a.issuesView, cmd = a.issuesView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.setView(messages.ViewMenu)
		}
	}
	return a, cmd
}

func (a *App) documentLoaded(msg messages.DocumentLoaded) tea.Cmd {
	if msg.Err != nil {
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return nil
	}

	a.err = nil
	a.doc = msg.Document
	a.result = msg.Result
	if a.result == nil {
		a.result = &domain.ValidationResult{}
	}

	a.menuView.SetDocument(a.ports.Document.Info(a.doc), a.ports.Document.Stats(a.doc), a.result)
	a.modelsView.SetDocument(a.doc)
	a.issuesView.SetResult(a.result)

	a.statusBar.SetMessage(filepath.Base(msg.Path))
	a.statusBar.SetCounts(len(a.result.Errors), len(a.result.Warnings))
	a.setView(a.currentView)

	return a.materialsView.SetDocument(a.doc)
}

// setView switches the active view and the matching status bar state.
func (a *App) setView(v messages.ViewType) {
	a.currentView = v
	if a.err != nil {
		a.statusBar.SetState(status.StateError)
		return
	}
	switch v {
	case messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
	case messages.ViewModels, messages.ViewMaterials, messages.ViewIssues:
		a.statusBar.SetState(status.StateBrowsing)
	case messages.ViewMenu:
		a.statusBar.SetState(status.StateReady)
	}
}

// View implements tea.Model.
// It renders the current view followed by the status bar.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewModels:
		body = a.modelsView.View()
	case messages.ViewMaterials:
		body = a.materialsView.View()
	case messages.ViewIssues:
		body = a.issuesView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}
	return body + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Global:
  r           Reload and validate the file
  ?           This help
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Ground models:
  enter       Show components of the model
  esc         Back to models, then to the menu

Materials:
  /           Filter by name
  enter       Apply filter
  esc         Clear filter, then back to the menu

Validation issues:
  j/k, ↑/↓    Navigate errors and warnings

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Document returns the loaded document, or nil.
func (a *App) Document() *domain.Document {
	return a.doc
}

// Result returns the validation report of the loaded document, or nil.
func (a *App) Result() *domain.ValidationResult {
	return a.result
}

// Path returns the browsed file.
func (a *App) Path() string {
	return a.path
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions. Two lines stay reserved for
// the status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	body := height - 2
	if body < 1 {
		body = 1
	}
	a.menuView.SetDimensions(width, body)
	a.modelsView.SetDimensions(width, body)
	a.materialsView.SetDimensions(width, body)
	a.issuesView.SetDimensions(width, body)
	a.statusBar.SetWidth(width)
}
