package tui

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/sample"
	"github.com/custodia-labs/agsi-cli/internal/serialization"
)

const testPath = "site.agsi.json"

func writeDoc(t *testing.T, ports *Ports, files *memory.FileStore, doc *domain.Document) {
	t.Helper()
	data, err := ports.Document.Encode(doc, serialization.Text)
	require.NoError(t, err)
	require.NoError(t, files.WriteFile(testPath, data))
}

// newLoadedApp returns an app that has loaded the sample document.
func newLoadedApp(t *testing.T) (*App, *Ports, *memory.FileStore) {
	t.Helper()
	ports, files := newTestPorts()
	writeDoc(t, ports, files, sample.Full())

	app, err := NewApp(ports)
	require.NoError(t, err)
	app.WithFile(testPath, serialization.Text)
	app.SetDimensions(120, 50)

	drain(app, app.load())
	require.NoError(t, app.Err())
	return app, ports, files
}

// drain runs cmd and feeds resulting messages back until none remain.
func drain(app *App, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = app.Update(msg)
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Success(t *testing.T) {
	ports, _ := newTestPorts()

	app, err := NewApp(ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Nil(t, app.Document())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingDocumentService)
	assert.Nil(t, app)
}

func TestApp_WithContextAndFile(t *testing.T) {
	ports, _ := newTestPorts()
	app, _ := NewApp(ports)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, app, app.WithFile(testPath, serialization.Text))
	assert.Equal(t, testPath, app.Path())
}

func TestApp_Init(t *testing.T) {
	ports, _ := newTestPorts()
	app, _ := NewApp(ports)

	cmd := app.Init()

	assert.NotNil(t, cmd)
	assert.Equal(t, status.StateLoading, app.statusBar.State())
}

func TestApp_Update_WindowSize(t *testing.T) {
	ports, _ := newTestPorts()
	app, _ := NewApp(ports)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Equal(t, 80, app.statusBar.Width())
}

func TestApp_View_NotReady(t *testing.T) {
	ports, _ := newTestPorts()
	app, _ := NewApp(ports)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_Load(t *testing.T) {
	app, _, _ := newLoadedApp(t)

	require.NotNil(t, app.Document())
	assert.Equal(t, "DOC-0001", app.Document().ID)
	require.NotNil(t, app.Result())
	assert.True(t, app.Result().IsValid())

	view := app.View()
	assert.Contains(t, view, "riverside.agsi.json")
	assert.Contains(t, view, "Ground models (2)")
	assert.Contains(t, view, "Validation issues (0 errors, 0 warnings)")
	assert.Contains(t, view, "site.agsi.json")
	assert.Contains(t, view, "✓ valid")
}

func TestApp_Load_MissingFile(t *testing.T) {
	ports, _ := newTestPorts()
	app, _ := NewApp(ports)
	app.WithFile("missing.agsi.json", serialization.Text)
	app.SetDimensions(120, 40)

	drain(app, app.load())

	require.Error(t, app.Err())
	assert.True(t, errors.Is(app.Err(), fs.ErrNotExist))
	assert.Nil(t, app.Document())
	assert.Equal(t, status.StateError, app.statusBar.State())
	assert.Contains(t, app.View(), "Error:")
}

func TestApp_Load_NoPath(t *testing.T) {
	ports, _ := newTestPorts()
	app, _ := NewApp(ports)

	msg := app.load()()

	loaded, ok := msg.(messages.DocumentLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, loaded.Err, ErrNoFile)
}

func TestApp_Navigation(t *testing.T) {
	app, _, _ := newLoadedApp(t)

	tests := []struct {
		view     messages.ViewType
		contains string
		state    status.State
	}{
		{messages.ViewModels, "GM001  Site stratigraphy", status.StateBrowsing},
		{messages.ViewMaterials, "Materials (3)", status.StateBrowsing},
		{messages.ViewIssues, "No errors or warnings", status.StateBrowsing},
		{messages.ViewHelp, "Filter by name", status.StateHelp},
		{messages.ViewMenu, "AGSi ground model browser", status.StateReady},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			app.Update(messages.ViewChanged{View: tt.view})

			assert.Equal(t, tt.view, app.CurrentView())
			assert.Contains(t, app.View(), tt.contains)
			assert.Equal(t, tt.state, app.statusBar.State())
		})
	}
}

func TestApp_MenuEnterOpensModels(t *testing.T) {
	app, _, _ := newLoadedApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(app, cmd)

	assert.Equal(t, messages.ViewModels, app.CurrentView())

	// Enter opens components, esc walks back up to the menu.
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, app.View(), "Components of GM001")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	drain(app, cmd)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_HelpKey(t *testing.T) {
	app, _, _ := newLoadedApp(t)

	app.Update(key("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Reload(t *testing.T) {
	app, ports, files := newLoadedApp(t)

	broken := sample.Document()
	broken.Models[1].Components[0].MaterialID = "MAT999"
	writeDoc(t, ports, files, broken)

	_, cmd := app.Update(key("r"))
	require.NotNil(t, cmd)
	_, isReload := cmd().(messages.LoadRequested)
	require.True(t, isReload)

	drain(app, cmd)

	require.NotNil(t, app.Result())
	assert.False(t, app.Result().IsValid())
	errs, _ := app.statusBar.Counts()
	assert.Positive(t, errs)

	app.Update(messages.ViewChanged{View: messages.ViewIssues})
	assert.Contains(t, app.View(), "dangling_reference")
}

func TestApp_LoadRequestedWithPath(t *testing.T) {
	app, ports, files := newLoadedApp(t)
	data, err := ports.Document.Encode(sample.Document(), serialization.YAML)
	require.NoError(t, err)
	require.NoError(t, files.WriteFile("other.agsi.json", data))

	_, cmd := app.Update(messages.LoadRequested{Path: "other.agsi.json"})
	drain(app, cmd)

	assert.Equal(t, "other.agsi.json", app.Path())
	// YAML bytes read as text fail to decode.
	assert.Error(t, app.Err())
}

func TestApp_FilterKeysAreText(t *testing.T) {
	app, _, _ := newLoadedApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewMaterials})

	app.Update(key("/"))
	app.Update(key("r"))
	app.Update(key("?"))

	assert.Equal(t, messages.ViewMaterials, app.CurrentView())
	assert.True(t, app.materialsView.Filtering())
	assert.Contains(t, app.View(), "r?")
}

func TestApp_MaterialsFilterRoundTrip(t *testing.T) {
	app, _, _ := newLoadedApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewMaterials})

	app.Update(key("/"))
	for _, r := range "chalk" {
		app.Update(key(string(r)))
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(app, cmd)

	require.NotNil(t, app.materialsView.Selected())
	assert.Equal(t, "MAT002", app.materialsView.Selected().ID)
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _, _ := newLoadedApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
	assert.Equal(t, status.StateError, app.statusBar.State())
}

func TestApp_Quit(t *testing.T) {
	app, _, _ := newLoadedApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_UnknownMessage(t *testing.T) {
	app, _, _ := newLoadedApp(t)

	model, cmd := app.Update(struct{}{})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
}
