package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/views/form"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/views/records"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView    *menu.View
	recordsView *records.View
	searchView  *search.View
	detailView  *detail.View
	formView    *form.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	a := &App{
		ports:       ports,
		styles:      styles.DefaultStyles(),
		currentView: messages.ViewMenu,
	}
	a.buildViews(context.Background())
	return a, nil
}

// buildViews creates every view bound to ctx.
func (a *App) buildViews(ctx context.Context) {
	a.ctx = ctx
	a.menuView = menu.NewView(a.styles)
	a.recordsView = records.NewView(ctx, a.styles, a.ports.Records)
	a.searchView = search.NewView(a.styles, nil, search.StreamFactory(a.ports.NewSearchStream)).WithContext(ctx)
	a.detailView = detail.NewView(ctx, a.styles, a.ports.Records)
	a.formView = form.NewView(ctx, a.styles, a.ports.Records)
}

// WithContext sets the context for the app. Remote calls and search streams
// are bound to it.
func (a *App) WithContext(ctx context.Context) *App {
	a.buildViews(ctx)
	if a.ready {
		a.setDimensions(a.width, a.height)
	}
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("bestiary"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			a.searchView.Close()
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.RecordsLoaded:
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd

	case messages.SearchResults:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.RecordSelected:
		a.detailView.SetRecord(msg.Record, msg.From)
		a.currentView = messages.ViewDetail
		return a, a.detailView.Init()

	case messages.EditRequested:
		a.formView.SetRecord(msg.Record)
		a.currentView = messages.ViewForm
		return a, a.formView.Init()

	case messages.RecordSaved:
		a.formView, cmd = a.formView.Update(msg)
		if !msg.OK {
			return a, cmd
		}
		// Show the stored creature, as the collection now holds it.
		a.detailView.SetRecord(msg.Record, messages.ViewList)
		a.currentView = messages.ViewDetail
		return a, a.recordsView.Reload()

	case messages.RecordDeleted:
		a.detailView, cmd = a.detailView.Update(msg)
		if !msg.OK {
			return a, cmd
		}
		a.currentView = messages.ViewList
		return a, a.recordsView.Reload()

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		a.searchView.Close()
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward passes a message to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewList:
		a.recordsView, cmd = a.recordsView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewForm:
		a.formView, cmd = a.formView.Update(msg)
	case messages.ViewHelp:
		// Help view is static
	}
	return cmd
}

// switchTo activates a view and runs its initialisation.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	previous := a.currentView
	a.currentView = view

	switch view {
	case messages.ViewMenu:
		a.searchView.Close()
		return nil
	case messages.ViewList:
		if previous == messages.ViewMenu {
			return a.recordsView.Init()
		}
		return nil
	case messages.ViewSearch:
		// Returning from a result keeps the running session.
		if previous == messages.ViewDetail && a.searchView.Active() {
			return nil
		}
		return a.searchView.Open()
	case messages.ViewForm:
		if previous == messages.ViewMenu || previous == messages.ViewList {
			a.formView.SetRecord(domain.Record{})
		}
		return a.formView.Init()
	case messages.ViewDetail, messages.ViewHelp:
		// Nothing to initialise
	}
	return nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewList:
		return a.recordsView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewDetail:
		return a.detailView.View()
	case messages.ViewForm:
		return a.formView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back
  ctrl+c      Quit

Menu and lists:
  j/k, ↑/↓    Navigate
  enter       Open
  r           Reload the collection
  a           Add a creature

Search:
  (type)      Results update as you type
  enter       Search now and jump to results
  /           Back to the search term

Creature:
  e           Edit
  d           Delete (asks for confirmation)

Form:
  tab         Next field
  ←/→, space  Pick types (one or two)
  ctrl+s      Save

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.searchView.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.setDimensions(width, height)
}

func (a *App) setDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.recordsView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
	a.formView.SetDimensions(width, height)
}
