// Package records provides the collection browser view for the TUI.
package records

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
)

// emptyText is shown when ListAll delivers nothing, which may mean the
// collection is unreachable.
const emptyText = "No creatures found. Is the collection reachable? Press r to retry."

// View lists every creature in the collection.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	gateway   driving.RecordGateway
	list      *list.RecordList
	statusBar *status.Bar
	loading   bool
	width     int
	height    int
}

// NewView creates a new collection view.
func NewView(ctx context.Context, s *styles.Styles, gateway driving.RecordGateway) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	l := list.NewRecordList(s)
	l.SetEmptyText(emptyText)

	bar := status.NewBar(s, km)
	bar.SetBindings(km.ListHelp())

	return &View{
		ctx:       ctx,
		styles:    s,
		keymap:    km,
		gateway:   gateway,
		list:      l,
		statusBar: bar,
		width:     80,
		height:    24,
	}
}

// Init loads the collection.
func (v *View) Init() tea.Cmd {
	return v.Reload()
}

// Reload returns a command that fetches the collection.
func (v *View) Reload() tea.Cmd {
	v.loading = true
	v.statusBar.SetState(status.StateLoading)
	ctx, gateway := v.ctx, v.gateway
	return func() tea.Msg {
		return messages.RecordsLoaded{Records: gateway.ListAll(ctx)}
	}
}

// Update handles messages for the collection view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.RecordsLoaded:
		v.loading = false
		v.list.SetRecords(msg.Records)
		v.statusBar.SetState(status.StateResults)
		v.statusBar.SetResultCount(len(msg.Records))
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

// handleKey handles key presses.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.Select):
		rec := v.list.SelectedRecord()
		if rec == nil {
			return v, nil
		}
		selected := rec.Clone()
		return v, func() tea.Msg {
			return messages.RecordSelected{Record: selected, From: messages.ViewList}
		}
	case keymap.Matches(msg.String(), v.keymap.Refresh):
		if v.loading {
			return v, nil
		}
		return v, v.Reload()
	case keymap.Matches(msg.String(), v.keymap.Add):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewForm}
		}
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// View renders the collection view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Bestiary"))
	b.WriteString("\n\n")

	if v.loading && v.list.IsEmpty() {
		b.WriteString(v.styles.Muted.Render("Loading creatures..."))
	} else {
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")
	b.WriteString(v.statusBar.View())

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-4)
	v.statusBar.SetWidth(width)
}

// List returns the underlying record list.
func (v *View) List() *list.RecordList {
	return v.list
}

// Loading reports whether a reload is in flight.
func (v *View) Loading() bool {
	return v.loading
}
