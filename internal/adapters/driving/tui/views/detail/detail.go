// Package detail provides the single creature view for the TUI.
package detail

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
)

// View shows one creature and offers edit and delete.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	gateway   driving.RecordGateway
	statusBar *status.Bar

	record     *domain.Record
	from       messages.ViewType
	confirming bool
	deleting   bool
	width      int
	height     int
}

// NewView creates a new detail view.
func NewView(ctx context.Context, s *styles.Styles, gateway driving.RecordGateway) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	bar := status.NewBar(s, km)
	bar.SetBindings(km.DetailHelp())

	return &View{
		ctx:       ctx,
		styles:    s,
		keymap:    km,
		gateway:   gateway,
		statusBar: bar,
		from:      messages.ViewList,
		width:     80,
		height:    24,
	}
}

// SetRecord sets the creature to display and the view to return to.
func (v *View) SetRecord(rec domain.Record, from messages.ViewType) {
	v.record = &rec
	v.from = from
	v.confirming = false
	v.deleting = false
	v.statusBar.Clear()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.RecordDeleted:
		v.deleting = false
		if !msg.OK {
			v.statusBar.SetState(status.StateError)
			v.statusBar.SetMessage(fmt.Sprintf("could not delete creature %d", msg.ID))
		}
		return v, nil

	case tea.KeyMsg:
		if v.confirming {
			return v.handleConfirmKey(msg)
		}
		return v.handleKey(msg)
	}

	return v, nil
}

// handleKey handles key presses.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		from := v.from
		return v, func() tea.Msg {
			return messages.ViewChanged{View: from}
		}
	case v.record == nil || v.deleting:
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Edit):
		rec := v.record.Clone()
		return v, func() tea.Msg {
			return messages.EditRequested{Record: rec}
		}
	case keymap.Matches(msg.String(), v.keymap.Delete):
		v.confirming = true
	}
	return v, nil
}

// handleConfirmKey handles the delete confirmation prompt.
func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirming = false
	if msg.String() != "y" && msg.String() != "Y" {
		return v, nil
	}
	return v, v.deleteRecord()
}

// deleteRecord returns a command that removes the creature.
func (v *View) deleteRecord() tea.Cmd {
	v.deleting = true
	v.statusBar.SetState(status.StateSaving)
	ctx, gateway, id := v.ctx, v.gateway, v.record.ID
	return func() tea.Msg {
		return messages.RecordDeleted{ID: id, OK: gateway.DeleteByID(ctx, id)}
	}
}

// View renders the detail view.
func (v *View) View() string {
	if v.record == nil {
		return v.styles.Muted.Render("No creature selected")
	}
	rec := v.record

	var b strings.Builder

	b.WriteString(v.styles.Title.Render(rec.Name))
	b.WriteString("\n\n")

	v.writeField(&b, "ID", fmt.Sprintf("%d", rec.ID))
	v.writeField(&b, "HP", fmt.Sprintf("%d", rec.HP))
	v.writeField(&b, "CP", fmt.Sprintf("%d", rec.CP))
	v.writeField(&b, "Types", v.styles.CategoryBadges(rec.Categories))
	v.writeField(&b, "Picture", rec.Picture)
	if !rec.Created.IsZero() {
		v.writeField(&b, "Created", rec.Created.Format("2006-01-02 15:04"))
	}
	b.WriteString("\n")

	if v.confirming {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %s? [y/N]", rec.Name)))
		b.WriteString("\n\n")
	}

	b.WriteString(v.statusBar.View())
	return b.String()
}

func (v *View) writeField(b *strings.Builder, label, value string) {
	if value == "" {
		value = v.styles.Muted.Render("-")
	}
	b.WriteString(v.styles.Label.Render(label))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusBar.SetWidth(width)
}

// Record returns the displayed creature.
func (v *View) Record() *domain.Record {
	return v.record
}

// From returns the view to return to.
func (v *View) From() messages.ViewType {
	return v.from
}

// Confirming reports whether the delete prompt is showing.
func (v *View) Confirming() bool {
	return v.confirming
}
