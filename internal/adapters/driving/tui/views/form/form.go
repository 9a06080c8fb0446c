// Package form provides the add and edit creature form for the TUI.
package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
)

// Focus targets. The text fields come first, the category picker last.
const (
	focusName = iota
	focusHP
	focusCP
	focusPicture
	focusCategories
	focusCount
)

// View edits a creature. A record without an id is added on save,
// otherwise it is updated.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	gateway   driving.RecordGateway
	statusBar *status.Bar

	fields     []*input.Field
	categories []string
	record     domain.Record
	focus      int
	cursor     int
	saving     bool
	err        error
	width      int
	height     int
}

// NewView creates a new form view.
func NewView(ctx context.Context, s *styles.Styles, gateway driving.RecordGateway) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	bar := status.NewBar(s, km)
	bar.SetBindings(km.FormHelp())

	v := &View{
		ctx:        ctx,
		styles:     s,
		keymap:     km,
		gateway:    gateway,
		statusBar:  bar,
		categories: domain.Categories(),
		fields: []*input.Field{
			input.NewField(s, "Name", "Pikachu", false),
			input.NewField(s, "HP", "25", true),
			input.NewField(s, "CP", "5", true),
			input.NewField(s, "Picture", "https://...", false),
		},
		width:  80,
		height: 24,
	}
	v.SetRecord(domain.Record{})
	return v
}

// SetRecord loads a creature into the form. A zero record starts an empty
// add form.
func (v *View) SetRecord(rec domain.Record) {
	v.record = rec.Clone()
	v.fields[focusName].SetValue(rec.Name)
	v.fields[focusHP].SetValue(numberText(rec.HP))
	v.fields[focusCP].SetValue(numberText(rec.CP))
	v.fields[focusPicture].SetValue(rec.Picture)
	v.cursor = 0
	v.saving = false
	v.err = nil
	v.statusBar.Clear()
	v.setFocus(focusName)
}

func numberText(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.fields[focusName].Focus()
}

// Update handles messages for the form view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.RecordSaved:
		v.saving = false
		if !msg.OK {
			v.setError(fmt.Errorf("could not save %s: collection unavailable", v.record.Name))
		}
		return v, nil

	case tea.KeyMsg:
		if v.saving {
			return v, nil
		}
		return v.handleKey(msg)
	}

	return v, nil
}

// handleKey handles key presses.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Back):
		back := messages.ViewMenu
		if !v.record.IsNew() {
			back = messages.ViewDetail
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: back}
		}
	case keymap.Matches(key, v.keymap.Save):
		return v, v.save()
	case keymap.Matches(key, v.keymap.NextField):
		return v, v.setFocus((v.focus + 1) % focusCount)
	case keymap.Matches(key, v.keymap.PrevField):
		return v, v.setFocus((v.focus + focusCount - 1) % focusCount)
	}

	if v.focus == focusCategories {
		return v, v.handleCategoryKey(key)
	}

	if key == "enter" {
		return v, v.setFocus(v.focus + 1)
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

// handleCategoryKey moves the cursor through the category picker and
// toggles categories within the allowed count.
func (v *View) handleCategoryKey(key string) tea.Cmd {
	switch key {
	case "left", "h":
		if v.cursor > 0 {
			v.cursor--
		}
	case "right", "l":
		if v.cursor < len(v.categories)-1 {
			v.cursor++
		}
	case " ", "x":
		category := v.categories[v.cursor]
		if !v.record.CanToggleCategory(category) {
			v.statusBar.SetState(status.StateError)
			v.statusBar.SetMessage(fmt.Sprintf(
				"a creature has %d to %d types", domain.MinCategories, domain.MaxCategories))
			return nil
		}
		v.record.ToggleCategory(category)
		v.err = nil
		v.statusBar.Clear()
	case "enter":
		return v.save()
	}
	return nil
}

// setFocus moves focus to the given target.
func (v *View) setFocus(target int) tea.Cmd {
	v.focus = target
	var cmd tea.Cmd
	for i, f := range v.fields {
		if i == target {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

// Draft builds the record the form would submit.
func (v *View) Draft() (domain.Record, error) {
	rec := v.record.Clone()
	rec.Name = v.fields[focusName].Value()
	rec.Picture = v.fields[focusPicture].Value()

	hp, err := v.fields[focusHP].Int()
	if err != nil {
		return rec, err
	}
	cp, err := v.fields[focusCP].Int()
	if err != nil {
		return rec, err
	}
	rec.HP, rec.CP = hp, cp

	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

// save validates the draft and returns a command that stores it.
func (v *View) save() tea.Cmd {
	rec, err := v.Draft()
	if err != nil {
		v.setError(err)
		return nil
	}

	v.saving = true
	v.err = nil
	v.statusBar.SetState(status.StateSaving)
	ctx, gateway := v.ctx, v.gateway

	if rec.IsNew() {
		return func() tea.Msg {
			added := gateway.Add(ctx, rec)
			if added == nil {
				return messages.RecordSaved{Record: rec}
			}
			return messages.RecordSaved{Record: *added, OK: true}
		}
	}
	return func() tea.Msg {
		return messages.RecordSaved{Record: rec, OK: gateway.Update(ctx, rec)}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusBar.SetState(status.StateError)
	v.statusBar.SetMessage(err.Error())
}

// View renders the form.
func (v *View) View() string {
	var b strings.Builder

	title := "Add creature"
	if !v.record.IsNew() {
		title = fmt.Sprintf("Edit %s", v.record.Name)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	for _, f := range v.fields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.renderCategories())
	b.WriteString("\n\n")
	b.WriteString(v.statusBar.View())

	return b.String()
}

// renderCategories renders the category picker.
func (v *View) renderCategories() string {
	label := v.styles.Label.Render("Types")
	if v.focus == focusCategories {
		label = v.styles.Selected.Render("Types")
	}

	cells := make([]string, 0, len(v.categories))
	for i, c := range v.categories {
		box := "[ ]"
		if v.record.HasCategory(c) {
			box = "[x]"
		}
		cell := box + " " + c
		switch {
		case v.focus == focusCategories && i == v.cursor:
			cell = v.styles.Selected.Render(cell)
		case v.record.HasCategory(c):
			cell = box + " " + v.styles.CategoryBadge(c)
		case !v.record.CanToggleCategory(c):
			cell = v.styles.Muted.Render(cell)
		}
		cells = append(cells, cell)
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteString("\n")
	for i := 0; i < len(cells); i += 4 {
		end := i + 4
		if end > len(cells) {
			end = len(cells)
		}
		b.WriteString("  ")
		b.WriteString(strings.Join(cells[i:end], "  "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusBar.SetWidth(width)
}

// Record returns the record being edited, including toggled categories.
func (v *View) Record() domain.Record {
	return v.record
}

// Focus returns the focused target index.
func (v *View) Focus() int {
	return v.focus
}

// Saving reports whether a save is in flight.
func (v *View) Saving() bool {
	return v.saving
}

// Err returns the last validation or save error.
func (v *View) Err() error {
	return v.err
}
