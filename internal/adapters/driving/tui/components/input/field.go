package input

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/styles"
)

// Field is a labelled single-line form input.
type Field struct {
	label     string
	numeric   bool
	textinput textinput.Model
	styles    *styles.Styles
}

// NewField creates a text field. Numeric fields are parsed with Int.
func NewField(s *styles.Styles, label, placeholder string, numeric bool) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	if numeric {
		ti.CharLimit = 6
	}

	return &Field{
		label:     label,
		numeric:   numeric,
		textinput: ti,
		styles:    s,
	}
}

// Update forwards a message to the underlying input.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and input.
func (f *Field) View() string {
	return f.styles.Label.Render(f.label) + " " + f.textinput.View()
}

// Label returns the field label.
func (f *Field) Label() string {
	return f.label
}

// Value returns the trimmed input value.
func (f *Field) Value() string {
	return strings.TrimSpace(f.textinput.Value())
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Int parses a numeric field. An empty field is zero.
func (f *Field) Int() (int, error) {
	v := f.Value()
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number", f.label)
	}
	return n, nil
}

// Focus sets focus on the input.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// Numeric reports whether the field holds a number.
func (f *Field) Numeric() bool {
	return f.numeric
}
