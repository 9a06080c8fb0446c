// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// RecordList displays creatures in a navigable list.
type RecordList struct {
	records  []domain.Record
	selected int
	styles   *styles.Styles
	empty    string
	width    int
	height   int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		styles: s,
		empty:  "No creatures",
		width:  80,
		height: 10,
	}
}

// Init initialises the record list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.records) > 0 {
				r.selected = len(r.records) - 1
			}
		}
	}
	return r, nil
}

// View renders the record list.
func (r *RecordList) View() string {
	if len(r.records) == 0 {
		return r.styles.Muted.Render(r.empty)
	}

	lines := make([]string, 0, len(r.records)+2)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Creatures (%d)", len(r.records)))
	lines = append(lines, header, "")

	// One line per creature; leave room for header and footer.
	visibleCount := r.height - 4
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.records) {
		end = len(r.records)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecord(i, &r.records[i]))
	}

	return strings.Join(lines, "\n")
}

// renderRecord formats a single creature row.
func (r *RecordList) renderRecord(index int, rec *domain.Record) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	name := rec.Name
	if name == "" {
		name = "(unnamed)"
	}

	maxNameLen := r.width - 40
	if maxNameLen < 12 {
		maxNameLen = 12
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	row := fmt.Sprintf("%s%4d  %-*s", indicator, rec.ID, maxNameLen, name)
	if index == r.selected {
		row = r.styles.Selected.Render(row)
	} else {
		row = r.styles.Normal.Render(row)
	}

	return row + "  " + r.styles.CategoryBadges(rec.Categories)
}

// SetRecords replaces the list contents and resets the selection.
func (r *RecordList) SetRecords(records []domain.Record) {
	r.records = records
	r.selected = 0
}

// Records returns the current records.
func (r *RecordList) Records() []domain.Record {
	return r.records
}

// SetEmptyText sets the text shown when the list is empty.
func (r *RecordList) SetEmptyText(text string) {
	r.empty = text
}

// Selected returns the index of the selected record.
func (r *RecordList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RecordList) SetSelected(index int) {
	if index >= 0 && index < len(r.records) {
		r.selected = index
	}
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.Record {
	if len(r.records) == 0 || r.selected < 0 || r.selected >= len(r.records) {
		return nil
	}
	return &r.records[r.selected]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.records)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of records.
func (r *RecordList) Count() int {
	return len(r.records)
}

// IsEmpty returns whether the list is empty.
func (r *RecordList) IsEmpty() bool {
	return len(r.records) == 0
}
