// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewList shows the whole collection.
	ViewList
	// ViewSearch is the live search view.
	ViewSearch
	// ViewDetail shows a single creature.
	ViewDetail
	// ViewForm adds or edits a creature.
	ViewForm
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewList:
		return "list"
	case ViewSearch:
		return "search"
	case ViewDetail:
		return "detail"
	case ViewForm:
		return "form"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// RecordsLoaded carries the full collection. An empty slice may mean the
// collection is unreachable.
type RecordsLoaded struct {
	Records []domain.Record
}

// SearchResults carries one result set delivered by the search stream.
// Session identifies the stream that produced it; Closed is set once that
// stream has shut down. Term is the query the records answer.
type SearchResults struct {
	Session int
	Term    string
	Records []domain.Record
	Closed  bool
}

// RecordSelected opens the detail view for a creature.
type RecordSelected struct {
	Record domain.Record
	// From is the view to return to when leaving the detail view.
	From ViewType
}

// EditRequested opens the form prefilled with a creature.
// A zero Record opens an empty add form.
type EditRequested struct {
	Record domain.Record
}

// RecordSaved signals the form finished an add or update.
type RecordSaved struct {
	Record domain.Record
	OK     bool
}

// RecordDeleted signals a delete finished.
type RecordDeleted struct {
	ID int
	OK bool
}
