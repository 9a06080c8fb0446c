// Package search provides the live search view for the TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
)

// StreamFactory opens a search stream bound to ctx.
type StreamFactory func(ctx context.Context) driving.SearchStream

// View feeds every keystroke to a search stream and renders whatever result
// set the stream delivers last.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.RecordList
	statusbar *status.Bar

	newStream StreamFactory
	stream    driving.SearchStream
	session   int
	ctx       context.Context

	// lastTerm is the term behind the displayed results. The stream drops
	// repeats of it, so retyping it gets no new delivery.
	lastTerm  string
	delivered bool

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing, false = navigating results
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, newStream StreamFactory) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	l := list.NewRecordList(s)
	l.SetEmptyText("No results")

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       l,
		statusbar:  status.NewBar(s, km),
		newStream:  newStream,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context new streams are bound to.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open starts a fresh search session and returns the commands that drive it.
// Any previous stream is closed first.
func (v *View) Open() tea.Cmd {
	v.Close()
	v.Reset()

	if v.newStream == nil {
		v.setError(ErrNoSearchStream)
		return nil
	}

	v.session++
	v.stream = v.newStream(v.ctx)
	return tea.Batch(v.input.Init(), v.waitForResults())
}

// Close stops the current stream, if any.
func (v *View) Close() {
	if v.stream != nil {
		v.stream.Close()
		v.stream = nil
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// waitForResults blocks on the stream's results channel and reports the next
// delivered set, tagged with the current session.
func (v *View) waitForResults() tea.Cmd {
	if v.stream == nil {
		return nil
	}
	results, session := v.stream.Results(), v.session
	return func() tea.Msg {
		res, ok := <-results
		return messages.SearchResults{
			Session: session,
			Term:    res.Term,
			Records: res.Records,
			Closed:  !ok,
		}
	}
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchResults:
		return v, v.handleResults(msg)

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd, _ = v.input.Update(msg)
	return v, cmd
}

// handleResults applies a delivered result set and waits for the next one.
func (v *View) handleResults(msg messages.SearchResults) tea.Cmd {
	if msg.Session != v.session || msg.Closed {
		return nil
	}

	v.err = nil
	v.lastTerm, v.delivered = msg.Term, true
	v.list.SetRecords(msg.Records)
	v.showResultCount()
	return v.waitForResults()
}

// showResultCount reports the displayed result set in the status bar.
func (v *View) showResultCount() {
	if v.input.Value() == "" {
		v.statusbar.Clear()
		return
	}
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(v.list.Count())
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleResultsKey(msg)
}

// handleInputKey handles keys while typing.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.Close()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case tea.KeyEnter:
		if v.stream != nil {
			v.stream.Flush()
		}
		if !v.list.IsEmpty() {
			v.focusResults()
		}
		return v, nil

	case tea.KeyDown, tea.KeyTab:
		if !v.list.IsEmpty() {
			v.focusResults()
		}
		return v, nil
	}

	var cmd tea.Cmd
	var changed bool
	v.input, cmd, changed = v.input.Update(msg)
	if changed && v.stream != nil {
		term := v.input.Value()
		v.stream.Submit(term)
		switch {
		case v.delivered && term == v.lastTerm:
			v.showResultCount()
		case term != "":
			v.statusbar.SetState(status.StateSearching)
		}
	}
	return v, cmd
}

// handleResultsKey handles keys while navigating results.
func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc, msg.String() == "/":
		return v, v.focusSearch()

	case keymap.Matches(msg.String(), v.keymap.Select):
		rec := v.list.SelectedRecord()
		if rec == nil {
			return v, nil
		}
		selected := rec.Clone()
		return v, func() tea.Msg {
			return messages.RecordSelected{Record: selected, From: messages.ViewSearch}
		}
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) focusResults() {
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetBindings(v.keymap.ListHelp())
}

func (v *View) focusSearch() tea.Cmd {
	v.focusInput = true
	v.statusbar.SetBindings(nil)
	return v.input.Focus()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.input.Value() == "" && v.list.IsEmpty():
		b.WriteString(v.styles.Muted.Render("Start typing to search the collection."))
	default:
		b.WriteString(v.list.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-6)
	v.statusbar.SetWidth(width)
}

// Reset clears the term, results and errors.
func (v *View) Reset() {
	v.input.Reset()
	v.list.SetRecords(nil)
	v.statusbar.Clear()
	v.statusbar.SetBindings(nil)
	v.err = nil
	v.lastTerm, v.delivered = "", false
	v.focusInput = true
	v.input.Focus()
}

// Query returns the current search term.
func (v *View) Query() string {
	return v.input.Value()
}

// Results returns the displayed result set.
func (v *View) Results() []domain.Record {
	return v.list.Records()
}

// SelectedIndex returns the highlighted result index.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// InputFocused reports whether the term input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Active reports whether a stream is open.
func (v *View) Active() bool {
	return v.stream != nil
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
