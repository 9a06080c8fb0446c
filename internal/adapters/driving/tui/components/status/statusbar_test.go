package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Setters(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateSearching)
	bar.SetMessage("saved")
	bar.SetResultCount(3)
	bar.SetWidth(120)

	assert.Equal(t, StateSearching, bar.State())
	assert.Equal(t, "saved", bar.Message())
	assert.Equal(t, 3, bar.ResultCount())
	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("collection unreachable")
	bar.SetResultCount(10)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		count   int
		want    []string
	}{
		{"ready", StateReady, "", 0, []string{"Ready"}},
		{"ready with message", StateReady, "Saved Pikachu", 0, []string{"Saved Pikachu"}},
		{"loading", StateLoading, "", 0, []string{"Loading"}},
		{"searching", StateSearching, "", 0, []string{"Searching"}},
		{"saving", StateSaving, "", 0, []string{"Saving"}},
		{"error", StateError, "", 0, []string{"Error"}},
		{"error with message", StateError, "update failed", 0, []string{"Error", "update failed"}},
		{"one result", StateResults, "", 1, []string{"1 creature"}},
		{"results", StateResults, "", 5, []string{"5 creatures"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetResultCount(tt.count)

			view := bar.View()

			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
		})
	}
}

func TestStatusBar_View_Bindings(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "help")

	bar.SetBindings(km.DetailHelp())
	view := bar.View()
	assert.Contains(t, view, "edit")
	assert.Contains(t, view, "delete")

	bar.SetBindings(nil)
	assert.Contains(t, bar.View(), "back")
}
