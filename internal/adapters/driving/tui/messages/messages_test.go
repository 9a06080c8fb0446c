package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewMenu, "menu"},
		{ViewList, "list"},
		{ViewSearch, "search"},
		{ViewDetail, "detail"},
		{ViewForm, "form"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestViewType_DistinctValues(t *testing.T) {
	views := []ViewType{ViewMenu, ViewList, ViewSearch, ViewDetail, ViewForm, ViewHelp}

	seen := make(map[ViewType]bool)
	for _, v := range views {
		assert.False(t, seen[v], "duplicate view value: %d", v)
		seen[v] = true
	}
}

func TestRecordSelected_CarriesOrigin(t *testing.T) {
	msg := RecordSelected{From: ViewSearch}
	assert.Equal(t, ViewSearch, msg.From)
	assert.True(t, msg.Record.IsZero())
}
