// Package tui provides an interactive terminal user interface for bestiary.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
)

// StreamFactory opens a search stream bound to ctx.
type StreamFactory func(ctx context.Context) driving.SearchStream

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Records is the gateway to the remote collection.
	Records driving.RecordGateway

	// NewSearchStream opens the debounced search pipeline used by the search view.
	NewSearchStream StreamFactory
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(records driving.RecordGateway, streams StreamFactory) *Ports {
	return &Ports{
		Records:         records,
		NewSearchStream: streams,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Records == nil {
		return ErrMissingRecordGateway
	}
	if p.NewSearchStream == nil {
		return ErrMissingSearchStream
	}
	return nil
}
