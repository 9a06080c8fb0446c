package mcp

import (
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Records is the gateway to the remote collection.
	Records driving.RecordGateway
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Records == nil {
		return ErrMissingRecordGateway
	}
	return nil
}
