// Package mcp provides an MCP (Model Context Protocol) server adapter for Bestiary.
// It lets AI assistants list, read and search the creature collection.
package mcp

import "errors"

// ErrMissingRecordGateway is returned when the record gateway is not provided.
var ErrMissingRecordGateway = errors.New("mcp: record gateway is required")
