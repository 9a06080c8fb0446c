package tui

import "errors"

// ErrMissingRecordGateway is returned when the record gateway is not provided.
var ErrMissingRecordGateway = errors.New("tui: record gateway is required")

// ErrMissingSearchStream is returned when the search stream factory is not provided.
var ErrMissingSearchStream = errors.New("tui: search stream factory is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
