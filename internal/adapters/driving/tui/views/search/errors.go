package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoSearchStream indicates that no search stream factory was provided.
	ErrNoSearchStream = errors.New("search stream is required")
)
