package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRemoteOperationFailed indicates a call to the remote collection failed.
	// It covers unreachable endpoints, non-success statuses and malformed bodies.
	// The record gateway never returns it to callers; it is translated into the
	// operation's fallback value.
	ErrRemoteOperationFailed = errors.New("remote operation failed")

	// Record validation errors.

	// ErrMissingName indicates a record has an empty name.
	ErrMissingName = errors.New("record name is required")

	// ErrCategoryCount indicates a record carries zero or more than two categories.
	ErrCategoryCount = errors.New("record must have one or two categories")

	// ErrUnknownCategory indicates a category outside the fixed label set.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrMissingID indicates an operation needs a server-assigned id.
	ErrMissingID = errors.New("record id is required")
)
