// Package memory provides in-memory implementations of storage used by
// Bestiary: a config store for tests and a record store backing the mock
// collection server. Nothing here survives a restart.
package memory
