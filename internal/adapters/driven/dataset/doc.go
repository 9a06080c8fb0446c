// Package dataset loads creature records from JSON or YAML files and
// watches those files for changes so the mock server can hot reload.
package dataset
