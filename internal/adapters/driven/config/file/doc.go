// Package file provides the TOML-backed configuration store used by the
// Bestiary CLI. Settings live in ~/.bestiary/config.toml unless another
// directory is given.
package file
