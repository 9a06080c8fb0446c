package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Default settings values.
const (
	// DefaultEndpoint is the collection served by `bestiary serve`.
	DefaultEndpoint = "http://localhost:8080/api/creatures"

	// DefaultTimeout bounds a single remote request.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the outbound request rate (requests per second).
	DefaultRateLimit = 10.0

	// DefaultDebounce is the quiescence window of the search pipeline.
	DefaultDebounce = 300 * time.Millisecond

	// DefaultMinTermLength is the shortest term sent to the remote collection.
	DefaultMinTermLength = 2
)

// APISettings holds remote collection configuration.
type APISettings struct {
	// Endpoint is the collection base URL.
	Endpoint string

	// Timeout bounds each request.
	Timeout time.Duration

	// Token is an optional bearer token.
	Token string

	// RateLimit caps outbound requests per second. Zero disables throttling.
	RateLimit float64
}

// Validate checks the endpoint is an absolute http(s) URL.
func (a APISettings) Validate() error {
	u, err := url.Parse(a.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: endpoint: %v", ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: endpoint must be http or https, got %q", ErrInvalidInput, a.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: endpoint has no host", ErrInvalidInput)
	}
	if a.Timeout < 0 || a.RateLimit < 0 {
		return fmt.Errorf("%w: timeout and rate limit must not be negative", ErrInvalidInput)
	}
	return nil
}

// SearchSettings holds incremental search configuration.
type SearchSettings struct {
	// Debounce is the quiescence window before a term is searched.
	Debounce time.Duration

	// MinTermLength is the shortest term that reaches the remote collection.
	// Shorter terms resolve to an empty result without a request.
	MinTermLength int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// API holds remote collection settings.
	API APISettings

	// Search holds search pipeline settings.
	Search SearchSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			Endpoint:  DefaultEndpoint,
			Timeout:   DefaultTimeout,
			RateLimit: DefaultRateLimit,
		},
		Search: SearchSettings{
			Debounce:      DefaultDebounce,
			MinTermLength: DefaultMinTermLength,
		},
	}
}
