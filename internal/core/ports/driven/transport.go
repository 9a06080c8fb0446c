package driven

import (
	"context"
	"net/url"
)

// Request describes a single call against the remote collection.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE).
	Method string

	// Path is appended to the collection base URL. Empty targets the
	// collection itself; "/7" targets the record with id 7.
	Path string

	// Query holds optional query parameters.
	Query url.Values

	// Body is encoded as JSON when non-nil.
	Body any
}

// Transport issues requests against the remote collection endpoint.
// Implementations return an error for network failures and non-success
// statuses. The returned bytes are the raw response body.
type Transport interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}
