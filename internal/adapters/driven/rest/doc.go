// Package rest implements driven.Transport over HTTP/JSON.
//
// Each request is throttled by a token bucket, tagged with an X-Request-ID,
// and optionally authenticated with a static bearer token. Non-success
// statuses come back as *StatusError, which matches
// domain.ErrRemoteOperationFailed under errors.Is.
package rest
