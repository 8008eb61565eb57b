package httpclient

import (
	"context"
	"net/url"
)

// Request describes a single outbound HTTP call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   url.Values
	Body    []byte
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	// StatusText is the reason phrase without the numeric code, e.g. "Not Found".
	StatusText() string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// A non-nil error means the request never produced an HTTP response.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
