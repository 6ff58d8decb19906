package easytrans

import (
	"context"
	"encoding/json"
	"net/url"
)

// RestAPI is the transport for the Basic-Auth REST surface. Implementations
// classify non-2xx statuses into *Error values and return the raw response
// body, which the client decodes into typed models.
type RestAPI interface {
	Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any) (json.RawMessage, error)
	Close()
}
