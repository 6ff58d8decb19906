package easytrans

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// MockRestCall records a single request received by MockRestAPI.
type MockRestCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// MockRestAPI is a mock implementation of RestAPI for testing. By default
// GET returns an empty list page and PUT echoes an empty data object.
type MockRestAPI struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGet func(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
	OnPut func(ctx context.Context, path string, body any) (json.RawMessage, error)

	// Calls records every request received, in order.
	Calls []MockRestCall
}

// NewMockRestAPI creates a new mock REST API with default behavior.
func NewMockRestAPI() *MockRestAPI {
	return &MockRestAPI{}
}

// Get returns mock list or detail data.
func (m *MockRestAPI) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	m.Calls = append(m.Calls, MockRestCall{Method: "GET", Path: path, Query: query})

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, &Error{Kind: KindTransport, StatusCode: 500, Message: "simulated API error"}
	}
	if m.OnGet != nil {
		return m.OnGet(ctx, path, query)
	}

	return json.RawMessage(`{
		"data": [],
		"links": {"first": null, "last": null, "prev": null, "next": null},
		"meta": {"current_page": 1, "last_page": 1, "per_page": 100, "total": 0}
	}`), nil
}

// Put returns a mock update response.
func (m *MockRestAPI) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	m.Calls = append(m.Calls, MockRestCall{Method: "PUT", Path: path, Body: body})

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, &Error{Kind: KindTransport, StatusCode: 500, Message: "simulated API error"}
	}
	if m.OnPut != nil {
		return m.OnPut(ctx, path, body)
	}

	return json.RawMessage(`{"data": {}}`), nil
}

// Close is a no-op for the mock.
func (m *MockRestAPI) Close() {}

var _ RestAPI = (*MockRestAPI)(nil)
