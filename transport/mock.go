package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/neo4j-contrib/neorest/types"
)

// MockCall records one Post invocation on the mock client.
type MockCall struct {
	Path      string
	Body      json.RawMessage
	Timestamp time.Time
}

// MockClient is a scripted Client implementation for testing. Responses are
// consumed in FIFO order; every call is recorded for verification.
type MockClient struct {
	mu      sync.Mutex
	calls   []MockCall
	scripts []scriptedResult
}

type scriptedResult struct {
	resp *Response
	err  error
}

// NewMockClient creates a new mock transport client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Enqueue appends a scripted response (or error) for the next Post call.
func (m *MockClient) Enqueue(resp *Response, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts = append(m.scripts, scriptedResult{resp: resp, err: err})
}

// EnqueueJSON appends a scripted 200 response with the given JSON body.
func (m *MockClient) EnqueueJSON(body string) {
	m.Enqueue(&Response{Status: 200, Body: json.RawMessage(body)}, nil)
}

// Post records the call and returns the next scripted result.
func (m *MockClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, types.WrapError(types.TRANSPORT_REQUEST_FAILED,
			"failed to encode request body", err)
	}
	m.calls = append(m.calls, MockCall{
		Path:      path,
		Body:      raw,
		Timestamp: time.Now(),
	})

	if len(m.scripts) == 0 {
		return nil, types.NewError(types.TRANSPORT_REQUEST_FAILED,
			"mock client has no scripted response")
	}
	next := m.scripts[0]
	m.scripts = m.scripts[1:]
	return next.resp, next.err
}

// Calls returns a copy of all recorded calls.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall returns the most recent call, or nil if none were made.
func (m *MockClient) LastCall() *MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	call := m.calls[len(m.calls)-1]
	return &call
}
