package transport

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client is the narrow resource-client interface the batch engine consumes.
// Implementations must be safe for concurrent use.
type Client interface {
	// Post sends a JSON body to the given endpoint and returns the decoded
	// response. path may be relative to the service root or an absolute URI.
	// Non-2xx responses are returned as *ServerError.
	Post(ctx context.Context, path string, body any) (*Response, error)
}

// Response is a successful HTTP response from the service.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Location is the Location header, set when the server created a resource.
	Location string

	// Body is the raw JSON response body, empty for bodyless responses.
	Body json.RawMessage
}

// Failure describes a remote server exception. The server reports its
// exception class name in Exception; Cause chains nested exceptions.
type Failure struct {
	Message    string   `json:"message"`
	Exception  string   `json:"exception"`
	FullName   string   `json:"fullname"`
	StackTrace []string `json:"stacktrace"`
	Cause      *Failure `json:"cause,omitempty"`
}

// ServerError is returned when the service answers with a non-2xx status.
// JobID is set when the server attributes the failure to a specific batch job.
type ServerError struct {
	Status  int
	JobID   *int
	Failure Failure
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Failure.Exception != "" {
		return fmt.Sprintf("server returned %d: %s: %s",
			e.Status, e.Failure.Exception, e.Failure.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}
