package batch

import "encoding/json"

// Method is the HTTP verb of a batch job.
type Method string

// Supported job methods.
const (
	GET    Method = "GET"
	PUT    Method = "PUT"
	POST   Method = "POST"
	DELETE Method = "DELETE"
)

// Job is one pending operation inside a Batch. Jobs are created exclusively
// through Batch append calls and are immutable once appended. A Job never
// outlives its Batch and is never shared across Batches.
type Job struct {
	// ID is the job's sequence position, assigned at append, 0-based.
	ID int

	// Method is the HTTP verb the server will apply.
	Method Method

	// Body is the opaque JSON value tree sent with the job, nil for none.
	Body any

	// to is the resolved wire-level address ("/node/42", "cypher", "{0}").
	to string

	// batch is the owning batch; used to reject cross-batch references.
	batch *Batch
}

// Address returns the wire-level address the job targets.
func (j *Job) Address() string {
	return j.to
}

// jobPayload is the wire form of one job in the batch request array.
type jobPayload struct {
	ID     int    `json:"id"`
	Method Method `json:"method"`
	To     string `json:"to"`
	Body   any    `json:"body,omitempty"`
}

// resultPayload is the wire form of one job result in the response array.
type resultPayload struct {
	ID       int             `json:"id"`
	From     string          `json:"from"`
	Status   int             `json:"status"`
	Body     json.RawMessage `json:"body"`
	Location string          `json:"location"`
}
