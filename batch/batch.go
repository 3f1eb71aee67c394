package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/neo4j-contrib/neorest/entity"
	"github.com/neo4j-contrib/neorest/transport"
	"github.com/neo4j-contrib/neorest/types"
)

// Service endpoints relative to the data root.
const (
	batchEndpoint  = "batch"
	cypherEndpoint = "cypher"
)

// State is the lifecycle state of a Batch.
type State int

const (
	// StateOpen accepts appends.
	StateOpen State = iota
	// StateSubmitted has been handed to the transport and awaits completion.
	StateSubmitted
	// StateFinished has completed (successfully or not) and is dead.
	StateFinished
)

// Batch is an ordered, append-only collection of jobs submitted to the server
// as one atomic transaction. Jobs execute server-side strictly in append
// order; back-references resolve against already-materialized results within
// the same transaction.
//
// A Batch is single-writer and single-use: build it, submit it once, discard
// it. It must not be appended to or submitted from multiple goroutines.
type Batch struct {
	client transport.Client
	logger *slog.Logger
	state  State
	jobs   []*Job
}

// Option is a functional option for configuring a Batch.
type Option func(*Batch)

// WithLogger sets the logger used for submission logging.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Batch) {
		b.logger = logger
	}
}

// New creates an empty open batch backed by the given transport client.
func New(client transport.Client, opts ...Option) *Batch {
	b := &Batch{
		client: client,
		logger: slog.Default(),
		state:  StateOpen,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Len returns the number of appended jobs.
func (b *Batch) Len() int {
	return len(b.jobs)
}

// State returns the batch's lifecycle state.
func (b *Batch) State() State {
	return b.state
}

// Jobs returns the appended jobs in order.
func (b *Batch) Jobs() []*Job {
	return b.jobs
}

// Append adds one job to the batch and returns it for later reference.
// Appending fails fast on a non-open batch or an unresolvable target; a
// failed append leaves the batch unchanged and does not consume an ID.
func (b *Batch) Append(method Method, target Target, body any) (*Job, error) {
	if b.state != StateOpen {
		return nil, types.NewError(types.BATCH_CONSTRUCTION,
			"cannot append to a submitted batch")
	}

	addr, err := target.resolve(b)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:     len(b.jobs),
		Method: method,
		Body:   body,
		to:     addr,
		batch:  b,
	}
	b.jobs = append(b.jobs, job)
	return job, nil
}

// AppendGet appends a GET job.
func (b *Batch) AppendGet(target Target) (*Job, error) {
	return b.Append(GET, target, nil)
}

// AppendPut appends a PUT job.
func (b *Batch) AppendPut(target Target, body any) (*Job, error) {
	return b.Append(PUT, target, body)
}

// AppendPost appends a POST job.
func (b *Batch) AppendPost(target Target, body any) (*Job, error) {
	return b.Append(POST, target, body)
}

// AppendDelete appends a DELETE job.
func (b *Batch) AppendDelete(target Target) (*Job, error) {
	return b.Append(DELETE, target, nil)
}

// cypherBody is the wire form of a query job body.
type cypherBody struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params,omitempty"`
}

// AppendCypher appends a query job against the cypher endpoint. This is the
// single primitive behind all merge and unique-path compositions.
func (b *Batch) AppendCypher(query string, params map[string]any) (*Job, error) {
	return b.Append(POST, TargetCollection(cypherEndpoint), cypherBody{
		Query:  query,
		Params: params,
	})
}

// AppendCreateNode appends a node creation job with the given properties.
func (b *Batch) AppendCreateNode(properties map[string]any) (*Job, error) {
	return b.Append(POST, TargetCollection("node"), properties)
}

// RelEnd is either a *Job appended to the same batch or a bound
// *entity.Node, used as a relationship endpoint.
type RelEnd any

// escapeType escapes a relationship type for use inside backticks.
func escapeType(t string) string {
	return strings.ReplaceAll(t, "`", "``")
}

func (b *Batch) endAddress(end RelEnd) (string, error) {
	switch e := end.(type) {
	case *Job:
		return TargetJob(e).resolve(b)
	case *entity.Node:
		return TargetNode(e).resolve(b)
	default:
		return "", types.NewError(types.BATCH_CONSTRUCTION,
			fmt.Sprintf("relationship endpoint must be *Job or *entity.Node, got %T", end))
	}
}

// AppendCreateRelationship appends a relationship creation job from start to
// end. Either endpoint may be a job appended earlier to this batch, in which
// case the server substitutes the just-created node's address.
func (b *Batch) AppendCreateRelationship(start RelEnd, relType string, end RelEnd, properties map[string]any) (*Job, error) {
	startAddr, err := b.endAddress(start)
	if err != nil {
		return nil, err
	}
	endAddr, err := b.endAddress(end)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"to":   endAddr,
		"type": relType,
	}
	if len(properties) > 0 {
		body["data"] = properties
	}
	return b.Append(POST, TargetURI(startAddr+"/relationships"), body)
}

// AppendRelateUnique appends a relate-if-absent job between two bound nodes,
// composed on the cypher primitive. The relationship is created only when no
// relationship of the given type already connects the nodes.
func (b *Batch) AppendRelateUnique(start *entity.Node, relType string, properties map[string]any, end *entity.Node) (*Job, error) {
	query := fmt.Sprintf(
		"START a=node({a}), b=node({b}) CREATE UNIQUE (a)-[r:`%s`]->(b) SET r={props} RETURN r",
		escapeType(relType))
	return b.AppendCypher(query, map[string]any{
		"a":     start.ID,
		"b":     end.ID,
		"props": properties,
	})
}

// AppendGetOrCreatePath appends a unique-path job from a bound start node to
// a node carrying the given properties, composed on the cypher primitive.
func (b *Batch) AppendGetOrCreatePath(start *entity.Node, relType string, nodeProperties map[string]any) (*Job, error) {
	query := fmt.Sprintf(
		"START a=node({a}) CREATE UNIQUE p = (a)-[:`%s`]->(b {props}) RETURN p",
		escapeType(relType))
	return b.AppendCypher(query, map[string]any{
		"a":     start.ID,
		"props": nodeProperties,
	})
}

// AppendAddLabels appends a label-edit job adding labels to a node, which may
// be an earlier job's result.
func (b *Batch) AppendAddLabels(node RelEnd, labels ...string) (*Job, error) {
	addr, err := b.endAddress(node)
	if err != nil {
		return nil, err
	}
	return b.Append(POST, TargetURI(addr+"/labels"), labels)
}

// AppendRemoveLabel appends a label-edit job removing one label from a node.
func (b *Batch) AppendRemoveLabel(node RelEnd, label string) (*Job, error) {
	addr, err := b.endAddress(node)
	if err != nil {
		return nil, err
	}
	return b.Append(DELETE, TargetURI(addr+"/labels/"+label), nil)
}

// Result is one hydrated job result, returned in job order.
type Result struct {
	JobID    int
	Status   int
	Location string
	Body     entity.Value
}

// post submits the batch payload exactly once and transitions the batch to
// finished regardless of outcome.
func (b *Batch) post(ctx context.Context) (*transport.Response, error) {
	if b.state != StateOpen {
		return nil, types.NewError(types.BATCH_FINISHED,
			"batch has already been submitted")
	}
	b.state = StateSubmitted
	defer func() { b.state = StateFinished }()

	payload := make([]jobPayload, len(b.jobs))
	for i, job := range b.jobs {
		payload[i] = jobPayload{
			ID:     job.ID,
			Method: job.Method,
			To:     job.to,
			Body:   job.Body,
		}
	}

	b.logger.Debug("submitting batch", "jobs", len(payload))

	resp, err := b.client.Post(ctx, batchEndpoint, payload)
	if err != nil {
		if serverErr, ok := err.(*transport.ServerError); ok {
			return nil, b.mapServerError(serverErr)
		}
		return nil, err
	}
	return resp, nil
}

// Run submits the batch and discards all results. This is the fastest path
// when results are not needed: all mutations happen, nothing is decoded.
func (b *Batch) Run(ctx context.Context) error {
	_, err := b.post(ctx)
	return err
}

// Submit submits the batch and fully materializes the hydrated results, one
// per job, in job order.
func (b *Batch) Submit(ctx context.Context) ([]Result, error) {
	resp, err := b.post(ctx)
	if err != nil {
		return nil, err
	}

	var payloads []resultPayload
	if err := json.Unmarshal(resp.Body, &payloads); err != nil {
		return nil, types.WrapError(types.TRANSPORT_BAD_RESPONSE,
			"batch response is not a result array", err)
	}
	if len(payloads) != len(b.jobs) {
		return nil, types.NewError(types.TRANSPORT_BAD_RESPONSE,
			fmt.Sprintf("expected %d results, got %d", len(b.jobs), len(payloads)))
	}

	results := make([]Result, 0, len(payloads))
	for _, p := range payloads {
		result, err := b.buildResult(p)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Stream submits the batch and returns a lazy iterator over the results. The
// server has already executed the full transaction by the time iteration
// starts; stopping early has no effect on what was written.
func (b *Batch) Stream(ctx context.Context) (*Stream, error) {
	resp, err := b.post(ctx)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	tok, err := dec.Token()
	if err != nil {
		return nil, types.WrapError(types.TRANSPORT_BAD_RESPONSE,
			"batch response is not a result array", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, types.NewError(types.TRANSPORT_BAD_RESPONSE,
			"batch response is not a result array")
	}

	return &Stream{batch: b, dec: dec}, nil
}

// buildResult hydrates one decoded result payload, surfacing per-job
// failures as *BatchError.
func (b *Batch) buildResult(p resultPayload) (Result, error) {
	if p.Status >= 400 {
		serverErr := &transport.ServerError{Status: p.Status, JobID: &p.ID}
		_ = json.Unmarshal(p.Body, &serverErr.Failure)
		return Result{}, b.mapServerError(serverErr)
	}

	value, err := entity.HydrateJSON(p.Body)
	if err != nil {
		return Result{}, err
	}
	return Result{
		JobID:    p.ID,
		Status:   p.Status,
		Location: p.Location,
		Body:     value,
	}, nil
}

// Stream yields batch results lazily as they are parsed from the
// already-received response body. It is not rewindable; re-running requires a
// fresh batch.
type Stream struct {
	batch *Batch
	dec   *json.Decoder
	done  bool
}

// Next returns the next hydrated result, or io.EOF when the stream is
// exhausted.
func (s *Stream) Next() (*Result, error) {
	if s.done {
		return nil, io.EOF
	}
	if !s.dec.More() {
		s.done = true
		return nil, io.EOF
	}

	var p resultPayload
	if err := s.dec.Decode(&p); err != nil {
		s.done = true
		return nil, types.WrapError(types.TRANSPORT_BAD_RESPONSE,
			"failed to decode result", err)
	}

	result, err := s.batch.buildResult(p)
	if err != nil {
		s.done = true
		return nil, err
	}
	return &result, nil
}
