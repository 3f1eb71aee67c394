package batch

import (
	"fmt"
	"sync"

	"github.com/neo4j-contrib/neorest/transport"
	"github.com/neo4j-contrib/neorest/types"
)

// BatchError is a remote-side transaction failure. It names the first failing
// job and carries the remote exception's identity, message, and cause chain.
// Jobs after the failing one must be assumed not to have executed; the
// transaction is rolled back as a unit.
type BatchError struct {
	// JobID is the sequence position of the first failing job.
	JobID int

	// Status is the HTTP status the failure was reported with.
	Status int

	// Target is the failing job's wire-level address.
	Target string

	// Cause is the remote exception chain, nil when the server sent no
	// structured failure payload.
	Cause *transport.Failure
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	if e.Cause != nil && e.Cause.Exception != "" {
		return fmt.Sprintf("batch job %d (%s) failed with %d: %s: %s",
			e.JobID, e.Target, e.Status, e.Cause.Exception, e.Cause.Message)
	}
	return fmt.Sprintf("batch job %d (%s) failed with %d", e.JobID, e.Target, e.Status)
}

// Kind returns the remote exception class name, empty when unknown.
func (e *BatchError) Kind() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Exception
}

// Code resolves the remote exception kind through the kind registry,
// returning the generic BATCH_FAILED code for unregistered kinds.
func (e *BatchError) Code() types.ErrorCode {
	if code, ok := KindCode(e.Kind()); ok {
		return code
	}
	return types.BATCH_FAILED
}

// mapServerError converts a transport failure into a BatchError. When the
// server does not attribute the failure to a job, it is pessimistically
// attributed to job 0: all-or-nothing semantics mean no job can be assumed
// to have executed.
func (b *Batch) mapServerError(serverErr *transport.ServerError) *BatchError {
	jobID := 0
	if serverErr.JobID != nil {
		jobID = *serverErr.JobID
	}

	target := ""
	if jobID >= 0 && jobID < len(b.jobs) {
		target = b.jobs[jobID].to
	}

	batchErr := &BatchError{
		JobID:  jobID,
		Status: serverErr.Status,
		Target: target,
	}
	if serverErr.Failure.Exception != "" || serverErr.Failure.Message != "" {
		failure := serverErr.Failure
		batchErr.Cause = &failure
	}
	return batchErr
}

// kindRegistry maps remote exception kind strings to error codes. Remote
// kinds are open-ended and server-version-dependent, so the mapping is
// extensible at runtime via RegisterKind.
var kindRegistry = struct {
	sync.RWMutex
	m map[string]types.ErrorCode
}{
	m: map[string]types.ErrorCode{
		"UniquePathNotUniqueException": types.BATCH_UNIQUENESS_VIOLATION,
		"ConstraintViolationException": types.BATCH_CONSTRAINT_VIOLATION,
		"SyntaxException":              types.BATCH_SYNTAX_ERROR,
		"NotFoundException":            types.BATCH_NOT_FOUND,
		"EntityNotFoundException":      types.BATCH_NOT_FOUND,
	},
}

// RegisterKind maps a remote exception kind string to an error code. Later
// registrations for the same kind win.
func RegisterKind(kind string, code types.ErrorCode) {
	kindRegistry.Lock()
	defer kindRegistry.Unlock()
	kindRegistry.m[kind] = code
}

// KindCode looks up the error code registered for a remote exception kind.
func KindCode(kind string) (types.ErrorCode, bool) {
	kindRegistry.RLock()
	defer kindRegistry.RUnlock()
	code, ok := kindRegistry.m[kind]
	return code, ok
}
