// Package batch implements the batch transaction engine: an ordered,
// append-only collection of jobs submitted to the server's batch endpoint as
// one atomic transaction.
//
// # Jobs and targets
//
// Each job is a method + target + body triple. A target may name an existing
// remote resource, a literal collection endpoint, or (through TargetJob) the
// not-yet-created result of an earlier job in the same batch, encoded on the
// wire as the "{N}" placeholder. Back-references may only point to
// already-appended jobs; forward references fail at append time, not at
// submit time.
//
// # Execution modes
//
// A batch is submitted exactly once, through one of:
//
//   - Run: submit and discard all results
//   - Submit: submit and fully materialize hydrated results in job order
//   - Stream: submit and iterate results lazily from the buffered response
//
// All three transition the batch to its finished state whether the
// transaction succeeded or failed; any further submission attempt fails with
// the BATCH_FINISHED code.
//
// # Failures
//
// A failing transaction surfaces as *BatchError naming the first failing
// job's id, status, and target, with the remote exception chain attached.
// Callers branch on specific remote conditions through the exception kind
// string and the open kind registry (RegisterKind/KindCode) rather than a
// closed set of error types.
package batch
