package batch

import (
	"fmt"

	"github.com/neo4j-contrib/neorest/entity"
	"github.com/neo4j-contrib/neorest/types"
)

type targetKind int

const (
	targetURI targetKind = iota
	targetCollection
	targetJob
)

// Target names what a job operates on: an existing remote resource, a literal
// collection endpoint, or the not-yet-created result of an earlier job in the
// same batch.
type Target struct {
	kind targetKind
	uri  string
	job  *Job
}

// TargetURI targets an existing remote resource by absolute or relative
// locator.
func TargetURI(uri string) Target {
	return Target{kind: targetURI, uri: uri}
}

// TargetCollection targets a literal collection endpoint such as "node" or
// "cypher".
func TargetCollection(name string) Target {
	return Target{kind: targetCollection, uri: name}
}

// TargetNode targets a bound node, resolved immediately to its remote
// locator.
func TargetNode(n *entity.Node) Target {
	return Target{kind: targetURI, uri: n.URI}
}

// TargetRelationship targets a bound relationship.
func TargetRelationship(r *entity.Relationship) Target {
	return Target{kind: targetURI, uri: r.URI}
}

// TargetJob targets the result of a job already appended to the same batch.
// The server substitutes the created entity's address during execution.
func TargetJob(j *Job) Target {
	return Target{kind: targetJob, job: j}
}

// resolve turns the target into its wire-level address for a job being
// appended to b. Back-references resolve to the "{N}" placeholder and are
// validated here: the referenced job must already belong to b, which
// guarantees its sequence position is strictly below the new job's.
func (t Target) resolve(b *Batch) (string, error) {
	switch t.kind {
	case targetURI, targetCollection:
		if t.uri == "" {
			return "", types.NewError(types.BATCH_CONSTRUCTION, "empty target")
		}
		return t.uri, nil
	case targetJob:
		if t.job == nil {
			return "", types.NewError(types.BATCH_UNRESOLVED_REFERENCE,
				"back-reference to a nil job")
		}
		if t.job.batch != b {
			return "", types.NewError(types.BATCH_UNRESOLVED_REFERENCE,
				fmt.Sprintf("job %d was not appended to this batch", t.job.ID))
		}
		return fmt.Sprintf("{%d}", t.job.ID), nil
	default:
		return "", types.NewError(types.BATCH_CONSTRUCTION,
			fmt.Sprintf("unknown target kind %d", t.kind))
	}
}
