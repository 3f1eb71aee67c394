package graph

import (
	"fmt"
	"strings"
)

// Direction constrains which relationships of the subject a set covers.
type Direction int

const (
	// Outgoing covers (subject)-[r]->(peer).
	Outgoing Direction = iota
	// Incoming covers (subject)<-[r]-(peer).
	Incoming
	// Either covers both directions.
	Either
)

// String returns the string representation of Direction.
func (d Direction) String() string {
	switch d {
	case Outgoing:
		return "outgoing"
	case Incoming:
		return "incoming"
	case Either:
		return "either"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// pattern renders the relationship pattern between nodes a and b with the
// configured direction, e.g. "(a)-[r:`KNOWS`]->(b)".
func (d Direction) pattern(relType string) string {
	rel := fmt.Sprintf("[r:`%s`]", escapeIdentifier(relType))
	switch d {
	case Incoming:
		return "(a)<-" + rel + "-(b)"
	case Either:
		return "(a)-" + rel + "-(b)"
	default:
		return "(a)-" + rel + "->(b)"
	}
}

// matchRelatedQuery is the pull query: one match over the subject's
// relationships of the set's type and direction, returning (relationship,
// peer node) pairs.
func matchRelatedQuery(relType string, d Direction) string {
	return fmt.Sprintf("START a=node({id}) MATCH %s RETURN r, b", d.pattern(relType))
}

// mergePeerQuery merges an unbound peer node by label and primary key,
// setting its properties only on first creation.
func mergePeerQuery(label, keyName string) string {
	return fmt.Sprintf(
		"MERGE (b:`%s` {`%s`: {key}}) ON CREATE SET b={props} RETURN b",
		escapeIdentifier(label), escapeIdentifier(keyName))
}

// deleteStaleQuery deletes every relationship of the set's type whose far
// node is neither in the kept id list nor carries a kept key value. keyName
// may be empty when the set has no unbound peers to protect.
func deleteStaleQuery(relType string, d Direction, keyName string) string {
	where := "NOT id(b) IN {keep_ids}"
	if keyName != "" {
		where += fmt.Sprintf(" AND NOT b.`%s` IN {keep_keys}", escapeIdentifier(keyName))
	}
	return fmt.Sprintf("START a=node({id}) MATCH %s WHERE %s DELETE r",
		d.pattern(relType), where)
}

// mergeRelBoundQuery relates the subject to an already-bound peer if absent
// and refreshes the relationship properties.
func mergeRelBoundQuery(relType string, d Direction) string {
	return fmt.Sprintf(
		"START a=node({id}), b=node({peer_id}) CREATE UNIQUE %s SET r={props}",
		d.pattern(relType))
}

// mergeRelUnboundQuery relates the subject to a peer identified by label and
// primary key if absent and refreshes the relationship properties.
func mergeRelUnboundQuery(relType string, d Direction, label, keyName string) string {
	return fmt.Sprintf(
		"START a=node({id}) MATCH (b:`%s` {`%s`: {key}}) CREATE UNIQUE %s SET r={props}",
		escapeIdentifier(label), escapeIdentifier(keyName), d.pattern(relType))
}

// escapeIdentifier doubles backticks so identifiers can be safely quoted.
func escapeIdentifier(s string) string {
	return strings.ReplaceAll(s, "`", "``")
}
