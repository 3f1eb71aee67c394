package entity

import (
	"strconv"
	"strings"
)

// Node represents a graph node. A node constructed from a remote response is
// bound to its resource URI; a NodeRef has no cached property snapshot yet.
type Node struct {
	// URI is the node's resource address on the server.
	URI string

	// ID is the numeric identifier parsed from the URI tail.
	ID int64

	// Properties is the property snapshot captured at hydration time.
	// Nil for lazily-resolved references.
	Properties map[string]any
}

// NewNode creates a bound node from its resource URI and property snapshot.
func NewNode(uri string, properties map[string]any) *Node {
	return &Node{
		URI:        uri,
		ID:         parseIDFromURI(uri),
		Properties: properties,
	}
}

// NodeRef creates a lazily-resolved node reference from a resource URI.
func NodeRef(uri string) *Node {
	return &Node{
		URI: uri,
		ID:  parseIDFromURI(uri),
	}
}

// Relationship represents a typed graph relationship. Start and end nodes are
// carried as resource URIs and resolved lazily by the caller when needed.
type Relationship struct {
	URI        string
	ID         int64
	Type       string
	StartURI   string
	EndURI     string
	Properties map[string]any
}

// Start returns a lazily-resolved reference to the start node.
func (r *Relationship) Start() *Node {
	return NodeRef(r.StartURI)
}

// End returns a lazily-resolved reference to the end node.
func (r *Relationship) End() *Node {
	return NodeRef(r.EndURI)
}

// Path is an alternating node/relationship sequence. A path of length N has
// N+1 nodes and N relationships.
type Path struct {
	Nodes         []*Node
	Relationships []*Relationship
}

// Length returns the number of relationships in the path.
func (p *Path) Length() int {
	return len(p.Relationships)
}

// ParseID extracts the trailing numeric id from a resource URI.
// Returns -1 when the URI has no numeric tail.
func ParseID(uri string) int64 {
	return parseIDFromURI(uri)
}

func parseIDFromURI(uri string) int64 {
	trimmed := strings.TrimSuffix(uri, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return -1
	}
	id, err := strconv.ParseInt(trimmed[idx+1:], 10, 64)
	if err != nil {
		return -1
	}
	return id
}
