package entity

import (
	"encoding/json"
	"fmt"

	"github.com/neo4j-contrib/neorest/types"
)

// Kind discriminates the variants of a hydrated Value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindNode
	KindRelationship
	KindPath
	KindRow
	KindRows
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindNode:
		return "node"
	case KindRelationship:
		return "relationship"
	case KindPath:
		return "path"
	case KindRow:
		return "row"
	case KindRows:
		return "rows"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is the tagged union produced by the hydrator. Exactly one of the
// variant fields is populated, selected by Kind.
type Value struct {
	Kind Kind

	Scalar       any
	Node         *Node
	Relationship *Relationship
	Path         *Path
	Row          []Value
	Rows         [][]Value
}

// IsNull reports whether the value is the absent/null variant.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Hydrate classifies one raw result body by structural shape and reconstructs
// the matching domain value. The shape table is checked in priority order:
// tabular, relationship, node, path; anything else passes through as a
// scalar. Hydration is pure: no network calls, no shared state.
func Hydrate(raw any) (Value, error) {
	if raw == nil {
		return Value{Kind: KindNull}, nil
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return Value{Kind: KindScalar, Scalar: raw}, nil
	}

	switch {
	case hasKeys(m, "columns", "data"):
		return hydrateTable(m)
	case hasKeys(m, "type", "start", "end"):
		return hydrateRelationship(m)
	case hasKeys(m, "self", "data"):
		return hydrateNode(m)
	case hasKeys(m, "nodes", "relationships"):
		return hydratePath(m)
	default:
		return Value{Kind: KindScalar, Scalar: raw}, nil
	}
}

// HydrateJSON decodes raw JSON and hydrates the result.
func HydrateJSON(raw json.RawMessage) (Value, error) {
	if len(raw) == 0 {
		return Value{Kind: KindNull}, nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Value{}, types.WrapError(types.HYDRATE_BAD_SHAPE,
			"result body is not valid JSON", err)
	}
	return Hydrate(decoded)
}

// hydrateTable reduces a tabular result per the single-value convention:
// zero rows is null, a single cell is that cell, a single multi-column row is
// the row, anything larger is the full row list. Cells hydrate recursively.
func hydrateTable(m map[string]any) (Value, error) {
	rawRows, ok := m["data"].([]any)
	if !ok {
		return Value{}, types.NewError(types.HYDRATE_BAD_SHAPE,
			"tabular result data is not a list")
	}

	rows := make([][]Value, 0, len(rawRows))
	for i, rawRow := range rawRows {
		cells, ok := rawRow.([]any)
		if !ok {
			return Value{}, types.NewError(types.HYDRATE_BAD_SHAPE,
				fmt.Sprintf("tabular row %d is not a list", i))
		}
		row := make([]Value, 0, len(cells))
		for _, cell := range cells {
			hydrated, err := Hydrate(cell)
			if err != nil {
				return Value{}, err
			}
			row = append(row, hydrated)
		}
		rows = append(rows, row)
	}

	switch {
	case len(rows) == 0:
		return Value{Kind: KindNull}, nil
	case len(rows) == 1 && len(rows[0]) == 1:
		return rows[0][0], nil
	case len(rows) == 1:
		return Value{Kind: KindRow, Row: rows[0]}, nil
	default:
		return Value{Kind: KindRows, Rows: rows}, nil
	}
}

func hydrateRelationship(m map[string]any) (Value, error) {
	relType, ok := m["type"].(string)
	if !ok {
		return Value{}, types.NewError(types.HYDRATE_BAD_SHAPE,
			"relationship type is not a string")
	}
	start, _ := m["start"].(string)
	end, _ := m["end"].(string)
	uri, _ := m["self"].(string)
	props, _ := m["data"].(map[string]any)

	return Value{
		Kind: KindRelationship,
		Relationship: &Relationship{
			URI:        uri,
			ID:         parseIDFromURI(uri),
			Type:       relType,
			StartURI:   start,
			EndURI:     end,
			Properties: props,
		},
	}, nil
}

func hydrateNode(m map[string]any) (Value, error) {
	uri, ok := m["self"].(string)
	if !ok {
		return Value{}, types.NewError(types.HYDRATE_BAD_SHAPE,
			"node self locator is not a string")
	}
	props, _ := m["data"].(map[string]any)

	return Value{Kind: KindNode, Node: NewNode(uri, props)}, nil
}

// hydratePath accepts both the compact wire form (URI strings) and embedded
// node/relationship objects in the sequences.
func hydratePath(m map[string]any) (Value, error) {
	rawNodes, ok := m["nodes"].([]any)
	if !ok {
		return Value{}, types.NewError(types.HYDRATE_BAD_SHAPE,
			"path nodes is not a list")
	}
	rawRels, ok := m["relationships"].([]any)
	if !ok {
		return Value{}, types.NewError(types.HYDRATE_BAD_SHAPE,
			"path relationships is not a list")
	}

	path := &Path{
		Nodes:         make([]*Node, 0, len(rawNodes)),
		Relationships: make([]*Relationship, 0, len(rawRels)),
	}

	for _, rawNode := range rawNodes {
		switch n := rawNode.(type) {
		case string:
			path.Nodes = append(path.Nodes, NodeRef(n))
		case map[string]any:
			hydrated, err := hydrateNode(n)
			if err != nil {
				return Value{}, err
			}
			path.Nodes = append(path.Nodes, hydrated.Node)
		default:
			return Value{}, types.NewError(types.HYDRATE_BAD_SHAPE,
				"path node is neither a locator nor an object")
		}
	}

	for _, rawRel := range rawRels {
		switch r := rawRel.(type) {
		case string:
			path.Relationships = append(path.Relationships, &Relationship{
				URI: r,
				ID:  parseIDFromURI(r),
			})
		case map[string]any:
			hydrated, err := hydrateRelationship(r)
			if err != nil {
				return Value{}, err
			}
			path.Relationships = append(path.Relationships, hydrated.Relationship)
		default:
			return Value{}, types.NewError(types.HYDRATE_BAD_SHAPE,
				"path relationship is neither a locator nor an object")
		}
	}

	return Value{Kind: KindPath, Path: path}, nil
}

func hasKeys(m map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := m[key]; !ok {
			return false
		}
	}
	return true
}
