// Package entity defines the graph domain values (Node, Relationship, Path)
// and the response hydrator that reconstructs them from raw JSON result
// bodies.
//
// # Hydration
//
// Hydrate classifies one raw result by structural shape, using an ordered
// table where the first match wins:
//
//  1. Tabular ("columns" + "data"): reduced per the single-value convention
//  2. Relationship ("type" + "start" + "end")
//  3. Node ("self" + "data", no "type")
//  4. Path ("nodes" + "relationships")
//  5. Anything else: passed through unchanged as a scalar
//
// The result is a tagged union (Value) discriminated by Kind, rather than
// ad hoc key-presence probing at call sites. Hydration is pure and applied
// uniformly to streamed and fully materialized batch results.
package entity
