package graph

import (
	"context"
	"fmt"

	"github.com/neo4j-contrib/neorest/entity"
	"github.com/neo4j-contrib/neorest/types"
)

// Entry is one (peer, relationship properties) pair held by a RelatedSet.
type Entry struct {
	Peer       Peer
	Properties map[string]any
}

// RelatedSet is the in-memory cache of one subject node's relationships of a
// given type and direction. It is created unloaded, populated by Pull,
// mutated locally by Add/Remove/Update, and reconciled to the remote graph
// by Push.
//
// The set only holds references: it owns neither the subject nor the peers,
// and its lifetime is the owner's. It must not be shared or pushed
// concurrently; Pull and Push replace or read entries wholesale and need
// external serialization if the owning object is accessed from multiple
// goroutines.
type RelatedSet struct {
	subject     Peer
	relType     string
	direction   Direction
	peerFactory PeerFactory
	entries     []Entry
	loaded      bool
}

// NewRelatedSet creates an empty, unloaded set for the given subject,
// relationship type and direction. factory wraps pulled peer nodes.
func NewRelatedSet(subject Peer, relType string, direction Direction, factory PeerFactory) *RelatedSet {
	return &RelatedSet{
		subject:     subject,
		relType:     relType,
		direction:   direction,
		peerFactory: factory,
	}
}

// Loaded reports whether the set reflects known remote state (via Pull or
// MarkEmpty).
func (s *RelatedSet) Loaded() bool {
	return s.loaded
}

// Len returns the number of entries.
func (s *RelatedSet) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entry list.
func (s *RelatedSet) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// MarkEmpty declares the set's remote state to be known empty without a
// Pull, making a subsequent Push legal. Local entries are kept.
func (s *RelatedSet) MarkEmpty() {
	s.loaded = true
}

// Pull replaces the entries wholesale with the subject's current remote
// relationships. An unbound subject leaves the set empty but loaded.
func (s *RelatedSet) Pull(ctx context.Context, g *Graph) error {
	if !s.subject.Bound() {
		s.entries = nil
		s.loaded = true
		return nil
	}

	result, err := g.Query(ctx, matchRelatedQuery(s.relType, s.direction), map[string]any{
		"id": entity.ParseID(s.subject.URI()),
	})
	if err != nil {
		return err
	}

	var entries []Entry
	for i, row := range resultRows(result) {
		if len(row) != 2 || row[0].Kind != entity.KindRelationship || row[1].Kind != entity.KindNode {
			return types.NewError(types.TRANSPORT_BAD_RESPONSE,
				fmt.Sprintf("row %d is not a (relationship, node) pair", i))
		}
		entries = append(entries, Entry{
			Peer:       s.peerFactory(row[1].Node),
			Properties: row[0].Relationship.Properties,
		})
	}

	s.entries = entries
	s.loaded = true
	return nil
}

// Add records a relation to peer with the given properties. If an entry with
// an equal peer exists its properties are replaced. Returns whether a new
// entry was created.
func (s *RelatedSet) Add(peer Peer, properties map[string]any) bool {
	for i := range s.entries {
		if samePeer(s.entries[i].Peer, peer) {
			s.entries[i].Properties = properties
			return false
		}
	}
	s.entries = append(s.entries, Entry{Peer: peer, Properties: properties})
	return true
}

// Remove deletes all entries whose peer equals the given one. Removing an
// absent peer is a no-op.
func (s *RelatedSet) Remove(peer Peer) {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if !samePeer(e.Peer, peer) {
			kept = append(kept, e)
		}
	}
	s.entries = kept
}

// Update merge-updates the properties of the entry matching peer, creating
// the entry when absent.
func (s *RelatedSet) Update(peer Peer, properties map[string]any) {
	for i := range s.entries {
		if samePeer(s.entries[i].Peer, peer) {
			if s.entries[i].Properties == nil {
				s.entries[i].Properties = make(map[string]any, len(properties))
			}
			for k, v := range properties {
				s.entries[i].Properties[k] = v
			}
			return
		}
	}
	s.entries = append(s.entries, Entry{Peer: peer, Properties: properties})
}

// Get looks up one relationship property on the entry matching peer,
// returning def when the peer has no entry or the key is absent.
func (s *RelatedSet) Get(peer Peer, key string, def any) any {
	for _, e := range s.entries {
		if samePeer(e.Peer, peer) {
			if v, ok := e.Properties[key]; ok {
				return v
			}
			return def
		}
	}
	return def
}

// Push reconciles the remote graph to the in-memory entries as one atomic
// batch: unbound peers are merged first, stale relationships deleted next,
// then every current relation merged with its properties refreshed. The only
// round trip is the submit.
//
// Push requires known remote state (Pull or MarkEmpty first); pushing a set
// that was never loaded would silently delete every remote relationship of
// this type. A failed Push leaves the local entries untouched.
func (s *RelatedSet) Push(ctx context.Context, g *Graph) error {
	if !s.loaded {
		return types.NewError(types.RELSET_NOT_LOADED,
			"push requires Pull or MarkEmpty first")
	}
	if !s.subject.Bound() {
		return types.NewError(types.RELSET_UNBOUND_SUBJECT,
			"push requires a bound subject node")
	}

	subjectID := entity.ParseID(s.subject.URI())
	b := g.NewBatch()

	// (a) merge every peer that does not exist remotely yet.
	for _, e := range s.entries {
		if e.Peer.Bound() {
			continue
		}
		keyName, keyValue := e.Peer.Key()
		_, err := b.AppendCypher(mergePeerQuery(e.Peer.Label(), keyName), map[string]any{
			"key":   keyValue,
			"props": nonNil(e.Peer.Properties()),
		})
		if err != nil {
			return err
		}
	}

	// (b) delete relationships to nodes no longer among the peers.
	keepIDs := make([]int64, 0, len(s.entries))
	keepKeys := make([]any, 0)
	keyName := ""
	for _, e := range s.entries {
		if e.Peer.Bound() {
			keepIDs = append(keepIDs, entity.ParseID(e.Peer.URI()))
		} else {
			name, value := e.Peer.Key()
			keyName = name
			keepKeys = append(keepKeys, value)
		}
	}
	deleteParams := map[string]any{
		"id":       subjectID,
		"keep_ids": keepIDs,
	}
	if keyName != "" {
		deleteParams["keep_keys"] = keepKeys
	}
	if _, err := b.AppendCypher(deleteStaleQuery(s.relType, s.direction, keyName), deleteParams); err != nil {
		return err
	}

	// (c) merge every current relation, refreshing its properties. This
	// covers both newly added and property-updated relations.
	for _, e := range s.entries {
		props := nonNil(e.Properties)
		if e.Peer.Bound() {
			_, err := b.AppendCypher(mergeRelBoundQuery(s.relType, s.direction), map[string]any{
				"id":      subjectID,
				"peer_id": entity.ParseID(e.Peer.URI()),
				"props":   props,
			})
			if err != nil {
				return err
			}
		} else {
			name, value := e.Peer.Key()
			_, err := b.AppendCypher(mergeRelUnboundQuery(s.relType, s.direction, e.Peer.Label(), name), map[string]any{
				"id":    subjectID,
				"key":   value,
				"props": props,
			})
			if err != nil {
				return err
			}
		}
	}

	return b.Run(ctx)
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
