// Package graph provides the graph handle and the related-object
// reconciliation layer.
//
// # Related sets
//
// A RelatedSet caches one subject node's relationships of a single type and
// direction. The lifecycle is unloaded → loaded:
//
//	set := graph.NewRelatedSet(subject, "KNOWS", graph.Outgoing,
//	    graph.NodePeerFactory("Person", "email"))
//
//	if err := set.Pull(ctx, g); err != nil { ... }
//	set.Add(peer, map[string]any{"since": 2020})
//	set.Remove(former)
//	if err := set.Push(ctx, g); err != nil { ... }
//
// Push computes the diff between the in-memory entries and the remote graph
// and applies it as one atomic batch: merge unbound peers, delete stale
// relationships, merge every current relationship with refreshed properties.
// Only the necessary creates and deletes are sent, and a single round trip
// occurs.
//
// Push deliberately refuses to run on a set that was never loaded: treating
// "never pulled" as "known empty" would mass-delete the subject's remote
// relationships. Call Pull first, or MarkEmpty when the remote state is known
// to be empty.
package graph
