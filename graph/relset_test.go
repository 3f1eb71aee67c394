package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neo4j-contrib/neorest/entity"
	"github.com/neo4j-contrib/neorest/transport"
	"github.com/neo4j-contrib/neorest/types"
)

const nodeURIBase = "http://localhost:7474/db/data/node/"

func boundPeer(id int64, email string) Peer {
	node := entity.NewNode(fmt.Sprintf("%s%d", nodeURIBase, id), map[string]any{"email": email})
	return NodePeer{Node: node, NodeLabel: "Person", KeyName: "email"}
}

func localPeer(email string) Peer {
	node := &entity.Node{Properties: map[string]any{"email": email, "name": email}}
	return NodePeer{Node: node, NodeLabel: "Person", KeyName: "email"}
}

func newTestSet() *RelatedSet {
	return NewRelatedSet(boundPeer(1, "subject@example.com"), "KNOWS", Outgoing,
		NodePeerFactory("Person", "email"))
}

func TestRelatedSet_AddReplacesSamePeer(t *testing.T) {
	set := newTestSet()
	peer := boundPeer(2, "b@example.com")

	created := set.Add(peer, map[string]any{"since": 2006})
	assert.True(t, created)
	assert.Equal(t, 1, set.Len())

	// Same peer, different properties: replaced, not duplicated.
	created = set.Add(peer, map[string]any{"since": 2020})
	assert.False(t, created)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, map[string]any{"since": 2020}, set.Entries()[0].Properties)
}

func TestRelatedSet_PeerEquality(t *testing.T) {
	set := newTestSet()

	// Unbound peers compare by primary-key value.
	created := set.Add(localPeer("d@example.com"), nil)
	assert.True(t, created)
	created = set.Add(localPeer("d@example.com"), map[string]any{"weight": 1})
	assert.False(t, created)
	assert.Equal(t, 1, set.Len())

	// A bound peer with a different URI is a different relation.
	created = set.Add(boundPeer(3, "c@example.com"), nil)
	assert.True(t, created)
	assert.Equal(t, 2, set.Len())
}

func TestRelatedSet_RemoveAbsentPeer(t *testing.T) {
	set := newTestSet()
	set.Add(boundPeer(2, "b@example.com"), nil)

	set.Remove(boundPeer(9, "nobody@example.com"))
	assert.Equal(t, 1, set.Len())
}

func TestRelatedSet_Update(t *testing.T) {
	set := newTestSet()
	peer := boundPeer(2, "b@example.com")
	set.Add(peer, map[string]any{"since": 2006, "close": true})

	// Merge-update keeps untouched keys.
	set.Update(peer, map[string]any{"since": 2020})
	assert.Equal(t, map[string]any{"since": 2020, "close": true}, set.Entries()[0].Properties)

	// Updating an unknown peer creates the entry.
	set.Update(boundPeer(3, "c@example.com"), map[string]any{"since": 2021})
	assert.Equal(t, 2, set.Len())
}

func TestRelatedSet_Get(t *testing.T) {
	set := newTestSet()
	peer := boundPeer(2, "b@example.com")
	set.Add(peer, map[string]any{"since": 2006})

	assert.Equal(t, 2006, set.Get(peer, "since", -1))
	assert.Equal(t, -1, set.Get(peer, "weight", -1))
	assert.Equal(t, -1, set.Get(boundPeer(9, "x@example.com"), "since", -1))
}

func pullResponse(t *testing.T, pairs ...[2]any) string {
	t.Helper()
	data := make([]any, 0, len(pairs))
	for _, p := range pairs {
		data = append(data, []any{p[0], p[1]})
	}
	body, err := json.Marshal(map[string]any{"columns": []string{"r", "b"}, "data": data})
	require.NoError(t, err)
	return fmt.Sprintf(`[{"id":0,"from":"/cypher","status":200,"body":%s}]`, body)
}

func relJSON(id int64, startID, endID int64, props map[string]any) map[string]any {
	return map[string]any{
		"self":  fmt.Sprintf("http://localhost:7474/db/data/relationship/%d", id),
		"type":  "KNOWS",
		"start": fmt.Sprintf("%s%d", nodeURIBase, startID),
		"end":   fmt.Sprintf("%s%d", nodeURIBase, endID),
		"data":  props,
	}
}

func nodeJSON(id int64, email string) map[string]any {
	return map[string]any{
		"self": fmt.Sprintf("%s%d", nodeURIBase, id),
		"data": map[string]any{"email": email},
	}
}

func TestRelatedSet_Pull(t *testing.T) {
	mock := transport.NewMockClient()
	g := New(mock)
	set := newTestSet()

	mock.EnqueueJSON(pullResponse(t,
		[2]any{relJSON(10, 1, 2, map[string]any{"since": float64(2006)}), nodeJSON(2, "b@example.com")},
		[2]any{relJSON(11, 1, 3, nil), nodeJSON(3, "c@example.com")},
	))

	require.NoError(t, set.Pull(context.Background(), g))
	assert.True(t, set.Loaded())
	require.Equal(t, 2, set.Len())

	entries := set.Entries()
	assert.Equal(t, "b@example.com", entries[0].Peer.Properties()["email"])
	assert.Equal(t, float64(2006), entries[0].Properties["since"])
	assert.True(t, entries[1].Peer.Bound())

	// The pull issued a single match query with the subject id.
	call := mock.LastCall()
	var payload []map[string]any
	require.NoError(t, json.Unmarshal(call.Body, &payload))
	require.Len(t, payload, 1)
	body := payload[0]["body"].(map[string]any)
	assert.Contains(t, body["query"], "MATCH (a)-[r:`KNOWS`]->(b)")
	assert.Equal(t, float64(1), body["params"].(map[string]any)["id"])
}

func TestRelatedSet_Pull_ReplacesWholesale(t *testing.T) {
	mock := transport.NewMockClient()
	g := New(mock)
	set := newTestSet()
	set.MarkEmpty()
	set.Add(localPeer("stale@example.com"), nil)

	mock.EnqueueJSON(pullResponse(t,
		[2]any{relJSON(10, 1, 2, nil), nodeJSON(2, "b@example.com")},
	))

	require.NoError(t, set.Pull(context.Background(), g))
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "b@example.com", set.Entries()[0].Peer.Properties()["email"])
}

func TestRelatedSet_Pull_UnboundSubject(t *testing.T) {
	mock := transport.NewMockClient()
	g := New(mock)
	set := NewRelatedSet(localPeer("local@example.com"), "KNOWS", Outgoing,
		NodePeerFactory("Person", "email"))

	require.NoError(t, set.Pull(context.Background(), g))
	assert.True(t, set.Loaded())
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, mock.Calls(), "no query for an unbound subject")
}

func TestRelatedSet_Push_RequiresLoad(t *testing.T) {
	mock := transport.NewMockClient()
	g := New(mock)
	set := newTestSet()
	set.Add(boundPeer(2, "b@example.com"), nil)

	err := set.Push(context.Background(), g)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.RELSET_NOT_LOADED))
	assert.Empty(t, mock.Calls(), "nothing reaches the server")

	// MarkEmpty is the explicit opt-in.
	set.MarkEmpty()
	mock.EnqueueJSON(`[]`)
	assert.NoError(t, set.Push(context.Background(), g))
}

func TestRelatedSet_Push_RequiresBoundSubject(t *testing.T) {
	g := New(transport.NewMockClient())
	set := NewRelatedSet(localPeer("local@example.com"), "KNOWS", Outgoing,
		NodePeerFactory("Person", "email"))
	set.MarkEmpty()

	err := set.Push(context.Background(), g)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.RELSET_UNBOUND_SUBJECT))
}

// Remote state {A: [B, C]}; local mutation remove(C), add(D) with D unbound.
// The push batch must merge D, delete the stale relationship to C, and merge
// the relationships to B and D, all as one submission.
func TestRelatedSet_Push_Diff(t *testing.T) {
	mock := transport.NewMockClient()
	g := New(mock)
	set := newTestSet()

	mock.EnqueueJSON(pullResponse(t,
		[2]any{relJSON(10, 1, 2, map[string]any{"since": float64(2006)}), nodeJSON(2, "b@example.com")},
		[2]any{relJSON(11, 1, 3, nil), nodeJSON(3, "c@example.com")},
	))
	require.NoError(t, set.Pull(context.Background(), g))

	set.Remove(boundPeer(3, "c@example.com"))
	set.Add(localPeer("d@example.com"), map[string]any{"since": 2024})

	mock.EnqueueJSON(`[]`)
	require.NoError(t, set.Push(context.Background(), g))

	calls := mock.Calls()
	require.Len(t, calls, 2, "pull and push each take one round trip")

	var jobs []map[string]any
	require.NoError(t, json.Unmarshal(calls[1].Body, &jobs))
	require.Len(t, jobs, 4)

	queryOf := func(i int) (string, map[string]any) {
		body := jobs[i]["body"].(map[string]any)
		params, _ := body["params"].(map[string]any)
		return body["query"].(string), params
	}

	// (a) merge the unbound peer D by primary key.
	query, params := queryOf(0)
	assert.Contains(t, query, "MERGE (b:`Person` {`email`: {key}})")
	assert.Equal(t, "d@example.com", params["key"])

	// (b) delete stale relationships, keeping B's id and D's key.
	query, params = queryOf(1)
	assert.Contains(t, query, "DELETE r")
	assert.Equal(t, []any{float64(2)}, params["keep_ids"])
	assert.Equal(t, []any{"d@example.com"}, params["keep_keys"])

	// (c) merge the relationship to B, refreshing its properties.
	query, params = queryOf(2)
	assert.Contains(t, query, "CREATE UNIQUE")
	assert.Equal(t, float64(2), params["peer_id"])
	assert.Equal(t, map[string]any{"since": float64(2006)}, params["props"])

	// (c) merge the relationship to the newly merged D.
	query, params = queryOf(3)
	assert.Contains(t, query, "MATCH (b:`Person` {`email`: {key}})")
	assert.Equal(t, "d@example.com", params["key"])
	assert.Equal(t, map[string]any{"since": float64(2024)}, params["props"])
}

func TestRelatedSet_Push_FailurePropagates(t *testing.T) {
	mock := transport.NewMockClient()
	g := New(mock)
	set := newTestSet()
	set.MarkEmpty()
	set.Add(boundPeer(2, "b@example.com"), map[string]any{"since": 2006})

	mock.Enqueue(nil, &transport.ServerError{
		Status:  400,
		Failure: transport.Failure{Exception: "SyntaxException", Message: "boom"},
	})

	err := set.Push(context.Background(), g)
	require.Error(t, err)

	// The batch error propagates unchanged and the local entries survive as
	// the caller's intended, not-yet-confirmed state.
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 2006, set.Get(boundPeer(2, "b@example.com"), "since", nil))
}
