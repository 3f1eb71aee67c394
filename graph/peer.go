package graph

import (
	"reflect"

	"github.com/neo4j-contrib/neorest/entity"
)

// Peer is a wrapped remote-or-local object on the far side of a
// relationship. Two peers are the same relation endpoint when both are bound
// and share a URI, or otherwise when their primary-key values are equal.
type Peer interface {
	// Bound reports whether the peer exists remotely.
	Bound() bool

	// URI is the peer's resource address; empty when unbound.
	URI() string

	// Key returns the primary-key property name and value used to identify
	// the peer when it is not (yet) bound.
	Key() (string, any)

	// Label is the node label the peer is merged under.
	Label() string

	// Properties is the peer's full property set.
	Properties() map[string]any
}

// PeerFactory wraps a hydrated node into the caller-visible peer object.
type PeerFactory func(*entity.Node) Peer

// NodePeer is the default Peer implementation over a raw entity node.
type NodePeer struct {
	Node      *entity.Node
	NodeLabel string
	KeyName   string
}

// Bound reports whether the underlying node has a resource address.
func (p NodePeer) Bound() bool {
	return p.Node != nil && p.Node.URI != ""
}

// URI returns the node's resource address.
func (p NodePeer) URI() string {
	if p.Node == nil {
		return ""
	}
	return p.Node.URI
}

// Key returns the configured primary-key name and the node's value for it.
func (p NodePeer) Key() (string, any) {
	if p.Node == nil {
		return p.KeyName, nil
	}
	return p.KeyName, p.Node.Properties[p.KeyName]
}

// Label returns the node label the peer is merged under.
func (p NodePeer) Label() string {
	return p.NodeLabel
}

// Properties returns the node's property set.
func (p NodePeer) Properties() map[string]any {
	if p.Node == nil {
		return nil
	}
	return p.Node.Properties
}

// NodePeerFactory returns a PeerFactory producing NodePeer values with the
// given label and primary-key property.
func NodePeerFactory(label, keyName string) PeerFactory {
	return func(n *entity.Node) Peer {
		return NodePeer{Node: n, NodeLabel: label, KeyName: keyName}
	}
}

// samePeer reports whether two peers identify the same relation endpoint.
func samePeer(a, b Peer) bool {
	if a.Bound() && b.Bound() {
		return a.URI() == b.URI()
	}
	_, aKey := a.Key()
	_, bKey := b.Key()
	return reflect.DeepEqual(aKey, bKey)
}
