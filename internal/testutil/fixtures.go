package testutil

import "github.com/annaglova/breedhub-sub002/internal/model"

// Node builds a ConfigNode for fixtures. Options are applied in order.
func Node(id string, typ model.NodeType, opts ...NodeOption) *model.ConfigNode {
	n := &model.ConfigNode{ID: id, Type: typ}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NodeOption customizes a fixture node.
type NodeOption func(*model.ConfigNode)

// Deps sets the node's Deps.
func Deps(ids ...string) NodeOption {
	return func(n *model.ConfigNode) { n.Deps = ids }
}

// Self sets the node's SelfData.
func Self(data map[string]any) NodeOption {
	return func(n *model.ConfigNode) { n.SelfData = data }
}

// Override sets the node's OverrideData.
func Override(data map[string]any) NodeOption {
	return func(n *model.ConfigNode) { n.OverrideData = data }
}

// Tags sets the node's Tags.
func Tags(tags ...string) NodeOption {
	return func(n *model.ConfigNode) { n.Tags = tags }
}

// Caption sets the node's Caption.
func Caption(c string) NodeOption {
	return func(n *model.ConfigNode) { n.Caption = c }
}
