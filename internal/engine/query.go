package engine

import (
	"context"
	"slices"
	"strings"

	"github.com/annaglova/breedhub-sub002/internal/model"
)

// Filter selects nodes for ListNodes. Empty fields match everything.
type Filter struct {
	Type           model.NodeType
	Tag            string
	IncludeDeleted bool
}

func (f Filter) match(n *model.ConfigNode) bool {
	if !f.IncludeDeleted && !n.IsLive() {
		return false
	}
	if f.Type != "" && n.Type != f.Type {
		return false
	}
	if f.Tag != "" && !n.HasTag(f.Tag) {
		return false
	}
	return true
}

// GetNode returns a copy of the node, soft-deleted or not.
func (e *Engine) GetNode(ctx context.Context, id string) (*model.ConfigNode, error) {
	var out *model.ConfigNode
	err := e.read(ctx, "get", id, func(t *txn) error {
		n, ok := t.nodes[id]
		if !ok {
			return notFound(id)
		}
		out = n.Clone()
		return nil
	})
	return out, err
}

// ComputeData recomputes the effective data of a live node from the current
// snapshot, ignoring its cached Data.
func (e *Engine) ComputeData(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := e.read(ctx, "compute_data", id, func(t *txn) error {
		if _, err := t.live(id); err != nil {
			return err
		}
		var err error
		out, err = t.resolver().ComputeByID(id)
		return err
	})
	return out, err
}

// ListNodes returns copies of the matching nodes sorted by ID.
func (e *Engine) ListNodes(ctx context.Context, f Filter) ([]*model.ConfigNode, error) {
	var out []*model.ConfigNode
	err := e.read(ctx, "list", "", func(t *txn) error {
		for _, n := range t.nodes {
			if f.match(n) {
				out = append(out, n.Clone())
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *model.ConfigNode) int { return strings.Compare(a.ID, b.ID) })
	return out, err
}
