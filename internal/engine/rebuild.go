package engine

import (
	"context"
	"fmt"
	"reflect"

	"github.com/annaglova/breedhub-sub002/internal/merge"
	"github.com/annaglova/breedhub-sub002/internal/model"
)

// RebuildSelfData recomputes a structural node's SelfData from its direct
// children, replacing it wholesale, and persists the node. It does not
// cascade; see CascadeUpdateUp.
func (e *Engine) RebuildSelfData(ctx context.Context, id string) error {
	return e.mutate(ctx, "rebuild", id, func(t *txn) error {
		n, err := t.live(id)
		if err != nil {
			return err
		}
		return t.rebuild(n)
	})
}

// RebuildAll recomputes every live node, children before parents. It is the
// repair path after a partially flushed mutation or a bulk import.
func (e *Engine) RebuildAll(ctx context.Context) error {
	return e.mutate(ctx, "rebuild_all", "", func(t *txn) error {
		return t.rebuildAll()
	})
}

func (t *txn) rebuildAll() error {
	ids := make([]string, 0, len(t.nodes))
	for id, n := range t.nodes {
		if n.IsLive() {
			ids = append(ids, id)
		}
	}
	order, err := t.graph.TopoOrder(ids)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCycle, err)
	}
	for _, id := range order {
		if err := t.recompute(t.nodes[id]); err != nil {
			return err
		}
	}
	t.logger.Debug("Rebuilt all nodes", "count", len(order))
	return nil
}

// recompute refreshes whatever n derives: SelfData and Data for structural
// nodes, Data for inheriting ones.
func (t *txn) recompute(n *model.ConfigNode) error {
	if t.e.reg.IsStructural(n.Type) {
		return t.rebuild(n)
	}
	return t.refreshData(n)
}

// refreshData recomputes the Data cache of n.
func (t *txn) refreshData(n *model.ConfigNode) error {
	data, err := t.resolver().ComputeData(n)
	if err != nil {
		return err
	}
	if !sameTree(n.Data, data) {
		n.Data = data
		t.touch(n)
	}
	return nil
}

// rebuild replaces the SelfData of structural node n with the aggregate of
// its live direct children and refreshes its Data.
func (t *txn) rebuild(n *model.ConfigNode) error {
	reg := t.e.reg
	if !reg.IsStructural(n.Type) {
		return fmt.Errorf("%w: node '%s' of type '%s' is %s and has no derived self data",
			ErrValidation, n.ID, n.Type, reg.ClassOf(n.Type))
	}

	res := t.resolver()
	grouping := reg.IsGrouping(n.Type)
	self := make(map[string]any)
	var extras []map[string]any

	for _, childID := range n.Deps {
		child, ok := t.nodes[childID]
		if !ok || !child.IsLive() {
			continue
		}
		key, allowed := reg.Container(n.Type, child.Type)
		if !allowed {
			t.logger.Warn("Skipping child not allowed under parent",
				"parentID", n.ID, "parentType", n.Type, "childID", childID, "childType", child.Type)
			continue
		}

		switch {
		case child.Type == model.TypeProperty:
			data, err := res.ComputeData(child)
			if err != nil {
				return err
			}
			if grouping {
				extras = append(extras, data)
			} else {
				self = merge.DeepMerge(self, data)
			}

		case grouping:
			data, err := res.ComputeData(child)
			if err != nil {
				return err
			}
			self[childID] = data

		case reg.IsGrouping(child.Type):
			data, err := res.ComputeData(child)
			if err != nil {
				return err
			}
			if len(data) == 0 {
				continue
			}
			self[key] = merge.DeepMerge(containerAt(self, key), data)

		default:
			containerAt(self, key)[childID] = merge.DeepMerge(model.Clean(child.SelfData), child.OverrideData)
		}
	}

	if grouping && len(extras) > 0 {
		for fieldID, v := range self {
			entry, _ := v.(map[string]any)
			self[fieldID] = merge.MergeAll(append([]map[string]any{entry}, extras...)...)
		}
	}

	rebuildsTotal.Inc()
	changed := !sameTree(n.SelfData, self)
	n.SelfData = self
	data := merge.DeepMerge(n.SelfData, n.OverrideData)
	if changed || !sameTree(n.Data, data) {
		n.Data = data
		t.touch(n)
	}
	t.logger.Debug("Rebuilt self data", "nodeID", n.ID, "children", len(n.Deps), "changed", changed)
	return nil
}

// containerAt returns m[key] as a map, replacing any other value.
func containerAt(m map[string]any, key string) map[string]any {
	if c, ok := m[key].(map[string]any); ok {
		return c
	}
	c := make(map[string]any)
	m[key] = c
	return c
}

// sameTree compares two trees, treating nil and empty as equal.
func sameTree(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
