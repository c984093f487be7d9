package merge

import (
	"errors"
	"fmt"

	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/annaglova/breedhub-sub002/internal/registry"
)

// ErrCycle is returned when a dependency chain loops back on itself.
var ErrCycle = errors.New("dependency cycle")

// Snapshot is a read-only view of every node in the graph, live or deleted.
type Snapshot interface {
	Get(id string) (*model.ConfigNode, bool)
}

// MapSnapshot adapts a plain map to Snapshot.
type MapSnapshot map[string]*model.ConfigNode

// Get implements Snapshot.
func (m MapSnapshot) Get(id string) (*model.ConfigNode, bool) {
	n, ok := m[id]
	return n, ok
}

// Resolver computes node data over a snapshot. Results are memoized for the
// lifetime of the Resolver, so a Resolver must not outlive a mutation of the
// snapshot it reads. Create a new one instead.
type Resolver struct {
	snap     Snapshot
	reg      *registry.Registry
	memo     map[string]map[string]any
	visiting map[string]bool
}

// NewResolver creates a Resolver over snap.
func NewResolver(snap Snapshot, reg *registry.Registry) *Resolver {
	return &Resolver{
		snap:     snap,
		reg:      reg,
		memo:     make(map[string]map[string]any),
		visiting: make(map[string]bool),
	}
}

// ComputeData returns the effective data of n.
//
// Structural and grouping nodes yield SelfData with OverrideData on top; their
// children were already folded into SelfData by a rebuild. Inheriting nodes
// merge every live dependency in order (later ones win), then SelfData, then
// OverrideData. Missing and deleted dependencies are skipped.
func (r *Resolver) ComputeData(n *model.ConfigNode) (map[string]any, error) {
	data, err := r.compute(n)
	if err != nil {
		return nil, err
	}
	return model.CopyTree(data), nil
}

// ComputeByID resolves id in the snapshot and computes its data.
// It returns nil data, without error, for missing or deleted nodes.
func (r *Resolver) ComputeByID(id string) (map[string]any, error) {
	n, ok := r.snap.Get(id)
	if !ok || !n.IsLive() {
		return nil, nil
	}
	return r.ComputeData(n)
}

func (r *Resolver) compute(n *model.ConfigNode) (map[string]any, error) {
	if data, ok := r.memo[n.ID]; ok {
		return data, nil
	}
	if r.visiting[n.ID] {
		return nil, fmt.Errorf("node '%s': %w", n.ID, ErrCycle)
	}
	r.visiting[n.ID] = true
	defer delete(r.visiting, n.ID)

	var data map[string]any
	if r.reg.IsStructural(n.Type) {
		data = DeepMerge(n.SelfData, n.OverrideData)
	} else {
		data = make(map[string]any)
		for _, depID := range n.Deps {
			dep, ok := r.snap.Get(depID)
			if !ok || !dep.IsLive() {
				continue
			}
			depData, err := r.compute(dep)
			if err != nil {
				return nil, err
			}
			mergeInto(data, depData)
		}
		mergeInto(data, n.SelfData)
		mergeInto(data, n.OverrideData)
	}

	r.memo[n.ID] = data
	return data, nil
}
