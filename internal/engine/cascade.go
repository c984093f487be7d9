package engine

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/annaglova/breedhub-sub002/internal/dag"
	"github.com/annaglova/breedhub-sub002/internal/model"
)

// CascadeUpdateUp recomputes every live ancestor of id, children before
// parents. The node itself is left as is. Running it again from the same
// root after a failure converges to the correct state.
func (e *Engine) CascadeUpdateUp(ctx context.Context, id string) error {
	return e.mutate(ctx, "cascade_up", id, func(t *txn) error {
		if _, err := t.live(id); err != nil {
			return err
		}
		_, err := t.propagate([]string{id}, false)
		return err
	})
}

// CascadeUpdate recomputes id itself (dependency chain merge for inheriting
// nodes, rebuild for structural ones) and then every live ancestor.
func (e *Engine) CascadeUpdate(ctx context.Context, id string) error {
	return e.mutate(ctx, "cascade", id, func(t *txn) error {
		n, err := t.live(id)
		if err != nil {
			return err
		}
		if err := t.recompute(n); err != nil {
			return err
		}
		_, err = t.propagate([]string{id}, false)
		return err
	})
}

// propagate recomputes the live ancestors of seeds exactly once each, in
// topological order. With includeSeeds the seeds are part of the set too.
// Property nodes are never recomputed here. It returns the number of nodes
// recomputed.
func (t *txn) propagate(seeds []string, includeSeeds bool) (int, error) {
	set := make(map[string]struct{})
	for _, seed := range seeds {
		if !t.graph.Has(seed) {
			continue
		}
		if includeSeeds {
			set[seed] = struct{}{}
		}
		ancestors, err := t.graph.Ancestors(seed, t.e.maxCascade)
		if errors.Is(err, dag.ErrLimitExceeded) {
			return 0, fmt.Errorf("from '%s': %w (limit %d)", seed, ErrCascadeBudget, t.e.maxCascade)
		}
		if err != nil {
			return 0, err
		}
		for _, a := range ancestors {
			set[a] = struct{}{}
		}
		if len(set) > t.e.maxCascade {
			return 0, fmt.Errorf("from '%s': %w (limit %d)", seed, ErrCascadeBudget, t.e.maxCascade)
		}
	}

	order, err := t.graph.TopoOrder(slices.Collect(maps.Keys(set)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCycle, err)
	}

	visited := 0
	for _, id := range order {
		n := t.nodes[id]
		if n.Type == model.TypeProperty {
			continue
		}
		if err := t.recompute(n); err != nil {
			return visited, err
		}
		visited++
	}

	cascadeNodes.Observe(float64(visited))
	t.logger.Debug("Cascade finished", "seeds", seeds, "visited", visited)
	return visited, nil
}

// Ancestors returns the IDs of every live node that transitively depends on
// id, sorted.
func (e *Engine) Ancestors(ctx context.Context, id string) ([]string, error) {
	var out []string
	err := e.read(ctx, "ancestors", id, func(t *txn) error {
		if _, err := t.live(id); err != nil {
			return err
		}
		var err error
		out, err = t.graph.Ancestors(id, 0)
		return err
	})
	return out, err
}
