package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/annaglova/breedhub-sub002/internal/model"
)

// DeleteOptions tunes DeleteWithDependents.
type DeleteOptions struct {
	// DeleteChildren also deletes the node's composition subtree. Shared
	// resources (fields, entity fields, properties) are never deleted this way.
	DeleteChildren bool
}

// DeleteWithDependents soft-deletes id (and, optionally, its non-shared
// subtree), detaches every deleted node from its remaining live parents and
// cascades from each affected parent. A shared parent only refreshes its own
// data; the cascade starts above it. It fails without changing
// anything if any node it would delete is system-protected. It returns the
// IDs it deleted, starting with id.
func (e *Engine) DeleteWithDependents(ctx context.Context, id string, opts DeleteOptions) ([]string, error) {
	var deleted []string
	err := e.mutate(ctx, "delete", id, func(t *txn) error {
		root, err := t.live(id)
		if err != nil {
			return err
		}
		targets, err := t.collectDeletion(root, opts.DeleteChildren)
		if err != nil {
			return err
		}
		for _, n := range targets {
			if n.HasTag(model.TagSystem) {
				return fmt.Errorf("node '%s': %w", n.ID, ErrProtectedResource)
			}
		}

		inSet := make(map[string]bool, len(targets))
		for _, n := range targets {
			inSet[n.ID] = true
		}

		var affected, shared []string
		for _, n := range targets {
			parents, err := t.graph.Dependents(n.ID)
			if err != nil {
				return err
			}
			for _, pid := range parents {
				if inSet[pid] {
					continue
				}
				p := t.nodes[pid]
				t.removeDep(p, n.ID)
				if t.e.reg.IsShared(p.Type) {
					if !slices.Contains(shared, pid) {
						shared = append(shared, pid)
					}
					continue
				}
				if !slices.Contains(affected, pid) {
					affected = append(affected, pid)
				}
			}
		}

		for _, n := range targets {
			t.softDelete(n)
			deleted = append(deleted, n.ID)
		}
		t.logger.Debug("Soft-deleted nodes", "deleted", deleted, "affectedParents", affected, "sharedParents", shared)

		for _, pid := range shared {
			if err := t.refreshData(t.nodes[pid]); err != nil {
				return err
			}
		}
		_, err = t.propagate(append(affected, shared...), true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// collectDeletion returns root followed by its live, non-shared descendants
// when withChildren is set. Shared nodes stop the descent.
func (t *txn) collectDeletion(root *model.ConfigNode, withChildren bool) ([]*model.ConfigNode, error) {
	targets := []*model.ConfigNode{root}
	if !withChildren {
		return targets, nil
	}

	seen := map[string]bool{root.ID: true}
	stack := []*model.ConfigNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		children, err := t.graph.Dependencies(n.ID)
		if err != nil {
			return nil, err
		}
		for _, cid := range children {
			c := t.nodes[cid]
			if seen[cid] || t.e.reg.IsShared(c.Type) {
				continue
			}
			seen[cid] = true
			targets = append(targets, c)
			stack = append(stack, c)
			if len(targets) > t.e.maxCascade {
				return nil, fmt.Errorf("deleting subtree of '%s': %w (limit %d)", root.ID, ErrCascadeBudget, t.e.maxCascade)
			}
		}
	}
	return targets, nil
}
