package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/annaglova/breedhub-sub002/internal/model"
)

// MutationOptions tunes dependency mutations.
type MutationOptions struct {
	// SkipCascade recomputes the owner but leaves its ancestors alone. The
	// caller is expected to cascade later, e.g. after a batch.
	SkipCascade bool
}

// ConfigPatch lists the authored fields UpdateConfig replaces. Nil fields are
// left unchanged.
type ConfigPatch struct {
	SelfData     map[string]any
	OverrideData map[string]any
	Caption      *string
	Category     *string
	Tags         []string
}

// CreateNode validates and stores a new node, computes its data and cascades
// to any existing node that already referenced its ID. It returns the stored
// node.
func (e *Engine) CreateNode(ctx context.Context, node *model.ConfigNode) (*model.ConfigNode, error) {
	if node == nil {
		return nil, wrapErr("create", "", fmt.Errorf("%w: node is nil", ErrValidation))
	}
	n := node.Clone()
	err := e.mutate(ctx, "create", n.ID, func(t *txn) error {
		return t.create(n, true)
	})
	if err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

// create inserts n into the snapshot. strict rejects children the container
// table does not allow; seeding relaxes it to a warning at rebuild time.
func (t *txn) create(n *model.ConfigNode, strict bool) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if _, exists := t.nodes[n.ID]; exists {
		return fmt.Errorf("node '%s': %w", n.ID, ErrAlreadyExists)
	}
	if err := t.checkOpposites(n.ID, n.Deps); err != nil {
		return err
	}
	if strict && t.e.reg.IsStructural(n.Type) {
		for _, dep := range n.Deps {
			child, ok := t.nodes[dep]
			if !ok || !child.IsLive() {
				continue
			}
			if _, ok := t.e.reg.Container(n.Type, child.Type); !ok {
				return fmt.Errorf("%w: '%s' cannot hold '%s' ('%s'), allowed: %v",
					ErrInvalidChildType, n.Type, child.Type, dep, t.e.reg.AllowedChildren(n.Type))
			}
		}
	}

	n.Deleted = false
	n.DeletedAt = nil
	n.Data = nil
	t.insert(n)

	for _, dep := range n.Deps {
		if t.graph.DependsOn(dep, n.ID) {
			return fmt.Errorf("'%s' -> '%s': %w", n.ID, dep, ErrCycle)
		}
	}
	if err := t.recompute(n); err != nil {
		return err
	}
	_, err := t.propagate([]string{n.ID}, false)
	return err
}

func (t *txn) checkOpposites(id string, deps []string) error {
	for _, d := range deps {
		if opp, ok := t.opposite(d); ok && slices.Contains(deps, opp) {
			return fmt.Errorf("%w: node '%s' lists opposite properties '%s' and '%s'", ErrValidation, id, d, opp)
		}
	}
	return nil
}

// UpdateConfig replaces the authored fields named in patch, recomputes the
// node and cascades upward. SelfData of structural nodes is derived and
// cannot be patched.
func (e *Engine) UpdateConfig(ctx context.Context, id string, patch ConfigPatch) error {
	return e.mutate(ctx, "update_config", id, func(t *txn) error {
		n, err := t.live(id)
		if err != nil {
			return err
		}
		if patch.SelfData != nil && t.e.reg.IsStructural(n.Type) {
			return fmt.Errorf("%w: self data of %s node '%s' is derived from its children", ErrValidation, n.Type, id)
		}

		if patch.SelfData != nil {
			n.SelfData = model.CopyTree(patch.SelfData)
		}
		if patch.OverrideData != nil {
			n.OverrideData = model.CopyTree(patch.OverrideData)
		}
		if patch.Caption != nil {
			n.Caption = *patch.Caption
		}
		if patch.Category != nil {
			n.Category = *patch.Category
		}
		if patch.Tags != nil {
			n.Tags = make([]string, 0, len(patch.Tags))
			for _, tag := range patch.Tags {
				n.AddTag(tag)
			}
		}
		if err := n.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}

		t.touch(n)
		if err := t.recompute(n); err != nil {
			return err
		}
		_, err = t.propagate([]string{id}, false)
		return err
	})
}

// AddDependency appends depID to owner's Deps. Adding a property that has a
// registered opposite first drops the opposite. The owner is recomputed and,
// unless suppressed, the change cascades upward.
func (e *Engine) AddDependency(ctx context.Context, ownerID, depID string, opts MutationOptions) error {
	return e.mutate(ctx, "add_dependency", ownerID, func(t *txn) error {
		owner, err := t.live(ownerID)
		if err != nil {
			return err
		}
		dep, err := t.live(depID)
		if err != nil {
			return err
		}
		if err := t.attach(owner, dep); err != nil {
			return err
		}
		return t.afterDepsChange(owner, opts.SkipCascade)
	})
}

// RemoveDependency drops depID from owner's Deps. depID itself may already be
// deleted.
func (e *Engine) RemoveDependency(ctx context.Context, ownerID, depID string, opts MutationOptions) error {
	return e.mutate(ctx, "remove_dependency", ownerID, func(t *txn) error {
		owner, err := t.live(ownerID)
		if err != nil {
			return err
		}
		if err := t.detach(owner, depID); err != nil {
			return err
		}
		return t.afterDepsChange(owner, opts.SkipCascade)
	})
}

// AddChildToParent attaches child to a structural parent, then rebuilds the
// parent and cascades upward.
func (e *Engine) AddChildToParent(ctx context.Context, parentID, childID string) error {
	return e.mutate(ctx, "add_child", parentID, func(t *txn) error {
		parent, err := t.structuralParent(parentID)
		if err != nil {
			return err
		}
		child, err := t.live(childID)
		if err != nil {
			return err
		}
		if err := t.attach(parent, child); err != nil {
			return err
		}
		return t.afterDepsChange(parent, false)
	})
}

// RemoveChildFromParent detaches child from a structural parent, then
// rebuilds the parent and cascades upward.
func (e *Engine) RemoveChildFromParent(ctx context.Context, parentID, childID string) error {
	return e.mutate(ctx, "remove_child", parentID, func(t *txn) error {
		parent, err := t.structuralParent(parentID)
		if err != nil {
			return err
		}
		if err := t.detach(parent, childID); err != nil {
			return err
		}
		return t.afterDepsChange(parent, false)
	})
}

func (t *txn) structuralParent(id string) (*model.ConfigNode, error) {
	n, err := t.live(id)
	if err != nil {
		return nil, err
	}
	if !t.e.reg.IsStructural(n.Type) {
		return nil, fmt.Errorf("%w: node '%s' of type '%s' cannot have children", ErrValidation, id, n.Type)
	}
	return n, nil
}

// attach appends child to owner.Deps. Structural owners must accept the
// child type; property children evict their registered opposite.
func (t *txn) attach(owner, child *model.ConfigNode) error {
	if owner.HasDep(child.ID) {
		return fmt.Errorf("dependency '%s': %w", child.ID, ErrAlreadyExists)
	}
	if t.e.reg.IsStructural(owner.Type) {
		if _, ok := t.e.reg.Container(owner.Type, child.Type); !ok {
			return fmt.Errorf("%w: '%s' cannot hold '%s', allowed: %v",
				ErrInvalidChildType, owner.Type, child.Type, t.e.reg.AllowedChildren(owner.Type))
		}
	}
	if t.graph.WouldCycle(owner.ID, child.ID) {
		return fmt.Errorf("'%s' -> '%s': %w", owner.ID, child.ID, ErrCycle)
	}

	if child.Type == model.TypeProperty {
		if opp, ok := t.opposite(child.ID); ok && t.removeDep(owner, opp) {
			t.logger.Debug("Dropped opposite property", "ownerID", owner.ID, "added", child.ID, "dropped", opp)
		}
	}
	t.setDeps(owner, append(slices.Clone(owner.Deps), child.ID))
	return nil
}

func (t *txn) detach(owner *model.ConfigNode, depID string) error {
	if !t.removeDep(owner, depID) {
		return fmt.Errorf("dependency '%s': %w", depID, ErrNotFound)
	}
	return nil
}

// afterDepsChange recomputes owner and optionally cascades from it.
func (t *txn) afterDepsChange(owner *model.ConfigNode, skipCascade bool) error {
	if err := t.recompute(owner); err != nil {
		return err
	}
	if skipCascade {
		return nil
	}
	_, err := t.propagate([]string{owner.ID}, false)
	return err
}
