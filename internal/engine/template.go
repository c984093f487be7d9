package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/annaglova/breedhub-sub002/internal/nodeid"
)

// CloneSubtree copies rootID and every live non-shared descendant under fresh
// IDs. Shared resources are referenced, not copied. The copies are rebuilt
// bottom-up and, if the original has a live structural parent, the copy is
// inserted right after it in that parent's Deps and the parent cascades.
// It returns the new root ID.
func (e *Engine) CloneSubtree(ctx context.Context, rootID string) (string, error) {
	var newID string
	err := e.mutate(ctx, "clone", rootID, func(t *txn) error {
		root, err := t.live(rootID)
		if err != nil {
			return err
		}

		newID, err = t.copySubtree(root,
			func(n *model.ConfigNode) bool { return !t.e.reg.IsShared(n.Type) },
			nil,
		)
		if err != nil {
			return err
		}

		parents, err := t.graph.Dependents(rootID)
		if err != nil {
			return err
		}
		for _, pid := range parents {
			p := t.nodes[pid]
			if !t.e.reg.IsStructural(p.Type) {
				continue
			}
			idx := slices.Index(p.Deps, rootID)
			t.setDeps(p, slices.Insert(slices.Clone(p.Deps), idx+1, newID))
			t.logger.Debug("Spliced clone into parent", "parentID", pid, "cloneID", newID)
			return t.afterDepsChange(p, false)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

// InstantiateFromTemplate materializes a working copy of a template-tagged
// tree. Structural and template-tagged descendants are copied with the
// template tag removed; everything else is referenced. If parentID is not
// empty the new root is attached to it as a child.
func (e *Engine) InstantiateFromTemplate(ctx context.Context, templateID, parentID string) (string, error) {
	var newID string
	err := e.mutate(ctx, "instantiate", templateID, func(t *txn) error {
		tpl, err := t.live(templateID)
		if err != nil {
			return err
		}
		if !tpl.HasTag(model.TagTemplate) {
			return fmt.Errorf("%w: node '%s' is not tagged %q", ErrValidation, templateID, model.TagTemplate)
		}

		var parent *model.ConfigNode
		if parentID != "" {
			if parent, err = t.structuralParent(parentID); err != nil {
				return err
			}
			if _, ok := t.e.reg.Container(parent.Type, tpl.Type); !ok {
				return fmt.Errorf("%w: '%s' cannot hold '%s'", ErrInvalidChildType, parent.Type, tpl.Type)
			}
		}

		newID, err = t.copySubtree(tpl,
			func(n *model.ConfigNode) bool {
				return t.e.reg.IsStructural(n.Type) || n.HasTag(model.TagTemplate)
			},
			func(c *model.ConfigNode) { c.RemoveTag(model.TagTemplate) },
		)
		if err != nil {
			return err
		}

		if parent == nil {
			return nil
		}
		if err := t.attach(parent, t.nodes[newID]); err != nil {
			return err
		}
		return t.afterDepsChange(parent, false)
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

// copySubtree copies root and every live descendant reached through Deps for
// which shouldCopy holds. A descendant reached through several paths is
// copied once. Deps of the copies are rewritten to the new IDs; everything
// not copied keeps being referenced by its original ID. prepare, if set,
// adjusts each copy before insertion. The copies are recomputed children
// first. It returns the ID of the root copy.
func (t *txn) copySubtree(root *model.ConfigNode, shouldCopy func(*model.ConfigNode) bool, prepare func(*model.ConfigNode)) (string, error) {
	mapping := map[string]string{root.ID: nodeid.New(root.Type)}
	originals := []*model.ConfigNode{root}

	stack := []*model.ConfigNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, cid := range n.Deps {
			if _, done := mapping[cid]; done {
				continue
			}
			c, ok := t.nodes[cid]
			if !ok || !c.IsLive() || !shouldCopy(c) {
				continue
			}
			mapping[cid] = nodeid.New(c.Type)
			originals = append(originals, c)
			stack = append(stack, c)
			if len(originals) > t.e.maxClone {
				return "", fmt.Errorf("copying subtree of '%s': %w (limit %d)", root.ID, ErrCascadeBudget, t.e.maxClone)
			}
		}
	}

	copies := make([]string, 0, len(originals))
	for _, orig := range originals {
		c := orig.Clone()
		c.ID = mapping[orig.ID]
		c.SourceID = orig.ID
		c.Data = nil
		c.CreatedAt, c.UpdatedAt = time.Time{}, time.Time{}
		c.CreatedBy, c.UpdatedBy = "", ""
		for i, d := range c.Deps {
			if nd, ok := mapping[d]; ok {
				c.Deps[i] = nd
			}
		}
		if prepare != nil {
			prepare(c)
		}
		t.insert(c)
		copies = append(copies, c.ID)
	}

	order, err := t.graph.TopoOrder(copies)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCycle, err)
	}
	for _, id := range order {
		if err := t.recompute(t.nodes[id]); err != nil {
			return "", err
		}
	}
	t.logger.Debug("Copied subtree", "rootID", root.ID, "copyID", mapping[root.ID], "copied", len(copies))
	return mapping[root.ID], nil
}
