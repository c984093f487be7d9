package engine

import (
	"context"
	"fmt"

	"github.com/annaglova/breedhub-sub002/internal/model"
)

// SeedResult reports what Seed did.
type SeedResult struct {
	Created []string
	Skipped []string
}

// Seed registers the opposite pairs, creates every node that does not exist
// yet and rebuilds the whole graph bottom-up. Nodes may be listed in any
// order. Existing nodes are left untouched, so seeding is repeatable. The
// opposite pairs are registered only if the whole seed commits.
// Children that the container table does not allow are kept in Deps and
// skipped with a warning at rebuild time.
func (e *Engine) Seed(ctx context.Context, nodes []*model.ConfigNode, opposites [][2]string) (*SeedResult, error) {
	res := &SeedResult{}
	err := e.mutate(ctx, "seed", "", func(t *txn) error {
		for _, pair := range opposites {
			if err := t.stageOpposite(pair[0], pair[1]); err != nil {
				return err
			}
		}

		seen := make(map[string]bool, len(nodes))
		for _, in := range nodes {
			if in == nil {
				continue
			}
			if seen[in.ID] {
				return fmt.Errorf("seed lists node '%s' twice: %w", in.ID, ErrAlreadyExists)
			}
			seen[in.ID] = true

			if _, exists := t.nodes[in.ID]; exists {
				t.logger.Debug("Skipping existing node", "nodeID", in.ID)
				res.Skipped = append(res.Skipped, in.ID)
				continue
			}
			n := in.Clone()
			if err := n.Validate(); err != nil {
				return fmt.Errorf("%w: %w", ErrValidation, err)
			}
			if err := t.checkOpposites(n.ID, n.Deps); err != nil {
				return err
			}
			n.Deleted, n.DeletedAt, n.Data = false, nil, nil
			t.insert(n)
			res.Created = append(res.Created, n.ID)
		}

		if err := t.graph.DetectCycles(); err != nil {
			return fmt.Errorf("%w: %v", ErrCycle, err)
		}
		return t.rebuildAll()
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
