package engine

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/annaglova/breedhub-sub002/internal/dag"
	"github.com/annaglova/breedhub-sub002/internal/merge"
	"github.com/annaglova/breedhub-sub002/internal/model"
)

// txn is the working snapshot of one Engine call. Nodes are private copies
// loaded from the store; changed ones are recorded in dirty and flushed by
// commit in the order they were first changed.
type txn struct {
	e      *Engine
	ctx    context.Context
	logger *slog.Logger
	now    time.Time

	nodes map[string]*model.ConfigNode
	graph *dag.Graph

	dirty   []string
	isDirty map[string]bool
	deleted map[string]bool

	// staged opposite pairs, registered on the engine by a successful commit.
	staged map[string]string
}

func (e *Engine) begin(ctx context.Context, logger *slog.Logger) (*txn, error) {
	all, err := e.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	nodes := make(map[string]*model.ConfigNode, len(all))
	for _, n := range all {
		nodes[n.ID] = n
	}
	return &txn{
		e:       e,
		ctx:     ctx,
		logger:  logger,
		now:     e.clock(),
		nodes:   nodes,
		graph:   dag.FromNodes(all),
		isDirty: make(map[string]bool),
		deleted: make(map[string]bool),
		staged:  make(map[string]string),
	}, nil
}

// Get implements merge.Snapshot.
func (t *txn) Get(id string) (*model.ConfigNode, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// live returns the node or a not-found error for missing and deleted nodes.
func (t *txn) live(id string) (*model.ConfigNode, error) {
	n, ok := t.nodes[id]
	if !ok || !n.IsLive() {
		return nil, notFound(id)
	}
	return n, nil
}

// opposite looks id up among the staged and the registered opposite pairs.
func (t *txn) opposite(id string) (string, bool) {
	if o, ok := t.staged[id]; ok {
		return o, true
	}
	return t.e.opposite(id)
}

// stageOpposite records an opposite pair for this txn only.
func (t *txn) stageOpposite(a, b string) error {
	if err := checkOppositePair(a, b, t.opposite); err != nil {
		return err
	}
	t.staged[a] = b
	t.staged[b] = a
	return nil
}

func (t *txn) resolver() *merge.Resolver {
	return merge.NewResolver(t, t.e.reg)
}

// touch stamps n as updated and schedules it for flush.
func (t *txn) touch(n *model.ConfigNode) {
	n.Touch(t.now, t.e.user)
	if !t.isDirty[n.ID] {
		t.isDirty[n.ID] = true
		t.dirty = append(t.dirty, n.ID)
	}
}

// insert adds a new node to the snapshot and wires its edges in both
// directions, including live nodes that already listed its ID.
func (t *txn) insert(n *model.ConfigNode) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = t.now
	}
	if n.CreatedBy == "" {
		n.CreatedBy = t.e.user
	}
	t.nodes[n.ID] = n
	t.graph.AddNode(n.ID)
	for _, dep := range n.Deps {
		if dep != n.ID && t.graph.Has(dep) {
			_ = t.graph.AddEdge(dep, n.ID)
		}
	}
	for _, other := range t.nodes {
		if other.ID != n.ID && other.IsLive() && other.HasDep(n.ID) {
			_ = t.graph.AddEdge(n.ID, other.ID)
		}
	}
	t.touch(n)
}

// setDeps replaces n.Deps and keeps the graph in sync.
func (t *txn) setDeps(n *model.ConfigNode, deps []string) {
	for _, d := range n.Deps {
		t.graph.RemoveEdge(d, n.ID)
	}
	n.Deps = deps
	for _, d := range deps {
		if d != n.ID && t.graph.Has(d) {
			_ = t.graph.AddEdge(d, n.ID)
		}
	}
	t.touch(n)
}

// removeDep drops id from n.Deps and reports whether it was present.
func (t *txn) removeDep(n *model.ConfigNode, id string) bool {
	if !n.RemoveDep(id) {
		return false
	}
	t.graph.RemoveEdge(id, n.ID)
	t.touch(n)
	return true
}

// softDelete marks n deleted and drops it from the graph.
func (t *txn) softDelete(n *model.ConfigNode) {
	at := t.now
	n.Deleted = true
	n.DeletedAt = &at
	t.graph.RemoveNode(n.ID)
	t.deleted[n.ID] = true
	t.touch(n)
}

// commit flushes every changed node to the store.
func (t *txn) commit() error {
	for i, id := range t.dirty {
		if err := t.ctx.Err(); err != nil {
			return fmt.Errorf("flush interrupted after %d of %d writes: %w", i, len(t.dirty), err)
		}
		n := t.nodes[id]
		if t.deleted[id] {
			if err := t.e.store.SoftDelete(t.ctx, id, *n.DeletedAt); err != nil {
				return fmt.Errorf("soft delete '%s': %w", id, err)
			}
			storeWritesTotal.WithLabelValues("soft_delete").Inc()
			continue
		}
		if err := t.e.store.Upsert(t.ctx, n); err != nil {
			return fmt.Errorf("upsert '%s': %w", id, err)
		}
		storeWritesTotal.WithLabelValues("upsert").Inc()
	}
	maps.Copy(t.e.opposites, t.staged)
	return nil
}
