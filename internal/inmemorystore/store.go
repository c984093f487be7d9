// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// # Purpose
//
// This package backs the engine in tests and in short-lived CLI sessions that
// start from a seed file. Nodes live in a single map guarded by a RWMutex.
//
// # Characteristics
//
//   - **Ephemeral:** Contents are lost when the process exits
//   - **Thread-Safe:** Readers share the lock; writers take it exclusively
//   - **Copying:** Every node is cloned on the way in and on the way out
//   - **Observable:** Subscribers are notified after each write, outside the lock
//
// # Concurrency Model
//
// The engine loads the whole graph with GetAll at the start of every
// mutation and writes a handful of nodes at the end, so the workload is
// snapshot reads followed by short write bursts. A single RWMutex keeps
// GetAll consistent, which sync.Map could not guarantee across keys.
package inmemorystore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/annaglova/breedhub-sub002/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*model.ConfigNode
	subs  nodestore.Subscribers
}

// New creates a new, empty in-memory node store.
func New() *Store {
	return &Store{
		nodes: make(map[string]*model.ConfigNode),
	}
}

// GetAll returns copies of every node, including soft-deleted ones.
func (s *Store) GetAll(ctx context.Context) ([]*model.ConfigNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.ConfigNode, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n.Clone())
	}
	return out, nil
}

// GetByID returns a copy of the node, or nil if it does not exist.
func (s *Store) GetByID(ctx context.Context, id string) (*model.ConfigNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, nil
	}
	return n.Clone(), nil
}

// Upsert stores a copy of node.
func (s *Store) Upsert(ctx context.Context, node *model.ConfigNode) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("upsert: node must have an id")
	}
	stored := node.Clone()

	s.mu.Lock()
	s.nodes[stored.ID] = stored
	s.mu.Unlock()

	s.subs.Publish(nodestore.Event{Kind: nodestore.EventUpserted, Node: stored})
	return nil
}

// SoftDelete marks the node deleted at the given time.
func (s *Store) SoftDelete(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	n, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("soft delete '%s': %w", id, nodestore.ErrNotFound)
	}
	if n.Deleted {
		s.mu.Unlock()
		return nil
	}
	deleted := n.Clone()
	deleted.Deleted = true
	deleted.DeletedAt = &at
	deleted.UpdatedAt = at
	s.nodes[id] = deleted
	s.mu.Unlock()

	s.subs.Publish(nodestore.Event{Kind: nodestore.EventDeleted, Node: deleted})
	return nil
}

// Subscribe registers fn for change events.
func (s *Store) Subscribe(fn func(nodestore.Event)) func() {
	return s.subs.Add(fn)
}

// Len returns the number of stored nodes, live or deleted.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

var _ nodestore.Store = (*Store)(nil)
