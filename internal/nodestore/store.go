// Package nodestore defines the interface for storing and retrieving
// configuration nodes and observing changes to them.
//
// # Why Node Store Exists
//
// The node store isolates **persistence** from **composition**. The engine
// computes and propagates data; the store only keeps nodes and tells observers
// when a node was written.
//
// This separation provides several architectural benefits:
//   - **Clarity:** The engine never reaches into storage internals; the store never merges data
//   - **Testability:** Engine behavior can be validated over a plain in-memory store
//   - **Flexibility:** Different storage backends can be swapped (in-memory, BadgerDB, a remote document store)
//   - **Observability:** Downstream consumers (UI, sync) subscribe to the store, not to the engine
//
// # Lifecycle and Usage
//
// The node store is:
//  1. **Opened** once per process (or per test)
//  2. **Loaded** by the engine at the start of every mutation via GetAll
//  3. **Written** at the end of every mutation via Upsert and SoftDelete
//  4. **Observed** by subscribers that receive an Event per committed write
//  5. **Closed** when the process shuts down (for durable backends)
//
// # Soft Delete
//
// Nodes are never removed. SoftDelete marks a node deleted and stamps its
// deletion time; the node stays addressable by ID and is still returned by
// GetAll so that callers can decide whether to look at it.
package nodestore

import (
	"context"
	"time"

	"github.com/annaglova/breedhub-sub002/internal/model"
)

// Store is the interface for persisting configuration nodes.
//
// # Thread-Safety Requirements
//
// Implementations MUST be thread-safe for concurrent reads and writes. The
// engine serializes its own mutations, but readers such as the health server
// or a sync process may query the store at any time.
//
// # Ownership
//
// Nodes passed in and returned are never shared with the store's internal
// state. Implementations copy on the way in and on the way out, so a caller
// mutating a returned node cannot corrupt the store.
//
// # Typical Implementation
//
// See internal/inmemorystore for the reference in-memory implementation and
// internal/badgerstore for the durable one.
type Store interface {
	// GetAll returns every node in the store, including soft-deleted ones.
	//
	// The engine builds its snapshot from this call. Order is unspecified.
	GetAll(ctx context.Context) ([]*model.ConfigNode, error)

	// GetByID returns the node with the given ID.
	//
	// Returns (nil, nil) if no such node exists. Soft-deleted nodes are
	// returned with Deleted set.
	GetByID(ctx context.Context, id string) (*model.ConfigNode, error)

	// Upsert creates or replaces the node with node.ID.
	//
	// Subscribers receive an EventUpserted carrying a copy of the stored node
	// after the write commits.
	Upsert(ctx context.Context, node *model.ConfigNode) error

	// SoftDelete marks the node deleted at the given time.
	//
	// Deleting an already-deleted node is a no-op that emits no event.
	// Returns an error wrapping ErrNotFound if the node does not exist.
	SoftDelete(ctx context.Context, id string, at time.Time) error

	// Subscribe registers fn to be called after every committed write.
	//
	// Calls are synchronous, in commit order, on the writer's goroutine. fn
	// must not write to the store. The returned function unregisters fn.
	Subscribe(fn func(Event)) (unsubscribe func())
}
