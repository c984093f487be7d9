// Package engine is the composition core of the configuration graph.
//
// An Engine owns no state of its own beyond configuration: every public call
// loads a fresh snapshot of all nodes from the nodestore.Store, applies the
// mutation and every recomputation it implies to that snapshot, and then
// flushes the nodes it changed back to the store. A failure before the flush
// leaves the store untouched.
//
// # Recomputation
//
// Structural nodes (app, space, view, ...) never keep hand-edited SelfData.
// Whenever one of their direct children changes, their SelfData is rebuilt
// from scratch out of the children listed in Deps, using the container table
// of the registry package. Inheriting nodes (field, property, ...) merge their
// dependency chain under their own SelfData and OverrideData.
//
// A change to any node cascades upward: every live ancestor is recomputed
// exactly once, children before parents, so diamonds in the DAG converge in a
// single pass. Property nodes are never cascade targets.
//
// # Concurrency
//
// Calls are serialized by a mutex held for the whole load, mutate and flush
// cycle. Reads take the same lock so they never observe a half-flushed
// mutation from this Engine.
//
// # Failure
//
// Errors are *Error values wrapping one of the package sentinels. Rebuild and
// cascade are idempotent, so a mutation that failed halfway through its flush
// is repaired by running CascadeUpdateUp (or RebuildAll) again.
package engine
