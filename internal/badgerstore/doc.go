// Package badgerstore provides a durable implementation of the
// nodestore.Store interface on top of BadgerDB.
//
// Nodes are stored as JSON documents under the key "node/<id>". Every write
// runs in its own read-write transaction and subscribers are notified only
// after the transaction commits. Soft-deleted nodes stay in the database with
// their deletion flag set.
//
// An in-memory mode (Config.InMemory) keeps the same code path without
// touching disk and is what the tests use.
package badgerstore
