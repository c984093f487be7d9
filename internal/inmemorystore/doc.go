// Package inmemorystore provides a thread-safe, in-memory implementation
// of the nodestore.Store interface. It is suitable for development, testing,
// or any scenario where nodes do not need to survive a restart.
package inmemorystore
