// Package notify forwards node store change events to a socket.io server.
//
// The store invokes subscribers synchronously while a mutation is being
// flushed, so the Forwarder only enqueues in its callback and emits from its
// own goroutine. When the queue is full events are dropped and counted;
// consumers are expected to re-read the affected nodes on reconnect.
package notify
