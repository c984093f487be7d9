package nodestore

import (
	"errors"
	"sync"

	"github.com/annaglova/breedhub-sub002/internal/model"
)

// ErrNotFound is returned by stores when a write targets a missing node.
var ErrNotFound = errors.New("node not found")

// EventKind is the type of change an Event describes.
type EventKind int

const (
	// EventUpserted means the node was created or replaced.
	EventUpserted EventKind = iota
	// EventDeleted means the node was soft-deleted.
	EventDeleted
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventUpserted:
		return "upserted"
	case EventDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is emitted once per committed write.
type Event struct {
	Kind EventKind
	// Node is a copy of the node as stored after the write.
	Node *model.ConfigNode
}

// Subscribers is a set of change callbacks shared by store implementations.
// The zero value is ready to use.
type Subscribers struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

// Add registers fn and returns a function that removes it.
func (s *Subscribers) Add(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]func(Event))
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
		})
	}
}

// Publish calls every subscriber with ev, each with its own copy of the node.
func (s *Subscribers) Publish(ev Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(Event{Kind: ev.Kind, Node: ev.Node.Clone()})
	}
}

// Len returns the number of registered subscribers.
func (s *Subscribers) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
