package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/annaglova/breedhub-sub002/internal/nodestore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Event names emitted to the socket.io namespace.
const (
	EventNodeUpserted = "node:upserted"
	EventNodeDeleted  = "node:deleted"
)

// DefaultQueueSize is used when NewForwarder is given a non-positive size.
const DefaultQueueSize = 1024

var forwardedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "confgraph",
	Subsystem: "notify",
	Name:      "events_total",
	Help:      "Store change events handled by the forwarder, by result.",
}, []string{"result"})

// Emitter publishes one event. *socket.Socket satisfies it.
type Emitter interface {
	Emit(ev string, args ...any) error
}

// Forwarder relays store events to an Emitter.
type Forwarder struct {
	emitter Emitter
	logger  *slog.Logger
	queue   chan nodestore.Event
}

// NewForwarder creates a Forwarder with a queue of the given size.
func NewForwarder(emitter Emitter, logger *slog.Logger, queueSize int) *Forwarder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Forwarder{
		emitter: emitter,
		logger:  logger.With("component", "notify"),
		queue:   make(chan nodestore.Event, queueSize),
	}
}

// Attach subscribes the forwarder to store. The returned function
// unsubscribes it.
func (f *Forwarder) Attach(store nodestore.Store) func() {
	return store.Subscribe(f.Handle)
}

// Handle enqueues ev without blocking. It is safe to call from a store
// subscriber.
func (f *Forwarder) Handle(ev nodestore.Event) {
	select {
	case f.queue <- ev:
	default:
		forwardedTotal.WithLabelValues("dropped").Inc()
		f.logger.Warn("Dropped change event, queue full", "nodeID", ev.Node.ID, "kind", ev.Kind)
	}
}

// Run emits queued events until ctx is done. Events still queued at that
// point are flushed before Run returns.
func (f *Forwarder) Run(ctx context.Context) error {
	f.logger.Info("Forwarder started")
	for {
		select {
		case ev := <-f.queue:
			f.emit(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-f.queue:
					f.emit(ev)
				default:
					f.logger.Info("Forwarder stopped")
					return nil
				}
			}
		}
	}
}

func (f *Forwarder) emit(ev nodestore.Event) {
	name := EventNodeUpserted
	if ev.Kind == nodestore.EventDeleted {
		name = EventNodeDeleted
	}
	if err := f.emitter.Emit(name, payload(ev)); err != nil {
		forwardedTotal.WithLabelValues("error").Inc()
		f.logger.Warn("Failed to emit change event", "event", name, "nodeID", ev.Node.ID, "error", err)
		return
	}
	forwardedTotal.WithLabelValues("sent").Inc()
	f.logger.Debug("Emitted change event", "event", name, "nodeID", ev.Node.ID)
}

// payload is the wire shape of a change event.
func payload(ev nodestore.Event) map[string]any {
	n := ev.Node
	p := map[string]any{
		"id":         n.ID,
		"type":       string(n.Type),
		"deps":       n.Deps,
		"data":       n.Data,
		"_deleted":   n.Deleted,
		"updated_at": n.UpdatedAt.Format(time.RFC3339Nano),
	}
	if n.Deps == nil {
		p["deps"] = []string{}
	}
	if n.Data == nil {
		p["data"] = map[string]any{}
	}
	return p
}
