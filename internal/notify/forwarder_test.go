package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/annaglova/breedhub-sub002/internal/inmemorystore"
	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/annaglova/breedhub-sub002/internal/nodestore"
	"github.com/annaglova/breedhub-sub002/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	name string
	args []any
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emitted
	err    error
}

func (e *fakeEmitter) Emit(ev string, args ...any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, emitted{name: ev, args: args})
	return nil
}

func (e *fakeEmitter) snapshot() []emitted {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]emitted(nil), e.events...)
}

func eventFor(id string) nodestore.Event {
	return nodestore.Event{Kind: nodestore.EventUpserted, Node: &model.ConfigNode{ID: id, Type: model.TypeConfig}}
}

func TestForwarder_RelaysStoreEvents(t *testing.T) {
	logger, _ := testutil.NewLogger(t)
	store := inmemorystore.New()
	em := &fakeEmitter{}
	fwd := NewForwarder(em, logger, 8)
	unsubscribe := fwd.Attach(store)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fwd.Run(ctx) }()

	updated := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, &model.ConfigNode{
		ID: "field_name", Type: model.TypeField, UpdatedAt: updated,
		Data: map[string]any{"label": "Name"},
	}))
	require.NoError(t, store.SoftDelete(ctx, "field_name", updated))

	require.Eventually(t, func() bool { return len(em.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	events := em.snapshot()
	assert.Equal(t, EventNodeUpserted, events[0].name)
	assert.Equal(t, EventNodeDeleted, events[1].name)

	require.Len(t, events[0].args, 1)
	p := events[0].args[0].(map[string]any)
	assert.Equal(t, "field_name", p["id"])
	assert.Equal(t, "field", p["type"])
	assert.Equal(t, []string{}, p["deps"])
	assert.Equal(t, map[string]any{"label": "Name"}, p["data"])
	assert.Equal(t, "2025-05-01T12:00:00Z", p["updated_at"])
	assert.Equal(t, true, events[1].args[0].(map[string]any)["_deleted"])
}

func TestForwarder_DropsWhenQueueIsFull(t *testing.T) {
	logger, logs := testutil.NewLogger(t)
	em := &fakeEmitter{}
	fwd := NewForwarder(em, logger, 1)

	store := inmemorystore.New()
	unsubscribe := fwd.Attach(store)
	defer unsubscribe()

	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, &model.ConfigNode{ID: "config_a", Type: model.TypeConfig}))
	require.NoError(t, store.Upsert(ctx, &model.ConfigNode{ID: "config_b", Type: model.TypeConfig}))
	assert.Contains(t, logs.String(), "Dropped change event, queue full")

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	require.NoError(t, fwd.Run(cctx), "a cancelled run still flushes the queue")

	events := em.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "config_a", events[0].args[0].(map[string]any)["id"])
}

func TestForwarder_EmitErrorIsLogged(t *testing.T) {
	logger, logs := testutil.NewLogger(t)
	em := &fakeEmitter{err: errors.New("socket closed")}
	fwd := NewForwarder(em, logger, 0)

	fwd.Handle(eventFor("config_a"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, fwd.Run(ctx))

	assert.Contains(t, logs.String(), "Failed to emit change event")
	assert.Contains(t, logs.String(), "socket closed")
}

func TestDial_RejectsBadURLs(t *testing.T) {
	testCases := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"unparseable", "://nope", "failed to parse URL"},
		{"wrong scheme", "ftp://example.com", "unsupported URL scheme"},
		{"no host", "http://", "has no host"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Dial(context.Background(), DialConfig{URL: tc.url})
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
