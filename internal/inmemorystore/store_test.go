package inmemorystore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/annaglova/breedhub-sub002/internal/nodestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Get a node that doesn't exist yet
	got, err := s.GetByID(ctx, "field_name")
	require.NoError(t, err)
	assert.Nil(t, got)

	node := &model.ConfigNode{
		ID:       "field_name",
		Type:     model.TypeField,
		SelfData: map[string]any{"label": "Name"},
	}
	require.NoError(t, s.Upsert(ctx, node))

	got, err = s.GetByID(ctx, "field_name")
	require.NoError(t, err)
	assert.Equal(t, node, got)

	// Mutating either side must not leak into the store
	node.SelfData["label"] = "changed by caller"
	got.SelfData["label"] = "changed by reader"
	again, err := s.GetByID(ctx, "field_name")
	require.NoError(t, err)
	assert.Equal(t, "Name", again.SelfData["label"])

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsert_RejectsMissingID(t *testing.T) {
	s := New()
	assert.Error(t, s.Upsert(context.Background(), &model.ConfigNode{}))
	assert.Error(t, s.Upsert(context.Background(), nil))
}

func TestSoftDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	err := s.SoftDelete(ctx, "view_missing", at)
	assert.ErrorIs(t, err, nodestore.ErrNotFound)

	require.NoError(t, s.Upsert(ctx, &model.ConfigNode{ID: "view_a", Type: model.TypeView}))

	var events []nodestore.Event
	unsubscribe := s.Subscribe(func(ev nodestore.Event) { events = append(events, ev) })
	defer unsubscribe()

	require.NoError(t, s.SoftDelete(ctx, "view_a", at))
	require.NoError(t, s.SoftDelete(ctx, "view_a", at.Add(time.Hour)), "second delete is a no-op")

	got, err := s.GetByID(ctx, "view_a")
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	require.NotNil(t, got.DeletedAt)
	assert.Equal(t, at, *got.DeletedAt)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "soft-deleted nodes stay addressable")

	require.Len(t, events, 1)
	assert.Equal(t, nodestore.EventDeleted, events[0].Kind)
	assert.True(t, events[0].Node.Deleted)
}

func TestSubscribe(t *testing.T) {
	s := New()
	ctx := context.Background()

	var events []nodestore.Event
	unsubscribe := s.Subscribe(func(ev nodestore.Event) { events = append(events, ev) })

	require.NoError(t, s.Upsert(ctx, &model.ConfigNode{ID: "view_a", Type: model.TypeView}))
	require.NoError(t, s.Upsert(ctx, &model.ConfigNode{ID: "view_a", Type: model.TypeView, Caption: "A"}))

	require.Len(t, events, 2)
	assert.Equal(t, nodestore.EventUpserted, events[1].Kind)
	assert.Equal(t, "A", events[1].Node.Caption)

	unsubscribe()
	require.NoError(t, s.Upsert(ctx, &model.ConfigNode{ID: "view_b", Type: model.TypeView}))
	assert.Len(t, events, 2)
}

// TestStore_ConcurrentAccess verifies that the store can be safely accessed by
// multiple goroutines simultaneously without data races or lost writes.
func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	numGoroutines := 100
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			node := &model.ConfigNode{
				ID:       fmt.Sprintf("field_%d", i),
				Type:     model.TypeField,
				SelfData: map[string]any{"index": i},
			}
			if err := s.Upsert(ctx, node); err != nil {
				t.Errorf("upsert failed: %v", err)
			}
			if _, err := s.GetAll(ctx); err != nil {
				t.Errorf("get all failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, numGoroutines, s.Len())

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			got, err := s.GetByID(ctx, fmt.Sprintf("field_%d", i))
			assert.NoError(t, err)
			if assert.NotNil(t, got) {
				assert.Equal(t, i, got.SelfData["index"], "mismatched data for node %d", i)
			}
		}(i)
	}
	wg.Wait()
}
