package nodestore

import (
	"testing"

	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribers(t *testing.T) {
	var subs Subscribers
	var got []Event

	unsubscribe := subs.Add(func(ev Event) { got = append(got, ev) })
	require.Equal(t, 1, subs.Len())

	node := &model.ConfigNode{ID: "view_a", Type: model.TypeView, Tags: []string{"x"}}
	subs.Publish(Event{Kind: EventUpserted, Node: node})

	require.Len(t, got, 1)
	assert.Equal(t, EventUpserted, got[0].Kind)
	assert.Equal(t, "view_a", got[0].Node.ID)

	got[0].Node.Tags[0] = "mutated"
	assert.Equal(t, "x", node.Tags[0], "subscribers receive copies")

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, subs.Len())

	subs.Publish(Event{Kind: EventDeleted, Node: node})
	assert.Len(t, got, 1)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "upserted", EventUpserted.String())
	assert.Equal(t, "deleted", EventDeleted.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}
