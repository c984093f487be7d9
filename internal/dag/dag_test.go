package dag

import (
	"testing"

	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.Len(t, g.nodes, 1)
	nodeA, ok := g.nodes["a"]
	require.True(t, ok)
	assert.Equal(t, "a", nodeA.id)
	assert.NotNil(t, nodeA.deps)
	assert.NotNil(t, nodeA.dependents)

	g.AddNode("a") // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode("b")
	assert.Len(t, g.nodes, 2)
	assert.True(t, g.Has("b"))
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("a", "b") // b depends on a
		require.NoError(t, err)

		nodeA := g.nodes["a"]
		nodeB := g.nodes["b"]

		assert.Contains(t, nodeA.dependents, "b")
		assert.Equal(t, nodeB, nodeA.dependents["b"])
		assert.Contains(t, nodeB.deps, "a")
		assert.Equal(t, nodeA, nodeB.deps["a"])
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge("a", "a")
		assert.ErrorContains(t, err, "self-referential edge")
	})
}

func TestRemoveEdgeAndNode(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	g.RemoveEdge("a", "b")
	deps, err := g.Dependencies("b")
	require.NoError(t, err)
	assert.Empty(t, deps)

	g.RemoveNode("b")
	assert.False(t, g.Has("b"))
	deps, err = g.Dependencies("c")
	require.NoError(t, err)
	assert.Empty(t, deps)

	_, err = g.Dependents("b")
	assert.ErrorContains(t, err, "node not found")
}

func TestFromNodes(t *testing.T) {
	nodes := []*model.ConfigNode{
		{ID: "app_main", Type: model.TypeApp, Deps: []string{"workspace_a", "workspace_gone", "workspace_missing"}},
		{ID: "workspace_a", Type: model.TypeWorkspace, Deps: []string{"space_a"}},
		{ID: "workspace_gone", Type: model.TypeWorkspace, Deleted: true},
		{ID: "space_a", Type: model.TypeSpace},
	}

	g := FromNodes(nodes)

	assert.False(t, g.Has("workspace_gone"))
	deps, err := g.Dependencies("app_main")
	require.NoError(t, err)
	assert.Equal(t, []string{"workspace_a"}, deps)

	parents, err := g.Dependents("space_a")
	require.NoError(t, err)
	assert.Equal(t, []string{"workspace_a"}, parents)
}

// diamond builds field <- (fields_a, fields_b) <- view <- space.
func diamond(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for _, id := range []string{"field", "fields_a", "fields_b", "view", "space"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("field", "fields_a"))
	require.NoError(t, g.AddEdge("field", "fields_b"))
	require.NoError(t, g.AddEdge("fields_a", "view"))
	require.NoError(t, g.AddEdge("fields_b", "view"))
	require.NoError(t, g.AddEdge("view", "space"))
	return g
}

func TestAncestors(t *testing.T) {
	g := diamond(t)

	got, err := g.Ancestors("field", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"fields_a", "fields_b", "space", "view"}, got)

	got, err = g.Ancestors("space", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = g.Ancestors("field", 3)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	_, err = g.Ancestors("dne", 0)
	assert.ErrorContains(t, err, "node not found")
}

func TestTopoOrder(t *testing.T) {
	g := diamond(t)

	t.Run("children before parents", func(t *testing.T) {
		order, err := g.TopoOrder([]string{"space", "view", "fields_b", "fields_a"})
		require.NoError(t, err)
		assert.Equal(t, []string{"fields_a", "fields_b", "view", "space"}, order)
	})

	t.Run("subset ignores outside edges", func(t *testing.T) {
		order, err := g.TopoOrder([]string{"space", "fields_a"})
		require.NoError(t, err)
		assert.Equal(t, []string{"fields_a", "space"}, order)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := g.TopoOrder([]string{"dne"})
		assert.ErrorContains(t, err, "node not found")
	})

	t.Run("cycle", func(t *testing.T) {
		c := New()
		c.AddNode("a")
		c.AddNode("b")
		require.NoError(t, c.AddEdge("a", "b"))
		require.NoError(t, c.AddEdge("b", "a"))
		_, err := c.TopoOrder([]string{"a", "b"})
		assert.ErrorContains(t, err, "cycle detected")
	})
}

func TestWouldCycle(t *testing.T) {
	g := diamond(t)

	assert.True(t, g.WouldCycle("field", "space"), "field would depend on its own ancestor")
	assert.True(t, g.WouldCycle("view", "view"))
	assert.False(t, g.WouldCycle("space", "field"), "already an ancestor, no new cycle")
	assert.False(t, g.WouldCycle("fields_a", "fields_b"))
	assert.True(t, g.DependsOn("space", "field"))
	assert.False(t, g.DependsOn("field", "space"))
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("graph with nodes but no edges has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		g.AddNode("d")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("a", "c")) // Transitive edge
		require.NoError(t, g.AddEdge("c", "d"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a")) // Cycle
		err := g.DetectCycles()
		assert.ErrorContains(t, err, "cycle detected")
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))

		g.AddNode("x")
		g.AddNode("y")
		g.AddNode("z")
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "y")) // Cycle

		err := g.DetectCycles()
		assert.ErrorContains(t, err, "cycle detected")
	})
}
