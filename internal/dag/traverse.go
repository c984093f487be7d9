package dag

import (
	"fmt"
	"maps"
	"slices"
)

// Ancestors returns every node that transitively depends on id, excluding id
// itself, sorted. A limit greater than zero caps the number of ancestors;
// exceeding it returns ErrLimitExceeded.
func (g *Graph) Ancestors(id string, limit int) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	start, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}

	seen := make(map[string]struct{})
	stack := []*node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for pid, parent := range n.dependents {
			if _, ok := seen[pid]; ok || pid == id {
				continue
			}
			seen[pid] = struct{}{}
			if limit > 0 && len(seen) > limit {
				return nil, fmt.Errorf("ancestors of '%s': more than %d nodes: %w", id, limit, ErrLimitExceeded)
			}
			stack = append(stack, parent)
		}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

// DependsOn reports whether id transitively depends on target.
func (g *Graph) DependsOn(id, target string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	start, ok := g.nodes[id]
	if !ok {
		return false
	}
	seen := map[string]bool{id: true}
	stack := []*node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for depID, dep := range n.deps {
			if depID == target {
				return true
			}
			if !seen[depID] {
				seen[depID] = true
				stack = append(stack, dep)
			}
		}
	}
	return false
}

// WouldCycle reports whether adding an edge that makes `dependentID` depend on
// `depID` would close a cycle.
func (g *Graph) WouldCycle(dependentID, depID string) bool {
	return dependentID == depID || g.DependsOn(depID, dependentID)
}

// TopoOrder sorts the given subset of IDs so that every node comes after all
// of its dependencies that are also in the subset. Ties are broken by ID so
// the order is deterministic. IDs that are not in the graph are an error.
func (g *Graph) TopoOrder(ids []string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	subset := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := g.nodes[id]; !ok {
			return nil, fmt.Errorf("node not found: %s", id)
		}
		subset[id] = struct{}{}
	}

	inDegree := make(map[string]int, len(subset))
	for id := range subset {
		for depID := range g.nodes[id].deps {
			if _, ok := subset[depID]; ok {
				inDegree[id]++
			}
		}
	}

	var ready []string
	for id := range subset {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	slices.Sort(ready)

	order := make([]string, 0, len(subset))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var next []string
		for pid := range g.nodes[id].dependents {
			if _, ok := subset[pid]; !ok {
				continue
			}
			inDegree[pid]--
			if inDegree[pid] == 0 {
				next = append(next, pid)
			}
		}
		slices.Sort(next)
		ready = append(ready, next...)
	}

	if len(order) != len(subset) {
		return nil, fmt.Errorf("cycle detected among %d nodes", len(subset)-len(order))
	}
	return order, nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, indicating the first node involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently in the recursion stack for the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil // Already visited and known to be safe.
		}
		if temporary[n.id] {
			return fmt.Errorf("cycle detected involving node '%s'", n.id)
		}

		temporary[n.id] = true

		for _, id := range slices.Sorted(maps.Keys(n.dependents)) {
			if err := visit(n.dependents[id]); err != nil {
				return err
			}
		}

		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}

	return nil
}
