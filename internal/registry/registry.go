package registry

import (
	"slices"

	"github.com/annaglova/breedhub-sub002/internal/model"
)

// Class is the aggregation strategy of a node type.
type Class int

const (
	// Structural nodes have derived SelfData, rebuilt from their children.
	Structural Class = iota
	// Inheriting nodes merge their dependency chain, SelfData and OverrideData.
	Inheriting
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case Structural:
		return "structural"
	case Inheriting:
		return "inheriting"
	default:
		return "unknown"
	}
}

// RootKey is the container key meaning "merge into the parent's root
// namespace". Property children always use it. Field children of a grouping
// parent use it too, keyed by their own ID.
const RootKey = ""

// Behavior describes how the engines treat one node type.
type Behavior struct {
	Class Class
	// Grouping marks fields/sort/filter: structural, but flattened by field ID.
	Grouping bool
	// Shared marks leaf vocabulary (fields, properties) that may be referenced
	// by many parents and is never owned by any of them.
	Shared bool
}

// Registry holds the behavior table and the container mapping.
type Registry struct {
	behaviors  map[model.NodeType]Behavior
	containers map[model.NodeType]map[model.NodeType]string
}

// New creates a Registry populated with the built-in tables.
func New() *Registry {
	r := &Registry{
		behaviors:  make(map[model.NodeType]Behavior, len(model.KnownTypes)),
		containers: make(map[model.NodeType]map[model.NodeType]string),
	}
	for t, b := range builtinBehaviors {
		r.behaviors[t] = b
	}
	for parent, children := range builtinContainers {
		m := make(map[model.NodeType]string, len(children))
		for child, key := range children {
			m[child] = key
		}
		r.containers[parent] = m
	}
	return r
}

// Behavior returns the behavior of t and whether t is registered.
func (r *Registry) Behavior(t model.NodeType) (Behavior, bool) {
	b, ok := r.behaviors[t]
	return b, ok
}

// ClassOf returns the class of t. Unregistered types are treated as
// inheriting, which never rebuilds and never aggregates children.
func (r *Registry) ClassOf(t model.NodeType) Class {
	if b, ok := r.behaviors[t]; ok {
		return b.Class
	}
	return Inheriting
}

// IsStructural reports whether t derives its SelfData from children.
func (r *Registry) IsStructural(t model.NodeType) bool {
	return r.ClassOf(t) == Structural
}

// IsGrouping reports whether t is a grouping type.
func (r *Registry) IsGrouping(t model.NodeType) bool {
	return r.behaviors[t].Grouping
}

// IsShared reports whether t is a shared-resource leaf type.
func (r *Registry) IsShared(t model.NodeType) bool {
	return r.behaviors[t].Shared
}

// Container returns the key under which a child of type child is written into
// a parent of type parent. ok is false when the pair is not allowed.
func (r *Registry) Container(parent, child model.NodeType) (key string, ok bool) {
	if !r.IsStructural(parent) {
		return "", false
	}
	if child == model.TypeProperty {
		return RootKey, true
	}
	key, ok = r.containers[parent][child]
	return key, ok
}

// AllowedChildren lists the child types accepted by parent, sorted.
// Property is included for every structural parent.
func (r *Registry) AllowedChildren(parent model.NodeType) []model.NodeType {
	if !r.IsStructural(parent) {
		return nil
	}
	out := []model.NodeType{model.TypeProperty}
	for child := range r.containers[parent] {
		if child != model.TypeProperty {
			out = append(out, child)
		}
	}
	slices.Sort(out)
	return out
}
