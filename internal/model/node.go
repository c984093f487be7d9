// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the ConfigNode structure and the closed set of node types.
//
// Why a single entity?
//
// Applications, screens, fields and properties all share the same lifecycle:
// they are created, edited, linked into the graph, cloned from templates and
// eventually soft-deleted. Modeling them as one struct with a Type tag keeps
// the store, the sync layer and the engine agnostic of what a node represents.
// Behavior that differs per type is looked up in a table (see the registry
// package) instead of being scattered across call sites.
package model

import (
	"slices"
	"time"
)

// NodeType selects the aggregation behavior of a node.
type NodeType string

// Structural types. Their SelfData is derived from their children.
const (
	TypeApp         NodeType = "app"
	TypeWorkspace   NodeType = "workspace"
	TypeSpace       NodeType = "space"
	TypeView        NodeType = "view"
	TypePage        NodeType = "page"
	TypeTab         NodeType = "tab"
	TypeBlock       NodeType = "block"
	TypeMenuConfig  NodeType = "menu_config"
	TypeMenuSection NodeType = "menu_section"
	TypeMenuItem    NodeType = "menu_item"
	TypeUserConfig  NodeType = "user_config"
	TypeExtension   NodeType = "extension"
)

// Grouping types. Structural, but aggregated into a map keyed by field ID.
const (
	TypeFields NodeType = "fields"
	TypeSort   NodeType = "sort"
	TypeFilter NodeType = "filter"
)

// Inheriting types. Their data is dependency chain + SelfData + OverrideData.
const (
	TypeField       NodeType = "field"
	TypeEntityField NodeType = "entity_field"
	TypeConfig      NodeType = "config"
	TypeProperty    NodeType = "property"
)

// KnownTypes lists every valid NodeType.
var KnownTypes = []NodeType{
	TypeApp, TypeWorkspace, TypeSpace, TypeView, TypePage, TypeTab, TypeBlock,
	TypeMenuConfig, TypeMenuSection, TypeMenuItem, TypeUserConfig, TypeExtension,
	TypeFields, TypeSort, TypeFilter,
	TypeField, TypeEntityField, TypeConfig, TypeProperty,
}

// IsKnown reports whether t is one of KnownTypes.
func (t NodeType) IsKnown() bool {
	return slices.Contains(KnownTypes, t)
}

// Reserved tags.
const (
	// TagTemplate marks a reusable prototype. Template nodes are never consumed
	// directly, only cloned or instantiated.
	TagTemplate = "template"
	// TagSystem marks a node that cannot be soft-deleted.
	TagSystem = "system"
)

// ConfigNode is a single vertex of the configuration graph.
type ConfigNode struct {
	ID   string   `json:"id" validate:"required,nodeid"`
	Type NodeType `json:"type" validate:"required,nodetype"`

	// SelfData is derived for structural types and authored for inheriting types.
	SelfData map[string]any `json:"self_data,omitempty"`
	// OverrideData is always merged on top of SelfData.
	OverrideData map[string]any `json:"override_data,omitempty"`
	// Data is the computed effective value. Cache only.
	Data map[string]any `json:"data,omitempty"`

	// Deps are the children (structural) or the dependency chain (inheriting),
	// in order.
	Deps []string `json:"deps,omitempty" validate:"dive,required"`
	Tags []string `json:"tags,omitempty" validate:"dive,required"`

	Category string `json:"category,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Version  int    `json:"version" validate:"gte=0"`

	// SourceID is the node this one was cloned or instantiated from.
	SourceID string `json:"source_id,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy string     `json:"created_by,omitempty"`
	UpdatedBy string     `json:"updated_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	Deleted   bool       `json:"_deleted"`
}

// IsLive reports whether the node takes part in traversals.
func (n *ConfigNode) IsLive() bool {
	return n != nil && !n.Deleted
}

// HasTag reports whether the node carries tag.
func (n *ConfigNode) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// AddTag adds tag if it is not already present.
func (n *ConfigNode) AddTag(tag string) {
	if !n.HasTag(tag) {
		n.Tags = append(n.Tags, tag)
	}
}

// RemoveTag drops every occurrence of tag.
func (n *ConfigNode) RemoveTag(tag string) {
	n.Tags = slices.DeleteFunc(n.Tags, func(t string) bool { return t == tag })
}

// HasDep reports whether id is in Deps.
func (n *ConfigNode) HasDep(id string) bool {
	return slices.Contains(n.Deps, id)
}

// RemoveDep drops id from Deps and reports whether it was present.
func (n *ConfigNode) RemoveDep(id string) bool {
	before := len(n.Deps)
	n.Deps = slices.DeleteFunc(n.Deps, func(d string) bool { return d == id })
	return len(n.Deps) != before
}

// Touch stamps the update audit fields.
func (n *ConfigNode) Touch(at time.Time, by string) {
	n.UpdatedAt = at
	if by != "" {
		n.UpdatedBy = by
	}
}

// Clone returns a deep copy of the node. Object trees, slices and the
// deletion timestamp are never shared with the original.
func (n *ConfigNode) Clone() *ConfigNode {
	if n == nil {
		return nil
	}
	c := *n
	c.SelfData = CopyTree(n.SelfData)
	c.OverrideData = CopyTree(n.OverrideData)
	c.Data = CopyTree(n.Data)
	c.Deps = slices.Clone(n.Deps)
	c.Tags = slices.Clone(n.Tags)
	if n.DeletedAt != nil {
		at := *n.DeletedAt
		c.DeletedAt = &at
	}
	return &c
}
