// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go representation of a configuration node, the
// single entity of the composition graph.
//
// # Core Concepts
//
// Every screen, field, filter, sort order and menu of the UI configuration is a
// ConfigNode. Nodes reference each other through their ordered Deps list, and
// the graph formed by those references is a DAG:
//
//   - Structural nodes (app, workspace, space, view, page, ...) use Deps as
//     their children. Their SelfData is derived: it is always recomputed from
//     the children and never edited by hand.
//
//   - Grouping nodes (fields, sort, filter) are structural nodes whose children
//     are field references. Their aggregate is a flat map keyed by field ID.
//
//   - Inheriting nodes (field, entity_field, config, property) use Deps as a
//     dependency chain. Their effective data is the merge of the chain, then
//     SelfData, then OverrideData.
//
// The Data field is a cache. It is recomputed on every write and consumers
// must never treat it as a source of truth.
//
// This package holds only the data shape, the tree-copy helpers and the
// structural validation of a node. Aggregation rules live in the merge and
// registry packages; graph mutations live in the engine package.
package model
