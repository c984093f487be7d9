// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines helpers for the untyped object trees stored in SelfData,
// OverrideData and Data.
//
// Why untyped trees?
//
// The shape of a node's data depends on its type and evolves with the product.
// The engine only needs to merge, copy and strip keys, so it works on plain
// map[string]any values (the same shape encoding/json produces) and leaves
// schema concerns to the persistence layer.
package model

// MetadataKeys are stripped from a structural child's SelfData before it is
// written into a parent container.
var MetadataKeys = []string{
	"id",
	"created_at",
	"updated_at",
	"created_by",
	"updated_by",
	"deleted_at",
	"_deleted",
	"version",
}

// CopyTree deep-copies an object tree. A nil map stays nil.
func CopyTree(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CopyValue(v)
	}
	return out
}

// CopyValue deep-copies a single tree value. Nested maps and slices are
// copied, scalars are returned as is.
func CopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CopyTree(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CopyValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

// Clean returns a copy of m without MetadataKeys at its top level.
func Clean(m map[string]any) map[string]any {
	out := CopyTree(m)
	if out == nil {
		return map[string]any{}
	}
	for _, k := range MetadataKeys {
		delete(out, k)
	}
	return out
}
