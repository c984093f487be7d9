// Package registry provides the central behavior table of the configuration
// graph.
//
// Every node type belongs to one of two classes. Structural types derive their
// SelfData from their children; inheriting types merge a dependency chain with
// their own authored data. Grouping types (fields, sort, filter) are
// structural types whose aggregate is keyed by field ID.
//
// The registry also holds the container mapping: for every structural parent
// type, which child types may be attached and under which key of the parent's
// SelfData their contribution is written. Engines switch on the entries of
// this table instead of checking type names at each call site.
//
// A Registry is immutable after construction and safe for concurrent use.
package registry
