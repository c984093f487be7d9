// Package merge computes the effective data of configuration nodes.
//
// DeepMerge is the only way two object trees are combined anywhere in the
// module. Its semantics are fixed:
//
//   - keys present only on one side are copied;
//   - when both sides hold a map[string]any, the maps are merged recursively;
//   - otherwise the right-hand value replaces the left-hand one. Arrays are
//     never concatenated and a nil on the right overwrites the left.
//
// Resolver applies DeepMerge over a read-only snapshot of the graph. It has no
// side effects: it never writes to a node, and every map it returns is a fresh
// copy owned by the caller.
package merge
