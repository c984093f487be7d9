// Package dag is the adjacency index of the configuration graph. It is built
// from a snapshot of live nodes and answers the questions the engine asks
// while propagating a change: who depends on this node, which ancestors does a
// change reach, would a new edge close a cycle, and in which order must a set
// of ancestors be recomputed so that every node sees its children's final
// state.
//
// Edges point from a dependency to its dependent. A structural parent depends
// on each of its children; an inheriting node depends on each entry of its
// dependency chain.
package dag
