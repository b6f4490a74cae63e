// Package graph implements the in-memory temporal graph: timestamped nodes
// connected by directed typed edges, a binary-searchable timestamp index,
// weekly layer buckets, and hop- and window-bounded BFS reachability.
//
// Traversals are bounded by an explicit hop limit and a timestamp pruning
// rule; together these guarantee termination on cyclic graphs, since each
// node is queued and marked visited at most once per traversal.
package graph
