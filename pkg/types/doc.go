// Package types defines the core data model for the temporal graph:
// timestamped nodes, directed typed edges, the relation and node type
// enumerations, and the plain record forms returned to external callers.
//
// All timestamps are normalized to UTC at the ingestion boundary, so every
// internal comparison operates on a single homogeneous instant type.
package types
