package totg

import (
	"context"
	"time"

	"github.com/soundprediction/totg/pkg/markovian"
	"github.com/soundprediction/totg/pkg/types"
)

// This file defines focused interfaces that follow the Interface Segregation Principle.
// The main TOTG interface is composed from these smaller interfaces.
// Consumers should depend on the smallest interface that meets their needs.

// DocumentIngester provides write operations for documents and their
// relationships. Use this interface for ingestion pipelines that never
// query.
type DocumentIngester interface {
	// AddDocument inserts a content document with a native timestamp.
	AddDocument(docID, content string, timestamp time.Time, metadata map[string]interface{}) (*AddDocumentResult, error)

	// AddDocumentISO inserts a document with an ISO-8601 timestamp string.
	AddDocumentISO(docID, content, timestamp string, metadata map[string]interface{}) (*AddDocumentResult, error)

	// AddRelationship links two existing documents with a typed relation.
	AddRelationship(fromDoc, toDoc, relationType string, weight float64, metadata map[string]interface{}) (*AddRelationshipResult, error)
}

// DocumentQuerier provides read-only temporal queries. Emptiness is
// data here: unknown ids yield empty results, never errors.
type DocumentQuerier interface {
	// GetDocument returns the plain record for a document id.
	GetDocument(docID string) (types.NodeData, bool)

	// ListDocuments returns up to limit documents in timestamp order.
	ListDocuments(limit int) []types.NodeData

	// DocumentsInRange returns documents inside the inclusive time range.
	DocumentsInRange(start, end time.Time) []types.NodeData

	// FutureDocuments returns documents reachable forward within the window.
	FutureDocuments(docID string, days, maxResults int) []types.NodeData

	// PastDocuments returns documents that can reach this one within the window.
	PastDocuments(docID string, days, maxResults int) []types.NodeData

	// FindPath locates the shortest forward path between two documents.
	FindPath(fromDoc, toDoc string, maxHops int) types.PathResult
}

// AttentionQuerier scores temporal relevance between documents.
type AttentionQuerier interface {
	// ComputeAttention computes bidirectional attention for a document.
	ComputeAttention(docID string, maxPerDirection int) AttentionResult

	// RelatedDocuments returns attention-ranked neighbors per direction.
	RelatedDocuments(docID string, maxResults int, direction Direction) map[Direction][]ScoredDocument
}

// ChainAnalyzer runs chunked long-chain analysis.
type ChainAnalyzer interface {
	// AnalyzeLongChain walks the timeline from a start document in
	// bounded chunks with carryover.
	AnalyzeLongChain(ctx context.Context, startDocID, endDocID string, maxDays int) (*markovian.AnalysisResult, error)

	// TemporalSummary returns a compact per-period digest between two documents.
	TemporalSummary(ctx context.Context, startDocID, endDocID string, numChunks int) ([]markovian.ChunkSummary, error)
}

// GraphExporter produces full snapshots without mutating state.
type GraphExporter interface {
	// ExportGraph dumps all nodes, edges, and statistics as plain records.
	ExportGraph() types.GraphExport

	// Statistics reports graph and attention counters.
	Statistics() map[string]interface{}
}

// TOTG is the full client surface, composed from the focused
// interfaces above.
type TOTG interface {
	DocumentIngester
	DocumentQuerier
	AttentionQuerier
	ChainAnalyzer
	GraphExporter
}

// Compile-time check that Client implements the full surface.
var _ TOTG = (*Client)(nil)
