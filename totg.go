package totg

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/soundprediction/totg/pkg/attention"
	"github.com/soundprediction/totg/pkg/config"
	"github.com/soundprediction/totg/pkg/export"
	"github.com/soundprediction/totg/pkg/graph"
	"github.com/soundprediction/totg/pkg/logger"
	"github.com/soundprediction/totg/pkg/markovian"
	"github.com/soundprediction/totg/pkg/types"
)

// AddDocumentResult reports the outcome of a document insertion.
type AddDocumentResult struct {
	Success   bool   `json:"success"`
	DocID     string `json:"doc_id"`
	Timestamp string `json:"timestamp,omitempty"`
	Message   string `json:"message"`
}

// AddRelationshipResult reports the outcome of a relationship insertion.
type AddRelationshipResult struct {
	Success  bool   `json:"success"`
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
	Message  string `json:"message"`
}

// AttentionResult pairs a node id with its bidirectional attention.
type AttentionResult struct {
	NodeID string `json:"node_id"`
	attention.BidirectionalResult
}

// ScoredDocument is a document id with its attention weight.
type ScoredDocument struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// Direction selects which attention directions a related-documents
// query covers.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
	DirectionBoth     Direction = "both"
)

// Client is the main entry point for building and querying temporal
// graphs. It owns the graph, the attention engine, and the long-chain
// analyzer, and keeps them consistent: every successful ingestion feeds
// the similarity corpus and invalidates stale attention results.
type Client struct {
	graph        *graph.TemporalGraph
	attention    *attention.Engine
	analyzer     *markovian.Analyzer
	exporter     *export.Writer
	exportFormat string
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	logger           *slog.Logger
	layerDays        int
	attentionOptions []attention.EngineOption
	analyzerOptions  []markovian.AnalyzerOption
	exporter         *export.Writer
	exportFormat     string
}

// WithLogger sets the logger shared by all components.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLayerDuration sets the temporal layer width in days.
func WithLayerDuration(days int) Option {
	return func(c *clientConfig) { c.layerDays = days }
}

// WithAttentionOptions forwards options to the attention engine.
func WithAttentionOptions(opts ...attention.EngineOption) Option {
	return func(c *clientConfig) { c.attentionOptions = append(c.attentionOptions, opts...) }
}

// WithAnalyzerOptions forwards options to the Markovian analyzer.
func WithAnalyzerOptions(opts ...markovian.AnalyzerOption) Option {
	return func(c *clientConfig) { c.analyzerOptions = append(c.analyzerOptions, opts...) }
}

// WithExporter sets the snapshot writer used by SaveSnapshot.
func WithExporter(w *export.Writer) Option {
	return func(c *clientConfig) { c.exporter = w }
}

// WithExportFormat selects the snapshot format, "json" or "parquet".
func WithExportFormat(format string) Option {
	return func(c *clientConfig) { c.exportFormat = format }
}

// New creates an empty client.
func New(opts ...Option) *Client {
	cfg := &clientConfig{
		logger:    slog.Default(),
		layerDays: types.LayerDurationDays,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	g := graph.New(
		graph.WithLayerDuration(cfg.layerDays),
		graph.WithLogger(cfg.logger),
	)

	attentionOpts := append([]attention.EngineOption{
		attention.WithEngineLogger(cfg.logger),
	}, cfg.attentionOptions...)

	analyzerOpts := append([]markovian.AnalyzerOption{
		markovian.WithLogger(cfg.logger),
	}, cfg.analyzerOptions...)

	return &Client{
		graph:        g,
		attention:    attention.NewEngine(g, attentionOpts...),
		analyzer:     markovian.NewAnalyzer(g, analyzerOpts...),
		exporter:     cfg.exporter,
		exportFormat: cfg.exportFormat,
		logger:       cfg.logger,
	}
}

// NewFromConfig builds a client wired from application configuration.
// Extra options are applied after the config-derived ones, so callers
// can override individual pieces such as the logger.
func NewFromConfig(cfg *config.Config, extra ...Option) (*Client, error) {
	log := logger.NewDefaultLogger(logger.ParseLevel(cfg.Log.Level))

	opts := []Option{
		WithLogger(log),
		WithLayerDuration(cfg.Graph.LayerDurationDays),
		WithAttentionOptions(
			attention.WithCache(cfg.Attention.CacheSize, time.Duration(cfg.Attention.CacheTTLMinutes)*time.Minute),
		),
		WithAnalyzerOptions(
			markovian.WithChunkSize(cfg.Analyzer.ChunkSizeDays),
			markovian.WithCarryoverCaps(
				cfg.Analyzer.MaxCarryoverEvents,
				cfg.Analyzer.MaxCarryoverChains,
				cfg.Analyzer.MaxCarryoverEntities,
			),
		),
	}

	if cfg.Analyzer.CheckpointsEnabled {
		cm, err := markovian.NewCheckpointManager(cfg.Analyzer.CheckpointDir)
		if err != nil {
			return nil, fmt.Errorf("checkpoint manager: %w", err)
		}
		opts = append(opts, WithAnalyzerOptions(markovian.WithCheckpoints(cm)))
	}

	if cfg.Export.Dir != "" {
		w, err := export.NewWriter(cfg.Export.Dir)
		if err != nil {
			return nil, fmt.Errorf("export writer: %w", err)
		}
		opts = append(opts, WithExporter(w), WithExportFormat(cfg.Export.Format))
	}

	opts = append(opts, extra...)
	return New(opts...), nil
}

// Graph exposes the underlying temporal graph for advanced callers.
func (c *Client) Graph() *graph.TemporalGraph {
	return c.graph
}

// AddDocument inserts a content document. A zero timestamp defaults to
// the current time. The result carries a success flag and message in
// addition to the error so transport layers can serialize it directly.
func (c *Client) AddDocument(docID, content string, timestamp time.Time, metadata map[string]interface{}) (*AddDocumentResult, error) {
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	node := &types.TemporalNode{
		ID:        docID,
		Timestamp: timestamp,
		Type:      types.ContentNodeType,
		Content:   content,
		Metadata:  metadata,
	}

	if err := c.graph.AddNode(node); err != nil {
		return &AddDocumentResult{
			Success: false,
			DocID:   docID,
			Message: err.Error(),
		}, err
	}

	// Grow the similarity corpus; the cache purge already happened via
	// the graph's mutation notification.
	if content != "" {
		c.attention.Similarity().AddDocument(content)
	}

	stored := c.graph.Node(docID)
	return &AddDocumentResult{
		Success:   true,
		DocID:     docID,
		Timestamp: stored.Timestamp.Format(time.RFC3339),
		Message:   "Document added successfully",
	}, nil
}

// AddDocumentISO inserts a document with an ISO-8601 timestamp string,
// accepting an optional Z suffix or offset.
func (c *Client) AddDocumentISO(docID, content, timestamp string, metadata map[string]interface{}) (*AddDocumentResult, error) {
	var ts time.Time
	if timestamp != "" {
		parsed, err := types.ParseTimestamp(timestamp)
		if err != nil {
			return &AddDocumentResult{
				Success: false,
				DocID:   docID,
				Message: err.Error(),
			}, err
		}
		ts = parsed
	}
	return c.AddDocument(docID, content, ts, metadata)
}

// AddRelationship links two documents. An unrecognized relation type is
// rejected before any endpoint lookup happens.
func (c *Client) AddRelationship(fromDoc, toDoc, relationType string, weight float64, metadata map[string]interface{}) (*AddRelationshipResult, error) {
	relation, err := types.ParseRelationType(relationType)
	if err != nil {
		return &AddRelationshipResult{
			Success:  false,
			From:     fromDoc,
			To:       toDoc,
			Relation: relationType,
			Message:  fmt.Sprintf("invalid relation type %q: use sequential, causal, concurrent, branch, merge", relationType),
		}, err
	}

	edge := &types.TemporalEdge{
		From:     fromDoc,
		To:       toDoc,
		Relation: relation,
		Weight:   weight,
		Metadata: metadata,
	}
	if err := c.graph.AddEdge(edge); err != nil {
		return &AddRelationshipResult{
			Success:  false,
			From:     fromDoc,
			To:       toDoc,
			Relation: relationType,
			Message:  err.Error(),
		}, err
	}

	return &AddRelationshipResult{
		Success:  true,
		From:     fromDoc,
		To:       toDoc,
		Relation: relationType,
		Message:  "Relationship added successfully",
	}, nil
}

// DocumentsInRange returns all documents with timestamps inside the
// inclusive range, in ascending timestamp order.
func (c *Client) DocumentsInRange(start, end time.Time) []types.NodeData {
	return c.toRecords(c.graph.NodesInRange(start, end))
}

// FutureDocuments returns documents reachable forward from the given
// one within the window. An unknown id yields an empty slice.
func (c *Client) FutureDocuments(docID string, days, maxResults int) []types.NodeData {
	ids := c.graph.ForwardNodes(docID, &graph.TraversalOptions{
		WindowDays: days,
		MaxResults: maxResults,
	})
	return c.toRecords(ids)
}

// PastDocuments returns documents that can reach the given one within
// the window, most recent first.
func (c *Client) PastDocuments(docID string, days, maxResults int) []types.NodeData {
	ids := c.graph.BackwardNodes(docID, &graph.TraversalOptions{
		WindowDays: days,
		MaxResults: maxResults,
	})
	return c.toRecords(ids)
}

// FindPath locates the shortest forward path between two documents.
// A missing path is a negative result, not an error.
func (c *Client) FindPath(fromDoc, toDoc string, maxHops int) types.PathResult {
	path := c.graph.ShortestPath(fromDoc, toDoc, maxHops)
	return types.PathResult{
		From:       fromDoc,
		To:         toDoc,
		Path:       path,
		PathLength: len(path),
		Exists:     path != nil,
	}
}

// ComputeAttention computes bidirectional attention for a document.
func (c *Client) ComputeAttention(docID string, maxPerDirection int) AttentionResult {
	return AttentionResult{
		NodeID:              docID,
		BidirectionalResult: c.attention.Bidirectional(docID, maxPerDirection),
	}
}

// RelatedDocuments returns attention-ranked related documents in the
// requested direction(s), strongest first.
func (c *Client) RelatedDocuments(docID string, maxResults int, direction Direction) map[Direction][]ScoredDocument {
	result := make(map[Direction][]ScoredDocument)
	if direction == DirectionForward || direction == DirectionBoth {
		result[DirectionForward] = rankScores(c.attention.Forward(docID, maxResults))
	}
	if direction == DirectionBackward || direction == DirectionBoth {
		result[DirectionBackward] = rankScores(c.attention.Backward(docID, maxResults))
	}
	return result
}

func rankScores(weights map[string]float64) []ScoredDocument {
	ranked := make([]ScoredDocument, 0, len(weights))
	for id, w := range weights {
		ranked = append(ranked, ScoredDocument{ID: id, Weight: w})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// GetDocument returns the plain record for a document id.
func (c *Client) GetDocument(docID string) (types.NodeData, bool) {
	node := c.graph.Node(docID)
	if node == nil {
		return types.NodeData{}, false
	}
	return types.NodeToData(node), true
}

// ListDocuments returns up to limit documents in timestamp order.
func (c *Client) ListDocuments(limit int) []types.NodeData {
	ids := c.graph.Nodes()
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return c.toRecords(ids)
}

// AnalyzeLongChain runs chunked long-chain analysis from a start
// document. See the markovian package for semantics.
func (c *Client) AnalyzeLongChain(ctx context.Context, startDocID, endDocID string, maxDays int) (*markovian.AnalysisResult, error) {
	return c.analyzer.AnalyzeLongChain(ctx, startDocID, endDocID, maxDays)
}

// TemporalSummary returns a compact per-period digest between two
// documents.
func (c *Client) TemporalSummary(ctx context.Context, startDocID, endDocID string, numChunks int) ([]markovian.ChunkSummary, error) {
	return c.analyzer.TemporalSummary(ctx, startDocID, endDocID, numChunks)
}

// ExportGraph produces a full non-mutating snapshot of the graph.
func (c *Client) ExportGraph() types.GraphExport {
	return c.graph.Export()
}

// SaveSnapshot writes the current graph to disk through the configured
// exporter and returns the written path. Parquet snapshots produce a
// nodes file and an edges file; the nodes path is returned.
func (c *Client) SaveSnapshot(name string) (string, error) {
	if c.exporter == nil {
		return "", fmt.Errorf("no exporter configured")
	}

	if c.exportFormat == "parquet" {
		nodesPath, edgesPath, err := c.exporter.WriteParquet(c.ExportGraph(), name)
		if err != nil {
			return "", err
		}
		c.logger.Info("graph snapshot written", "nodes", nodesPath, "edges", edgesPath)
		return nodesPath, nil
	}

	path, err := c.exporter.WriteJSON(c.ExportGraph(), name)
	if err != nil {
		return "", err
	}
	c.logger.Info("graph snapshot written", "path", path)
	return path, nil
}

// Statistics merges graph and attention counters into one report.
func (c *Client) Statistics() map[string]interface{} {
	return map[string]interface{}{
		"graph":     c.graph.Statistics(),
		"attention": c.attention.Statistics(),
	}
}

func (c *Client) toRecords(ids []string) []types.NodeData {
	records := make([]types.NodeData, 0, len(ids))
	for _, id := range ids {
		if node := c.graph.Node(id); node != nil {
			records = append(records, types.NodeToData(node))
		}
	}
	return records
}
