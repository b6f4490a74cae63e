// Package markovian analyzes long temporal chains in fixed-size chunks
// with bounded state carried between them. Instead of loading an entire
// multi-year document chain at once, the analyzer walks it one temporal
// window at a time, distilling each window into a capped carryover of
// critical events, entities, causal links, and attention hints for the
// next window. Total work stays linear in document count and per-step
// memory stays constant.
package markovian

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/soundprediction/totg/pkg/graph"
	"github.com/soundprediction/totg/pkg/types"
)

// Defaults for chunking and carryover caps.
const (
	DefaultChunkSizeDays        = 90
	DefaultMaxDays              = 1825
	DefaultMaxCarryoverEvents   = 10
	DefaultMaxCarryoverChains   = 20
	DefaultMaxCarryoverEntities = 15

	// frontierAttentionSeeds and frontierEventSeeds bound how many prior
	// chunk documents seed the next chunk's traversal.
	frontierAttentionSeeds = 10
	frontierEventSeeds     = 5

	// entityMinLength and entityMinMentions gate the entity heuristic.
	entityMinLength   = 4
	entityMinMentions = 2
)

// ChunkResult captures the analysis of one temporal window.
type ChunkResult struct {
	Index     int       `json:"index"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	DocIDs    []string  `json:"doc_ids"`

	CriticalEvents []CriticalEvent       `json:"critical_events"`
	CausalLinks    []CausalLink          `json:"causal_links"`
	KeyEntities    map[string]EntityInfo `json:"key_entities"`

	ProcessingTime  time.Duration `json:"processing_time"`
	EstimatedMemory int           `json:"estimated_memory"`
}

// AnalysisResult aggregates every chunk plus the final carryover and
// timing statistics.
type AnalysisResult struct {
	StartDocID    string        `json:"start_doc_id"`
	EndDocID      string        `json:"end_doc_id,omitempty"`
	TotalTimeSpan time.Duration `json:"total_time_span"`

	Chunks []ChunkResult `json:"chunks"`

	AllCriticalEvents []CriticalEvent       `json:"all_critical_events"`
	AllCausalChains   []CausalLink          `json:"all_causal_chains"`
	AllKeyEntities    map[string]EntityInfo `json:"all_key_entities"`

	FinalCarryover *Carryover `json:"final_carryover"`

	TotalProcessingTime time.Duration `json:"total_processing_time"`
	TotalDocuments      int           `json:"total_documents"`
	AvgChunkTime        time.Duration `json:"avg_chunk_time"`
	AvgChunkSize        float64       `json:"avg_chunk_size"`

	// EstimatedBaselineTime models a non-chunked full-pairwise pass for
	// comparison. Diagnostic only.
	EstimatedBaselineTime time.Duration `json:"estimated_baseline_time"`
	SpeedupFactor         float64       `json:"speedup_factor"`
}

// Summary renders a human-readable digest of the analysis.
func (r *AnalysisResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Markovian analysis: %d days, %d documents, %d chunks\n",
		int(r.TotalTimeSpan.Hours()/24), r.TotalDocuments, len(r.Chunks))
	fmt.Fprintf(&b, "Processing: total %s, avg %s per chunk, avg %.1f docs per chunk\n",
		r.TotalProcessingTime.Round(time.Millisecond),
		r.AvgChunkTime.Round(time.Millisecond),
		r.AvgChunkSize)
	fmt.Fprintf(&b, "Findings: %d critical events, %d causal chains, %d key entities\n",
		len(r.AllCriticalEvents), len(r.AllCausalChains), len(r.AllKeyEntities))
	if r.SpeedupFactor > 0 {
		fmt.Fprintf(&b, "Estimated speedup over full-pairwise pass: %.1fx\n", r.SpeedupFactor)
	}
	return b.String()
}

// ChunkSummary is the compact per-period digest returned by
// TemporalSummary.
type ChunkSummary struct {
	Period         string   `json:"period"`
	NumDocs        int      `json:"num_docs"`
	CriticalEvents int      `json:"critical_events"`
	KeyEvents      []string `json:"key_events"`
	CausalChains   int      `json:"causal_chains"`
}

// Analyzer runs chunked long-chain analysis over a temporal graph.
type Analyzer struct {
	graph  *graph.TemporalGraph
	scorer Scorer
	logger *slog.Logger

	chunkSizeDays        int
	maxCarryoverEvents   int
	maxCarryoverChains   int
	maxCarryoverEntities int

	checkpoints *CheckpointManager
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithChunkSize sets the temporal chunk width in days.
func WithChunkSize(days int) AnalyzerOption {
	return func(a *Analyzer) {
		if days > 0 {
			a.chunkSizeDays = days
		}
	}
}

// WithCarryoverCaps overrides the carryover bounds.
func WithCarryoverCaps(events, chains, entities int) AnalyzerOption {
	return func(a *Analyzer) {
		if events > 0 {
			a.maxCarryoverEvents = events
		}
		if chains > 0 {
			a.maxCarryoverChains = chains
		}
		if entities > 0 {
			a.maxCarryoverEntities = entities
		}
	}
}

// WithScorer replaces the default importance heuristic.
func WithScorer(s Scorer) AnalyzerOption {
	return func(a *Analyzer) {
		if s != nil {
			a.scorer = s
		}
	}
}

// WithLogger sets the analyzer's logger.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCheckpoints enables per-chunk carryover persistence so long
// analyses can be resumed or inspected after the fact.
func WithCheckpoints(cm *CheckpointManager) AnalyzerOption {
	return func(a *Analyzer) {
		a.checkpoints = cm
	}
}

// NewAnalyzer creates an analyzer over a graph with default chunking.
func NewAnalyzer(g *graph.TemporalGraph, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		graph:                g,
		scorer:               NewHeuristicScorer(g),
		logger:               slog.Default(),
		chunkSizeDays:        DefaultChunkSizeDays,
		maxCarryoverEvents:   DefaultMaxCarryoverEvents,
		maxCarryoverChains:   DefaultMaxCarryoverChains,
		maxCarryoverEntities: DefaultMaxCarryoverEntities,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeLongChain walks the timeline from the start document in
// fixed-size chunks, carrying bounded state between them. When endDocID
// is empty the horizon is maxDays past the start document; zero maxDays
// means the default five-year horizon. A missing anchor document is an
// error because the analysis has no valid time origin without it.
func (a *Analyzer) AnalyzeLongChain(ctx context.Context, startDocID, endDocID string, maxDays int) (*AnalysisResult, error) {
	return a.analyze(ctx, startDocID, endDocID, maxDays, a.chunkSizeDays)
}

func (a *Analyzer) analyze(ctx context.Context, startDocID, endDocID string, maxDays, chunkDays int) (*AnalysisResult, error) {
	began := time.Now()

	startDoc := a.graph.Node(startDocID)
	if startDoc == nil {
		return nil, fmt.Errorf("start document %q: %w", startDocID, types.ErrNodeNotFound)
	}
	startTime := startDoc.Timestamp

	var endTime time.Time
	if endDocID != "" {
		endDoc := a.graph.Node(endDocID)
		if endDoc == nil {
			return nil, fmt.Errorf("end document %q: %w", endDocID, types.ErrNodeNotFound)
		}
		endTime = endDoc.Timestamp
	} else {
		if maxDays <= 0 {
			maxDays = DefaultMaxDays
		}
		endTime = startTime.AddDate(0, 0, maxDays)
	}

	state := NewCarryover(startTime)
	var chunks []ChunkResult
	totalDocs := 0

	for current := startTime; current.Before(endTime); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunkEnd := current.AddDate(0, 0, chunkDays)
		if chunkEnd.After(endTime) {
			chunkEnd = endTime
		}

		var frontier []string
		if state.ChunkIndex == 0 {
			frontier = []string{startDocID}
		} else {
			frontier = a.frontierFrom(state)
		}

		chunk := a.processChunk(current, chunkEnd, frontier, state)
		chunks = append(chunks, chunk)
		totalDocs += len(chunk.DocIDs)

		state = a.extractCarryover(chunk, state)
		state.DocumentCount = totalDocs

		if a.checkpoints != nil {
			if err := a.checkpoints.Save(ctx, startDocID, state); err != nil {
				a.logger.Warn("carryover checkpoint failed",
					"start_doc", startDocID, "chunk", chunk.Index, "error", err)
			}
		}

		current = chunkEnd
	}

	totalTime := time.Since(began)
	result := &AnalysisResult{
		StartDocID:     startDocID,
		EndDocID:       endDocID,
		TotalTimeSpan:  endTime.Sub(startTime),
		Chunks:         chunks,
		AllKeyEntities: make(map[string]EntityInfo),
		FinalCarryover: state,

		TotalProcessingTime: totalTime,
		TotalDocuments:      totalDocs,
	}

	for _, chunk := range chunks {
		result.AllCriticalEvents = append(result.AllCriticalEvents, chunk.CriticalEvents...)
		result.AllCausalChains = append(result.AllCausalChains, chunk.CausalLinks...)
		for entity, info := range chunk.KeyEntities {
			if existing, ok := result.AllKeyEntities[entity]; ok {
				existing.Mentions += info.Mentions
				if info.LastSeen.After(existing.LastSeen) {
					existing.LastSeen = info.LastSeen
				}
				if info.FirstSeen.Before(existing.FirstSeen) {
					existing.FirstSeen = info.FirstSeen
				}
				result.AllKeyEntities[entity] = existing
			} else {
				result.AllKeyEntities[entity] = info
			}
		}
	}

	if len(chunks) > 0 {
		result.AvgChunkTime = totalTime / time.Duration(len(chunks))
		result.AvgChunkSize = float64(totalDocs) / float64(len(chunks))
	}

	result.EstimatedBaselineTime = estimateBaselineTime(totalDocs)
	if totalTime > 0 && result.EstimatedBaselineTime > 0 {
		result.SpeedupFactor = float64(result.EstimatedBaselineTime) / float64(totalTime)
	}

	a.logger.Debug("long chain analysis complete",
		"start_doc", startDocID,
		"chunks", len(chunks),
		"documents", totalDocs,
		"carryover_size", state.Size())

	return result, nil
}

// frontierFrom derives the next chunk's traversal seeds from carried
// state: the strongest attention targets plus the leading critical-event
// documents.
func (a *Analyzer) frontierFrom(state *Carryover) []string {
	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0, len(state.AttentionScores))
	for id, score := range state.AttentionScores {
		ranked = append(ranked, scored{id, score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	var frontier []string
	seen := make(map[string]struct{})
	for i := 0; i < len(ranked) && i < frontierAttentionSeeds; i++ {
		frontier = append(frontier, ranked[i].id)
		seen[ranked[i].id] = struct{}{}
	}
	for i := 0; i < len(state.CriticalEvents) && i < frontierEventSeeds; i++ {
		id := state.CriticalEvents[i].DocID
		if _, dup := seen[id]; !dup {
			frontier = append(frontier, id)
			seen[id] = struct{}{}
		}
	}
	return frontier
}

// processChunk gathers the documents of one temporal window via graph
// traversal from the frontier and distills events, links, and entities.
func (a *Analyzer) processChunk(start, end time.Time, frontier []string, prior *Carryover) ChunkResult {
	chunkBegan := time.Now()

	docIDs := a.graph.Neighborhood(frontier, start, end, nil)

	chunk := ChunkResult{
		Index:       prior.ChunkIndex,
		StartTime:   start,
		EndTime:     end,
		DocIDs:      docIDs,
		KeyEntities: make(map[string]EntityInfo),
	}
	if len(docIDs) == 0 {
		chunk.ProcessingTime = time.Since(chunkBegan)
		return chunk
	}

	inChunk := make(map[string]struct{}, len(docIDs))
	for _, id := range docIDs {
		inChunk[id] = struct{}{}
	}

	for position, id := range docIDs {
		node := a.graph.Node(id)
		if node == nil {
			continue
		}

		importance := a.scorer.Score(node, position, prior)
		if importance > importanceThreshold {
			chunk.CriticalEvents = append(chunk.CriticalEvents, CriticalEvent{
				DocID:      node.ID,
				Timestamp:  node.Timestamp,
				Type:       string(node.Type),
				Importance: importance,
				Summary:    summarize(node.Content),
			})
		}

		for _, targetID := range a.graph.ForwardNodes(id, nil) {
			if _, ok := inChunk[targetID]; !ok {
				continue
			}
			relation := string(types.SequentialRelation)
			if edge := a.graph.EdgeBetween(id, targetID); edge != nil {
				relation = string(edge.Relation)
			}
			chunk.CausalLinks = append(chunk.CausalLinks, CausalLink{
				From: id, To: targetID, Relation: relation,
			})
		}

		a.collectEntities(node, chunk.KeyEntities)
	}

	// Entities need repeated mentions to count.
	for entity, info := range chunk.KeyEntities {
		if info.Mentions < entityMinMentions {
			delete(chunk.KeyEntities, entity)
		}
	}

	chunk.ProcessingTime = time.Since(chunkBegan)
	chunk.EstimatedMemory = len(docIDs) * 1000
	return chunk
}

// collectEntities counts recurring long words as lightweight entities.
func (a *Analyzer) collectEntities(node *types.TemporalNode, entities map[string]EntityInfo) {
	for _, word := range strings.Fields(strings.ToLower(node.Content)) {
		if len(word) <= entityMinLength {
			continue
		}
		info, ok := entities[word]
		if !ok {
			entities[word] = EntityInfo{
				Mentions:  1,
				FirstSeen: node.Timestamp,
				LastSeen:  node.Timestamp,
			}
			continue
		}
		info.Mentions++
		info.LastSeen = node.Timestamp
		entities[word] = info
	}
}

// extractCarryover compresses a chunk result plus prior state into the
// next bounded carryover.
func (a *Analyzer) extractCarryover(chunk ChunkResult, prior *Carryover) *Carryover {
	// Events: merge, rank by importance, cap.
	events := make([]CriticalEvent, 0, len(prior.CriticalEvents)+len(chunk.CriticalEvents))
	events = append(events, prior.CriticalEvents...)
	events = append(events, chunk.CriticalEvents...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Importance > events[j].Importance
	})
	if len(events) > a.maxCarryoverEvents {
		events = events[:a.maxCarryoverEvents]
	}

	// Entities: merge mention counts, rank by mentions, cap.
	entities := make(map[string]EntityInfo, len(prior.KeyEntities))
	for k, v := range prior.KeyEntities {
		entities[k] = v
	}
	for entity, info := range chunk.KeyEntities {
		if existing, ok := entities[entity]; ok {
			existing.Mentions += info.Mentions
			existing.LastSeen = info.LastSeen
			entities[entity] = existing
		} else {
			entities[entity] = info
		}
	}
	if len(entities) > a.maxCarryoverEntities {
		names := make([]string, 0, len(entities))
		for name := range entities {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if entities[names[i]].Mentions != entities[names[j]].Mentions {
				return entities[names[i]].Mentions > entities[names[j]].Mentions
			}
			return names[i] < names[j]
		})
		trimmed := make(map[string]EntityInfo, a.maxCarryoverEntities)
		for _, name := range names[:a.maxCarryoverEntities] {
			trimmed[name] = entities[name]
		}
		entities = trimmed
	}

	// Chains: keep the most recent, not the most important.
	chains := make([]CausalLink, 0, len(prior.CausalChains)+len(chunk.CausalLinks))
	chains = append(chains, prior.CausalChains...)
	chains = append(chains, chunk.CausalLinks...)
	if len(chains) > a.maxCarryoverChains {
		chains = chains[len(chains)-a.maxCarryoverChains:]
	}

	// Attention: recent documents matter, critical ones matter more.
	attention := make(map[string]float64)
	recentFrom := len(chunk.DocIDs) - frontierAttentionSeeds
	if recentFrom < 0 {
		recentFrom = 0
	}
	for _, id := range chunk.DocIDs[recentFrom:] {
		attention[id] = 0.8
	}
	for _, event := range events {
		attention[event.DocID] = 1.0
	}

	return &Carryover{
		CriticalEvents:  events,
		KeyEntities:     entities,
		CausalChains:    chains,
		AttentionScores: attention,
		OpenQuestions:   prior.OpenQuestions,
		ChunkIndex:      prior.ChunkIndex + 1,
		RangeStart:      prior.RangeStart,
		RangeEnd:        chunk.EndTime,
		DocumentCount:   prior.DocumentCount + len(chunk.DocIDs),
	}
}

// estimateBaselineTime models a non-chunked full-pairwise pass: fixed
// overhead dominates small graphs, the quadratic attention term
// dominates large ones.
func estimateBaselineTime(numDocs int) time.Duration {
	var seconds float64
	if numDocs < 50 {
		seconds = 0.01 * float64(numDocs)
	} else {
		n := float64(numDocs)
		seconds = 0.0001*n + 0.00001*n*n
	}
	return time.Duration(seconds * float64(time.Second))
}

// TemporalSummary re-runs the analysis with a chunk size dividing the
// start-to-end span into roughly numChunks periods and returns only a
// compact digest per period. Both anchors must exist.
func (a *Analyzer) TemporalSummary(ctx context.Context, startDocID, endDocID string, numChunks int) ([]ChunkSummary, error) {
	if numChunks <= 0 {
		numChunks = 10
	}

	startDoc := a.graph.Node(startDocID)
	if startDoc == nil {
		return nil, fmt.Errorf("start document %q: %w", startDocID, types.ErrNodeNotFound)
	}
	endDoc := a.graph.Node(endDocID)
	if endDoc == nil {
		return nil, fmt.Errorf("end document %q: %w", endDocID, types.ErrNodeNotFound)
	}

	totalDays := int(endDoc.Timestamp.Sub(startDoc.Timestamp).Hours() / 24)
	chunkDays := totalDays / numChunks
	if chunkDays < 1 {
		chunkDays = 1
	}

	result, err := a.analyze(ctx, startDocID, endDocID, 0, chunkDays)
	if err != nil {
		return nil, err
	}

	summaries := make([]ChunkSummary, 0, len(result.Chunks))
	for _, chunk := range result.Chunks {
		summary := ChunkSummary{
			Period: fmt.Sprintf("%s to %s",
				chunk.StartTime.Format("2006-01-02"),
				chunk.EndTime.Format("2006-01-02")),
			NumDocs:        len(chunk.DocIDs),
			CriticalEvents: len(chunk.CriticalEvents),
			CausalChains:   len(chunk.CausalLinks),
		}
		for i := 0; i < len(chunk.CriticalEvents) && i < 3; i++ {
			summary.KeyEvents = append(summary.KeyEvents, chunk.CriticalEvents[i].Summary)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
