// Package attention scores temporal relevance between graph nodes with a
// bank of attention heads. Each head combines TF-IDF similarity, an
// exponential temporal decay, and an optional keyword boost; the engine
// averages head scores per candidate and caches results until the graph
// mutates or the cache entry ages out.
package attention

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/soundprediction/totg/pkg/graph"
	"github.com/soundprediction/totg/pkg/semantic"
	"github.com/soundprediction/totg/pkg/types"
)

// DefaultMaxNodes bounds how many weighted targets a query returns.
const DefaultMaxNodes = 10

// significanceCutoff drops weights too small to matter before they reach
// the aggregate.
const significanceCutoff = 0.01

// Stats holds engine counters.
type Stats struct {
	Computations    int `json:"attention_computations"`
	CacheHits       int `json:"cache_hits"`
	CacheMisses     int `json:"cache_misses"`
	ForwardQueries  int `json:"forward_queries"`
	BackwardQueries int `json:"backward_queries"`
}

// BidirectionalResult pairs forward and backward attention for one node.
type BidirectionalResult struct {
	Forward             map[string]float64 `json:"forward"`
	Backward            map[string]float64 `json:"backward"`
	TotalForwardWeight  float64            `json:"total_forward_weight"`
	TotalBackwardWeight float64            `json:"total_backward_weight"`
	// AttentionBalance is the forward-to-backward weight ratio; values
	// above 1 mean the node points mostly at what follows it.
	AttentionBalance     float64 `json:"attention_balance"`
	MostAttendedForward  string  `json:"most_attended_forward,omitempty"`
	MostAttendedBackward string  `json:"most_attended_backward,omitempty"`
}

// Engine computes multi-head attention over a temporal graph.
type Engine struct {
	graph  *graph.TemporalGraph
	sim    *semantic.Similarity
	heads  []Head
	cache  *resultCache
	logger *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHeads replaces the default head bank.
func WithHeads(heads []Head) EngineOption {
	return func(e *Engine) {
		if len(heads) > 0 {
			e.heads = heads
		}
	}
}

// WithEngineLogger sets the logger for the engine.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCache resizes the result cache. Non-positive values keep the
// defaults.
func WithCache(size int, ttl time.Duration) EngineOption {
	return func(e *Engine) {
		if size <= 0 {
			size = defaultCacheSize
		}
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		e.cache = newResultCache(size, ttl)
	}
}

// WithoutCache disables result caching entirely; every query recomputes
// from the graph.
func WithoutCache() EngineOption {
	return func(e *Engine) {
		e.cache = nil
	}
}

// NewEngine creates an attention engine bound to a graph. The engine
// seeds its similarity corpus from existing node content, registers for
// mutation notifications so cached results never outlive a graph change,
// and installs the default head bank unless overridden.
func NewEngine(g *graph.TemporalGraph, opts ...EngineOption) *Engine {
	e := &Engine{
		graph:  g,
		sim:    semantic.NewSimilarity(),
		heads:  DefaultHeads(),
		cache:  newResultCache(defaultCacheSize, defaultCacheTTL),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, id := range g.Nodes() {
		if node := g.Node(id); node != nil && node.Content != "" {
			e.sim.AddDocument(node.Content)
		}
	}

	if e.cache != nil {
		g.OnMutate(e.cache.Purge)
	}
	return e
}

// Similarity exposes the engine's corpus so ingestion can keep it fed.
func (e *Engine) Similarity() *semantic.Similarity {
	return e.sim
}

// Heads returns a copy of the engine's head bank.
func (e *Engine) Heads() []Head {
	out := make([]Head, len(e.heads))
	copy(out, e.heads)
	return out
}

// widestWindow is the candidate-gathering horizon: the union of every
// head's window, so no head is starved of candidates.
func (e *Engine) widestWindow() int {
	widest := 0
	for _, h := range e.heads {
		if h.WindowDays > widest {
			widest = h.WindowDays
		}
	}
	return widest
}

// Forward computes attention from a node to the future nodes reachable
// from it. Results map target id to weight, truncated to the maxNodes
// strongest. An unknown id yields an empty map.
func (e *Engine) Forward(nodeID string, maxNodes int) map[string]float64 {
	return e.directional(nodeID, maxNodes, true)
}

// Backward computes attention from a node to the past nodes that can
// reach it, most relevant first.
func (e *Engine) Backward(nodeID string, maxNodes int) map[string]float64 {
	return e.directional(nodeID, maxNodes, false)
}

func (e *Engine) directional(nodeID string, maxNodes int, forward bool) map[string]float64 {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	reference := e.graph.Node(nodeID)
	if reference == nil {
		return map[string]float64{}
	}

	direction := "backward"
	if forward {
		direction = "forward"
	}
	cacheKey := fmt.Sprintf("%s_%s_%d", direction, nodeID, maxNodes)
	if e.cache != nil {
		if cached, ok := e.cache.Get(cacheKey); ok {
			e.mu.Lock()
			e.stats.CacheHits++
			e.mu.Unlock()
			return cached
		}
	}

	e.mu.Lock()
	e.stats.CacheMisses++
	if forward {
		e.stats.ForwardQueries++
	} else {
		e.stats.BackwardQueries++
	}
	e.mu.Unlock()

	// Gather candidates over the widest head window so every head sees
	// its full horizon, with headroom before truncation.
	opts := &graph.TraversalOptions{
		WindowDays: e.widestWindow(),
		MaxResults: maxNodes * 2,
	}
	var candidates []string
	if forward {
		candidates = e.graph.ForwardNodes(nodeID, opts)
	} else {
		candidates = e.graph.BackwardNodes(nodeID, opts)
	}
	if len(candidates) == 0 {
		return map[string]float64{}
	}

	scores := make(map[string]float64)
	headCount := float64(len(e.heads))
	for _, head := range e.heads {
		if forward && !head.AppliesForward() {
			continue
		}
		if !forward && !head.AppliesBackward() {
			continue
		}
		for id, weight := range e.headWeights(reference, candidates, head) {
			scores[id] += weight / headCount
		}
	}

	result := topN(scores, maxNodes)
	if e.cache != nil {
		e.cache.Add(cacheKey, result)
	}

	e.mu.Lock()
	e.stats.Computations++
	e.mu.Unlock()

	return result
}

// headWeights scores candidates for one head. Weights at or below the
// significance cutoff are discarded.
func (e *Engine) headWeights(reference *types.TemporalNode, candidates []string, head Head) map[string]float64 {
	weights := make(map[string]float64)
	for _, id := range candidates {
		candidate := e.graph.Node(id)
		if candidate == nil {
			continue
		}

		similarity := e.sim.Score(reference.Content, candidate.Content)

		daysDiff := int(candidate.Timestamp.Sub(reference.Timestamp).Hours() / 24)
		if daysDiff < 0 {
			daysDiff = -daysDiff
		}
		decay := head.TemporalDecay(daysDiff)

		weight := similarity * decay * head.FocusBoost(candidate.Content)
		if weight > significanceCutoff {
			weights[id] = weight
		}
	}
	return weights
}

// topN keeps the n heaviest entries, breaking weight ties by id.
func topN(scores map[string]float64, n int) map[string]float64 {
	if len(scores) <= n {
		return scores
	}
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	out := make(map[string]float64, n)
	for _, id := range ids[:n] {
		out[id] = scores[id]
	}
	return out
}

// Bidirectional computes forward and backward attention together with
// summary weights. The balance denominator is floored so a node with no
// backward attention still yields a finite ratio.
func (e *Engine) Bidirectional(nodeID string, maxPerDirection int) BidirectionalResult {
	if maxPerDirection <= 0 {
		maxPerDirection = 5
	}
	forward := e.Forward(nodeID, maxPerDirection)
	backward := e.Backward(nodeID, maxPerDirection)

	totalForward, totalBackward := 0.0, 0.0
	for _, w := range forward {
		totalForward += w
	}
	for _, w := range backward {
		totalBackward += w
	}

	return BidirectionalResult{
		Forward:              forward,
		Backward:             backward,
		TotalForwardWeight:   totalForward,
		TotalBackwardWeight:  totalBackward,
		AttentionBalance:     totalForward / max(0.001, totalBackward),
		MostAttendedForward:  heaviest(forward),
		MostAttendedBackward: heaviest(backward),
	}
}

func heaviest(weights map[string]float64) string {
	best, bestWeight := "", -1.0
	for id, w := range weights {
		if w > bestWeight || (w == bestWeight && id < best) {
			best, bestWeight = id, w
		}
	}
	return best
}

// InvalidateCache drops every cached result.
func (e *Engine) InvalidateCache() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

// Statistics returns engine counters plus cache and corpus sizes.
func (e *Engine) Statistics() map[string]interface{} {
	e.mu.Lock()
	stats := e.stats
	e.mu.Unlock()

	cacheTotal := stats.CacheHits + stats.CacheMisses
	hitRate := 0.0
	if cacheTotal > 0 {
		hitRate = float64(stats.CacheHits) / float64(cacheTotal)
	}

	cachedEntries := 0
	if e.cache != nil {
		cachedEntries = e.cache.Len()
	}

	return map[string]interface{}{
		"attention_computations": stats.Computations,
		"cache_hits":             stats.CacheHits,
		"cache_misses":           stats.CacheMisses,
		"forward_queries":        stats.ForwardQueries,
		"backward_queries":       stats.BackwardQueries,
		"attention_heads_count":  len(e.heads),
		"cached_entries":         cachedEntries,
		"cache_hit_rate":         hitRate,
		"documents_in_corpus":    e.sim.DocumentCount(),
		"unique_terms":           e.sim.UniqueTerms(),
	}
}
