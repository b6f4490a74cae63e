package attention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/totg/pkg/graph"
	"github.com/soundprediction/totg/pkg/types"
)

var baseTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func addNode(t *testing.T, g *graph.TemporalGraph, id, content string, daysOffset int) {
	t.Helper()
	require.NoError(t, g.AddNode(&types.TemporalNode{
		ID:        id,
		Timestamp: baseTime.AddDate(0, 0, daysOffset),
		Type:      types.ContentNodeType,
		Content:   content,
	}))
}

func addEdge(t *testing.T, g *graph.TemporalGraph, from, to string) {
	t.Helper()
	require.NoError(t, g.AddEdge(&types.TemporalEdge{
		From:     from,
		To:       to,
		Relation: types.SequentialRelation,
	}))
}

// paymentGraph builds a small chain of related payment events plus one
// unrelated event, all within every head's window.
func paymentGraph(t *testing.T) *graph.TemporalGraph {
	t.Helper()
	g := graph.New()
	addNode(t, g, "contract", "contract signed payment terms delivery schedule", 0)
	addNode(t, g, "invoice", "invoice payment terms delivery", 2)
	addNode(t, g, "payment", "payment received delivery confirmation", 4)
	addNode(t, g, "picnic", "office picnic scheduled park", 3)
	addEdge(t, g, "contract", "invoice")
	addEdge(t, g, "invoice", "payment")
	addEdge(t, g, "contract", "picnic")
	return g
}

func TestDefaultHeads(t *testing.T) {
	heads := DefaultHeads()
	require.Len(t, heads, 4)

	byID := make(map[string]Head, len(heads))
	for _, h := range heads {
		byID[h.ID] = h
	}

	assert.Equal(t, 7, byID["short_forward"].WindowDays)
	assert.Equal(t, 0.8, byID["short_forward"].DecayFactor)
	assert.Equal(t, 90, byID["long_backward"].WindowDays)
	assert.Equal(t, 0.98, byID["long_backward"].DecayFactor)
	assert.Equal(t, 30, byID["semantic_focus"].WindowDays)
	assert.Len(t, byID["semantic_focus"].FocusKeywords, 5)
	assert.Equal(t, 14, byID["temporal_focus"].WindowDays)

	assert.True(t, byID["short_forward"].AppliesForward())
	assert.False(t, byID["short_forward"].AppliesBackward())
	assert.True(t, byID["long_backward"].AppliesBackward())
	assert.False(t, byID["long_backward"].AppliesForward())
	assert.True(t, byID["semantic_focus"].AppliesBackward())
	assert.False(t, byID["semantic_focus"].AppliesForward())
	assert.True(t, byID["temporal_focus"].AppliesForward())
	assert.False(t, byID["temporal_focus"].AppliesBackward())
}

func TestTemporalDecay(t *testing.T) {
	head := Head{DecayFactor: 0.8}

	assert.Equal(t, 1.0, head.TemporalDecay(0))
	assert.Equal(t, 1.0, head.TemporalDecay(-3))
	assert.InDelta(t, 0.8, head.TemporalDecay(1), 1e-9)
	assert.InDelta(t, 0.64, head.TemporalDecay(2), 1e-9)

	// Long gaps hit the floor instead of vanishing.
	assert.Equal(t, 0.01, head.TemporalDecay(100))
}

func TestFocusBoost(t *testing.T) {
	focus := Head{Type: SemanticFocusHead, FocusKeywords: []string{"critical", "key"}}
	plain := Head{Type: ForwardHead, FocusKeywords: []string{"critical"}}

	assert.InDelta(t, 1.4, focus.FocusBoost("a CRITICAL and key update"), 1e-9)
	assert.Equal(t, 1.0, focus.FocusBoost("nothing special here"))
	assert.Equal(t, 1.0, plain.FocusBoost("critical update"))
}

func TestForwardAttention(t *testing.T) {
	g := paymentGraph(t)
	e := NewEngine(g)

	weights := e.Forward("contract", 10)
	require.NotEmpty(t, weights)

	t.Run("related targets outrank unrelated ones", func(t *testing.T) {
		assert.Greater(t, weights["invoice"], 0.0)
		if picnic, ok := weights["picnic"]; ok {
			assert.Greater(t, weights["invoice"], picnic)
		}
	})

	t.Run("unknown node yields empty map", func(t *testing.T) {
		assert.Empty(t, e.Forward("ghost", 10))
	})

	t.Run("result bounded by maxNodes", func(t *testing.T) {
		limited := e.Forward("contract", 1)
		assert.LessOrEqual(t, len(limited), 1)
	})
}

func TestBackwardAttention(t *testing.T) {
	g := paymentGraph(t)
	e := NewEngine(g)

	weights := e.Backward("payment", 10)
	require.NotEmpty(t, weights)
	assert.Contains(t, weights, "invoice")

	// The leaf has nothing downstream.
	assert.Empty(t, e.Forward("payment", 10))
}

func TestFocusKeywordRanking(t *testing.T) {
	g := graph.New()
	addNode(t, g, "target", "project deadline review", 10)
	addNode(t, g, "boosted", "critical project deadline review", 2)
	addNode(t, g, "plain", "routine project deadline review", 2)
	// Unconnected filler keeps shared terms below full document frequency,
	// so their IDF stays positive.
	addNode(t, g, "noise", "unrelated budget meeting notes", 20)
	addEdge(t, g, "boosted", "target")
	addEdge(t, g, "plain", "target")
	e := NewEngine(g)

	weights := e.Backward("target", 10)
	require.Contains(t, weights, "boosted")
	require.Contains(t, weights, "plain")
	assert.Greater(t, weights["boosted"], weights["plain"])
}

func TestCacheBehavior(t *testing.T) {
	g := paymentGraph(t)
	e := NewEngine(g)

	first := e.Forward("contract", 10)
	second := e.Forward("contract", 10)
	assert.Equal(t, first, second)

	stats := e.Statistics()
	assert.Equal(t, 1, stats["cache_hits"])
	assert.Equal(t, 1, stats["cache_misses"])

	t.Run("graph mutation purges cache", func(t *testing.T) {
		addNode(t, g, "late", "payment reminder sent", 5)
		addEdge(t, g, "contract", "late")

		e.Forward("contract", 10)
		stats := e.Statistics()
		assert.Equal(t, 1, stats["cache_hits"])
		assert.Equal(t, 2, stats["cache_misses"])
	})

	t.Run("explicit invalidation", func(t *testing.T) {
		e.Forward("contract", 10) // warm
		e.InvalidateCache()
		assert.Equal(t, 0, e.cache.Len())
	})
}

func TestWithoutCache(t *testing.T) {
	g := paymentGraph(t)
	e := NewEngine(g, WithoutCache())

	first := e.Forward("contract", 10)
	second := e.Forward("contract", 10)
	assert.Equal(t, first, second)

	stats := e.Statistics()
	assert.Equal(t, 0, stats["cache_hits"])
	assert.Equal(t, 2, stats["cache_misses"])
	assert.Equal(t, 0, stats["cached_entries"])

	// Mutation and invalidation are no-ops without a cache.
	addNode(t, g, "late", "payment reminder sent", 5)
	e.InvalidateCache()
	e.Forward("contract", 10)
}

func TestBidirectional(t *testing.T) {
	g := paymentGraph(t)
	e := NewEngine(g)

	t.Run("middle node attends both ways", func(t *testing.T) {
		result := e.Bidirectional("invoice", 5)
		assert.NotEmpty(t, result.Forward)
		assert.NotEmpty(t, result.Backward)
		assert.Greater(t, result.TotalForwardWeight, 0.0)
		assert.Greater(t, result.TotalBackwardWeight, 0.0)
		assert.NotEmpty(t, result.MostAttendedForward)
		assert.NotEmpty(t, result.MostAttendedBackward)
	})

	t.Run("balance stays finite with zero backward weight", func(t *testing.T) {
		result := e.Bidirectional("contract", 5)
		assert.Empty(t, result.Backward)
		assert.Equal(t, result.TotalForwardWeight/0.001, result.AttentionBalance)
	})
}

func TestStatistics(t *testing.T) {
	g := paymentGraph(t)
	e := NewEngine(g)

	e.Forward("contract", 10)
	e.Backward("payment", 10)

	stats := e.Statistics()
	assert.Equal(t, 4, stats["attention_heads_count"])
	assert.Equal(t, 1, stats["forward_queries"])
	assert.Equal(t, 1, stats["backward_queries"])
	assert.Equal(t, 4, stats["documents_in_corpus"])
	assert.Greater(t, stats["unique_terms"], 0)
}
