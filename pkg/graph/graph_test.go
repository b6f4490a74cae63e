package graph

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/totg/pkg/types"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func contentNode(id string, ts time.Time) *types.TemporalNode {
	return &types.TemporalNode{
		ID:        id,
		Timestamp: ts,
		Type:      types.ContentNodeType,
		Content:   "content for " + id,
	}
}

// buildChain creates n nodes one day apart linked sequentially.
func buildChain(t *testing.T, n int) *TemporalGraph {
	t.Helper()
	g := New()
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddNode(contentNode(nodeID(i), baseTime.AddDate(0, 0, i))))
	}
	for i := 0; i < n-1; i++ {
		require.NoError(t, g.AddEdge(&types.TemporalEdge{
			From:     nodeID(i),
			To:       nodeID(i + 1),
			Relation: types.SequentialRelation,
		}))
	}
	return g
}

func nodeID(i int) string {
	return string(rune('a' + i))
}

func TestAddNode(t *testing.T) {
	g := New()

	t.Run("insert updates all indices", func(t *testing.T) {
		require.NoError(t, g.AddNode(contentNode("a", baseTime)))
		assert.True(t, g.HasNode("a"))
		assert.Equal(t, 1, g.NodeCount())
		assert.NotEmpty(t, g.Node("a").LayerID)
		assert.Contains(t, g.LayerNodes(g.Node("a").LayerID), "a")
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		err := g.AddNode(contentNode("a", baseTime.AddDate(0, 0, 1)))
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrDuplicateID))
		// Original timestamp untouched.
		assert.True(t, g.Node("a").Timestamp.Equal(baseTime))
		assert.Equal(t, 1, g.NodeCount())
	})

	t.Run("timestamp normalized to UTC", func(t *testing.T) {
		offset := time.FixedZone("plus2", 2*3600)
		require.NoError(t, g.AddNode(contentNode("b", time.Date(2024, 1, 2, 12, 0, 0, 0, offset))))
		assert.Equal(t, time.UTC, g.Node("b").Timestamp.Location())
		assert.True(t, g.Node("b").Timestamp.Equal(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)))
	})
}

func TestAddEdge(t *testing.T) {
	g := New()
	require.NoError(t, g.AddNode(contentNode("a", baseTime)))
	require.NoError(t, g.AddNode(contentNode("b", baseTime.AddDate(0, 0, 1))))

	t.Run("missing endpoint rejected", func(t *testing.T) {
		err := g.AddEdge(&types.TemporalEdge{From: "a", To: "ghost", Relation: types.SequentialRelation})
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrMissingEndpoint))
		assert.Contains(t, err.Error(), "ghost")

		err = g.AddEdge(&types.TemporalEdge{From: "ghost", To: "b", Relation: types.SequentialRelation})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("valid edge inserted into both adjacencies", func(t *testing.T) {
		require.NoError(t, g.AddEdge(&types.TemporalEdge{From: "a", To: "b", Relation: types.CausalRelation}))
		assert.Equal(t, []string{"b"}, g.DirectSuccessors("a"))
		assert.Equal(t, []string{"a"}, g.DirectPredecessors("b"))
		assert.True(t, g.HasEdge("a", "b"))
		assert.False(t, g.HasEdge("b", "a"))
	})

	t.Run("backward causal edge warns but succeeds", func(t *testing.T) {
		err := g.AddEdge(&types.TemporalEdge{From: "b", To: "a", Relation: types.CausalRelation})
		require.NoError(t, err)
		assert.True(t, g.HasEdge("b", "a"))
		stats := g.Statistics()
		assert.Equal(t, 1, stats["temporal_order_warnings"])
	})

	t.Run("parallel edges permitted", func(t *testing.T) {
		require.NoError(t, g.AddEdge(&types.TemporalEdge{From: "a", To: "b", Relation: types.SequentialRelation}))
		assert.Len(t, g.EdgesFrom("a"), 2)
	})

	t.Run("default weight applied", func(t *testing.T) {
		assert.Equal(t, 1.0, g.EdgeBetween("a", "b").Weight)
	})
}

func TestNodesInRange(t *testing.T) {
	g := buildChain(t, 5) // days 0..4

	t.Run("inclusive bounds", func(t *testing.T) {
		got := g.NodesInRange(baseTime.AddDate(0, 0, 1), baseTime.AddDate(0, 0, 3))
		assert.Equal(t, []string{"b", "c", "d"}, got)
	})

	t.Run("empty range", func(t *testing.T) {
		got := g.NodesInRange(baseTime.AddDate(0, 0, 10), baseTime.AddDate(0, 0, 20))
		assert.Empty(t, got)
	})

	t.Run("full range ordered", func(t *testing.T) {
		got := g.NodesInRange(baseTime, baseTime.AddDate(0, 0, 4))
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
	})
}

func TestMutationListeners(t *testing.T) {
	g := New()
	calls := 0
	g.OnMutate(func() { calls++ })

	require.NoError(t, g.AddNode(contentNode("a", baseTime)))
	require.NoError(t, g.AddNode(contentNode("b", baseTime.AddDate(0, 0, 1))))
	require.NoError(t, g.AddEdge(&types.TemporalEdge{From: "a", To: "b", Relation: types.SequentialRelation}))

	assert.Equal(t, 3, calls)

	// Failed inserts do not notify.
	_ = g.AddNode(contentNode("a", baseTime))
	_ = g.AddEdge(&types.TemporalEdge{From: "a", To: "ghost", Relation: types.SequentialRelation})
	assert.Equal(t, 3, calls)
}

func TestExportDoesNotMutate(t *testing.T) {
	g := buildChain(t, 3)
	before := g.Statistics()

	export := g.Export()
	require.Len(t, export.Nodes, 3)
	require.Len(t, export.Edges, 2)
	assert.Equal(t, "a", export.Nodes[0].ID)
	assert.Equal(t, "sequential", export.Edges[0].Relation)

	after := g.Statistics()
	assert.Equal(t, before["total_nodes"], after["total_nodes"])
	assert.Equal(t, before["traversals_performed"], after["traversals_performed"])
}

func TestAdjacentLayers(t *testing.T) {
	g := New(WithLayerDuration(7))
	// Three consecutive weeks.
	require.NoError(t, g.AddNode(contentNode("w0", baseTime)))
	require.NoError(t, g.AddNode(contentNode("w1", baseTime.AddDate(0, 0, 7))))
	require.NoError(t, g.AddNode(contentNode("w2", baseTime.AddDate(0, 0, 14))))

	middle := g.Node("w1").LayerID
	adjacent := g.AdjacentLayers(middle)
	assert.Len(t, adjacent, 2)
	assert.Contains(t, adjacent, g.Node("w0").LayerID)
	assert.Contains(t, adjacent, g.Node("w2").LayerID)

	assert.Nil(t, g.AdjacentLayers("not-a-layer"))
}

func TestAdjacentLayersPreEpoch(t *testing.T) {
	g := New(WithLayerDuration(7))
	// One node either side of the epoch.
	require.NoError(t, g.AddNode(contentNode("before", time.Date(1969, 12, 28, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, g.AddNode(contentNode("after", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))))

	assert.Equal(t, "layer_-1", g.Node("before").LayerID)
	assert.Equal(t, "layer_0", g.Node("after").LayerID)

	assert.Equal(t, []string{"layer_-1"}, g.AdjacentLayers("layer_0"))
	assert.Equal(t, []string{"layer_0"}, g.AdjacentLayers("layer_-1"))
}
