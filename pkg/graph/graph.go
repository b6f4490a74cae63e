package graph

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/soundprediction/totg/pkg/types"
)

// timeKey orders the timestamp index by (timestamp, id).
type timeKey struct {
	ts time.Time
	id string
}

// TemporalGraph stores timestamped nodes and directed typed edges and
// answers time-range and reachability queries over them. The graph owns
// four derived structures that are updated on every insert: the forward
// and reverse adjacency maps, the sorted timestamp index, and the layer
// map. They are never lazily reconciled.
//
// The graph is safe for use from a single writer; a mutex serializes
// mutations so read-mostly callers sharing an instance do not observe
// partially updated indices.
type TemporalGraph struct {
	mu sync.RWMutex

	layerDurationDays int
	logger            *slog.Logger

	nodes        map[string]*types.TemporalNode
	edges        map[string][]*types.TemporalEdge
	reverseEdges map[string][]*types.TemporalEdge

	timestampIndex []timeKey
	layers         map[string][]string

	listeners []func()

	stats Stats
}

// Stats holds counters describing graph activity.
type Stats struct {
	NodesCreated         int `json:"nodes_created"`
	EdgesCreated         int `json:"edges_created"`
	LayersCreated        int `json:"layers_created"`
	TraversalsPerformed  int `json:"traversals_performed"`
	TemporalOrderWarning int `json:"temporal_order_warnings"`
}

// Option configures a TemporalGraph.
type Option func(*TemporalGraph)

// WithLayerDuration sets the width of a temporal layer bucket in days.
func WithLayerDuration(days int) Option {
	return func(g *TemporalGraph) {
		if days > 0 {
			g.layerDurationDays = days
		}
	}
}

// WithLogger sets the logger used for ingestion warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(g *TemporalGraph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates an empty temporal graph.
func New(opts ...Option) *TemporalGraph {
	g := &TemporalGraph{
		layerDurationDays: types.LayerDurationDays,
		logger:            slog.Default(),
		nodes:             make(map[string]*types.TemporalNode),
		edges:             make(map[string][]*types.TemporalEdge),
		reverseEdges:      make(map[string][]*types.TemporalEdge),
		layers:            make(map[string][]string),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OnMutate registers a callback invoked after every successful node or edge
// insertion. This is the explicit invalidation contract for dependents such
// as attention caches; there is no implicit dependency tracking.
func (g *TemporalGraph) OnMutate(fn func()) {
	g.mu.Lock()
	g.listeners = append(g.listeners, fn)
	g.mu.Unlock()
}

func (g *TemporalGraph) notifyMutation() {
	for _, fn := range g.listeners {
		fn()
	}
}

// AddNode inserts a node, updating all four derived indices. A duplicate id
// is rejected with types.ErrDuplicateID and leaves every index untouched.
// The node's timestamp is normalized to UTC and its layer id derived before
// storage.
func (g *TemporalGraph) AddNode(node *types.TemporalNode) error {
	if err := node.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[node.ID]; exists {
		return fmt.Errorf("%w: %s", types.ErrDuplicateID, node.ID)
	}

	stored := *node
	stored.Timestamp = types.NormalizeTimestamp(node.Timestamp)
	stored.LayerID = types.ComputeLayerID(stored.Timestamp, g.layerDurationDays)

	g.nodes[stored.ID] = &stored
	g.insertTimestampIndex(timeKey{ts: stored.Timestamp, id: stored.ID})
	g.layers[stored.LayerID] = append(g.layers[stored.LayerID], stored.ID)

	g.stats.NodesCreated++
	g.stats.LayersCreated = len(g.layers)

	g.notifyMutation()
	return nil
}

// insertTimestampIndex keeps the timestamp index sorted by (timestamp, id).
func (g *TemporalGraph) insertTimestampIndex(key timeKey) {
	i := sort.Search(len(g.timestampIndex), func(i int) bool {
		k := g.timestampIndex[i]
		if !k.ts.Equal(key.ts) {
			return k.ts.After(key.ts)
		}
		return k.id >= key.id
	})
	g.timestampIndex = append(g.timestampIndex, timeKey{})
	copy(g.timestampIndex[i+1:], g.timestampIndex[i:])
	g.timestampIndex[i] = key
}

// AddEdge inserts a directed edge into the forward and reverse adjacency
// maps. Both endpoints must already exist; the error names the missing one.
// A sequential or causal edge that goes backward in time is allowed but
// logged as a temporal-order warning. Multiple edges between the same
// ordered pair are permitted.
func (g *TemporalGraph) AddEdge(edge *types.TemporalEdge) error {
	if err := edge.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	from, ok := g.nodes[edge.From]
	if !ok {
		return fmt.Errorf("%w: from node %q", types.ErrMissingEndpoint, edge.From)
	}
	to, ok := g.nodes[edge.To]
	if !ok {
		return fmt.Errorf("%w: to node %q", types.ErrMissingEndpoint, edge.To)
	}

	if edge.Relation.IsOrdered() && from.Timestamp.After(to.Timestamp) {
		g.stats.TemporalOrderWarning++
		g.logger.Warn("temporal edge goes backward in time",
			"from", edge.From, "to", edge.To, "relation", edge.Relation)
	}

	stored := *edge
	if stored.Weight == 0 {
		stored.Weight = 1.0
	}
	g.edges[stored.From] = append(g.edges[stored.From], &stored)
	g.reverseEdges[stored.To] = append(g.reverseEdges[stored.To], &stored)

	g.stats.EdgesCreated++

	g.notifyMutation()
	return nil
}

// Node returns the node with the given id, or nil when absent. The returned
// pointer is the graph's copy; callers must not mutate it.
func (g *TemporalGraph) Node(id string) *types.TemporalNode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[id]
}

// HasNode reports whether a node with the given id exists.
func (g *TemporalGraph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all node ids in timestamp order.
func (g *TemporalGraph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, len(g.timestampIndex))
	for i, key := range g.timestampIndex {
		ids[i] = key.id
	}
	return ids
}

// NodeCount returns the number of nodes in the graph.
func (g *TemporalGraph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *TemporalGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	total := 0
	for _, edges := range g.edges {
		total += len(edges)
	}
	return total
}

// NodesInRange returns the ids of nodes with start <= timestamp <= end in
// ascending timestamp order, using binary search over the timestamp index.
func (g *TemporalGraph) NodesInRange(start, end time.Time) []string {
	start = types.NormalizeTimestamp(start)
	end = types.NormalizeTimestamp(end)

	g.mu.RLock()
	defer g.mu.RUnlock()

	lo := sort.Search(len(g.timestampIndex), func(i int) bool {
		return !g.timestampIndex[i].ts.Before(start)
	})
	hi := sort.Search(len(g.timestampIndex), func(i int) bool {
		return g.timestampIndex[i].ts.After(end)
	})

	ids := make([]string, 0, hi-lo)
	for i := lo; i < hi; i++ {
		ids = append(ids, g.timestampIndex[i].id)
	}
	return ids
}

// DirectSuccessors returns ids with a direct edge from the given node.
func (g *TemporalGraph) DirectSuccessors(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.edges[id]))
	for _, edge := range g.edges[id] {
		out = append(out, edge.To)
	}
	return out
}

// DirectPredecessors returns ids with a direct edge to the given node.
func (g *TemporalGraph) DirectPredecessors(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.reverseEdges[id]))
	for _, edge := range g.reverseEdges[id] {
		out = append(out, edge.From)
	}
	return out
}

// HasEdge reports whether a direct edge from one node to another exists.
func (g *TemporalGraph) HasEdge(from, to string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, edge := range g.edges[from] {
		if edge.To == to {
			return true
		}
	}
	return false
}

// EdgesFrom returns the outgoing edges of a node.
func (g *TemporalGraph) EdgesFrom(id string) []*types.TemporalEdge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*types.TemporalEdge, len(g.edges[id]))
	copy(out, g.edges[id])
	return out
}

// EdgeBetween returns the first edge from one node to another, or nil.
func (g *TemporalGraph) EdgeBetween(from, to string) *types.TemporalEdge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, edge := range g.edges[from] {
		if edge.To == to {
			return edge
		}
	}
	return nil
}

// Export produces a full non-mutating dump of the graph as plain records.
func (g *TemporalGraph) Export() types.GraphExport {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]types.NodeData, 0, len(g.timestampIndex))
	for _, key := range g.timestampIndex {
		nodes = append(nodes, types.NodeToData(g.nodes[key.id]))
	}

	var edges []types.EdgeData
	for _, key := range g.timestampIndex {
		for _, edge := range g.edges[key.id] {
			edges = append(edges, types.EdgeToData(edge))
		}
	}

	return types.GraphExport{
		Nodes:      nodes,
		Edges:      edges,
		Statistics: g.statisticsLocked(),
	}
}

// Statistics returns a snapshot of graph counters and sizes.
func (g *TemporalGraph) Statistics() map[string]interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.statisticsLocked()
}

func (g *TemporalGraph) statisticsLocked() map[string]interface{} {
	totalEdges := 0
	for _, edges := range g.edges {
		totalEdges += len(edges)
	}

	avgEdges := 0.0
	if g.stats.NodesCreated > 0 {
		avgEdges = float64(g.stats.EdgesCreated) / float64(g.stats.NodesCreated)
	}
	avgLayer := 0.0
	if len(g.layers) > 0 {
		avgLayer = float64(len(g.nodes)) / float64(len(g.layers))
	}

	stats := map[string]interface{}{
		"nodes_created":           g.stats.NodesCreated,
		"edges_created":           g.stats.EdgesCreated,
		"layers_created":          g.stats.LayersCreated,
		"traversals_performed":    g.stats.TraversalsPerformed,
		"temporal_order_warnings": g.stats.TemporalOrderWarning,
		"total_nodes":             len(g.nodes),
		"total_edges":             totalEdges,
		"total_layers":            len(g.layers),
		"avg_edges_per_node":      avgEdges,
		"avg_layer_size":          avgLayer,
	}

	if len(g.timestampIndex) > 0 {
		first := g.timestampIndex[0].ts
		last := g.timestampIndex[len(g.timestampIndex)-1].ts
		stats["time_span_days"] = int(last.Sub(first).Hours() / 24)
	}

	return stats
}
