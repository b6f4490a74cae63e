package graph

import (
	"sort"
	"time"

	"github.com/soundprediction/totg/pkg/types"
)

// Default traversal bounds. The hop limit and the time-window pruning rule
// together are the sole termination guarantee on cyclic or highly connected
// graphs; every node enters the queue and is marked visited at most once.
const (
	DefaultMaxHops    = 5
	DefaultMaxResults = 50
	DefaultPathHops   = 10
)

// TraversalOptions bounds a windowed reachability query.
type TraversalOptions struct {
	WindowDays int
	MaxHops    int
	MaxResults int
}

func (o *TraversalOptions) withDefaults() TraversalOptions {
	out := TraversalOptions{
		WindowDays: 30,
		MaxHops:    DefaultMaxHops,
		MaxResults: DefaultMaxResults,
	}
	if o == nil {
		return out
	}
	if o.WindowDays > 0 {
		out.WindowDays = o.WindowDays
	}
	if o.MaxHops > 0 {
		out.MaxHops = o.MaxHops
	}
	if o.MaxResults > 0 {
		out.MaxResults = o.MaxResults
	}
	return out
}

// ForwardNodes returns every node transitively reachable from id along
// outgoing edges, bounded by the hop limit and the time window. A node
// beyond the window is still visited but pruned from further expansion.
// The result keeps nodes with source.ts < ts <= source.ts + window, sorted
// ascending by timestamp, truncated to MaxResults. An unknown id yields an
// empty result, not an error.
func (g *TemporalGraph) ForwardNodes(id string, opts *TraversalOptions) []string {
	o := opts.withDefaults()

	g.mu.Lock()
	defer g.mu.Unlock()

	source, ok := g.nodes[id]
	if !ok {
		return nil
	}
	endTime := source.Timestamp.AddDate(0, 0, o.WindowDays)

	visited := g.bfs(id, o.MaxHops, func(n *types.TemporalNode) bool {
		return n.Timestamp.After(endTime)
	}, g.edges, func(e *types.TemporalEdge) string { return e.To })

	result := make([]string, 0, len(visited))
	for reachedID := range visited {
		if reachedID == id {
			continue
		}
		node := g.nodes[reachedID]
		if node.Timestamp.After(source.Timestamp) && !node.Timestamp.After(endTime) {
			result = append(result, reachedID)
		}
	}

	g.sortByTimestamp(result, false)
	g.stats.TraversalsPerformed++

	if len(result) > o.MaxResults {
		result = result[:o.MaxResults]
	}
	return result
}

// BackwardNodes returns every node that can transitively reach id along
// directed edges, bounded symmetrically to ForwardNodes. The result keeps
// nodes with target.ts - window <= ts < target.ts, sorted descending by
// timestamp (most recent first).
func (g *TemporalGraph) BackwardNodes(id string, opts *TraversalOptions) []string {
	o := opts.withDefaults()

	g.mu.Lock()
	defer g.mu.Unlock()

	target, ok := g.nodes[id]
	if !ok {
		return nil
	}
	startTime := target.Timestamp.AddDate(0, 0, -o.WindowDays)

	visited := g.bfs(id, o.MaxHops, func(n *types.TemporalNode) bool {
		return n.Timestamp.Before(startTime)
	}, g.reverseEdges, func(e *types.TemporalEdge) string { return e.From })

	result := make([]string, 0, len(visited))
	for reachedID := range visited {
		if reachedID == id {
			continue
		}
		node := g.nodes[reachedID]
		if !node.Timestamp.Before(startTime) && node.Timestamp.Before(target.Timestamp) {
			result = append(result, reachedID)
		}
	}

	g.sortByTimestamp(result, true)
	g.stats.TraversalsPerformed++

	if len(result) > o.MaxResults {
		result = result[:o.MaxResults]
	}
	return result
}

// bfs performs a hop-bounded breadth-first traversal over the given
// adjacency map, returning the set of visited ids. prune stops expansion
// past a node without excluding the node itself from the visited set.
func (g *TemporalGraph) bfs(
	start string,
	maxHops int,
	prune func(*types.TemporalNode) bool,
	adjacency map[string][]*types.TemporalEdge,
	next func(*types.TemporalEdge) string,
) map[string]struct{} {
	type queueItem struct {
		id   string
		hops int
	}

	visited := make(map[string]struct{})
	queue := []queueItem{{id: start}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if _, seen := visited[item.id]; seen || item.hops > maxHops {
			continue
		}
		visited[item.id] = struct{}{}

		if node, ok := g.nodes[item.id]; ok && prune(node) {
			continue
		}

		for _, edge := range adjacency[item.id] {
			neighbor := next(edge)
			if _, seen := visited[neighbor]; !seen {
				queue = append(queue, queueItem{id: neighbor, hops: item.hops + 1})
			}
		}
	}

	return visited
}

// sortByTimestamp orders ids by node timestamp, breaking ties by id so
// results are deterministic.
func (g *TemporalGraph) sortByTimestamp(ids []string, descending bool) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := g.nodes[ids[i]], g.nodes[ids[j]]
		if !a.Timestamp.Equal(b.Timestamp) {
			if descending {
				return a.Timestamp.After(b.Timestamp)
			}
			return a.Timestamp.Before(b.Timestamp)
		}
		return ids[i] < ids[j]
	})
}

// HasPath reports whether a forward path from one node to another exists
// within maxHops. Unknown ids yield false.
func (g *TemporalGraph) HasPath(from, to string, maxHops int) bool {
	return g.ShortestPath(from, to, maxHops) != nil
}

// ShortestPath finds the shortest forward path between two nodes using
// hop-bounded BFS. It returns the single-node path when from == to, and
// nil when either id is absent or no path exists within maxHops.
func (g *TemporalGraph) ShortestPath(from, to string, maxHops int) []string {
	if maxHops <= 0 {
		maxHops = DefaultPathHops
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[from]; !ok {
		return nil
	}
	if _, ok := g.nodes[to]; !ok {
		return nil
	}
	if from == to {
		return []string{from}
	}

	type pathItem struct {
		id   string
		path []string
		hops int
	}

	visited := make(map[string]struct{})
	queue := []pathItem{{id: from, path: []string{from}}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.id == to {
			return item.path
		}
		if _, seen := visited[item.id]; seen || item.hops > maxHops {
			continue
		}
		visited[item.id] = struct{}{}

		for _, edge := range g.edges[item.id] {
			if _, seen := visited[edge.To]; !seen {
				path := make([]string, len(item.path)+1)
				copy(path, item.path)
				path[len(item.path)] = edge.To
				queue = append(queue, pathItem{id: edge.To, path: path, hops: item.hops + 1})
			}
		}
	}

	return nil
}

// Neighborhood performs a multi-source traversal that explores both forward
// and backward neighbors of every visited id, collecting the ids of nodes
// whose timestamp falls within [start, end]. Visited nodes outside the
// window are still expanded, so window members reachable only through
// out-of-window intermediaries are found; filtering happens at collection
// time, not traversal time. Collection order is traversal order.
func (g *TemporalGraph) Neighborhood(seeds []string, start, end time.Time, opts *TraversalOptions) []string {
	o := opts.withDefaults()
	start = types.NormalizeTimestamp(start)
	end = types.NormalizeTimestamp(end)

	g.mu.Lock()
	defer g.mu.Unlock()

	visited := make(map[string]struct{})
	var collected []string
	queue := make([]string, 0, len(seeds))
	queue = append(queue, seeds...)

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if _, seen := visited[currentID]; seen {
			continue
		}
		visited[currentID] = struct{}{}

		node, ok := g.nodes[currentID]
		if !ok {
			continue
		}

		if !node.Timestamp.Before(start) && !node.Timestamp.After(end) {
			collected = append(collected, currentID)
		}

		for _, neighborID := range g.windowedNeighbors(currentID, o) {
			if _, seen := visited[neighborID]; !seen {
				queue = append(queue, neighborID)
			}
		}
	}

	g.stats.TraversalsPerformed++
	return collected
}

// windowedNeighbors lists the forward- and backward-reachable ids of a node
// under the traversal bounds. Callers hold the graph lock.
func (g *TemporalGraph) windowedNeighbors(id string, o TraversalOptions) []string {
	node, ok := g.nodes[id]
	if !ok {
		return nil
	}
	endTime := node.Timestamp.AddDate(0, 0, o.WindowDays)
	startTime := node.Timestamp.AddDate(0, 0, -o.WindowDays)

	forward := g.bfs(id, o.MaxHops, func(n *types.TemporalNode) bool {
		return n.Timestamp.After(endTime)
	}, g.edges, func(e *types.TemporalEdge) string { return e.To })

	backward := g.bfs(id, o.MaxHops, func(n *types.TemporalNode) bool {
		return n.Timestamp.Before(startTime)
	}, g.reverseEdges, func(e *types.TemporalEdge) string { return e.From })

	neighbors := make([]string, 0, len(forward)+len(backward))
	for reachedID := range forward {
		if reachedID != id {
			neighbors = append(neighbors, reachedID)
		}
	}
	for reachedID := range backward {
		if _, dup := forward[reachedID]; !dup && reachedID != id {
			neighbors = append(neighbors, reachedID)
		}
	}
	sort.Strings(neighbors)
	return neighbors
}

// Degree returns the combined count of forward- and backward-reachable
// nodes under the default window, used by importance heuristics.
func (g *TemporalGraph) Degree(id string, opts *TraversalOptions) int {
	return len(g.ForwardNodes(id, opts)) + len(g.BackwardNodes(id, opts))
}
