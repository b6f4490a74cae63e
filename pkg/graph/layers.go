package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// LayerNodes returns the member ids of a temporal layer bucket.
func (g *TemporalGraph) LayerNodes(layerID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.layers[layerID]))
	copy(out, g.layers[layerID])
	return out
}

// Layers returns all layer ids that currently have members.
func (g *TemporalGraph) Layers() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.layers))
	for id := range g.layers {
		out = append(out, id)
	}
	return out
}

// AdjacentLayers returns the neighboring layer ids that exist in the graph.
func (g *TemporalGraph) AdjacentLayers(layerID string) []string {
	parts := strings.SplitN(layerID, "_", 2)
	if len(parts) != 2 {
		return nil
	}
	week, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil
	}

	candidates := []string{
		fmt.Sprintf("layer_%d", week-1),
		fmt.Sprintf("layer_%d", week+1),
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	var adjacent []string
	for _, candidate := range candidates {
		if _, ok := g.layers[candidate]; ok {
			adjacent = append(adjacent, candidate)
		}
	}
	return adjacent
}
