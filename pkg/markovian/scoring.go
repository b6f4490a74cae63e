package markovian

import (
	"github.com/soundprediction/totg/pkg/graph"
	"github.com/soundprediction/totg/pkg/types"
)

// importanceThreshold is the cutoff above which a document becomes a
// critical event.
const importanceThreshold = 0.6

// summaryLength caps critical-event summaries.
const summaryLength = 100

// Scorer rates a document's importance within a chunk, given its
// position and the carryover from earlier chunks. Implementations must
// be deterministic for reproducible analyses.
type Scorer interface {
	Score(node *types.TemporalNode, positionInChunk int, prior *Carryover) float64
}

// HeuristicScorer is the default importance heuristic: a flat base,
// a bonus for opening a chunk, a bonus scaled by prior attention, and a
// bonus for well-connected documents.
type HeuristicScorer struct {
	graph *graph.TemporalGraph
}

// NewHeuristicScorer creates the default scorer over a graph.
func NewHeuristicScorer(g *graph.TemporalGraph) *HeuristicScorer {
	return &HeuristicScorer{graph: g}
}

// Score implements Scorer.
func (s *HeuristicScorer) Score(node *types.TemporalNode, positionInChunk int, prior *Carryover) float64 {
	importance := 0.5

	if positionInChunk == 0 {
		importance += 0.2
	}

	if attention, ok := prior.AttentionScores[node.ID]; ok {
		importance += attention * 0.3
	}

	if s.graph.Degree(node.ID, nil) > 2 {
		importance += 0.2
	}

	return importance
}

// summarize truncates content for carryover storage.
func summarize(content string) string {
	if len(content) > summaryLength {
		return content[:summaryLength] + "..."
	}
	return content
}
