package markovian

import (
	"time"
)

// CriticalEvent is a document judged important enough to survive chunk
// boundaries.
type CriticalEvent struct {
	DocID      string    `json:"doc_id"`
	Timestamp  time.Time `json:"timestamp"`
	Type       string    `json:"type"`
	Importance float64   `json:"importance"`
	Summary    string    `json:"summary"`
}

// EntityInfo tracks a recurring term across documents.
type EntityInfo struct {
	Mentions  int       `json:"mentions"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// CausalLink records a discovered relationship between two documents.
type CausalLink struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// Carryover is the bounded state passed from one temporal chunk to the
// next. Its size stays capped no matter how many documents flow through
// the analyzer, which is what keeps long-chain analysis linear. Critical
// events are trimmed by importance rank while causal chains are trimmed
// by recency; the asymmetry is intentional and load-bearing for
// reproducing results.
type Carryover struct {
	CriticalEvents  []CriticalEvent       `json:"critical_events"`
	KeyEntities     map[string]EntityInfo `json:"key_entities"`
	CausalChains    []CausalLink          `json:"causal_chains"`
	AttentionScores map[string]float64    `json:"attention_scores"`
	OpenQuestions   []string              `json:"open_questions"`

	ChunkIndex    int       `json:"chunk_index"`
	RangeStart    time.Time `json:"range_start"`
	RangeEnd      time.Time `json:"range_end"`
	DocumentCount int       `json:"document_count"`
}

// NewCarryover returns an empty carryover anchored at the given start.
func NewCarryover(start time.Time) *Carryover {
	return &Carryover{
		KeyEntities:     make(map[string]EntityInfo),
		AttentionScores: make(map[string]float64),
		RangeStart:      start,
	}
}

// Size approximates the carryover footprint as the sum of its list and
// map lengths, used by callers monitoring boundedness.
func (c *Carryover) Size() int {
	return len(c.CriticalEvents) +
		len(c.KeyEntities) +
		len(c.CausalChains) +
		len(c.AttentionScores) +
		len(c.OpenQuestions)
}

// IsEmpty reports whether the carryover holds any state at all.
func (c *Carryover) IsEmpty() bool {
	return c.Size() == 0
}
