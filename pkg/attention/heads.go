package attention

import (
	"math"
	"strings"
)

// HeadType describes the direction a head participates in.
type HeadType string

const (
	ForwardHead       HeadType = "forward"
	BackwardHead      HeadType = "backward"
	BidirectionalHead HeadType = "bidirectional"
	SemanticFocusHead HeadType = "semantic_focus"
	TemporalFocusHead HeadType = "temporal_focus"
)

// Head is one attention head with its own temporal horizon and decay
// rate. Heads score candidates independently; the engine averages them.
type Head struct {
	ID            string
	Type          HeadType
	FocusKeywords []string
	WindowDays    int
	DecayFactor   float64
}

// DefaultHeads returns the standard four-head configuration: a short
// sharp forward head, a long gentle backward head, a keyword-boosting
// semantic head, and a mid-range temporal head.
func DefaultHeads() []Head {
	return []Head{
		{
			ID:          "short_forward",
			Type:        ForwardHead,
			WindowDays:  7,
			DecayFactor: 0.8,
		},
		{
			ID:          "long_backward",
			Type:        BackwardHead,
			WindowDays:  90,
			DecayFactor: 0.98,
		},
		{
			ID:            "semantic_focus",
			Type:          SemanticFocusHead,
			WindowDays:    30,
			DecayFactor:   0.95,
			FocusKeywords: []string{"important", "key", "critical", "main", "significant"},
		},
		{
			ID:          "temporal_focus",
			Type:        TemporalFocusHead,
			WindowDays:  14,
			DecayFactor: 0.9,
		},
	}
}

// AppliesForward reports whether the head scores future-directed queries.
func (h Head) AppliesForward() bool {
	switch h.Type {
	case ForwardHead, BidirectionalHead, TemporalFocusHead:
		return true
	}
	return false
}

// AppliesBackward reports whether the head scores past-directed queries.
func (h Head) AppliesBackward() bool {
	switch h.Type {
	case BackwardHead, BidirectionalHead, SemanticFocusHead:
		return true
	}
	return false
}

// TemporalDecay computes the exponential decay coefficient for a gap of
// the given number of days, floored at 0.01. Zero or negative gaps decay
// not at all.
func (h Head) TemporalDecay(daysDiff int) float64 {
	if daysDiff <= 0 {
		return 1.0
	}
	return math.Max(0.01, math.Pow(h.DecayFactor, float64(daysDiff)))
}

// FocusBoost multiplies a candidate's weight by 1 + 0.2 per focus
// keyword found in its content. Only semantic-focus heads boost.
func (h Head) FocusBoost(content string) float64 {
	if h.Type != SemanticFocusHead || len(h.FocusKeywords) == 0 {
		return 1.0
	}
	lowered := strings.ToLower(content)
	matches := 0
	for _, kw := range h.FocusKeywords {
		if strings.Contains(lowered, kw) {
			matches++
		}
	}
	return 1.0 + float64(matches)*0.2
}
