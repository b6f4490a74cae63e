package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors
var (
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrDuplicateID      = errors.New("node with this id already exists")
	ErrNodeNotFound     = errors.New("node not found")
	ErrInvalidRelation  = errors.New("invalid relation type")
	ErrMissingEndpoint  = errors.New("edge endpoint does not exist")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// NodeType represents the type of a node in the temporal graph.
type NodeType string

const (
	// ContentNodeType represents ordinary content documents.
	ContentNodeType NodeType = "content"
	// BranchNodeType marks points where a timeline splits.
	BranchNodeType NodeType = "branch"
	// MergeNodeType marks points where timelines join.
	MergeNodeType NodeType = "merge"
	// MemoryNodeType represents compressed memory summaries.
	MemoryNodeType NodeType = "memory"
)

// RelationType represents the type of a temporal relationship between nodes.
type RelationType string

const (
	SequentialRelation RelationType = "sequential"
	CausalRelation     RelationType = "causal"
	ConcurrentRelation RelationType = "concurrent"
	BranchRelation     RelationType = "branch"
	MergeRelation      RelationType = "merge"
)

// ParseRelationType validates a relation string at the ingestion boundary.
// Unrecognized values are rejected here so traversal code never sees them.
func ParseRelationType(s string) (RelationType, error) {
	switch RelationType(s) {
	case SequentialRelation, CausalRelation, ConcurrentRelation, BranchRelation, MergeRelation:
		return RelationType(s), nil
	default:
		return "", fmt.Errorf("%w: %q (use: sequential, causal, concurrent, branch, merge)", ErrInvalidRelation, s)
	}
}

// IsOrdered reports whether the relation implies temporal order from source
// to target. Ordered edges that go backward in time are flagged as warnings
// on insertion.
func (r RelationType) IsOrdered() bool {
	return r == SequentialRelation || r == CausalRelation
}

// LayerDurationDays is the default width of a temporal layer bucket.
const LayerDurationDays = 7

// TemporalNode is a timestamped document in the graph. ID and Timestamp are
// treated as immutable once the node is added.
type TemporalNode struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Type      NodeType               `json:"type"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`

	// LayerID is derived from the normalized timestamp; computed on insert.
	LayerID string `json:"layer_id,omitempty"`
}

// Validate checks that the node can be inserted into a graph.
func (n *TemporalNode) Validate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	if n.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	return nil
}

// ComputeLayerID derives the weekly bucket label for a timestamp.
// Buckets are days-since-epoch floor-divided by the layer duration, so
// pre-epoch timestamps land in negative layers instead of collapsing
// into layer_0.
func ComputeLayerID(ts time.Time, layerDurationDays int) string {
	if layerDurationDays <= 0 {
		layerDurationDays = LayerDurationDays
	}
	utc := NormalizeTimestamp(ts)
	days := floorDiv(utc.Unix(), 86400)
	return fmt.Sprintf("layer_%d", floorDiv(days, int64(layerDurationDays)))
}

// floorDiv divides rounding toward negative infinity, matching the
// bucket arithmetic for timestamps before the epoch.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// TemporalEdge is a directed, typed relationship between two nodes.
// Weight is stored but not consulted by traversal; it is reserved for
// future scoring use.
type TemporalEdge struct {
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Relation RelationType           `json:"relation"`
	Weight   float64                `json:"weight"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Validate checks that the edge references are well-formed.
func (e *TemporalEdge) Validate() error {
	if e.From == "" || e.To == "" {
		return ErrEmptyID
	}
	if _, err := ParseRelationType(string(e.Relation)); err != nil {
		return err
	}
	return nil
}

// NormalizeTimestamp converts any instant to UTC. All internal comparisons
// operate on this single homogeneous representation.
func NormalizeTimestamp(ts time.Time) time.Time {
	return ts.UTC()
}

// ParseTimestamp parses an ISO-8601 timestamp string, accepting an optional
// trailing Z or numeric offset, and normalizes the result to UTC. Strings
// without zone information are assumed to already be UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return NormalizeTimestamp(ts), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not ISO-8601", ErrInvalidTimestamp, s)
}
