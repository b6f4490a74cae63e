package types

import "time"

// NodeData is the plain, serializable record form of a node returned by
// every external query. Internal objects are never handed out.
type NodeData struct {
	ID        string                 `json:"id"`
	Timestamp string                 `json:"timestamp"`
	Type      string                 `json:"type"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// EdgeData is the plain record form of an edge for exports.
type EdgeData struct {
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Relation string                 `json:"relation"`
	Weight   float64                `json:"weight"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NodeToData converts an internal node to its record form.
func NodeToData(n *TemporalNode) NodeData {
	return NodeData{
		ID:        n.ID,
		Timestamp: n.Timestamp.Format(time.RFC3339),
		Type:      string(n.Type),
		Content:   n.Content,
		Metadata:  n.Metadata,
	}
}

// EdgeToData converts an internal edge to its record form.
func EdgeToData(e *TemporalEdge) EdgeData {
	return EdgeData{
		From:     e.From,
		To:       e.To,
		Relation: string(e.Relation),
		Weight:   e.Weight,
		Metadata: e.Metadata,
	}
}

// GraphExport is a full, non-mutating dump of a graph.
type GraphExport struct {
	Nodes      []NodeData             `json:"nodes"`
	Edges      []EdgeData             `json:"edges"`
	Statistics map[string]interface{} `json:"statistics"`
}

// PathResult describes the outcome of a path query.
type PathResult struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Path       []string `json:"path,omitempty"`
	PathLength int      `json:"path_length"`
	Exists     bool     `json:"exists"`
}

// Context keys used to thread request identity into telemetry.
type contextKey string

const (
	ContextKeyUserID        contextKey = "user_id"
	ContextKeySessionID     contextKey = "session_id"
	ContextKeyRequestSource contextKey = "request_source"
)
