// Package export writes full-graph snapshots to disk as JSON or Parquet.
// Snapshots are produced from the graph's non-mutating export records, so
// writing one never changes graph state.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/soundprediction/totg/pkg/types"
)

// ParquetNode is the Parquet schema for one exported node.
type ParquetNode struct {
	ID        string `parquet:"id"`
	Timestamp string `parquet:"timestamp"`
	Type      string `parquet:"type"`
	Content   string `parquet:"content"`
	Metadata  string `parquet:"metadata"` // JSON string
}

// ParquetEdge is the Parquet schema for one exported edge.
type ParquetEdge struct {
	From     string  `parquet:"from"`
	To       string  `parquet:"to"`
	Relation string  `parquet:"relation"`
	Weight   float64 `parquet:"weight"`
	Metadata string  `parquet:"metadata"` // JSON string
}

// Writer persists graph snapshots under a base directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a snapshot writer, creating baseDir if needed.
func NewWriter(baseDir string) (*Writer, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

// WriteJSON writes the snapshot as a single indented JSON file and
// returns its path.
func (w *Writer) WriteJSON(snapshot types.GraphExport, name string) (string, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal graph export: %w", err)
	}

	path := filepath.Join(w.baseDir, w.filename(name, "json"))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to rename export file: %w", err)
	}
	return path, nil
}

// WriteParquet writes the snapshot as a pair of Parquet files (nodes and
// edges) and returns their paths.
func (w *Writer) WriteParquet(snapshot types.GraphExport, name string) (nodesPath, edgesPath string, err error) {
	nodes := make([]ParquetNode, 0, len(snapshot.Nodes))
	for _, n := range snapshot.Nodes {
		nodes = append(nodes, ParquetNode{
			ID:        n.ID,
			Timestamp: n.Timestamp,
			Type:      n.Type,
			Content:   n.Content,
			Metadata:  marshalMetadata(n.Metadata),
		})
	}
	edges := make([]ParquetEdge, 0, len(snapshot.Edges))
	for _, e := range snapshot.Edges {
		edges = append(edges, ParquetEdge{
			From:     e.From,
			To:       e.To,
			Relation: e.Relation,
			Weight:   e.Weight,
			Metadata: marshalMetadata(e.Metadata),
		})
	}

	nodesPath = filepath.Join(w.baseDir, w.filename(name+"_nodes", "parquet"))
	if err = parquet.WriteFile(nodesPath, nodes); err != nil {
		return "", "", fmt.Errorf("failed to write nodes parquet: %w", err)
	}
	edgesPath = filepath.Join(w.baseDir, w.filename(name+"_edges", "parquet"))
	if err = parquet.WriteFile(edgesPath, edges); err != nil {
		return "", "", fmt.Errorf("failed to write edges parquet: %w", err)
	}
	return nodesPath, edgesPath, nil
}

func (w *Writer) filename(name, ext string) string {
	return fmt.Sprintf("%s_%s.%s", name, time.Now().UTC().Format("20060102_150405"), ext)
}

func marshalMetadata(m map[string]interface{}) string {
	if len(m) == 0 {
		return ""
	}
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}
