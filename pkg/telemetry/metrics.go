package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/soundprediction/totg/pkg/markovian"
)

// ChunkMetric is one per-chunk measurement from a long-chain analysis,
// stored in Parquet for offline inspection of analyzer behavior.
type ChunkMetric struct {
	ID             string    `parquet:"id"`
	AnalysisID     string    `parquet:"analysis_id"`
	RecordedAt     time.Time `parquet:"recorded_at"`
	ChunkIndex     int       `parquet:"chunk_index"`
	ChunkStart     time.Time `parquet:"chunk_start"`
	ChunkEnd       time.Time `parquet:"chunk_end"`
	DocumentCount  int       `parquet:"document_count"`
	CriticalEvents int       `parquet:"critical_events"`
	CausalLinks    int       `parquet:"causal_links"`
	KeyEntities    int       `parquet:"key_entities"`
	ProcessingNs   int64     `parquet:"processing_ns"`
}

// MetricsWriter persists analysis metrics as Parquet files, one file
// per recorded analysis.
type MetricsWriter struct {
	outputDir string
}

// NewMetricsWriter creates a writer rooted at outputDir.
func NewMetricsWriter(outputDir string) (*MetricsWriter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return &MetricsWriter{outputDir: outputDir}, nil
}

// RecordAnalysis writes one ChunkMetric row per chunk of the result and
// returns the path of the written file.
func (w *MetricsWriter) RecordAnalysis(analysisID string, result *markovian.AnalysisResult) (string, error) {
	if result == nil || len(result.Chunks) == 0 {
		return "", nil
	}

	now := time.Now().UTC()
	rows := make([]ChunkMetric, 0, len(result.Chunks))
	for _, chunk := range result.Chunks {
		rows = append(rows, ChunkMetric{
			ID:             uuid.New().String(),
			AnalysisID:     analysisID,
			RecordedAt:     now,
			ChunkIndex:     chunk.Index,
			ChunkStart:     chunk.StartTime,
			ChunkEnd:       chunk.EndTime,
			DocumentCount:  len(chunk.DocIDs),
			CriticalEvents: len(chunk.CriticalEvents),
			CausalLinks:    len(chunk.CausalLinks),
			KeyEntities:    len(chunk.KeyEntities),
			ProcessingNs:   chunk.ProcessingTime.Nanoseconds(),
		})
	}

	filename := fmt.Sprintf("analysis_%s_%d.parquet", now.Format("20060102_150405"), now.UnixNano())
	fullPath := filepath.Join(w.outputDir, filename)
	if err := parquet.WriteFile(fullPath, rows); err != nil {
		return "", fmt.Errorf("failed to write metrics parquet file: %w", err)
	}
	return fullPath, nil
}
