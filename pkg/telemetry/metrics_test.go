package telemetry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/totg/pkg/markovian"
)

func TestRecordAnalysis(t *testing.T) {
	dir := t.TempDir()
	w, err := NewMetricsWriter(dir)
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result := &markovian.AnalysisResult{
		Chunks: []markovian.ChunkResult{
			{
				Index:          0,
				StartTime:      start,
				EndTime:        start.AddDate(0, 0, 90),
				DocIDs:         []string{"a", "b"},
				ProcessingTime: 5 * time.Millisecond,
			},
			{
				Index:     1,
				StartTime: start.AddDate(0, 0, 90),
				EndTime:   start.AddDate(0, 0, 180),
				DocIDs:    []string{"c"},
			},
		},
	}

	path, err := w.RecordAnalysis("run-1", result)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.FileExists(t, path)
}

func TestRecordAnalysisEmpty(t *testing.T) {
	w, err := NewMetricsWriter(t.TempDir())
	require.NoError(t, err)

	path, err := w.RecordAnalysis("run-2", &markovian.AnalysisResult{})
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = w.RecordAnalysis("run-3", nil)
	require.NoError(t, err)
	assert.Empty(t, path)
}
