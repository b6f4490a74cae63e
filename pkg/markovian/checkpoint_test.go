package markovian

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *CheckpointManager {
	t.Helper()
	m, err := NewCheckpointManager(t.TempDir())
	require.NoError(t, err)
	return m
}

func sampleCarryover() *Carryover {
	c := NewCarryover(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
	c.CriticalEvents = []CriticalEvent{
		{DocID: "contract", Importance: 0.9, Summary: "contract signed"},
	}
	c.KeyEntities = map[string]EntityInfo{
		"payment": {Mentions: 4},
	}
	c.AttentionScores = map[string]float64{"contract": 1.0}
	c.ChunkIndex = 3
	c.DocumentCount = 42
	return c
}

func TestCheckpointRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "analysis-1", sampleCarryover()))

	exists, err := m.Exists("analysis-1")
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := m.Load(ctx, "analysis-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 3, loaded.ChunkIndex)
	assert.Equal(t, 42, loaded.DocumentCount)
	assert.Equal(t, 0.9, loaded.CriticalEvents[0].Importance)
	assert.Equal(t, 4, loaded.KeyEntities["payment"].Mentions)
}

func TestCheckpointLoadMissing(t *testing.T) {
	m := newTestManager(t)

	loaded, err := m.Load(context.Background(), "never-saved")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCheckpointDelete(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "doomed", sampleCarryover()))
	require.NoError(t, m.Delete(ctx, "doomed"))

	exists, err := m.Exists("doomed")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting again is not an error.
	assert.NoError(t, m.Delete(ctx, "doomed"))
}

func TestCheckpointInvalidIDs(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	for _, id := range []string{"", "../escape", "a/b", `a\b`, "nul\x00byte"} {
		err := m.Save(ctx, id, sampleCarryover())
		assert.ErrorIs(t, err, ErrInvalidAnalysisID, "id %q", id)
	}
}

func TestAnalyzerWritesCheckpoints(t *testing.T) {
	g := sequentialChain(t, 12, 10)
	m := newTestManager(t)
	a := NewAnalyzer(g, WithCheckpoints(m))
	ctx := context.Background()

	result, err := a.AnalyzeLongChain(ctx, docID(0), "", 120)
	require.NoError(t, err)

	loaded, err := m.Load(ctx, docID(0))
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, result.FinalCarryover.ChunkIndex, loaded.ChunkIndex)
	assert.Equal(t, result.FinalCarryover.DocumentCount, loaded.DocumentCount)
}
