package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/totg/pkg/types"
)

func identityContext() context.Context {
	ctx := context.WithValue(context.Background(), types.ContextKeyUserID, "user-7")
	ctx = context.WithValue(ctx, types.ContextKeySessionID, "session-42")
	return context.WithValue(ctx, types.ContextKeyRequestSource, "server")
}

func TestParquetHandlerCapturesRequestIdentity(t *testing.T) {
	h, err := NewParquetHandler(slog.NewTextHandler(io.Discard, nil), t.TempDir())
	require.NoError(t, err)

	log := slog.New(h)
	log.ErrorContext(identityContext(), "analysis failed", "doc_id", "contract")

	require.Len(t, h.buffer, 1)
	rec := h.buffer[0]
	assert.Equal(t, "user-7", rec.UserID)
	assert.Equal(t, "session-42", rec.SessionID)
	assert.Equal(t, "server", rec.RequestSource)
	assert.Equal(t, "analysis failed", rec.Message)
	assert.Contains(t, rec.Attributes, "contract")
}

func TestParquetHandlerAnonymousContext(t *testing.T) {
	h, err := NewParquetHandler(slog.NewTextHandler(io.Discard, nil), t.TempDir())
	require.NoError(t, err)

	slog.New(h).ErrorContext(context.Background(), "boom")

	require.Len(t, h.buffer, 1)
	assert.Empty(t, h.buffer[0].UserID)
	assert.Empty(t, h.buffer[0].SessionID)
}

func TestParquetHandlerPersistsOnlyErrors(t *testing.T) {
	h, err := NewParquetHandler(slog.NewTextHandler(io.Discard, nil), t.TempDir())
	require.NoError(t, err)

	log := slog.New(h)
	log.InfoContext(identityContext(), "routine")
	log.WarnContext(identityContext(), "slow chunk")

	assert.Empty(t, h.buffer)
}

func TestParquetHandlerFlushWritesFile(t *testing.T) {
	dir := t.TempDir()
	h, err := NewParquetHandler(slog.NewTextHandler(io.Discard, nil), dir)
	require.NoError(t, err)
	h.batchSize = 1

	slog.New(h).ErrorContext(identityContext(), "boom")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".parquet", filepath.Ext(entries[0].Name()))
	assert.Empty(t, h.buffer)
}
