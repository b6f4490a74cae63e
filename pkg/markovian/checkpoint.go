package markovian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidAnalysisID is returned when an analysis id cannot be used
// safely in a checkpoint file path.
var ErrInvalidAnalysisID = errors.New("invalid analysis ID: contains path traversal or invalid characters")

// CheckpointManager persists per-chunk carryover state so a long
// analysis can be inspected mid-flight or resumed after interruption.
// Checkpoints are keyed by the analysis's start document id.
type CheckpointManager struct {
	dir string
}

// NewCheckpointManager creates a manager writing under dir. An empty
// dir falls back to a totg-checkpoints directory under the system temp
// directory.
func NewCheckpointManager(dir string) (*CheckpointManager, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "totg-checkpoints")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	return &CheckpointManager{dir: dir}, nil
}

// validateAnalysisID rejects ids that could escape the checkpoint
// directory when embedded in a file name.
func validateAnalysisID(id string) error {
	if id == "" {
		return ErrInvalidAnalysisID
	}
	if strings.Contains(id, "..") {
		return ErrInvalidAnalysisID
	}
	if strings.ContainsAny(id, `/\`) {
		return ErrInvalidAnalysisID
	}
	if strings.ContainsRune(id, '\x00') {
		return ErrInvalidAnalysisID
	}
	return nil
}

// Path returns the checkpoint file path for an analysis id.
func (m *CheckpointManager) Path(analysisID string) (string, error) {
	if err := validateAnalysisID(analysisID); err != nil {
		return "", err
	}

	full := filepath.Join(m.dir, fmt.Sprintf("carryover_%s.json", analysisID))
	if !strings.HasPrefix(filepath.Clean(full), filepath.Clean(m.dir)+string(filepath.Separator)) {
		return "", ErrInvalidAnalysisID
	}
	return full, nil
}

// Save writes the carryover to disk via a temp-file rename so readers
// never observe a partial checkpoint.
func (m *CheckpointManager) Save(ctx context.Context, analysisID string, state *Carryover) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal carryover: %w", err)
	}

	path, err := m.Path(analysisID)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to rename checkpoint file: %w", err)
	}
	return nil
}

// Load reads the carryover for an analysis id, returning nil without
// error when no checkpoint exists.
func (m *CheckpointManager) Load(ctx context.Context, analysisID string) (*Carryover, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := m.Path(analysisID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}

	var state Carryover
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	return &state, nil
}

// Delete removes the checkpoint for an analysis id. A missing file is
// not an error.
func (m *CheckpointManager) Delete(ctx context.Context, analysisID string) error {
	path, err := m.Path(analysisID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint file: %w", err)
	}
	return nil
}

// Exists reports whether a checkpoint is on disk for an analysis id.
func (m *CheckpointManager) Exists(analysisID string) (bool, error) {
	path, err := m.Path(analysisID)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
