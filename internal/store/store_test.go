package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blizzardhq/blizzard/internal/models"
)

func intPtr(n int) *int { return &n }

func record(id string, prob int) models.PredictionRecord {
	return models.PredictionRecord{
		ID:                 id,
		Timestamp:          time.Now().UTC(),
		Prediction:         "YES (65%)",
		ProbabilityPercent: intPtr(prob),
		Details:            "heavy snow expected",
		RunState:           models.StateTerminated,
	}
}

func TestEnvironmentFileNames(t *testing.T) {
	dir := t.TempDir()

	prod := New(dir, true, nil)
	assert.Equal(t, filepath.Join(dir, "data.json"), prod.CurrentPath())
	assert.Equal(t, filepath.Join(dir, "history.json"), prod.HistoryPath())

	dev := New(dir, false, nil)
	assert.Equal(t, filepath.Join(dir, "data_local.json"), dev.CurrentPath())
	assert.Equal(t, filepath.Join(dir, "history_local.json"), dev.HistoryPath())
}

func TestCommitRunWritesBothFiles(t *testing.T) {
	s := New(t.TempDir(), false, nil)

	run := &models.RunRecord{
		RunID:     "run-1",
		Timestamp: time.Now().UTC(),
		State:     models.StateTerminated,
		Decision:  "SNOW DAY VERDICT: YES",
	}
	require.NoError(t, s.CommitRun(run, record("2026-01-15", 65)))

	got, ok := s.CurrentRun()
	require.True(t, ok)
	assert.Equal(t, "run-1", got.RunID)

	history := s.ListHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "2026-01-15", history[0].ID)
}

func TestCommitRunRejectsNonTerminalState(t *testing.T) {
	s := New(t.TempDir(), false, nil)

	run := &models.RunRecord{RunID: "run-1", State: models.StateRunning}
	err := s.CommitRun(run, record("2026-01-15", 65))
	require.Error(t, err)

	_, ok := s.CurrentRun()
	assert.False(t, ok, "nothing may be committed for a non-terminal run")
	assert.Empty(t, s.ListHistory())
}

func TestAppendHistoryIsIdempotentPerDate(t *testing.T) {
	s := New(t.TempDir(), false, nil)

	require.NoError(t, s.AppendHistory(record("2026-01-15", 60)))
	require.NoError(t, s.AppendHistory(record("2026-01-15", 75)))

	history := s.ListHistory()
	require.Len(t, history, 1, "same-day re-run must replace, not duplicate")
	assert.Equal(t, 75, *history[0].ProbabilityPercent)
}

func TestAppendHistoryNewestFirst(t *testing.T) {
	s := New(t.TempDir(), false, nil)

	require.NoError(t, s.AppendHistory(record("2026-01-14", 40)))
	require.NoError(t, s.AppendHistory(record("2026-01-15", 65)))

	history := s.ListHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "2026-01-15", history[0].ID)
	assert.Equal(t, "2026-01-14", history[1].ID)
}

func TestAppendHistorySameDayKeepsBackfilledOutcome(t *testing.T) {
	s := New(t.TempDir(), false, nil)

	require.NoError(t, s.AppendHistory(record("2026-01-15", 60)))
	require.NoError(t, s.BackfillOutcome("2026-01-15", models.DecisionYes))

	// An afternoon re-run replaces the prediction but not the outcome.
	require.NoError(t, s.AppendHistory(record("2026-01-15", 80)))

	history := s.ListHistory()
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Actual)
	assert.Equal(t, models.DecisionYes, *history[0].Actual)
	assert.Equal(t, 80, *history[0].ProbabilityPercent)
}

func TestBackfillOutcomeIsWriteOnce(t *testing.T) {
	s := New(t.TempDir(), false, nil)
	require.NoError(t, s.AppendHistory(record("2026-01-15", 65)))

	require.NoError(t, s.BackfillOutcome("2026-01-15", models.DecisionYes))
	// The second write is a no-op, not an error.
	require.NoError(t, s.BackfillOutcome("2026-01-15", models.DecisionNo))

	history := s.ListHistory()
	require.NotNil(t, history[0].Actual)
	assert.Equal(t, models.DecisionYes, *history[0].Actual)
}

func TestBackfillOutcomeUnknownRecord(t *testing.T) {
	s := New(t.TempDir(), false, nil)

	err := s.BackfillOutcome("2026-01-15", models.DecisionYes)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMalformedHistoryReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, false, nil)

	require.NoError(t, os.WriteFile(s.HistoryPath(), []byte("{not json"), 0o644))
	assert.Empty(t, s.ListHistory())

	// And writes recover from the corruption.
	require.NoError(t, s.AppendHistory(record("2026-01-15", 65)))
	assert.Len(t, s.ListHistory(), 1)
}

func TestMissingFilesReadAsEmpty(t *testing.T) {
	s := New(t.TempDir(), false, nil)

	assert.Empty(t, s.ListHistory())
	_, ok := s.CurrentRun()
	assert.False(t, ok)
}

func TestMalformedCurrentSnapshot(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, false, nil)
	require.NoError(t, os.WriteFile(s.CurrentPath(), []byte("]["), 0o644))

	_, ok := s.CurrentRun()
	assert.False(t, ok)
}

func TestProductionAndLocalFilesAreIndependent(t *testing.T) {
	dir := t.TempDir()
	prod := New(dir, true, nil)
	dev := New(dir, false, nil)

	require.NoError(t, prod.AppendHistory(record("2026-01-15", 65)))

	assert.Len(t, prod.ListHistory(), 1)
	assert.Empty(t, dev.ListHistory(), "development reads must not see published data")
}
