// Package store provides durable, idempotent persistence of prediction
// results: the single current-state snapshot consumed by the live display
// and the append-only history log with outcome backfill.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blizzardhq/blizzard/internal/models"
)

// ErrRecordNotFound is returned when a backfill targets an unknown record.
var ErrRecordNotFound = errors.New("prediction record not found")

// File names under the static directory. The local variants keep development
// runs from clobbering published data.
const (
	currentFile      = "data.json"
	currentFileLocal = "data_local.json"
	historyFile      = "history.json"
	historyFileLocal = "history_local.json"
)

// FileStore persists run results as JSON files under a static directory.
// The history log may also be touched by an independent backfill process,
// so every history mutation is a full read-modify-write keyed by record ID.
type FileStore struct {
	dir        string
	production bool
	logger     *slog.Logger

	mu sync.Mutex
}

// New creates a FileStore rooted at dir. Production selects the published
// file names; anything else writes the *_local variants.
func New(dir string, production bool, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: dir, production: production, logger: logger}
}

// CurrentPath returns the current-state snapshot path for this environment.
func (s *FileStore) CurrentPath() string {
	if s.production {
		return filepath.Join(s.dir, currentFile)
	}
	return filepath.Join(s.dir, currentFileLocal)
}

// HistoryPath returns the history log path for this environment.
func (s *FileStore) HistoryPath() string {
	if s.production {
		return filepath.Join(s.dir, historyFile)
	}
	return filepath.Join(s.dir, historyFileLocal)
}

// CommitRun overwrites the current-state snapshot and upserts the run's
// history entry. It is called exactly once per run, after the orchestrator
// reaches a terminal state. Write failures are surfaced — silently losing a
// day's prediction would corrupt the accuracy statistics.
func (s *FileStore) CommitRun(run *models.RunRecord, rec models.PredictionRecord) error {
	if !run.State.Terminal() {
		return fmt.Errorf("refusing to commit non-terminal run state %q", run.State)
	}
	if err := s.writeJSON(s.CurrentPath(), run); err != nil {
		return fmt.Errorf("writing current-state snapshot: %w", err)
	}
	if err := s.AppendHistory(rec); err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	s.logger.Info("run committed",
		"run_id", run.RunID, "state", string(run.State), "record_id", rec.ID)
	return nil
}

// AppendHistory upserts a prediction record, keyed by its calendar-date ID.
// Re-running the same day's prediction replaces that day's entry instead of
// duplicating it. New entries go to the front (newest first).
func (s *FileStore) AppendHistory(rec models.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.loadHistory()

	kept := make([]models.PredictionRecord, 0, len(history.Predictions)+1)
	var existing *models.PredictionRecord
	for i := range history.Predictions {
		if history.Predictions[i].ID == rec.ID {
			existing = &history.Predictions[i]
			continue
		}
		kept = append(kept, history.Predictions[i])
	}

	// A same-day replacement keeps any outcome already backfilled.
	if existing != nil && existing.Actual != nil && rec.Actual == nil {
		rec.Actual = existing.Actual
	}

	history.Predictions = append([]models.PredictionRecord{rec}, kept...)
	return s.writeJSON(s.HistoryPath(), history)
}

// BackfillOutcome records the real-world outcome for an existing record.
// Outcomes are write-once: a record whose outcome is already set is left
// untouched and the call is a no-op.
func (s *FileStore) BackfillOutcome(id string, actual models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.loadHistory()

	for i := range history.Predictions {
		if history.Predictions[i].ID != id {
			continue
		}
		if history.Predictions[i].Actual != nil {
			s.logger.Info("outcome already recorded, ignoring backfill",
				"id", id, "existing", string(*history.Predictions[i].Actual))
			return nil
		}
		history.Predictions[i].Actual = &actual
		return s.writeJSON(s.HistoryPath(), history)
	}

	return fmt.Errorf("backfill %q: %w", id, ErrRecordNotFound)
}

// ListHistory returns all prediction records, newest first. A missing or
// unreadable history store reads as empty so the display always renders.
func (s *FileStore) ListHistory() []models.PredictionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHistory().Predictions
}

// CurrentRun returns the current-state snapshot. ok is false when no
// snapshot exists or it cannot be parsed.
func (s *FileStore) CurrentRun() (*models.RunRecord, bool) {
	data, err := os.ReadFile(s.CurrentPath())
	if err != nil {
		return nil, false
	}
	var run models.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		s.logger.Warn("current-state snapshot is malformed", "error", err)
		return nil, false
	}
	return &run, true
}

// loadHistory reads the history file leniently: absence or corruption yields
// an empty history rather than an error. Caller holds the mutex.
func (s *FileStore) loadHistory() models.History {
	empty := models.History{Predictions: []models.PredictionRecord{}}

	data, err := os.ReadFile(s.HistoryPath())
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("history store unreadable, treating as empty", "error", err)
		}
		return empty
	}
	if len(data) == 0 {
		return empty
	}

	var history models.History
	if err := json.Unmarshal(data, &history); err != nil {
		s.logger.Warn("history store malformed, treating as empty", "error", err)
		return empty
	}
	if history.Predictions == nil {
		history.Predictions = []models.PredictionRecord{}
	}
	return history
}

// writeJSON writes v atomically: temp file in the target directory, then
// rename over the destination.
func (s *FileStore) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".blizzard-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
