package webapi

import "github.com/blizzardhq/blizzard/internal/models"

// PredictionStore provides read access to the committed run snapshot and the
// historical prediction log. *store.FileStore satisfies it.
type PredictionStore interface {
	// CurrentRun returns the latest committed run snapshot, or false when
	// none exists yet.
	CurrentRun() (*models.RunRecord, bool)
	// ListHistory returns all persisted predictions, newest first.
	ListHistory() []models.PredictionRecord
}
