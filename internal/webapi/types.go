package webapi

import (
	"github.com/blizzardhq/blizzard/internal/models"
	"github.com/blizzardhq/blizzard/internal/statistics"
)

// HealthResponse is the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// CurrentResponse wraps the latest run snapshot. Available is false when no
// run has been committed yet, in which case Run is nil.
type CurrentResponse struct {
	Available bool              `json:"available"`
	Run       *models.RunRecord `json:"run,omitempty"`
}

// HistoryResponse is the full prediction log, newest first.
type HistoryResponse struct {
	Count       int                       `json:"count"`
	Predictions []models.PredictionRecord `json:"predictions"`
}

// StatsResponse reports accuracy metrics over the prediction log.
type StatsResponse struct {
	Stats statistics.AccuracyStats `json:"stats"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
