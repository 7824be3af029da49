package statistics

import (
	"math"
	"testing"
	"time"

	"github.com/blizzardhq/blizzard/internal/models"
)

func intPtr(n int) *int { return &n }

func decPtr(d models.Decision) *models.Decision { return &d }

func resolved(id string, prob int, actual models.Decision) models.PredictionRecord {
	return models.PredictionRecord{
		ID:                 id,
		Timestamp:          time.Now().UTC(),
		Prediction:         "YES (65%)",
		ProbabilityPercent: intPtr(prob),
		Actual:             decPtr(actual),
	}
}

func TestComputeAccuracyEmpty(t *testing.T) {
	stats := ComputeAccuracy(nil)
	if stats.Total != 0 || stats.Resolved != 0 || stats.Accuracy != 0 {
		t.Errorf("empty input produced %+v", stats)
	}
	if stats.CI != nil {
		t.Error("CI should be absent with no resolved records")
	}
}

func TestComputeAccuracyScoring(t *testing.T) {
	records := []models.PredictionRecord{
		resolved("2026-01-12", 80, models.DecisionYes), // hit, err 20
		resolved("2026-01-13", 30, models.DecisionNo),  // hit, err 30
		resolved("2026-01-14", 70, models.DecisionNo),  // miss, err 70
		{ // unresolved: counts toward Total only
			ID:         "2026-01-15",
			Prediction: models.UnresolvedPrediction,
		},
		{ // backfilled but never had a probability: not scored
			ID:         "2026-01-16",
			Prediction: models.UnresolvedPrediction,
			Actual:     decPtr(models.DecisionYes),
		},
	}

	stats := ComputeAccuracy(records)
	if stats.Total != 5 {
		t.Errorf("Total = %d, want 5", stats.Total)
	}
	if stats.Resolved != 3 {
		t.Errorf("Resolved = %d, want 3", stats.Resolved)
	}
	if stats.Correct != 2 {
		t.Errorf("Correct = %d, want 2", stats.Correct)
	}
	if math.Abs(stats.Accuracy-2.0/3.0) > 1e-9 {
		t.Errorf("Accuracy = %f, want %f", stats.Accuracy, 2.0/3.0)
	}
	if math.Abs(stats.MeanAbsErr-40.0) > 1e-9 {
		t.Errorf("MeanAbsErr = %f, want 40", stats.MeanAbsErr)
	}
	if stats.CI == nil {
		t.Fatal("CI should be present with 3 resolved records")
	}
	if stats.CI.Lower < 0 || stats.CI.Upper > 1 || stats.CI.Lower > stats.CI.Upper {
		t.Errorf("CI out of range: [%f, %f]", stats.CI.Lower, stats.CI.Upper)
	}
}

func TestComputeAccuracyBoundaryProbability(t *testing.T) {
	// 50% counts as a YES call.
	records := []models.PredictionRecord{
		resolved("2026-01-12", 50, models.DecisionYes),
	}
	stats := ComputeAccuracy(records)
	if stats.Correct != 1 {
		t.Errorf("Correct = %d, want 1 (50%% is a YES call)", stats.Correct)
	}
	if stats.CI != nil {
		t.Error("CI should be absent with a single resolved record")
	}
}
