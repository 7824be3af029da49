// Package statistics computes prediction accuracy metrics over the
// historical log.
package statistics

import (
	"math"

	"github.com/blizzardhq/blizzard/internal/models"
)

// AccuracyStats summarizes how well past predictions matched reality.
// Unresolved records (no backfilled outcome, or no validated verdict) count
// toward Total but not toward the accuracy rate.
type AccuracyStats struct {
	Total      int     `json:"total"`
	Resolved   int     `json:"resolved"`
	Correct    int     `json:"correct"`
	Accuracy   float64 `json:"accuracy"` // Correct / Resolved, 0 when unresolved
	MeanAbsErr float64 `json:"mean_abs_error"`

	// CI is a bootstrap confidence interval over per-record correctness,
	// present when at least two records are resolved.
	CI *ConfidenceInterval `json:"ci,omitempty"`
}

// ComputeAccuracy derives accuracy statistics from prediction records. A
// record is scored when it has both a probability and a backfilled outcome:
// the predicted call is compared to the actual outcome, and the absolute
// probability error is |p - outcome| with outcome 100 for YES and 0 for NO.
func ComputeAccuracy(records []models.PredictionRecord) AccuracyStats {
	stats := AccuracyStats{Total: len(records)}

	var correctness []float64
	var absErrSum float64

	for _, rec := range records {
		if rec.Actual == nil || !rec.Resolved() {
			continue
		}
		stats.Resolved++

		predictedYes := *rec.ProbabilityPercent >= 50
		actualYes := *rec.Actual == models.DecisionYes

		hit := 0.0
		if predictedYes == actualYes {
			stats.Correct++
			hit = 1.0
		}
		correctness = append(correctness, hit)

		target := 0.0
		if actualYes {
			target = 100.0
		}
		absErrSum += math.Abs(float64(*rec.ProbabilityPercent) - target)
	}

	if stats.Resolved > 0 {
		stats.Accuracy = float64(stats.Correct) / float64(stats.Resolved)
		stats.MeanAbsErr = absErrSum / float64(stats.Resolved)
	}
	if len(correctness) >= 2 {
		ci := BootstrapCI(correctness, 0.95)
		stats.CI = &ci
	}
	return stats
}
