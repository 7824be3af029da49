package orchestration

import (
	"fmt"

	"github.com/blizzardhq/blizzard/internal/models"
)

// Record builds the current-state snapshot handed to the result store.
func (ro *RunOutcome) Record() *models.RunRecord {
	rec := &models.RunRecord{
		RunID:        ro.RunID,
		Timestamp:    ro.StartedAt,
		State:        ro.State,
		Verdict:      ro.Verdict,
		Conversation: ro.Transcript.Conversation(),
		Iterations:   ro.Iterations,
	}
	if ro.State == models.StateTerminated {
		rec.Decision = ro.finalDecisionText()
	}
	return rec
}

// HistoryRecord builds the day's historical entry. The ID is the run's
// calendar date, which keys idempotent history upserts. Runs without a
// validated verdict are recorded as unresolved rather than fabricated.
func (ro *RunOutcome) HistoryRecord() models.PredictionRecord {
	rec := models.PredictionRecord{
		ID:        ro.StartedAt.Format("2006-01-02"),
		Timestamp: ro.StartedAt,
		RunState:  ro.State,
	}
	if ro.State == models.StateTerminated && ro.Verdict != nil {
		p := ro.Verdict.ProbabilityPercent
		rec.Prediction = fmt.Sprintf("%s (%d%%)", ro.Verdict.CallDecision, p)
		rec.ProbabilityPercent = &p
		rec.Details = ro.finalDecisionText()
		return rec
	}
	rec.Prediction = models.UnresolvedPrediction
	if ro.ErrorMsg != "" {
		rec.Details = ro.ErrorMsg
	} else {
		rec.Details = fmt.Sprintf("no valid verdict after %d iterations", ro.Iterations)
	}
	return rec
}

// finalDecisionText returns the decision-maker's last message, which is the
// verdict narrative shown on the display.
func (ro *RunOutcome) finalDecisionText() string {
	msgs := ro.Transcript.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Speaker == models.AgentBlizzard {
			return msgs[i].Content
		}
	}
	return ""
}
