package models

import "time"

// RunState is the terminal (or in-flight) state of an orchestration run.
type RunState string

const (
	StateRunning        RunState = "RUNNING"
	StateTerminated     RunState = "TERMINATED"
	StateBudgetExceeded RunState = "BUDGET_EXCEEDED"
	StateFailed         RunState = "FAILED"
)

// Terminal reports whether the state is one a run can end in.
func (s RunState) Terminal() bool {
	return s == StateTerminated || s == StateBudgetExceeded || s == StateFailed
}

// ConversationEntry is a display-facing view of one transcript message.
type ConversationEntry struct {
	Role    string `json:"role"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// RunRecord is the current-state snapshot consumed by the live display.
// It is entirely overwritten on each successful run.
type RunRecord struct {
	RunID        string              `json:"run_id"`
	Timestamp    time.Time           `json:"timestamp"`
	State        RunState            `json:"state"`
	Decision     string              `json:"decision"` // raw text of the verdict message, empty when unresolved
	Verdict      *Verdict            `json:"verdict,omitempty"`
	Conversation []ConversationEntry `json:"conversation"`
	Iterations   int                 `json:"iterations"`
}

// UnresolvedPrediction is stored in place of a verdict summary when a run
// ends without a validated verdict.
const UnresolvedPrediction = "UNRESOLVED"

// PredictionRecord is one persisted historical entry. Append-only except for
// Actual, which a later backfill process sets exactly once.
type PredictionRecord struct {
	ID                 string    `json:"id"` // calendar date, YYYY-MM-DD
	Timestamp          time.Time `json:"timestamp"`
	Prediction         string    `json:"prediction"`
	ProbabilityPercent *int      `json:"probability_percent,omitempty"`
	Details            string    `json:"details"`
	Actual             *Decision `json:"actual"`
	RunState           RunState  `json:"run_state,omitempty"`
}

// Resolved reports whether the record carries a validated verdict.
func (r *PredictionRecord) Resolved() bool {
	return r.Prediction != UnresolvedPrediction && r.ProbabilityPercent != nil
}

// History is the persisted historical log, newest prediction first.
type History struct {
	Predictions []PredictionRecord `json:"predictions"`
}
