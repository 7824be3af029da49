package models

// Decision is a binary closure call.
type Decision string

const (
	DecisionYes Decision = "YES"
	DecisionNo  Decision = "NO"
)

// Verdict is the structured extraction from the decision-maker's terminal
// message. Created only at successful termination; immutable thereafter.
type Verdict struct {
	CallDecision       Decision `json:"call_decision"`
	ProbabilityPercent int      `json:"probability_percent"`
	Reasoning          string   `json:"reasoning"`
	SupportingFactors  []string `json:"supporting_factors,omitempty"`
	Advisory           string   `json:"advisory,omitempty"`
}
