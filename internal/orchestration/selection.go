package orchestration

import (
	"github.com/blizzardhq/blizzard/internal/models"
	"github.com/blizzardhq/blizzard/internal/transcript"
	"github.com/blizzardhq/blizzard/internal/verdict"
)

// Selector is the deterministic, side-effect-free next-speaker rule. It is a
// pure function of the transcript and is total: every non-terminated
// transcript maps to exactly one roster member.
type Selector struct{}

// NewSelector creates a Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Next returns the agent that speaks next.
//
// The default chain is weather reporter → analyst → validator →
// decision-maker, with the validator re-entering after any decision-maker
// message that did not terminate the run. When the last message raises an
// open question, topic routing overrides the chain and sends the
// conversation to the role best placed to answer, unless that would route
// the question back to its asker.
func (s *Selector) Next(t *transcript.Transcript) models.AgentID {
	last, ok := t.Last()
	if !ok || last.Role == models.RoleUser {
		return models.AgentWeather
	}

	if verdict.HasOpenQuestion(last.Content) {
		if target, ok := routeQuestion(last.Content); ok && target != last.Speaker {
			return target
		}
	}

	switch last.Speaker {
	case models.AgentWeather:
		return models.AgentLead
	case models.AgentLead:
		return models.AgentAssistant
	case models.AgentAssistant:
		return models.AgentBlizzard
	case models.AgentBlizzard:
		// A non-terminal decision-maker message needs the validator back in
		// for confirmation or correction.
		return models.AgentAssistant
	default:
		// Unknown speakers restart the chain rather than fail; totality is
		// part of the contract.
		return models.AgentWeather
	}
}
