package orchestration

import (
	"fmt"

	"github.com/blizzardhq/blizzard/internal/models"
	"github.com/blizzardhq/blizzard/internal/transcript"
	"github.com/blizzardhq/blizzard/internal/verdict"
)

// Decision is the termination check result. When Terminate is false, Reason
// names the first CONTINUE condition that matched.
type Decision struct {
	Terminate bool
	Reason    string
}

func cont(reason string) Decision {
	return Decision{Reason: reason}
}

// Checker decides whether a transcript constitutes a valid final verdict.
// It is pure: no side effects, no external calls.
type Checker struct{}

// NewChecker creates a Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Evaluate short-circuits on the first matching CONTINUE condition; only a
// transcript that survives every check terminates. Ambiguity always resolves
// to CONTINUE — a false TERMINATE would commit a malformed verdict to
// durable storage.
func (c *Checker) Evaluate(t *transcript.Transcript) Decision {
	last, ok := t.Last()
	if !ok {
		return cont("transcript is empty")
	}
	if last.Speaker != models.AgentBlizzard {
		return cont(fmt.Sprintf("last message is from %s, not the decision-maker", last.Speaker))
	}

	tail := t.LastN(2)
	if len(tail) == 2 && tail[0].Speaker == models.AgentBlizzard {
		return cont("decision-maker spoke twice without validator re-entry")
	}

	content := last.Content
	if !verdict.HasHeader(content) {
		return cont("verdict header missing")
	}
	if !verdict.HasBreakdown(content) {
		return cont("probability breakdown section missing")
	}
	if verdict.ContainsPlaceholder(content) {
		return cont("placeholder token in a required numeric field")
	}
	if verdict.MentionsOutOfScopeAction(content) {
		return cont("message discusses an out-of-scope action")
	}
	if verdict.HasOpenQuestion(content) {
		return cont("decision-maker raises a question")
	}
	if q, unanswered := unansweredQuestion(t); unanswered {
		return cont(fmt.Sprintf("question from %s remains unanswered", q))
	}

	if len(tail) < 2 || tail[0].Speaker != models.AgentAssistant || !verdict.IsConfirmation(tail[0].Content) {
		return cont("validator confirmation not yet issued")
	}

	if _, err := verdict.Parse(content); err != nil {
		return cont(fmt.Sprintf("verdict does not parse: %v", err))
	}

	return Decision{Terminate: true}
}

// unansweredQuestion scans for an earlier agent question whose topically
// routed answerer never spoke again afterwards. The final message is
// excluded; its own questions are checked directly.
func unansweredQuestion(t *transcript.Transcript) (models.AgentID, bool) {
	msgs := t.Messages()
	for i := 0; i < len(msgs)-1; i++ {
		m := msgs[i]
		if m.Role != models.RoleAgent || !verdict.HasOpenQuestion(m.Content) {
			continue
		}
		target, ok := routeQuestion(m.Content)
		if !ok || target == m.Speaker {
			// Unroutable questions are answered by whoever spoke next.
			continue
		}
		answered := false
		for _, later := range msgs[i+1:] {
			if later.Speaker == target {
				answered = true
				break
			}
		}
		if !answered {
			return m.Speaker, true
		}
	}
	return "", false
}
