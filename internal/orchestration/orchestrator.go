// Package orchestration drives the scripted multi-party dialogue: it selects
// the next speaker, invokes the external agent capability, and decides when
// the conversation has produced a valid verdict.
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blizzardhq/blizzard/internal/agents"
	"github.com/blizzardhq/blizzard/internal/execution"
	"github.com/blizzardhq/blizzard/internal/models"
	"github.com/blizzardhq/blizzard/internal/session"
	"github.com/blizzardhq/blizzard/internal/transcript"
	"github.com/blizzardhq/blizzard/internal/verdict"
)

// DefaultMaxIterations is the hard ceiling on agent invocations per run.
const DefaultMaxIterations = 10

// EventType represents the type of progress event.
type EventType string

const (
	EventRunStart     EventType = "run_start"
	EventTurnStart    EventType = "turn_start"
	EventTurnComplete EventType = "turn_complete"
	EventRunComplete  EventType = "run_complete"
)

// ProgressEvent is a progress update emitted while a run executes.
type ProgressEvent struct {
	EventType  EventType
	Agent      models.AgentID
	Iteration  int
	State      models.RunState
	DurationMs int64
	Details    map[string]any
}

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// RunOutcome is the result of one orchestration run. A run always reaches a
// terminal state; Verdict is set only for StateTerminated.
type RunOutcome struct {
	RunID      string
	State      models.RunState
	Verdict    *models.Verdict
	Transcript *transcript.Transcript
	Iterations int
	StartedAt  time.Time
	DurationMs int64

	// FailedAgent and ErrorMsg are populated for StateFailed.
	FailedAgent models.AgentID
	ErrorMsg    string
}

// Orchestrator owns the conversation loop and the iteration budget. It is
// the only component that invokes the external agent capability.
type Orchestrator struct {
	registry      *agents.Registry
	engine        execution.AgentEngine
	selector      *Selector
	checker       *Checker
	maxIterations int
	logger        *slog.Logger
	sessionLog    session.Logger

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxIterations overrides the iteration ceiling. Values < 1 are ignored.
func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.maxIterations = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithSessionLogger sets the NDJSON session event logger.
func WithSessionLogger(l session.Logger) Option {
	return func(o *Orchestrator) {
		o.sessionLog = l
	}
}

// New creates an Orchestrator over the given roster and engine.
func New(registry *agents.Registry, engine execution.AgentEngine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:      registry,
		engine:        engine,
		selector:      NewSelector(),
		checker:       NewChecker(),
		maxIterations: DefaultMaxIterations,
		logger:        slog.Default(),
		sessionLog:    session.NopLogger{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OnProgress registers a progress listener.
func (o *Orchestrator) OnProgress(listener ProgressListener) {
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	o.listeners = append(o.listeners, listener)
}

func (o *Orchestrator) notifyProgress(event ProgressEvent) {
	o.progressMu.Lock()
	listeners := make([]ProgressListener, len(o.listeners))
	copy(listeners, o.listeners)
	o.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run executes one conversation to a terminal state. The loop is strictly
// sequential: each turn depends on the full transcript of all prior turns.
// A failed or timed-out agent invocation is fatal to the run; budget
// exhaustion is a defined outcome, not an error.
func (o *Orchestrator) Run(ctx context.Context, initialPrompt string) (*RunOutcome, error) {
	outcome := &RunOutcome{
		RunID:     uuid.NewString(),
		State:     models.StateRunning,
		StartedAt: time.Now().UTC(),
	}

	t := transcript.New(o.registry)
	outcome.Transcript = t
	if err := t.AppendUser(initialPrompt); err != nil {
		return o.fail(outcome, "", fmt.Errorf("seeding transcript: %w", err))
	}

	if err := o.engine.Initialize(ctx); err != nil {
		return o.fail(outcome, "", fmt.Errorf("initializing engine: %w", err))
	}
	defer func() {
		if err := o.engine.Shutdown(ctx); err != nil {
			o.logger.Warn("engine shutdown failed", "error", err)
		}
	}()

	o.notifyProgress(ProgressEvent{EventType: EventRunStart})
	o.logSession(session.EventRunStart, map[string]any{
		"run_id":         outcome.RunID,
		"max_iterations": o.maxIterations,
		"agents":         o.registry.Len(),
	})

	for iteration := 1; iteration <= o.maxIterations; iteration++ {
		next := o.selector.Next(t)
		agent, ok := o.registry.Get(next)
		if !ok {
			return o.fail(outcome, next, fmt.Errorf("selector chose unregistered agent %q", next))
		}
		outcome.Iterations = iteration

		o.notifyProgress(ProgressEvent{
			EventType: EventTurnStart,
			Agent:     next,
			Iteration: iteration,
		})
		turnStart := time.Now()

		resp, err := o.engine.Invoke(ctx, &execution.InvokeRequest{
			Agent:      agent,
			Transcript: t.Messages(),
		})
		if err != nil {
			return o.fail(outcome, next, fmt.Errorf("agent %s failed at iteration %d: %w", next, iteration, err))
		}
		if strings.TrimSpace(resp.Content) == "" {
			return o.fail(outcome, next, fmt.Errorf("agent %s returned an empty message at iteration %d", next, iteration))
		}

		if err := t.Append(next, resp.Content); err != nil {
			return o.fail(outcome, next, fmt.Errorf("appending message at iteration %d: %w", iteration, err))
		}

		decision := o.checker.Evaluate(t)
		o.notifyProgress(ProgressEvent{
			EventType:  EventTurnComplete,
			Agent:      next,
			Iteration:  iteration,
			DurationMs: time.Since(turnStart).Milliseconds(),
			Details:    map[string]any{"terminate": decision.Terminate, "reason": decision.Reason},
		})
		o.logSession(session.EventTurnComplete, map[string]any{
			"run_id":    outcome.RunID,
			"agent":     string(next),
			"iteration": iteration,
			"model":     resp.ModelID,
			"terminate": decision.Terminate,
			"reason":    decision.Reason,
		})

		if decision.Terminate {
			last, _ := t.Last()
			v, err := verdict.Parse(last.Content)
			if err != nil {
				// The checker already verified parseability; a failure here
				// means the two disagree and committing would be unsafe.
				return o.fail(outcome, next, fmt.Errorf("extracting verdict: %w", err))
			}
			outcome.State = models.StateTerminated
			outcome.Verdict = v
			return o.finish(outcome), nil
		}

		o.logger.Debug("conversation continues", "iteration", iteration, "reason", decision.Reason)
	}

	// Ceiling reached without a valid verdict. This is reportable, not a
	// crash: the caller still gets the full transcript.
	outcome.State = models.StateBudgetExceeded
	o.logger.Warn("iteration budget exhausted without a valid verdict",
		"iterations", outcome.Iterations)
	return o.finish(outcome), nil
}

func (o *Orchestrator) finish(outcome *RunOutcome) *RunOutcome {
	outcome.DurationMs = time.Since(outcome.StartedAt).Milliseconds()
	o.notifyProgress(ProgressEvent{
		EventType:  EventRunComplete,
		State:      outcome.State,
		Iteration:  outcome.Iterations,
		DurationMs: outcome.DurationMs,
	})
	o.logSession(session.EventRunComplete, map[string]any{
		"run_id":      outcome.RunID,
		"state":       string(outcome.State),
		"iterations":  outcome.Iterations,
		"duration_ms": outcome.DurationMs,
	})
	return outcome
}

func (o *Orchestrator) fail(outcome *RunOutcome, agent models.AgentID, err error) (*RunOutcome, error) {
	outcome.State = models.StateFailed
	outcome.FailedAgent = agent
	outcome.ErrorMsg = err.Error()
	o.logger.Error("run failed", "agent", string(agent), "iteration", outcome.Iterations, "error", err)
	o.logSession(session.EventError, map[string]any{
		"run_id":    outcome.RunID,
		"agent":     string(agent),
		"iteration": outcome.Iterations,
		"message":   err.Error(),
	})
	o.finish(outcome)
	return outcome, err
}

func (o *Orchestrator) logSession(t session.EventType, data map[string]any) {
	if err := o.sessionLog.Log(session.NewEvent(t, data)); err != nil {
		o.logger.Warn("session log write failed", "error", err)
	}
}
