package execution

import (
	"context"
	"errors"
	"sync"

	"github.com/blizzardhq/blizzard/internal/models"
)

// ErrScriptExhausted is returned when a scripted engine runs out of turns.
var ErrScriptExhausted = errors.New("scripted engine has no more turns")

// Turn is one scripted response, or a scripted failure.
type Turn struct {
	Content string
	Err     error
}

// ScriptedEngine replays a fixed sequence of turns. It makes the
// orchestrator's state machine fully deterministic in tests: given a fixed
// sequence of results, every run replays identically.
type ScriptedEngine struct {
	mu    sync.Mutex
	turns []Turn
	next  int

	// Invocations records which agent was asked on each call, in order.
	Invocations []models.AgentID

	InitializeErr error
	ShutdownErr   error
	ShutdownCalls int
}

// NewScriptedEngine creates an engine that replays the given turns.
func NewScriptedEngine(turns ...Turn) *ScriptedEngine {
	return &ScriptedEngine{turns: turns}
}

// Script builds turns from plain message contents.
func Script(contents ...string) []Turn {
	turns := make([]Turn, 0, len(contents))
	for _, c := range contents {
		turns = append(turns, Turn{Content: c})
	}
	return turns
}

func (e *ScriptedEngine) Initialize(_ context.Context) error {
	return e.InitializeErr
}

func (e *ScriptedEngine) Invoke(_ context.Context, req *InvokeRequest) (*InvokeResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Invocations = append(e.Invocations, req.Agent.ID)
	if e.next >= len(e.turns) {
		return nil, ErrScriptExhausted
	}
	turn := e.turns[e.next]
	e.next++

	if turn.Err != nil {
		return nil, turn.Err
	}
	return &InvokeResponse{
		Content: turn.Content,
		ModelID: req.Agent.Model,
	}, nil
}

func (e *ScriptedEngine) Shutdown(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ShutdownCalls++
	return e.ShutdownErr
}
