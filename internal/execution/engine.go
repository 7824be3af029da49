// Package execution defines the external agent capability boundary: given a
// role's instructions and the transcript so far, produce one candidate
// message.
package execution

import (
	"context"

	"github.com/blizzardhq/blizzard/internal/agents"
	"github.com/blizzardhq/blizzard/internal/models"
)

// AgentEngine is the interface for obtaining agent turns. Implementations
// may fail with transport or timeout errors; the orchestrator treats any
// such failure as fatal to the run.
type AgentEngine interface {
	// Initialize sets up the engine.
	Initialize(ctx context.Context) error

	// Invoke produces the next message for the requested agent.
	Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResponse, error)

	// Shutdown cleans up resources.
	Shutdown(ctx context.Context) error
}

// InvokeRequest carries the speaking agent and the full conversation so far.
type InvokeRequest struct {
	Agent      agents.Agent
	Transcript []models.Message
}

// InvokeResponse is the result of one agent invocation.
type InvokeResponse struct {
	Content    string
	ModelID    string
	DurationMs int64
}
