// Package agents defines the fixed prediction roster and each agent's
// behavioral contract.
package agents

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blizzardhq/blizzard/internal/models"
)

// ErrDuplicateAgent is returned when a roster registers the same ID twice.
var ErrDuplicateAgent = errors.New("duplicate agent id")

// Agent binds an identity to its instructions and model.
type Agent struct {
	ID           models.AgentID
	Model        string
	Instructions string
}

// Registry is the static roster for one prediction run. It is built once at
// run start and never mutated afterwards.
type Registry struct {
	order  []models.AgentID
	agents map[models.AgentID]Agent
}

// NewRegistry builds a registry from the given agents, preserving order.
func NewRegistry(agents ...Agent) (*Registry, error) {
	r := &Registry{agents: make(map[models.AgentID]Agent, len(agents))}
	for _, a := range agents {
		if a.ID == "" {
			return nil, errors.New("agent id is required")
		}
		if strings.TrimSpace(a.Instructions) == "" {
			return nil, fmt.Errorf("agent %q has no instructions", a.ID)
		}
		if _, exists := r.agents[a.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAgent, a.ID)
		}
		r.agents[a.ID] = a
		r.order = append(r.order, a.ID)
	}
	return r, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id models.AgentID) bool {
	_, ok := r.agents[id]
	return ok
}

// Get returns the agent for id.
func (r *Registry) Get(id models.AgentID) (Agent, bool) {
	a, ok := r.agents[id]
	return a, ok
}

// IDs returns all registered agent IDs in registration order.
func (r *Registry) IDs() []models.AgentID {
	out := make([]models.AgentID, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	return len(r.order)
}

// instructionFiles maps each role to its instructions file, matching the
// layout of the instructions directory.
var instructionFiles = map[models.AgentID]string{
	models.AgentWeather:   "weather_agent.txt",
	models.AgentLead:      "snow_research_lead.txt",
	models.AgentAssistant: "research_assistant.txt",
	models.AgentBlizzard:  "blizzard_reporter.txt",
}

// RoleModels selects the language model per role. Empty entries fall back to
// Default.
type RoleModels struct {
	Default   string
	Weather   string
	Lead      string
	Assistant string
	Blizzard  string
}

func (m RoleModels) forRole(id models.AgentID) string {
	var override string
	switch id {
	case models.AgentWeather:
		override = m.Weather
	case models.AgentLead:
		override = m.Lead
	case models.AgentAssistant:
		override = m.Assistant
	case models.AgentBlizzard:
		override = m.Blizzard
	}
	if override != "" {
		return override
	}
	return m.Default
}

// RosterConfig carries everything needed to assemble the run's registry.
type RosterConfig struct {
	InstructionsDir string
	Models          RoleModels
	// Criteria and SettingsText are district context appended to the
	// instructions of the analysis, validation, and decision roles.
	Criteria     string
	SettingsText string
}

// BuildRoster loads role instructions from disk and assembles the registry.
// The weather reporter receives only its base instructions; the remaining
// roles also get the district closure criteria and settings context.
func BuildRoster(cfg RosterConfig) (*Registry, error) {
	roster := make([]Agent, 0, len(instructionFiles))
	for _, id := range []models.AgentID{
		models.AgentWeather,
		models.AgentLead,
		models.AgentAssistant,
		models.AgentBlizzard,
	} {
		base, err := readInstructions(cfg.InstructionsDir, instructionFiles[id])
		if err != nil {
			return nil, fmt.Errorf("loading instructions for %s: %w", id, err)
		}

		instructions := base
		if id != models.AgentWeather {
			instructions = fmt.Sprintf(
				"%s\n\nDISTRICT CLOSURE CRITERIA:\n%s\n\n%s",
				base, cfg.Criteria, cfg.SettingsText,
			)
		}

		roster = append(roster, Agent{
			ID:           id,
			Model:        cfg.Models.forRole(id),
			Instructions: instructions,
		})
	}
	return NewRegistry(roster...)
}

func readInstructions(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("instructions file %s is empty", name)
	}
	return text, nil
}
