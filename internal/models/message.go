package models

import "time"

// AgentID identifies a member of the prediction roster.
type AgentID string

// The fixed roster. Every conversation runs these four roles in spirit of a
// district's decision chain: report, analyze, validate, decide.
const (
	// AgentWeather reports observed and forecast conditions.
	AgentWeather AgentID = "WeatherAgent"
	// AgentLead produces the first-pass snow day analysis.
	AgentLead AgentID = "SnowResearchLead"
	// AgentAssistant independently validates the analysis.
	AgentAssistant AgentID = "ResearchAssistant"
	// AgentBlizzard delivers the final verdict.
	AgentBlizzard AgentID = "Blizzard"
)

// SpeakerUser is the pseudo-speaker for the initiating user message that
// seeds a conversation. It is never a registered agent.
const SpeakerUser AgentID = "User"

// Role distinguishes the initiating user message from agent turns.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is a single turn in a prediction conversation. Immutable once
// appended to a transcript.
type Message struct {
	Speaker   AgentID   `json:"speaker"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sequence  int       `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
}
