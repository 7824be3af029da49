// Package session records a newline-delimited JSON audit trail of each
// prediction run.
package session

import "time"

// EventType identifies the kind of session event.
type EventType string

const (
	EventRunStart     EventType = "run_start"
	EventTurnComplete EventType = "turn_complete"
	EventRunComplete  EventType = "run_complete"
	EventCommit       EventType = "commit"
	EventError        EventType = "error"
)

// Event is a single timestamped entry in a session log.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]any) Event {
	return Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Data:      data,
	}
}
