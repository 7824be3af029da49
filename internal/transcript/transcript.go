// Package transcript provides the append-only conversation log that selection
// and termination decisions are computed from.
package transcript

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blizzardhq/blizzard/internal/models"
)

var (
	// ErrEmptyContent is returned when a message has no usable content.
	ErrEmptyContent = errors.New("message content is empty")
	// ErrUnknownSpeaker is returned when a message speaker is not registered.
	ErrUnknownSpeaker = errors.New("speaker is not a registered agent")
)

// SpeakerSet reports whether an AgentID belongs to the active roster.
// Satisfied by agents.Registry.
type SpeakerSet interface {
	Has(id models.AgentID) bool
}

// Transcript is an ordered, append-only sequence of messages. Sequence
// numbers are assigned on append, strictly increasing and gapless. Past
// entries are never mutated; accessors return copies.
type Transcript struct {
	speakers SpeakerSet
	messages []models.Message
}

// New creates an empty transcript whose agent messages are validated
// against the given roster.
func New(speakers SpeakerSet) *Transcript {
	return &Transcript{speakers: speakers}
}

// AppendUser seeds the transcript with the initiating user message.
func (t *Transcript) AppendUser(content string) error {
	return t.append(models.SpeakerUser, models.RoleUser, content)
}

// Append records an agent turn. The speaker must be registered and the
// content non-blank.
func (t *Transcript) Append(speaker models.AgentID, content string) error {
	if !t.speakers.Has(speaker) {
		return fmt.Errorf("append message from %q: %w", speaker, ErrUnknownSpeaker)
	}
	return t.append(speaker, models.RoleAgent, content)
}

func (t *Transcript) append(speaker models.AgentID, role models.Role, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("append message from %q: %w", speaker, ErrEmptyContent)
	}
	t.messages = append(t.messages, models.Message{
		Speaker:   speaker,
		Role:      role,
		Content:   content,
		Sequence:  len(t.messages),
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Empty reports whether the transcript has no messages.
func (t *Transcript) Empty() bool {
	return len(t.messages) == 0
}

// Last returns the most recent message. ok is false for an empty transcript.
func (t *Transcript) Last() (msg models.Message, ok bool) {
	if len(t.messages) == 0 {
		return models.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// LastN returns up to n trailing messages in transcript order.
func (t *Transcript) LastN(n int) []models.Message {
	if n <= 0 {
		return nil
	}
	if n > len(t.messages) {
		n = len(t.messages)
	}
	out := make([]models.Message, n)
	copy(out, t.messages[len(t.messages)-n:])
	return out
}

// CountBySpeaker returns how many messages the given speaker contributed.
func (t *Transcript) CountBySpeaker(id models.AgentID) int {
	count := 0
	for _, m := range t.messages {
		if m.Speaker == id {
			count++
		}
	}
	return count
}

// Messages returns a copy of all messages in order.
func (t *Transcript) Messages() []models.Message {
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Conversation renders the transcript as display-facing entries.
func (t *Transcript) Conversation() []models.ConversationEntry {
	entries := make([]models.ConversationEntry, 0, len(t.messages))
	for _, m := range t.messages {
		entries = append(entries, models.ConversationEntry{
			Role:    string(m.Role),
			Name:    string(m.Speaker),
			Content: m.Content,
		})
	}
	return entries
}
