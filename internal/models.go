package internal

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Roles understood by the backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultSystemPrompt seeds every conversation sent to the backend. It
// is pinned at index 0 of the transmitted context and never persisted
// with the session.
const DefaultSystemPrompt = "Responde en frases cortas."

// PlaceholderTitle names a session until its first user message does.
const PlaceholderTitle = "Nueva sesión"

// titleMaxRunes bounds the display title; longer first messages are cut
// here and marked with an ellipsis.
const titleMaxRunes = 57

// schemaVersion tags persisted envelopes so future format changes can
// migrate instead of guessing.
const schemaVersion = 1

// Message is one conversation turn. Messages are immutable once
// appended; their order within a session is significant.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is one persisted conversation thread. Messages holds only
// user and assistant turns; the system prompt is prepended when the
// session is loaded as working history. Timestamps are Unix
// milliseconds.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
	Messages  []Message `json:"messages"`
}

var lastStamp atomic.Int64

// nowMilli returns the current Unix millisecond, strictly increasing
// across calls. Back-to-back mutations can land in the same
// millisecond, and recency ordering needs distinct stamps.
func nowMilli() int64 {
	now := time.Now().UnixMilli()
	for {
		last := lastStamp.Load()
		if now <= last {
			now = last + 1
		}
		if lastStamp.CompareAndSwap(last, now) {
			return now
		}
	}
}

// NewSession allocates an empty session with a fresh id and placeholder
// title.
func NewSession() Session {
	now := nowMilli()
	return Session{
		ID:        uuid.NewString(),
		Title:     PlaceholderTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// Append adds a message and refreshes UpdatedAt. The first user message
// also names the session; the title is never reassigned after that.
func (s *Session) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
	if msg.Role == RoleUser && (s.Title == "" || s.Title == PlaceholderTitle) {
		s.Title = TitleFromMessage(msg.Content)
	}
	s.UpdatedAt = nowMilli()
}

// History returns the session's working history: the system prompt
// followed by the stored turns.
func (s *Session) History() []Message {
	history := make([]Message, 0, len(s.Messages)+1)
	history = append(history, Message{Role: RoleSystem, Content: DefaultSystemPrompt})
	history = append(history, s.Messages...)
	return history
}

// TitleFromMessage derives a display title from a user message,
// truncating long ones with an ellipsis marker.
func TitleFromMessage(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return PlaceholderTitle
	}
	runes := []rune(trimmed)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes]) + "..."
	}
	return trimmed
}

// sessionEnvelope is the persisted form of the session collection.
type sessionEnvelope struct {
	SchemaVersion int       `json:"schemaVersion"`
	Sessions      []Session `json:"sessions"`
}

// DecodeSessions parses a persisted session collection. Persisted state
// is advisory, never load-bearing: anything missing, corrupt, or of the
// wrong shape decodes to an empty collection, and individual sessions
// are repaired field by field rather than rejected.
func DecodeSessions(raw string) []Session {
	if raw == "" {
		return []Session{}
	}

	var envelope sessionEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil || envelope.Sessions == nil {
		// Pre-envelope stores persisted a bare array.
		var legacy []Session
		if err := json.Unmarshal([]byte(raw), &legacy); err != nil || legacy == nil {
			LogDebug("discarding unreadable session collection")
			return []Session{}
		}
		envelope.Sessions = legacy
	}

	sessions := make([]Session, 0, len(envelope.Sessions))
	for _, s := range envelope.Sessions {
		sessions = append(sessions, repairSession(s))
	}
	return sessions
}

// EncodeSessions serializes the session collection for persistence.
func EncodeSessions(sessions []Session) (string, error) {
	data, err := json.Marshal(sessionEnvelope{
		SchemaVersion: schemaVersion,
		Sessions:      sessions,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// repairSession fills defaults for missing fields and drops malformed
// messages so one bad record never poisons the collection.
func repairSession(s Session) Session {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Title == "" {
		s.Title = PlaceholderTitle
	}
	if s.CreatedAt == 0 {
		s.CreatedAt = time.Now().UnixMilli()
	}
	if s.UpdatedAt < s.CreatedAt {
		s.UpdatedAt = s.CreatedAt
	}
	messages := make([]Message, 0, len(s.Messages))
	for _, msg := range s.Messages {
		if msg.Role == "" || msg.Content == "" {
			continue
		}
		messages = append(messages, Message{Role: msg.Role, Content: msg.Content})
	}
	s.Messages = messages
	return s
}
