package session

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/omnichat/internal/omnichat"
)

// Session represents an in-memory conversation. It is never written to disk.
type Session struct {
	ID        string // UUID v4 (e.g., "550e8400-e29b-41d4-a716-446655440000")
	Model     string // Model identifier, constant for the session lifetime
	CreatedAt time.Time
	UpdatedAt time.Time
	messages  []omnichat.Message
}

// NewSession creates a session seeded with a single system message.
func NewSession(model, systemPrompt string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
		messages: []omnichat.Message{
			{Role: omnichat.RoleSystem, Content: []omnichat.ContentBlock{omnichat.Text(systemPrompt)}},
		},
	}
}

// AddMessage appends a message to the history.
func (s *Session) AddMessage(role omnichat.Role, content []omnichat.ContentBlock) {
	s.messages = append(s.messages, omnichat.Message{Role: role, Content: content})
	s.UpdatedAt = time.Now()
}

// Messages returns a copy of the history.
func (s *Session) Messages() []omnichat.Message {
	return slices.Clone(s.messages)
}

// truncate drops every message after the first n.
func (s *Session) truncate(n int) {
	if n < len(s.messages) {
		clear(s.messages[n:])
		s.messages = s.messages[:n]
	}
}

// GetShortID returns the shortened session ID (first 8 characters)
func (s *Session) GetShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// MessageCount returns the number of messages in the session
func (s *Session) MessageCount() int {
	return len(s.messages)
}
