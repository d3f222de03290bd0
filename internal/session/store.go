// Package session owns conversation history: where it lives (remote cache vs
// in-process fallback) and how it is seeded on first contact.
package session

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store persists ordered conversation histories keyed by session id.
type Store interface {
	// Load returns the stored history and whether one exists.
	Load(ctx context.Context, sessionID string) ([]Message, bool, error)
	Save(ctx context.Context, sessionID string, history []Message) error
	Delete(ctx context.Context, sessionID string) error
}
