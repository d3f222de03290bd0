// Package llm abstracts the external language/vision model collaborators.
package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a role-tagged turn sent to a model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ImageInput carries inline image bytes for vision requests.
type ImageInput struct {
	MIMEType string
	Data     []byte
}

// Request describes a single completion call. Image, when set, is attached to
// the final user message.
type Request struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	Image       *ImageInput
	MaxTokens   int32
	Temperature float32
}

// Response is the model's reply.
type Response struct {
	Text       string
	StopReason string
}

// Client completes chat requests against a model provider. Implementations do
// not retry; callers decide what a failure means.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
