package interfaces

import "context"

// Message represents a single turn in a generation request.
type Message struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// LLMService generates free text for a prompt. Implementations wrap a cloud
// provider; a failure is never fatal to a posting cycle (the generator falls
// back to template content).
type LLMService interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
