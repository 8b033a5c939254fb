package domain

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("no response from AI model")

// Llm abstracts any chat/LLM provider.
type Llm interface {
	// Generate sends a single, history-free prompt and returns the model's reply.
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateChat(ctx context.Context, history []ChatMessage) (ChatSession, error)
	// ListModels returns the names of the models able to generate content.
	ListModels(ctx context.Context) ([]string, error)
	Close() error
}

// ChatSession is the provider-side conversation. It owns the history that
// is sent along with every message. SendMessage leaves History unchanged
// unless it returns a nil error and a non-empty reply.
type ChatSession interface {
	SendMessage(ctx context.Context, message ChatMessage) (ChatMessage, error)
	History() ([]ChatMessage, error)
}

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
)
