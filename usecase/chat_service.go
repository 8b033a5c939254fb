package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/nova-ai/domain"
	"github.com/satriahrh/nova-ai/utils/log"
)

const previewLength = 100

type ChatService struct {
	llm      domain.Llm
	sessions *SessionStore
}

func NewChatService(gen domain.Llm) *ChatService {
	return &ChatService{
		llm:      gen,
		sessions: NewSessionStore(gen),
	}
}

// Relay forwards message as an independent single-turn request; no history
// is attached. It returns domain.ErrEmptyResponse when the model produced
// no text.
func (s *ChatService) Relay(ctx context.Context, message string) (string, error) {
	logger := log.WithCtx(ctx)
	logger.Info("Sending to Gemini API", zap.Int("message_length", len(message)))

	start := time.Now()
	text, err := s.llm.Generate(ctx, message)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("Gemini API call failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return "", err
	}
	logger.Info("Gemini API responded", zap.Duration("elapsed", elapsed))

	if text == "" {
		logger.Warn("Empty response from Gemini")
		return "", domain.ErrEmptyResponse
	}

	logger.Info("Gemini response received",
		zap.Int("characters", len(text)),
		zap.String("preview", Preview(text)))
	return text, nil
}

// Session returns the conversation stored under id, creating it on first use.
func (s *ChatService) Session(id string) *Conversation {
	return s.sessions.GetOrCreate(id)
}

// EndSession forgets the conversation stored under id.
func (s *ChatService) EndSession(id string) {
	conv, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	s.sessions.Delete(id)
	log.With(
		zap.String(string(log.SessionIDKey), id),
		zap.Int("turns", conv.Len()),
		zap.Int("open_sessions", s.sessions.Len()),
	).Info("Session dropped")
}

// Sessions exposes the store, mostly for inspection.
func (s *ChatService) Sessions() *SessionStore {
	return s.sessions
}

// Preview cuts text to the first runes used in diagnostics.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return fmt.Sprintf("%s...", string(runes[:previewLength]))
}
