package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/nova-ai/domain"
	"github.com/satriahrh/nova-ai/utils/log"
)

// Conversation is one in-memory chat transcript. The provider chat session
// that carries the history to the model is created on the first Send.
//
// A user turn is appended before the model is called and stays in the
// transcript even if the call fails; the assistant turn is appended only on
// success. The provider history never sees a failed exchange, so the next
// turn reaches the model as if the failure never happened. Send calls on one
// conversation never overlap.
type Conversation struct {
	id  string
	llm domain.Llm

	mu    sync.Mutex
	chat  domain.ChatSession
	turns []domain.ChatMessage
}

func newConversation(id string, llm domain.Llm) *Conversation {
	return &Conversation{id: id, llm: llm}
}

func (c *Conversation) ID() string {
	return c.id
}

// Transcript returns a copy of the turns in the order they were added.
func (c *Conversation) Transcript() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.ChatMessage, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

// Send appends text as a user turn, forwards it to the model and appends
// the reply as an assistant turn. There is no retry and no timeout.
func (c *Conversation) Send(ctx context.Context, text string) (domain.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = log.WithValue(ctx, log.SessionIDKey, c.id)
	logger := log.WithCtx(ctx)

	userTurn := domain.ChatMessage{Role: domain.UserRole, Content: text}
	c.turns = append(c.turns, userTurn)

	if c.chat == nil {
		chat, err := c.llm.GenerateChat(ctx, nil)
		if err != nil {
			logger.Error("Failed to start chat", zap.Error(err))
			return domain.ChatMessage{}, fmt.Errorf("start chat: %w", err)
		}
		c.chat = chat
		logger.Debug("Chat started")
	}

	start := time.Now()
	reply, err := c.chat.SendMessage(ctx, userTurn)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("Chat turn failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return domain.ChatMessage{}, err
	}
	if reply.Content == "" {
		logger.Warn("Empty chat reply", zap.Duration("elapsed", elapsed))
		return domain.ChatMessage{}, domain.ErrEmptyResponse
	}

	reply.Role = domain.AssistantRole
	c.turns = append(c.turns, reply)
	logger.Info("Chat turn completed",
		zap.Duration("elapsed", elapsed),
		zap.Int("turns", len(c.turns)),
		zap.String("preview", Preview(reply.Content)))
	return reply, nil
}
