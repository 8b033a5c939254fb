// Package mocks holds testify mocks of the domain ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/satriahrh/nova-ai/domain"
)

type Llm struct {
	mock.Mock
}

func (m *Llm) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *Llm) GenerateChat(ctx context.Context, history []domain.ChatMessage) (domain.ChatSession, error) {
	args := m.Called(ctx, history)
	session, _ := args.Get(0).(domain.ChatSession)
	return session, args.Error(1)
}

func (m *Llm) ListModels(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	models, _ := args.Get(0).([]string)
	return models, args.Error(1)
}

func (m *Llm) Close() error {
	return m.Called().Error(0)
}

type ChatSession struct {
	mock.Mock
}

func (m *ChatSession) SendMessage(ctx context.Context, message domain.ChatMessage) (domain.ChatMessage, error) {
	args := m.Called(ctx, message)
	reply, _ := args.Get(0).(domain.ChatMessage)
	return reply, args.Error(1)
}

func (m *ChatSession) History() ([]domain.ChatMessage, error) {
	args := m.Called()
	history, _ := args.Get(0).([]domain.ChatMessage)
	return history, args.Error(1)
}
