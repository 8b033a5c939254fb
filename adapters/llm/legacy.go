package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	legacy "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/satriahrh/nova-ai/domain"
)

const (
	legacyRoleUser  = "user"
	legacyRoleModel = "model"
)

// LegacyClient talks to Gemini through github.com/google/generative-ai-go,
// the SDK generation that exposes GenerativeModel and StartChat.
type LegacyClient struct {
	client *legacy.Client
	model  *legacy.GenerativeModel
}

func NewLegacyClient(ctx context.Context, apiKey, model string) (*LegacyClient, error) {
	client, err := legacy.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &LegacyClient{
		client: client,
		model:  client.GenerativeModel(model),
	}, nil
}

func (l *LegacyClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := l.model.GenerateContent(ctx, legacy.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return extractText(resp), nil
}

func (l *LegacyClient) GenerateChat(ctx context.Context, history []domain.ChatMessage) (domain.ChatSession, error) {
	cs := l.model.StartChat()
	for _, msg := range history {
		role := legacyRoleModel
		if msg.Role == domain.UserRole {
			role = legacyRoleUser
		}
		cs.History = append(cs.History, &legacy.Content{
			Role:  role,
			Parts: []legacy.Part{legacy.Text(msg.Content)},
		})
	}
	return &LegacyChatSession{cs: cs}, nil
}

func (l *LegacyClient) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	it := l.client.ListModels(ctx)
	for {
		info, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		for _, method := range info.SupportedGenerationMethods {
			if method == generateContentAction {
				names = append(names, info.Name)
				break
			}
		}
	}
	return names, nil
}

func (l *LegacyClient) Close() error {
	return l.client.Close()
}

type LegacyChatSession struct {
	cs *legacy.ChatSession
}

// SendMessage implements domain.ChatSession. The SDK appends the user turn
// before calling the model, so the history is cut back whenever the exchange
// fails or yields no text.
func (s *LegacyChatSession) SendMessage(ctx context.Context, message domain.ChatMessage) (domain.ChatMessage, error) {
	n := len(s.cs.History)

	resp, err := s.cs.SendMessage(ctx, legacy.Text(message.Content))
	if err != nil {
		s.cs.History = s.cs.History[:n:n]
		return domain.ChatMessage{}, fmt.Errorf("send message: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		s.cs.History = s.cs.History[:n:n]
	}
	return domain.ChatMessage{
		Role:    domain.AssistantRole,
		Content: text,
	}, nil
}

func (s *LegacyChatSession) History() ([]domain.ChatMessage, error) {
	history := make([]domain.ChatMessage, len(s.cs.History))
	for i, c := range s.cs.History {
		role := domain.AssistantRole
		if c.Role == legacyRoleUser {
			role = domain.UserRole
		}
		history[i] = domain.ChatMessage{Role: role, Content: partsText(c.Parts)}
	}
	return history, nil
}

// extractText joins the text parts of the first candidate.
func extractText(resp *legacy.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	return partsText(resp.Candidates[0].Content.Parts)
}

func partsText(parts []legacy.Part) string {
	var sb strings.Builder
	for _, p := range parts {
		if t, ok := p.(legacy.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
