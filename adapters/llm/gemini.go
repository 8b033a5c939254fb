package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/satriahrh/nova-ai/domain"
)

const generateContentAction = "generateContent"

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(
		ctx,
		&genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return resp.Text(), nil
}

func (g *GeminiClient) GenerateChat(ctx context.Context, history []domain.ChatMessage) (domain.ChatSession, error) {
	chat, err := g.client.Chats.Create(ctx, g.model, nil, toGenaiHistory(history))
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}

	return &GeminiChatSession{chats: g.client.Chats, model: g.model, chat: chat}, nil
}

// ListModels returns the first page of models supporting generateContent.
func (g *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	page, err := g.client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	var names []string
	for _, m := range page.Items {
		for _, action := range m.SupportedActions {
			if action == generateContentAction {
				names = append(names, m.Name)
				break
			}
		}
	}
	return names, nil
}

// Close is a no-op; the genai client holds no resources of its own.
func (g *GeminiClient) Close() error {
	return nil
}

type GeminiChatSession struct {
	chats *genai.Chats
	model string
	chat  *genai.Chat
}

// SendMessage implements domain.ChatSession. The chat records the user turn
// even when the reply has no candidate, so any failed or empty exchange is
// undone by recreating the chat from the history it had before.
func (g *GeminiChatSession) SendMessage(ctx context.Context, message domain.ChatMessage) (
	domain.ChatMessage,
	error,
) {
	prev := g.chat.History(false)

	resp, err := g.chat.SendMessage(ctx, genai.Part{Text: message.Content})
	if err != nil {
		return domain.ChatMessage{}, errors.Join(fmt.Errorf("send message: %w", err), g.restore(ctx, prev))
	}

	text := resp.Text()
	if text == "" {
		if err := g.restore(ctx, prev); err != nil {
			return domain.ChatMessage{}, err
		}
	}

	return domain.ChatMessage{
		Role:    domain.AssistantRole,
		Content: text,
	}, nil
}

func (g *GeminiChatSession) restore(ctx context.Context, prev []*genai.Content) error {
	// capped so later appends never write into the discarded turns
	chat, err := g.chats.Create(ctx, g.model, nil, prev[:len(prev):len(prev)])
	if err != nil {
		return fmt.Errorf("restoring chat: %w", err)
	}
	g.chat = chat
	return nil
}

func (g *GeminiChatSession) History() ([]domain.ChatMessage, error) {
	return fromGenaiHistory(g.chat.History(false)), nil
}

func toGenaiHistory(history []domain.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, len(history))
	for i, msg := range history {
		role := genai.RoleModel
		if msg.Role == domain.UserRole {
			role = genai.RoleUser
		}
		contents[i] = &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		}
	}
	return contents
}

func fromGenaiHistory(contents []*genai.Content) []domain.ChatMessage {
	history := make([]domain.ChatMessage, len(contents))
	for i, c := range contents {
		var sb strings.Builder
		for _, p := range c.Parts {
			if p != nil {
				sb.WriteString(p.Text)
			}
		}
		role := domain.AssistantRole
		if c.Role == genai.RoleUser {
			role = domain.UserRole
		}
		history[i] = domain.ChatMessage{Role: role, Content: sb.String()}
	}
	return history
}
