package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/satriahrh/nova-ai/domain"
	"github.com/satriahrh/nova-ai/domain/mocks"
	"github.com/satriahrh/nova-ai/usecase"
)

func user(text string) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.UserRole, Content: text}
}

func assistant(text string) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.AssistantRole, Content: text}
}

func setup(t *testing.T) (*usecase.ChatService, *mocks.Llm, *mocks.ChatSession) {
	t.Helper()
	chat := new(mocks.ChatSession)
	llm := new(mocks.Llm)
	llm.On("GenerateChat", mock.Anything, mock.Anything).Return(chat, nil)
	return usecase.NewChatService(llm), llm, chat
}

func TestRun_TurnsAreAppendedInOrder(t *testing.T) {
	svc, llm, chat := setup(t)
	chat.On("SendMessage", mock.Anything, user("hello")).Return(assistant("hi!"), nil).Once()
	chat.On("SendMessage", mock.Anything, user("how are you")).Return(assistant("fine"), nil).Once()

	var out bytes.Buffer
	c := New(strings.NewReader("hello\n\nhow are you\n/exit\n"), &out, svc, "s1")

	require.NoError(t, c.Run(context.Background()))

	conv, ok := svc.Sessions().Get("s1")
	require.True(t, ok)
	assert.Equal(t, []domain.ChatMessage{
		user("hello"), assistant("hi!"), user("how are you"), assistant("fine"),
	}, conv.Transcript())

	printed := out.String()
	assert.Less(t, strings.Index(printed, "You: hello"), strings.Index(printed, "Nova: hi!"))
	assert.Less(t, strings.Index(printed, "Nova: hi!"), strings.Index(printed, "You: how are you"))
	assert.Contains(t, printed, "Bye bye")
	llm.AssertNumberOfCalls(t, "GenerateChat", 1)
}

func TestRun_FailureIsShownInline(t *testing.T) {
	svc, _, chat := setup(t)
	chat.On("SendMessage", mock.Anything, user("one")).Return(assistant("first"), nil).Once()
	chat.On("SendMessage", mock.Anything, user("two")).Return(nil, errors.New("quota exceeded")).Once()
	chat.On("SendMessage", mock.Anything, user("three")).Return(assistant("third"), nil).Once()

	var out bytes.Buffer
	c := New(strings.NewReader("one\ntwo\nthree\n"), &out, svc, "s1")

	require.NoError(t, c.Run(context.Background()))

	assert.Contains(t, out.String(), "Error: quota exceeded")

	conv, _ := svc.Sessions().Get("s1")
	assert.Equal(t, []domain.ChatMessage{
		user("one"), assistant("first"), user("two"), user("three"), assistant("third"),
	}, conv.Transcript())
}

func TestRun_SessionIsCreatedOnFirstInput(t *testing.T) {
	svc, llm, _ := setup(t)

	var out bytes.Buffer
	c := New(strings.NewReader("/help\n/history\n"), &out, svc, "s1")

	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, 0, svc.Sessions().Len())
	assert.Contains(t, out.String(), "/bye, /exit")
	llm.AssertNotCalled(t, "GenerateChat", mock.Anything, mock.Anything)
}

func TestRun_HistoryRendersWholeTranscript(t *testing.T) {
	svc, _, chat := setup(t)
	chat.On("SendMessage", mock.Anything, user("ping")).Return(assistant("pong"), nil)

	var out bytes.Buffer
	c := New(strings.NewReader("ping\n/history\n/bye\n"), &out, svc, "s1")

	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, 2, strings.Count(out.String(), "You: ping"))
	assert.Equal(t, 2, strings.Count(out.String(), "Nova: pong"))
}
