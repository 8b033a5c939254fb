package websocket

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/satriahrh/nova-ai/domain"
	"github.com/satriahrh/nova-ai/domain/mocks"
	"github.com/satriahrh/nova-ai/usecase"
)

func startServer(t *testing.T, chat *mocks.ChatSession) (*usecase.ChatService, *Server, string) {
	t.Helper()

	llm := new(mocks.Llm)
	llm.On("GenerateChat", mock.Anything, mock.Anything).Return(chat, nil)
	svc := usecase.NewChatService(llm)

	server := NewServer(svc)
	server.RunWebsocketHub()

	e := echo.New()
	e.GET("/ws", server.Handler)
	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)

	return svc, server, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestHandler_SessionLifecycle(t *testing.T) {
	chat := new(mocks.ChatSession)
	chat.On("SendMessage", mock.Anything, domain.ChatMessage{Role: domain.UserRole, Content: "hi"}).
		Return(domain.ChatMessage{Role: domain.AssistantRole, Content: "hello"}, nil)
	chat.On("SendMessage", mock.Anything, domain.ChatMessage{Role: domain.UserRole, Content: "plain text"}).
		Return(domain.ChatMessage{Role: domain.AssistantRole, Content: "got it"}, nil)
	svc, server, url := startServer(t, chat)

	conn := dial(t, url)

	hello := readFrame(t, conn)
	assert.Equal(t, FrameSession, hello.Type)
	require.NotEmpty(t, hello.SessionID)

	require.NoError(t, conn.WriteJSON(map[string]string{"message": "hi"}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("plain text")))

	first := readFrame(t, conn)
	assert.Equal(t, FrameTurn, first.Type)
	assert.Equal(t, domain.AssistantRole, first.Role)
	assert.Equal(t, "hello", first.Content)
	assert.Equal(t, hello.SessionID, first.SessionID)

	second := readFrame(t, conn)
	assert.Equal(t, "got it", second.Content)

	conv, ok := svc.Sessions().Get(hello.SessionID)
	require.True(t, ok)
	assert.Equal(t, 4, conv.Len())
	assert.Eventually(t, func() bool { return server.GetHub().ClientCount() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		_, ok := svc.Sessions().Get(hello.SessionID)
		return !ok && server.GetHub().ClientCount() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestHandler_ErrorFrames(t *testing.T) {
	chat := new(mocks.ChatSession)
	chat.On("SendMessage", mock.Anything, domain.ChatMessage{Role: domain.UserRole, Content: "boom"}).
		Return(nil, errors.New("upstream down"))
	chat.On("SendMessage", mock.Anything, domain.ChatMessage{Role: domain.UserRole, Content: "silent"}).
		Return(domain.ChatMessage{Role: domain.AssistantRole}, nil)
	svc, _, url := startServer(t, chat)

	conn := dial(t, url)
	defer conn.Close()
	hello := readFrame(t, conn)

	tests := []struct {
		input string
		want  string
	}{
		{`{"message":""}`, errTextNoMessage},
		{`{"message":`, errTextInvalidFrame},
		{"boom", "Server error: upstream down"},
		{"silent", errTextNoModelResponse},
	}
	for _, tc := range tests {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tc.input)))
		f := readFrame(t, conn)
		assert.Equal(t, FrameError, f.Type, tc.input)
		assert.Equal(t, tc.want, f.Error, tc.input)
	}

	// failed turns keep their user turn; rejected input never reaches the transcript
	conv, ok := svc.Sessions().Get(hello.SessionID)
	require.True(t, ok)
	assert.Equal(t, []domain.ChatMessage{
		{Role: domain.UserRole, Content: "boom"},
		{Role: domain.UserRole, Content: "silent"},
	}, conv.Transcript())
}

func TestHandler_ConnectionsHaveSeparateSessions(t *testing.T) {
	_, server, url := startServer(t, new(mocks.ChatSession))

	a := dial(t, url)
	defer a.Close()
	b := dial(t, url)
	defer b.Close()

	assert.NotEqual(t, readFrame(t, a).SessionID, readFrame(t, b).SessionID)
	assert.Eventually(t, func() bool { return server.GetHub().ClientCount() == 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr string
	}{
		{`{"message":"hi"}`, "hi", ""},
		{`  {"message":"x"}  `, "x", ""},
		{"raw text", "raw text", ""},
		{"   ", "", errTextNoMessage},
		{`{}`, "", errTextNoMessage},
		{`{"message":1}`, "", errTextInvalidFrame},
	}

	for _, tc := range tests {
		got, errText := parseInput([]byte(tc.in))
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.wantErr, errText, tc.in)
	}
}
