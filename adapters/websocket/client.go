package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/satriahrh/nova-ai/domain"
	"github.com/satriahrh/nova-ai/usecase"
	"github.com/satriahrh/nova-ai/utils/log"
)

// Frame types sent to the client.
const (
	FrameSession = "session"
	FrameTurn    = "turn"
	FrameError   = "error"
)

// Error texts, aligned with the /chat endpoint.
const (
	errTextNoMessage       = "No message provided"
	errTextInvalidFrame    = "Invalid JSON data provided"
	errTextNoModelResponse = "No response from AI model"
)

type Client struct {
	conn         *websocket.Conn
	send         chan []byte
	conversation *usecase.Conversation
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.RWMutex
	closed       bool
}

// Frame is what the server writes for every event on a session.
type Frame struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Role      domain.Role `json:"role,omitempty"`
	Content   string      `json:"content,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// inputFrame is the JSON form of a client turn. Plain text frames are
// accepted as well.
type inputFrame struct {
	Message string `json:"message"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 512 * 1024
)

// NewClient creates a new WebSocket client bound to one conversation.
func NewClient(conn *websocket.Conn, conversation *usecase.Conversation) *Client {
	ctx := log.WithValue(context.Background(), log.SessionIDKey, conversation.ID())
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		conn:         conn,
		send:         make(chan []byte, 256),
		conversation: conversation,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (c *Client) SessionID() string {
	return c.conversation.ID()
}

// Run announces the session ID and starts the pumps.
func (c *Client) Run() {
	c.setupHandlers()
	c.sendFrame(Frame{Type: FrameSession})

	go c.readPump()
	go c.writePump()
}

func (c *Client) setupHandlers() {
	c.conn.SetCloseHandler(func(code int, text string) error {
		log.WithCtx(c.ctx).Debug("WebSocket connection closed", zap.Int("code", code), zap.String("text", text))
		c.Close()
		return nil
	})

	c.conn.SetPongHandler(func(appData string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

// Close gracefully closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.cancel()
	c.conn.Close()
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) Context() context.Context {
	return c.ctx
}

// readPump handles one turn at a time, so replies keep the input order.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithCtx(c.ctx).Error("WebSocket error", zap.Error(err))
			}
			return
		}

		c.handleTurn(message)

		// the model call may have outlived the read deadline
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *Client) handleTurn(message []byte) {
	text, errText := parseInput(message)
	if errText != "" {
		c.sendFrame(Frame{Type: FrameError, Error: errText})
		return
	}

	reply, err := c.conversation.Send(context.WithoutCancel(c.ctx), text)
	if errors.Is(err, domain.ErrEmptyResponse) {
		c.sendFrame(Frame{Type: FrameError, Error: errTextNoModelResponse})
		return
	}
	if err != nil {
		c.sendFrame(Frame{Type: FrameError, Error: "Server error: " + err.Error()})
		return
	}

	c.sendFrame(Frame{Type: FrameTurn, Role: reply.Role, Content: reply.Content})
}

// parseInput returns the turn text, or the error text to send back.
func parseInput(message []byte) (string, string) {
	trimmed := bytes.TrimSpace(message)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var in inputFrame
		if err := json.Unmarshal(trimmed, &in); err != nil {
			return "", errTextInvalidFrame
		}
		message = []byte(in.Message)
	}
	if len(bytes.TrimSpace(message)) == 0 {
		return "", errTextNoMessage
	}
	return string(message), ""
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.WithCtx(c.ctx).Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.WithCtx(c.ctx).Debug("Failed to send ping", zap.Error(err))
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) sendFrame(f Frame) {
	f.SessionID = c.SessionID()
	f.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(f)
	if err != nil {
		log.WithCtx(c.ctx).Error("Failed to marshal frame", zap.Error(err))
		return
	}
	if err := c.SendMessage(payload); err != nil {
		log.WithCtx(c.ctx).Debug("Dropped frame", zap.String("type", f.Type), zap.Error(err))
	}
}

// SendMessage queues a message for the write pump.
func (c *Client) SendMessage(message []byte) error {
	if c.IsClosed() {
		return websocket.ErrCloseSent
	}

	select {
	case c.send <- message:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		// Channel is full, close the connection
		c.Close()
		return websocket.ErrCloseSent
	}
}
