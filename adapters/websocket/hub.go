package websocket

import (
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/nova-ai/utils/log"
)

// Hub tracks the live WebSocket clients by session ID.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	go h.run()
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID()] = client
			h.mu.Unlock()
			log.WithCtx(client.ctx).Info("New client registered", zap.Int("clients", h.ClientCount()))

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.SessionID()]; ok && current == client {
				delete(h.clients, client.SessionID())
			}
			h.mu.Unlock()
			client.Close()
			log.WithCtx(client.ctx).Info("Client unregistered", zap.Int("clients", h.ClientCount()))
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
