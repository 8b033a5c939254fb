package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/satriahrh/nova-ai/usecase"
)

type Server struct {
	upgrader websocket.Upgrader
	svc      *usecase.ChatService
	hub      *Hub
}

func NewServer(svc *usecase.ChatService) *Server {
	return &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		svc:      svc,
		hub:      NewHub(),
	}
}

func (s *Server) RunWebsocketHub() {
	s.hub.Run()
}

func (s *Server) GetHub() *Hub {
	return s.hub
}
