package websocket

import (
	"github.com/labstack/echo/v4"

	"github.com/satriahrh/nova-ai/usecase"
	"github.com/satriahrh/nova-ai/utils/log"
)

// Handler serves "/ws". Every connection gets its own session, which is
// dropped when the connection ends.
func (s *Server) Handler(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sessionID := usecase.NewSessionID()
	client := NewClient(conn, s.svc.Session(sessionID))
	s.hub.Register(client)
	log.WithCtx(client.Context()).Info("WebSocket session started")

	defer func() {
		s.hub.Unregister(client)
		s.svc.EndSession(sessionID)
		log.WithCtx(client.Context()).Info("WebSocket session ended")
	}()

	client.Run()

	// Wait for the client context to be done (connection closed)
	<-client.Context().Done()

	return nil
}
