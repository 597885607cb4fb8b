package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const wsPingInterval = 30 * time.Second

// GenerationProgressWS streams pipeline progress events to admin
// clients over a WebSocket. Authentication happens in AuthRequired
// before the upgrade; browser clients pass the token as ?token=.
func (s *Server) GenerationProgressWS() fiber.Handler {
	handler := websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		events := s.progressHub.Subscribe()
		defer s.progressHub.Unsubscribe(events)

		ping := time.NewTicker(wsPingInterval)
		defer ping.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case <-ping.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return handler(c)
	}
}
