package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

// upgradeWebSocket checks the game exists and the request is a WebSocket
// upgrade before handing over to streamGame.
func (s *Server) upgradeWebSocket(c *fiber.Ctx) error {
	if _, err := s.games.Get(c.Params("id")); err != nil {
		return err
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// streamGame pushes the search events of a game to the connection until
// either side closes.
func (s *Server) streamGame(c *websocket.Conn) {
	id := c.Params("id")
	events, cancel, err := s.games.Subscribe(id)
	if err != nil {
		c.WriteJSON(fiber.Map{"error": err.Error()})
		c.Close()
		return
	}
	defer cancel()

	// Reads only detect the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				c.Close()
				return
			}
			if err := c.WriteJSON(ev); err != nil {
				log.Debug().Err(err).Str("game", id).Msg("websocket-write-failed")
				return
			}
		case <-gone:
			return
		}
	}
}
