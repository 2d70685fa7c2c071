package handlers

import (
	"context"

	ws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/delmargolf/club/internal/metrics"
	"github.com/delmargolf/club/internal/store"
	"github.com/delmargolf/club/internal/websocket"
)

// RequireUpgrade rejects plain HTTP requests on websocket routes with 426.
func RequireUpgrade(c *fiber.Ctx) error {
	if ws.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LiveLeaderboard handles GET /ws/games/:id. The current board is sent as soon as the
// connection opens; after that every score save for the game pushes a new one.
// Messages from the client are read and discarded; they only keep the connection
// alive and tell us when it closes.
func LiveLeaderboard(st *store.Store, hub *websocket.Hub, m *metrics.Metrics, log zerolog.Logger) fiber.Handler {
	return ws.New(func(conn *ws.Conn) {
		id, err := uuid.Parse(conn.Params("id"))
		if err != nil {
			_ = conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseUnsupportedData, "invalid id"))
			return
		}
		clog := log.With().Str("game_id", id.String()).Logger()

		board, err := buildBoard(context.Background(), st, m, id)
		if err != nil {
			clog.Debug().Err(err).Msg("live: no board")
			_ = conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.ClosePolicyViolation, "game not found"))
			return
		}
		msg, err := liveMessage(board)
		if err != nil {
			clog.Error().Err(err).Msg("live: encode board")
			return
		}
		if err := conn.WriteMessage(ws.TextMessage, msg); err != nil {
			return
		}

		client := websocket.NewClient(id.String())
		hub.Register(client)
		m.LiveViewers.Inc()
		defer m.LiveViewers.Dec()

		// Writer: drain the hub's messages until it closes Send (unregistered or
		// dropped as too slow), then close the connection so the reader stops too.
		done := make(chan struct{})
		go func() {
			defer close(done)
			defer conn.Close()
			for data := range client.Send {
				if err := conn.WriteMessage(ws.TextMessage, data); err != nil {
					return
				}
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-done
		clog.Debug().Msg("live: viewer left")
	})
}
