package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/delmargolf/club/internal/metrics"
	"github.com/delmargolf/club/internal/store"
	"github.com/delmargolf/club/internal/websocket"
)

// SaveScoresRequest is the JSON body of PUT /api/v1/games/:id/scores: the cells
// changed in the score-entry grid. A null score clears that hole.
type SaveScoresRequest struct {
	Scores []store.ScoreEntry `json:"scores"`
}

// SaveScores returns a handler for PUT /api/v1/games/:id/scores. The whole batch is
// saved or rejected together; afterwards the fresh leaderboard is returned and pushed
// to everyone watching the game live.
func SaveScores(st *store.Store, hub *websocket.Hub, m *metrics.Metrics, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req SaveScoresRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if err := st.SaveScores(c.UserContext(), id, req.Scores); err != nil {
			return storeError(err, "save scores")
		}
		m.ScoreWrites.Add(float64(len(req.Scores)))

		board, err := buildBoard(c.UserContext(), st, m, id)
		if err != nil {
			return storeError(err, "build leaderboard")
		}

		if hub != nil {
			msg, err := liveMessage(board)
			if err != nil {
				log.Error().Err(err).Str("game_id", id.String()).Msg("encode live update")
			} else {
				hub.BroadcastToGame(id.String(), msg)
			}
		}

		log.Debug().Str("game_id", id.String()).Int("cells", len(req.Scores)).Msg("scores saved")
		return c.JSON(board)
	}
}
