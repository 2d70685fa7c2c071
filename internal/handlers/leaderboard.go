package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/delmargolf/club/internal/leaderboard"
	"github.com/delmargolf/club/internal/metrics"
	"github.com/delmargolf/club/internal/store"
)

// LiveMessage is the envelope pushed to live viewers.
type LiveMessage struct {
	Type string            `json:"type"` // always "leaderboard" for now
	Data leaderboard.Board `json:"data"`
}

// buildBoard loads a game and runs the leaderboard engine over it.
func buildBoard(ctx context.Context, st *store.Store, m *metrics.Metrics, id uuid.UUID) (leaderboard.Board, error) {
	start := time.Now()
	view, err := st.LoadGameView(ctx, id)
	if err != nil {
		return leaderboard.Board{}, err
	}
	board := leaderboard.Build(view)

	m.LeaderboardBuilds.Inc()
	m.BuildDuration.Observe(time.Since(start).Seconds())
	return board, nil
}

// liveMessage encodes board for the websocket hub.
func liveMessage(board leaderboard.Board) ([]byte, error) {
	return json.Marshal(LiveMessage{Type: "leaderboard", Data: board})
}

// GetLeaderboard returns a handler for GET /api/v1/games/:id/leaderboard: ranked
// players, team totals with up/down points, the up/down table and the category summary.
func GetLeaderboard(st *store.Store, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		board, err := buildBoard(c.UserContext(), st, m, id)
		if err != nil {
			return storeError(err, "build leaderboard")
		}
		return c.JSON(board)
	}
}
