package handlers

import (
	"bytes"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/delmargolf/club/internal/export"
	"github.com/delmargolf/club/internal/leaderboard"
	"github.com/delmargolf/club/internal/store"
)

// notAvailable is shown instead of an average for players with no complete round.
const notAvailable = "N/A"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PlayerStatResponse is one row of the statistics page.
type PlayerStatResponse struct {
	Name    string                  `json:"name"`
	Average *string                 `json:"average"` // One decimal place; null when no game counted
	Display string                  `json:"display"` // Average, or "N/A"
	Games   []leaderboard.GameTotal `json:"games"`
}

// GetStats returns a handler for GET /api/v1/stats: every player's average over all
// games where they finished 18 holes.
func GetStats(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := st.LoadAllGameViews(c.UserContext())
		if err != nil {
			return storeError(err, "load games")
		}

		stats := leaderboard.PlayerAverages(views)
		response := make([]PlayerStatResponse, 0, len(stats))
		for _, p := range stats {
			row := PlayerStatResponse{Name: p.Name, Display: notAvailable, Games: p.Games}
			if row.Games == nil {
				row.Games = []leaderboard.GameTotal{}
			}
			if p.Available {
				avg := p.Average.StringFixed(1)
				row.Average = &avg
				row.Display = avg
			}
			response = append(response, row)
		}
		return c.JSON(response)
	}
}

// ExportStats returns a handler for GET /api/v1/stats/export: the statistics table as
// an Excel download.
func ExportStats(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := st.LoadAllGameViews(c.UserContext())
		if err != nil {
			return storeError(err, "load games")
		}

		var buf bytes.Buffer
		if err := export.WriteStats(&buf, leaderboard.PlayerAverages(views), export.GameColumns(views)); err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, "attachment; filename*=UTF-8''"+url.PathEscape(export.Filename))
		return c.Send(buf.Bytes())
	}
}
