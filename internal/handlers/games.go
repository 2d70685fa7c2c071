package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/delmargolf/club/internal/leaderboard"
	"github.com/delmargolf/club/internal/models"
	"github.com/delmargolf/club/internal/photos"
	"github.com/delmargolf/club/internal/store"
)

// GameResponse is what we send back for a game.
// We use a dedicated response struct (instead of the raw GORM model) so we control
// exactly which fields are serialised to JSON.
type GameResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Date   string          `json:"date"` // "YYYY-MM-DD"
	Groups []GroupResponse `json:"groups,omitempty"`
}

// GroupResponse is one foursome with the two sides it plays as.
type GroupResponse struct {
	ID      string           `json:"id"`
	Number  int              `json:"number"`
	Name    string           `json:"name"`
	SideA   string           `json:"side_a"`
	SideB   string           `json:"side_b"`
	Members []MemberResponse `json:"members"`
}

// MemberResponse is a player's place in a group. ID is what the score-entry grid
// sends back in ScoreEntry.GroupPlayerID.
type MemberResponse struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
}

// CreateGameRequest is the JSON body we expect on POST /api/v1/games.
type CreateGameRequest struct {
	Name   string             `json:"name"`
	Date   string             `json:"date"` // "YYYY-MM-DD"
	Groups []store.GroupInput `json:"groups"`
}

// UpdateGameRequest is the JSON body of PATCH /api/v1/games/:id. Omitted fields
// keep their current value.
type UpdateGameRequest struct {
	Name *string `json:"name"`
	Date *string `json:"date"`
}

// parseDate parses a "YYYY-MM-DD" date from a request body.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(leaderboard.DateLayout, s)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "date must be in YYYY-MM-DD format")
	}
	return t, nil
}

func gameResponse(g *models.Game) GameResponse {
	resp := GameResponse{
		ID:   g.ID.String(),
		Name: g.Name,
		Date: g.Date.UTC().Format(leaderboard.DateLayout),
	}
	for _, grp := range g.Groups {
		gr := GroupResponse{
			ID:      grp.ID.String(),
			Number:  grp.Number,
			Name:    grp.Name,
			SideA:   grp.SideA,
			SideB:   grp.SideB,
			Members: make([]MemberResponse, 0, len(grp.Members)),
		}
		for _, m := range grp.Members {
			gr.Members = append(gr.Members, MemberResponse{
				ID:       m.ID.String(),
				PlayerID: m.PlayerID.String(),
				Name:     m.Player.Name,
				Team:     m.Team,
			})
		}
		resp.Groups = append(resp.Groups, gr)
	}
	return resp
}

// ListGames returns a handler for GET /api/v1/games: every game, newest first,
// without rosters.
func ListGames(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		games, err := st.ListGames(c.UserContext())
		if err != nil {
			return storeError(err, "list games")
		}

		response := make([]GameResponse, 0, len(games))
		for i := range games {
			response = append(response, gameResponse(&games[i]))
		}
		return c.JSON(response)
	}
}

// GetGame returns a handler for GET /api/v1/games/:id: the game with its groups and
// members, which the score-entry page needs to lay out its grid.
func GetGame(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		game, err := st.GetGame(c.UserContext(), id)
		if err != nil {
			return storeError(err, "get game")
		}
		return c.JSON(gameResponse(game))
	}
}

// CreateGame returns a handler for POST /api/v1/games (admin only).
func CreateGame(st *store.Store, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateGameRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		date, err := parseDate(req.Date)
		if err != nil {
			return err
		}

		game, err := st.CreateGame(c.UserContext(), store.CreateGameInput{
			Name:   req.Name,
			Date:   date,
			Groups: req.Groups,
		})
		if err != nil {
			return storeError(err, "create game")
		}

		log.Info().Str("game_id", game.ID.String()).Str("name", game.Name).Int("groups", len(game.Groups)).Msg("game created")
		return c.Status(fiber.StatusCreated).JSON(gameResponse(game))
	}
}

// UpdateGame returns a handler for PATCH /api/v1/games/:id (admin only).
func UpdateGame(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req UpdateGameRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		current, err := st.GetGame(c.UserContext(), id)
		if err != nil {
			return storeError(err, "get game")
		}
		name, date := current.Name, current.Date
		if req.Name != nil {
			name = *req.Name
		}
		if req.Date != nil {
			if date, err = parseDate(*req.Date); err != nil {
				return err
			}
		}

		game, err := st.UpdateGame(c.UserContext(), id, name, date)
		if err != nil {
			return storeError(err, "update game")
		}
		return c.JSON(gameResponse(game))
	}
}

// DeleteGame returns a handler for DELETE /api/v1/games/:id (admin only). The game's
// photos are removed from object storage after the database rows are gone; a failed
// object delete is logged, not reported, since the game itself is already deleted.
func DeleteGame(st *store.Store, ph photos.Store, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}

		keys, err := st.DeleteGame(c.UserContext(), id)
		if err != nil {
			return storeError(err, "delete game")
		}

		if ph != nil {
			for _, key := range keys {
				if err := ph.Delete(c.UserContext(), key); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("orphaned photo object")
				}
			}
		}

		log.Info().Str("game_id", id.String()).Int("photos", len(keys)).Msg("game deleted")
		return c.SendStatus(fiber.StatusNoContent)
	}
}
