package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/delmargolf/club/internal/leaderboard"
	"github.com/delmargolf/club/internal/models"
)

// GameView converts a fully-loaded game into the snapshot the leaderboard engine reads.
// Each group becomes one pairing of its two sides.
func GameView(game *models.Game) leaderboard.GameView {
	view := leaderboard.GameView{
		ID:       game.ID.String(),
		Name:     game.Name,
		Date:     civilDate(game.Date),
		Pairings: make([]leaderboard.Pairing, 0, len(game.Groups)),
	}

	for _, g := range game.Groups {
		view.Pairings = append(view.Pairings, leaderboard.Pairing{Group: g.Name, A: g.SideA, B: g.SideB})

		for _, m := range g.Members {
			entry := leaderboard.PlayerEntry{
				ID:     m.ID.String(),
				Name:   m.Player.Name,
				Group:  g.Name,
				Team:   m.Team,
				Scores: make([]leaderboard.HoleScore, 0, len(m.Scores)),
			}
			for _, sc := range m.Scores {
				entry.Scores = append(entry.Scores, leaderboard.HoleScore{Hole: sc.Hole, Score: sc.Score, Seq: sc.Seq})
			}
			view.Players = append(view.Players, entry)
		}
	}

	return view
}

// LoadGameView loads one game and converts it for the leaderboard engine.
func (s *Store) LoadGameView(ctx context.Context, id uuid.UUID) (leaderboard.GameView, error) {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		return leaderboard.GameView{}, err
	}
	return GameView(game), nil
}

// LoadAllGameViews loads every game, newest first, for the statistics page.
func (s *Store) LoadAllGameViews(ctx context.Context) ([]leaderboard.GameView, error) {
	var games []models.Game
	err := preloadRoster(s.db.WithContext(ctx)).
		Order("date DESC").
		Order("created_at DESC").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}

	views := make([]leaderboard.GameView, 0, len(games))
	for i := range games {
		views = append(views, GameView(&games[i]))
	}
	return views, nil
}
