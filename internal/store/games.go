package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/delmargolf/club/internal/models"
)

// Limits on the new-game form.
const (
	MinGroupSize = 2
	MaxGroupSize = 4
)

// PlayerInput is one name on the new-game form. Team is optional; when empty the
// player is placed on a side automatically (first half of the group on side A).
type PlayerInput struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

// GroupInput is one foursome on the new-game form.
type GroupInput struct {
	Players []PlayerInput `json:"players"`
}

// CreateGameInput is everything needed to create a game.
type CreateGameInput struct {
	Name   string
	Date   time.Time
	Groups []GroupInput
}

// SideLabels returns the two side labels for the n-th group (1-based): A/B for the
// first group, C/D for the second, and so on. Groups past the alphabet fall back to
// numbered labels.
func SideLabels(n int) (string, string) {
	first := 'A' + rune(2*(n-1))
	if n < 1 || first+1 > 'Z' {
		return fmt.Sprintf("%dA", n), fmt.Sprintf("%dB", n)
	}
	return string(first), string(first + 1)
}

// GroupName is the display label of the n-th group, e.g. "1조".
func GroupName(n int) string {
	return fmt.Sprintf("%d조", n)
}

// civilDate drops the time of day so a game date always compares as a plain date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (in CreateGameInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if len(in.Groups) == 0 {
		return fmt.Errorf("%w: at least one group is required", ErrInvalidInput)
	}

	seen := make(map[string]bool)
	for i, g := range in.Groups {
		if len(g.Players) < MinGroupSize || len(g.Players) > MaxGroupSize {
			return fmt.Errorf("%w: group %d must have %d to %d players", ErrInvalidInput, i+1, MinGroupSize, MaxGroupSize)
		}
		a, b := SideLabels(i + 1)
		for j, p := range g.Players {
			name := strings.TrimSpace(p.Name)
			if name == "" {
				return fmt.Errorf("%w: group %d player %d name is required", ErrInvalidInput, i+1, j+1)
			}
			if seen[name] {
				return fmt.Errorf("%w: %s is entered more than once", ErrInvalidInput, name)
			}
			seen[name] = true
			if p.Team != "" && p.Team != a && p.Team != b {
				return fmt.Errorf("%w: group %d plays sides %s and %s, not %s", ErrInvalidInput, i+1, a, b, p.Team)
			}
		}
	}
	return nil
}

// CreateGame creates a game with its groups and memberships in one transaction.
// Players are looked up by name and created if they don't exist yet.
func (s *Store) CreateGame(ctx context.Context, in CreateGameInput) (*models.Game, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	game := models.Game{
		Name: strings.TrimSpace(in.Name),
		Date: civilDate(in.Date),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return fmt.Errorf("create game: %w", err)
		}

		for i, gi := range in.Groups {
			sideA, sideB := SideLabels(i + 1)
			group := models.Group{
				GameID: game.ID,
				Number: i + 1,
				Name:   GroupName(i + 1),
				SideA:  sideA,
				SideB:  sideB,
			}
			if err := tx.Create(&group).Error; err != nil {
				return fmt.Errorf("create group %d: %w", i+1, err)
			}

			half := (len(gi.Players) + 1) / 2
			for j, pi := range gi.Players {
				var player models.Player
				name := strings.TrimSpace(pi.Name)
				if err := tx.Where(models.Player{Name: name}).FirstOrCreate(&player).Error; err != nil {
					return fmt.Errorf("find or create player %q: %w", name, err)
				}

				team := pi.Team
				if team == "" {
					team = sideA
					if j >= half {
						team = sideB
					}
				}

				member := models.GroupPlayer{
					GroupID:  group.ID,
					PlayerID: player.ID,
					Team:     team,
					Position: j,
				}
				if err := tx.Create(&member).Error; err != nil {
					return fmt.Errorf("add %q to group %d: %w", name, i+1, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetGame(ctx, game.ID)
}

// ListGames returns every game, newest first.
func (s *Store) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).
		Order("date DESC").
		Order("created_at DESC").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// preloadRoster loads groups, members, players and scores in display order.
func preloadRoster(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Groups", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Preload("Groups.Members", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Groups.Members.Player").
		Preload("Groups.Members.Scores", func(db *gorm.DB) *gorm.DB { return db.Order("hole ASC") })
}

// GetGame returns one game with its full roster and scores.
func (s *Store) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var game models.Game
	err := preloadRoster(s.db.WithContext(ctx)).First(&game, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", id, notFound(err))
	}
	return &game, nil
}

// UpdateGame changes a game's name and date.
func (s *Store) UpdateGame(ctx context.Context, id uuid.UUID, name string, date time.Time) (*models.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	res := s.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "date": civilDate(date)})
	if res.Error != nil {
		return nil, fmt.Errorf("update game %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update game %s: %w", id, ErrNotFound)
	}
	return s.GetGame(ctx, id)
}

// DeleteGame removes a game and everything hanging off it — scores, memberships,
// groups and photo records — in one transaction. It returns the object keys of the
// deleted photos so the caller can remove the images from object storage.
func (s *Store) DeleteGame(ctx context.Context, id uuid.UUID) ([]string, error) {
	var keys []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.Select("id").First(&game, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		groupIDs := tx.Model(&models.Group{}).Select("id").Where("game_id = ?", id)
		memberIDs := tx.Model(&models.GroupPlayer{}).Select("id").Where("group_id IN (?)", groupIDs)

		if err := tx.Where("group_player_id IN (?)", memberIDs).Delete(&models.Score{}).Error; err != nil {
			return fmt.Errorf("delete scores: %w", err)
		}
		if err := tx.Where("group_id IN (?)", groupIDs).Delete(&models.GroupPlayer{}).Error; err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.Group{}).Error; err != nil {
			return fmt.Errorf("delete groups: %w", err)
		}

		if err := tx.Model(&models.GamePhoto{}).Where("game_id = ?", id).Pluck("object_key", &keys).Error; err != nil {
			return fmt.Errorf("list photos: %w", err)
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.GamePhoto{}).Error; err != nil {
			return fmt.Errorf("delete photos: %w", err)
		}

		if err := tx.Delete(&models.Game{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete game: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete game %s: %w", id, err)
	}
	return keys, nil
}
