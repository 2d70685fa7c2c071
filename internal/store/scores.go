package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/delmargolf/club/internal/leaderboard"
	"github.com/delmargolf/club/internal/models"
)

// ScoreEntry is one cell of the score-entry grid. A nil Score clears the hole.
type ScoreEntry struct {
	GroupPlayerID uuid.UUID `json:"group_player_id"`
	Hole          int       `json:"hole"`
	Score         *int      `json:"score"`
}

// clampScore limits a score to the range the entry form allows.
func clampScore(v int) int {
	return max(models.MinScore, min(models.MaxScore, v))
}

// SaveScores writes a batch of score cells for one game in a single transaction.
//
// Each cell is an upsert on (group player, hole): a new row starts at seq 1 and every
// overwrite bumps seq, so the latest write is always identifiable. Cells with a nil
// score delete the hole. Every group player must belong to the game; any bad cell
// rejects the whole batch.
func (s *Store) SaveScores(ctx context.Context, gameID uuid.UUID, entries []ScoreEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var memberIDs []uuid.UUID
		err := tx.Model(&models.GroupPlayer{}).
			Joins("JOIN game_groups ON game_groups.id = group_players.group_id").
			Where("game_groups.game_id = ?", gameID).
			Pluck("group_players.id", &memberIDs).Error
		if err != nil {
			return fmt.Errorf("load members of game %s: %w", gameID, err)
		}
		if len(memberIDs) == 0 {
			var count int64
			if err := tx.Model(&models.Game{}).Where("id = ?", gameID).Count(&count).Error; err != nil {
				return fmt.Errorf("check game %s: %w", gameID, err)
			}
			if count == 0 {
				return fmt.Errorf("game %s: %w", gameID, ErrNotFound)
			}
		}

		members := make(map[uuid.UUID]bool, len(memberIDs))
		for _, id := range memberIDs {
			members[id] = true
		}

		now := time.Now().UTC()
		for _, e := range entries {
			if !members[e.GroupPlayerID] {
				return fmt.Errorf("%w: player %s is not in this game", ErrInvalidInput, e.GroupPlayerID)
			}
			if !leaderboard.ValidHole(e.Hole) {
				return fmt.Errorf("%w: hole %d is not between %d and %d", ErrInvalidInput, e.Hole, leaderboard.FirstHole, leaderboard.LastHole)
			}

			if e.Score == nil {
				err := tx.Where("group_player_id = ? AND hole = ?", e.GroupPlayerID, e.Hole).
					Delete(&models.Score{}).Error
				if err != nil {
					return fmt.Errorf("clear hole %d: %w", e.Hole, err)
				}
				continue
			}

			score := models.Score{
				GroupPlayerID: e.GroupPlayerID,
				Hole:          e.Hole,
				Score:         clampScore(*e.Score),
				Seq:           1,
				UpdatedAt:     now,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "group_player_id"}, {Name: "hole"}},
				DoUpdates: clause.Assignments(map[string]any{
					"score":      score.Score,
					"seq":        gorm.Expr("scores.seq + 1"),
					"updated_at": now,
				}),
			}).Create(&score).Error
			if err != nil {
				return fmt.Errorf("save hole %d: %w", e.Hole, err)
			}
		}
		return nil
	})
}
