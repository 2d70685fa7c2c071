// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go values.
// The struct field tags (the backtick strings like `gorm:"..."`) tell GORM how to handle
// each field: its column type, constraints, default values, and relationships.
//
// The data model represents a club golf day where:
//   - A Game is one day of golf (name + date)
//   - A Game is split into Groups (조) — the foursomes that play together
//   - Each Group is split into two sides that play the up/down game against each other
//   - Players are club members; GroupPlayer places a Player on a side of a Group
//   - Scores are recorded per GroupPlayer per hole, relative to par
//
// Players are shared across games and matched by name, which is what lets the
// statistics page average a member's results over the whole season.
package models

import (
	"time"

	// uuid provides universally unique identifiers for primary keys.
	// Using UUIDs instead of auto-incrementing integers makes IDs safe to generate
	// client-side and avoids leaking record counts to end users.
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Score bounds accepted from the score-entry form, relative to par.
const (
	MinScore = -4
	MaxScore = 12
)

// MaxPhotosPerGame is how many photos a single game can hold in the gallery.
const MaxPhotosPerGame = 2

// --- Models ---
// Each struct below maps to a database table. GORM uses the struct name (snake_cased and
// pluralized) as the table name by default: Game -> games, GroupPlayer -> group_players, etc.
//
// Primary keys are generated in BeforeCreate hooks rather than by a database default,
// so the same models work against PostgreSQL in production and SQLite in tests.

// Game is one club golf day.
type Game struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name      string      `gorm:"not null"`
	Date      time.Time   `gorm:"type:date;not null;index"` // Calendar date; the time of day is always midnight UTC
	CreatedAt time.Time
	UpdatedAt time.Time
	Groups    []Group     `gorm:"foreignKey:GameID"` // The foursomes playing this game, ordered by Number
	Photos    []GamePhoto `gorm:"foreignKey:GameID"`
}

func (g *Game) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Group is one foursome (조) within a game.
// SideA and SideB name the two sides of the group that face each other in the
// up/down game. Storing them explicitly means nothing ever has to guess the pairing
// from a label like "1조" or assume that "A" always plays "B".
type Group struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey"`
	GameID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_game_group_number"`
	Number    int           `gorm:"not null;uniqueIndex:idx_game_group_number"` // 1 for the first group, 2 for the second...
	Name      string        `gorm:"not null"`                                   // Display label, e.g. "1조"
	SideA     string        `gorm:"not null"`
	SideB     string        `gorm:"not null"`
	CreatedAt time.Time
	Members   []GroupPlayer `gorm:"foreignKey:GroupID"`
}

// TableName keeps the table clear of the GROUPS keyword.
func (Group) TableName() string { return "game_groups" }

func (g *Group) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Player is a club member. Names are unique: creating a game with a name that
// already exists reuses that player.
type Player struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (p *Player) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// GroupPlayer places a Player on one side of a Group for one game.
// Team is the side label (SideA or SideB of the group); it may be empty for a player
// who was added without a side, in which case they only appear on the individual board.
type GroupPlayer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_player"`
	Group     Group     `gorm:"foreignKey:GroupID"`
	PlayerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_player"`
	Player    Player    `gorm:"foreignKey:PlayerID"`
	Team      string    `gorm:"not null;default:''"`
	Position  int       `gorm:"not null;default:0"` // Order within the group, as entered on the new-game form
	CreatedAt time.Time
	Scores    []Score `gorm:"foreignKey:GroupPlayerID"`
}

func (gp *GroupPlayer) BeforeCreate(*gorm.DB) error {
	if gp.ID == uuid.Nil {
		gp.ID = uuid.New()
	}
	return nil
}

// Score records one player's result on one hole, relative to par.
//
// Seq is bumped on every write of the row. The leaderboard uses it to decide which
// record is authoritative if duplicates ever reach it, instead of relying on the
// order rows happen to come back from the database.
type Score struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey"`
	GroupPlayerID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_member_hole"` // Composite unique: one score per player per hole
	GroupPlayer   GroupPlayer `gorm:"foreignKey:GroupPlayerID"`
	Hole          int         `gorm:"not null;uniqueIndex:idx_member_hole"` // 1–18
	Score         int         `gorm:"not null"`
	Seq           int64       `gorm:"not null;default:1"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime"`
}

func (s *Score) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// GamePhoto is one picture in a game's gallery. The image itself lives in object
// storage; ObjectKey is its key there and URL is where browsers fetch it from.
type GamePhoto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	GameID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ObjectKey string    `gorm:"not null"`
	URL       string    `gorm:"not null"`
	CreatedAt time.Time
}

func (p *GamePhoto) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AllModels lists every model, in dependency order, for AutoMigrate in tests.
func AllModels() []any {
	return []any{&Game{}, &Group{}, &Player{}, &GroupPlayer{}, &Score{}, &GamePhoto{}}
}
