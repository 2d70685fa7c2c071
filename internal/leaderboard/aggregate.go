package leaderboard

import (
	"sort"
	"time"
)

// UnknownTeam is the bucket used for players that have no team label. They still
// get an individual leaderboard row; they just don't contribute to a named side.
const UnknownTeam = ""

// GameView is one game with everything the engine needs to score it.
// It is assembled by the store from the games, groups, memberships and scores tables.
type GameView struct {
	ID       string
	Name     string
	Date     time.Time // calendar date only; the time of day carries no meaning
	Pairings []Pairing
	Players  []PlayerEntry
}

// PlayerEntry is one player's participation in a game: who they are, which group
// (조) and side they play on, and every score record stored for them.
type PlayerEntry struct {
	ID     string
	Name   string
	Group  string // e.g. "1조"
	Team   string // side within the group, e.g. "A"
	Scores []HoleScore
}

// Pairing is the two sides of a group that face each other in the up/down game.
type Pairing struct {
	Group string `json:"group"`
	A     string `json:"a"`
	B     string `json:"b"`
}

// Has reports whether team is one of the pairing's two sides.
func (p Pairing) Has(team string) bool {
	return team != UnknownTeam && (team == p.A || team == p.B)
}

// Opponent returns the side facing team, and false if team isn't in this pairing.
func (p Pairing) Opponent(team string) (string, bool) {
	switch {
	case team == UnknownTeam:
		return "", false
	case team == p.A:
		return p.B, true
	case team == p.B:
		return p.A, true
	}
	return "", false
}

// PlayerResult is the derived per-player row for one game.
type PlayerResult struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Group          string             `json:"group"`
	Team           string             `json:"team"`
	Total          int                `json:"total"`
	HolesCompleted int                `json:"holes_completed"`
	CategoryCounts map[Category]int   `json:"category_counts"`
	CategoryHoles  map[Category][]int `json:"category_holes"`
}

// Complete reports whether the player has a score on all 18 holes.
// Only complete rounds count toward averages.
func (p PlayerResult) Complete() bool {
	return p.HolesCompleted == HoleCount
}

// TeamResult is the combined score of one side within one group.
type TeamResult struct {
	Team        string   `json:"team"`
	Group       string   `json:"group"`
	MemberNames []string `json:"member_names"`
	Total       int      `json:"total"`
}

// GameResult is the output of AggregateGame.
type GameResult struct {
	Players []PlayerResult `json:"players"`
	Teams   []TeamResult   `json:"teams"`
}

// ScorePlayer derives a single player's result from their raw score records.
func ScorePlayer(entry PlayerEntry) PlayerResult {
	holes := Normalize(entry.Scores)

	res := PlayerResult{
		ID:             entry.ID,
		Name:           entry.Name,
		Group:          entry.Group,
		Team:           entry.Team,
		HolesCompleted: len(holes),
		CategoryCounts: make(map[Category]int, len(Categories)),
		CategoryHoles:  make(map[Category][]int, len(Categories)),
	}
	for _, c := range Categories {
		res.CategoryCounts[c] = 0
		res.CategoryHoles[c] = []int{}
	}

	// Walk holes in order so CategoryHoles comes out ascending.
	for hole := FirstHole; hole <= LastHole; hole++ {
		score, ok := holes[hole]
		if !ok {
			continue
		}
		res.Total += score
		c := Classify(score)
		res.CategoryCounts[c]++
		res.CategoryHoles[c] = append(res.CategoryHoles[c], hole)
	}

	return res
}

type teamKey struct {
	group string
	team  string
}

// AggregateGame computes every player's result and every team's total for a game.
// Players keep the order they have in the view. Teams are ordered by group and then
// by team label, with the unknown-team bucket last in its group.
func AggregateGame(game GameView) GameResult {
	players := make([]PlayerResult, 0, len(game.Players))
	teams := make(map[teamKey]*TeamResult)

	for _, entry := range game.Players {
		p := ScorePlayer(entry)
		players = append(players, p)

		key := teamKey{group: p.Group, team: p.Team}
		t, ok := teams[key]
		if !ok {
			t = &TeamResult{Team: p.Team, Group: p.Group, MemberNames: []string{}}
			teams[key] = t
		}
		t.MemberNames = append(t.MemberNames, p.Name)
		t.Total += p.Total
	}

	out := make([]TeamResult, 0, len(teams))
	for _, t := range teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		// unknown sorts after every named side
		if (out[i].Team == UnknownTeam) != (out[j].Team == UnknownTeam) {
			return out[j].Team == UnknownTeam
		}
		return out[i].Team < out[j].Team
	})

	return GameResult{Players: players, Teams: out}
}

// RankedPlayer is a PlayerResult with its 1-based leaderboard position.
type RankedPlayer struct {
	Rank int `json:"rank"`
	PlayerResult
}

// Rank orders players best-first: lowest total wins, and players on the same total
// keep their input order. The input slice is not modified.
func Rank(players []PlayerResult) []RankedPlayer {
	sorted := make([]PlayerResult, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total < sorted[j].Total
	})

	out := make([]RankedPlayer, len(sorted))
	for i, p := range sorted {
		out[i] = RankedPlayer{Rank: i + 1, PlayerResult: p}
	}
	return out
}

// CategoryEntry is one player's line in the category summary.
type CategoryEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Holes []int  `json:"holes"`
}

// CategoryGroup lists every player that made at least one hole in Category.
type CategoryGroup struct {
	Category Category        `json:"category"`
	Players  []CategoryEntry `json:"players"`
}

// CategorySummary builds the eagles/birdies/pars board: for each category that anyone
// hit, the players who hit it, most first. Players with equal counts keep input order.
func CategorySummary(result GameResult) []CategoryGroup {
	out := make([]CategoryGroup, 0, len(Categories))
	for _, c := range Categories {
		var entries []CategoryEntry
		for _, p := range result.Players {
			if n := p.CategoryCounts[c]; n > 0 {
				entries = append(entries, CategoryEntry{Name: p.Name, Count: n, Holes: p.CategoryHoles[c]})
			}
		}
		if len(entries) == 0 {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Count > entries[j].Count
		})
		out = append(out, CategoryGroup{Category: c, Players: entries})
	}
	return out
}
