package leaderboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// GameTotal is a player's total in one game that counted toward their average.
type GameTotal struct {
	GameID   string    `json:"game_id"`
	GameName string    `json:"game_name"`
	Date     time.Time `json:"date"`
	Total    int       `json:"total"`
}

// PlayerAverage is a player's record across many games.
//
// Only games where the player finished all 18 holes are counted; a 17-hole game
// doesn't contribute at all, not even partially. When no game qualifies, Available
// is false and Average is meaningless — callers should show "N/A", not zero.
type PlayerAverage struct {
	Name      string
	Average   decimal.Decimal
	Available bool
	Games     []GameTotal
}

// PlayerAverages computes every player's average across the given games. Players
// are matched by name, because the same person appears under a fresh membership in
// each game. Players are returned in order of first appearance; each player's Games
// follow the order of the views passed in.
func PlayerAverages(games []GameView) []PlayerAverage {
	var order []string
	byName := make(map[string]*PlayerAverage)

	for _, g := range games {
		for _, entry := range g.Players {
			pa, ok := byName[entry.Name]
			if !ok {
				pa = &PlayerAverage{Name: entry.Name, Games: []GameTotal{}}
				byName[entry.Name] = pa
				order = append(order, entry.Name)
			}

			res := ScorePlayer(entry)
			if !res.Complete() {
				continue
			}
			pa.Games = append(pa.Games, GameTotal{
				GameID:   g.ID,
				GameName: g.Name,
				Date:     g.Date,
				Total:    res.Total,
			})
		}
	}

	out := make([]PlayerAverage, 0, len(order))
	for _, name := range order {
		pa := byName[name]
		if len(pa.Games) > 0 {
			sum := 0
			for _, gt := range pa.Games {
				sum += gt.Total
			}
			pa.Average = RoundedMean(sum, len(pa.Games))
			pa.Available = true
		}
		out = append(out, *pa)
	}
	return out
}

// RoundedMean returns sum/n rounded to one decimal place, with halves rounded up
// (toward positive infinity): -2.25 becomes -2.2 and 2.25 becomes 2.3.
// n must be positive.
func RoundedMean(sum, n int) decimal.Decimal {
	// floor(10*sum/n + 1/2) == floor((20*sum + n) / 2n)
	num := decimal.NewFromInt(int64(20*sum + n))
	den := decimal.NewFromInt(int64(2 * n))
	tenths := num.Div(den).Floor()
	return tenths.Shift(-1)
}
