package leaderboard

import "time"

// TeamRow is a TeamResult together with the up/down points that side earned
// against its opponent in the group.
type TeamRow struct {
	TeamResult
	Opponent string `json:"opponent"`
	UpDown   int    `json:"up_down"`
}

// Board is everything the leaderboard page shows for one game.
type Board struct {
	GameID  string          `json:"game_id"`
	Name    string          `json:"name"`
	Date    string          `json:"date"`
	Players []RankedPlayer  `json:"players"`
	Teams   []TeamRow       `json:"teams"`
	UpDown  []PairingResult `json:"up_down"`
	Summary []CategoryGroup `json:"summary"`
}

// DateLayout is how game dates are rendered and parsed everywhere in the app.
const DateLayout = time.DateOnly

// Build runs the whole engine for one game.
func Build(game GameView) Board {
	result := AggregateGame(game)
	updown := CompareAll(game)

	points := make(map[teamKey]int, 2*len(updown))
	opponents := make(map[teamKey]string, 2*len(updown))
	for _, pr := range updown {
		a := teamKey{group: pr.Pairing.Group, team: pr.Pairing.A}
		b := teamKey{group: pr.Pairing.Group, team: pr.Pairing.B}
		points[a] += pr.ATotal
		points[b] += pr.BTotal
		opponents[a] = pr.Pairing.B
		opponents[b] = pr.Pairing.A
	}

	teams := make([]TeamRow, 0, len(result.Teams))
	for _, t := range result.Teams {
		key := teamKey{group: t.Group, team: t.Team}
		teams = append(teams, TeamRow{
			TeamResult: t,
			Opponent:   opponents[key],
			UpDown:     points[key],
		})
	}

	return Board{
		GameID:  game.ID,
		Name:    game.Name,
		Date:    game.Date.Format(DateLayout),
		Players: Rank(result.Players),
		Teams:   teams,
		UpDown:  updown,
		Summary: CategorySummary(result),
	}
}
