package leaderboard

// HoleResult is the up/down outcome of one hole between sides A and B.
// Each side can earn at most two points: one for the lower low-ball and one for
// the lower high-ball.
type HoleResult struct {
	APoints int `json:"a_points"`
	BPoints int `json:"b_points"`
}

// CompareHole scores one hole of the up/down game.
//
// Nil entries are players who haven't recorded that hole yet and are ignored. If
// either side has nothing left there is nothing to compare and nobody scores.
// Otherwise the side with the strictly lower minimum gets a point, and the side with
// the strictly lower maximum gets a point; ties give neither side the point.
func CompareHole(a, b []*int) HoleResult {
	minA, maxA, okA := bounds(a)
	minB, maxB, okB := bounds(b)
	if !okA || !okB {
		return HoleResult{}
	}

	var r HoleResult
	switch {
	case minA < minB:
		r.APoints++
	case minB < minA:
		r.BPoints++
	}
	switch {
	case maxA < maxB:
		r.APoints++
	case maxB < maxA:
		r.BPoints++
	}
	return r
}

// bounds returns the min and max of the present values, and false if there are none.
func bounds(scores []*int) (lo, hi int, ok bool) {
	for _, s := range scores {
		if s == nil {
			continue
		}
		if !ok {
			lo, hi, ok = *s, *s, true
			continue
		}
		lo = min(lo, *s)
		hi = max(hi, *s)
	}
	return lo, hi, ok
}

// PairingResult is the up/down total of a pairing over a range of holes.
type PairingResult struct {
	Pairing Pairing `json:"pairing"`
	ATotal  int     `json:"a_total"`
	BTotal  int     `json:"b_total"`
}

// CompareGame plays the up/down game for one pairing over holes from..to inclusive
// (clamped to 1–18). Every member of a side contributes their score on a hole to
// that side's min/max for the hole.
func CompareGame(game GameView, pairing Pairing, from, to int) PairingResult {
	from = max(from, FirstHole)
	to = min(to, LastHole)

	var sideA, sideB []map[int]int
	for _, entry := range game.Players {
		if entry.Group != pairing.Group || !pairing.Has(entry.Team) {
			continue
		}
		holes := Normalize(entry.Scores)
		if entry.Team == pairing.A {
			sideA = append(sideA, holes)
		} else {
			sideB = append(sideB, holes)
		}
	}

	res := PairingResult{Pairing: pairing}
	for hole := from; hole <= to; hole++ {
		r := CompareHole(holeScores(sideA, hole), holeScores(sideB, hole))
		res.ATotal += r.APoints
		res.BTotal += r.BPoints
	}
	return res
}

func holeScores(side []map[int]int, hole int) []*int {
	out := make([]*int, len(side))
	for i, holes := range side {
		if s, ok := holes[hole]; ok {
			out[i] = &s
		}
	}
	return out
}

// CompareAll plays the full 18-hole up/down game for every pairing of the game,
// in the order the pairings are listed.
func CompareAll(game GameView) []PairingResult {
	out := make([]PairingResult, 0, len(game.Pairings))
	for _, p := range game.Pairings {
		out = append(out, CompareGame(game, p, FirstHole, LastHole))
	}
	return out
}
