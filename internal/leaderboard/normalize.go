// Package leaderboard turns raw per-hole score records into the derived views shown
// by the club app: ranked player rows, team totals, scoring-category summaries,
// per-player averages across games and the up/down mini-game between paired sides.
//
// Everything in this package is pure computation over an in-memory snapshot. Nothing
// is cached and nothing is mutated — every call recomputes from the HoleScore records
// it is given, so calling the same function twice on the same snapshot always yields
// an identical result.
package leaderboard

// Holes on a full round. Scores recorded for any other hole number are ignored.
const (
	FirstHole = 1
	LastHole  = 18
	HoleCount = LastHole - FirstHole + 1
)

// HoleScore is a single stored score for one player on one hole.
// Score is relative to par: -1 is a birdie, 0 is par, +2 is a double bogey.
//
// Seq is the monotonic write sequence assigned by the store each time the score is
// written. When several records exist for the same hole, the one with the highest
// Seq is authoritative. Records that share a Seq (including the zero value, for
// callers that don't track writes) fall back to "last one in the slice wins".
type HoleScore struct {
	Hole  int   `json:"hole_number"`
	Score int   `json:"score"`
	Seq   int64 `json:"seq,omitempty"`
}

// ValidHole reports whether hole is on the card (1–18).
func ValidHole(hole int) bool {
	return hole >= FirstHole && hole <= LastHole
}

// Normalize collapses possibly-duplicated score records into one score per hole.
//
// Holes outside 1–18 are skipped instead of failing the whole computation: a single
// bad row must not blank the leaderboard for everyone else. Holes that have no score
// are simply absent from the returned map.
func Normalize(scores []HoleScore) map[int]int {
	out := make(map[int]int, HoleCount)
	seqs := make(map[int]int64, HoleCount)

	for _, s := range scores {
		if !ValidHole(s.Hole) {
			continue
		}
		// Only a strictly older record is skipped; an equal Seq overwrites, which is
		// what makes zero-Seq input "last occurrence wins".
		if prev, seen := seqs[s.Hole]; seen && s.Seq < prev {
			continue
		}
		seqs[s.Hole] = s.Seq
		out[s.Hole] = s.Score
	}

	return out
}

// Category is the scoring bucket a single hole falls into.
type Category string

const (
	CategoryAlbatross   Category = "albatross"    // -3 or better
	CategoryEagle       Category = "eagle"        // -2
	CategoryBirdie      Category = "birdie"       // -1
	CategoryPar         Category = "par"          // 0
	CategoryBogey       Category = "bogey"        // +1
	CategoryDoubleBogey Category = "double_bogey" // +2 or worse
)

// Categories lists every category from best to worst. Use it whenever output must be
// in a stable order (maps don't iterate deterministically).
var Categories = []Category{
	CategoryAlbatross,
	CategoryEagle,
	CategoryBirdie,
	CategoryPar,
	CategoryBogey,
	CategoryDoubleBogey,
}

// Classify maps a relative-to-par score to its category. It is total: every integer
// lands in exactly one category.
func Classify(score int) Category {
	switch {
	case score <= -3:
		return CategoryAlbatross
	case score == -2:
		return CategoryEagle
	case score == -1:
		return CategoryBirdie
	case score == 0:
		return CategoryPar
	case score == 1:
		return CategoryBogey
	default:
		return CategoryDoubleBogey
	}
}
