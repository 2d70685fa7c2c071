package leaderboard

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		scores []HoleScore
		want   map[int]int
	}{
		{
			name:   "empty",
			scores: nil,
			want:   map[int]int{},
		},
		{
			name:   "one per hole",
			scores: []HoleScore{{Hole: 1, Score: -1}, {Hole: 2, Score: 0}, {Hole: 3, Score: 1}},
			want:   map[int]int{1: -1, 2: 0, 3: 1},
		},
		{
			name:   "last occurrence wins without sequence",
			scores: []HoleScore{{Hole: 4, Score: 2}, {Hole: 5, Score: 0}, {Hole: 4, Score: -1}},
			want:   map[int]int{4: -1, 5: 0},
		},
		{
			name: "highest sequence wins regardless of order",
			scores: []HoleScore{
				{Hole: 7, Score: 0, Seq: 9},
				{Hole: 7, Score: 3, Seq: 2},
				{Hole: 7, Score: 1, Seq: 5},
			},
			want: map[int]int{7: 0},
		},
		{
			name:   "equal sequence falls back to order",
			scores: []HoleScore{{Hole: 2, Score: 1, Seq: 4}, {Hole: 2, Score: -2, Seq: 4}},
			want:   map[int]int{2: -2},
		},
		{
			name:   "holes off the card are skipped",
			scores: []HoleScore{{Hole: 0, Score: 5}, {Hole: 19, Score: 5}, {Hole: -3, Score: 1}, {Hole: 18, Score: 1}},
			want:   map[int]int{18: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.scores))
		})
	}
}

func TestNormalize_RandomDuplicatesKeepLastPerHole(t *testing.T) {
	f := gofakeit.New(42)

	for i := 0; i < 200; i++ {
		n := f.IntRange(0, 60)
		scores := make([]HoleScore, n)
		last := map[int]int{}
		for j := range scores {
			scores[j] = HoleScore{Hole: f.IntRange(1, 18), Score: f.IntRange(-4, 12)}
			last[scores[j].Hole] = scores[j].Score
		}

		got := Normalize(scores)
		require.Len(t, got, len(last))
		assert.Equal(t, last, got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score int
		want  Category
	}{
		{-10, CategoryAlbatross},
		{-4, CategoryAlbatross},
		{-3, CategoryAlbatross},
		{-2, CategoryEagle},
		{-1, CategoryBirdie},
		{0, CategoryPar},
		{1, CategoryBogey},
		{2, CategoryDoubleBogey},
		{12, CategoryDoubleBogey},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %d", tt.score)
	}
}

func TestClassify_PartitionsEveryScore(t *testing.T) {
	known := map[Category]bool{}
	for _, c := range Categories {
		known[c] = true
	}

	seen := map[Category]int{}
	for score := -50; score <= 50; score++ {
		c := Classify(score)
		require.True(t, known[c], "score %d classified as unknown category %q", score, c)
		seen[c]++
	}
	assert.Len(t, seen, len(Categories))
}
