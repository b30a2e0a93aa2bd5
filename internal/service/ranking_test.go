package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridematch/internal/domain"
)

func TestDriverRanker_Score(t *testing.T) {
	r := NewDriverRanker(DefaultRankingWeights(), 5)

	assert.InDelta(t, 0.885, r.Score(1.0, 4.5, 0.85), 1e-9)
	assert.InDelta(t, 1.0, r.Score(0, 5, 1), 1e-9)
	assert.InDelta(t, 0.0, r.Score(20, 0, 0), 1e-9)
	// Out-of-range inputs are clamped.
	assert.InDelta(t, 1.0, r.Score(0, 9, 3), 1e-9)
	assert.InDelta(t, 0.0, r.Score(15, -1, -0.5), 1e-9)
}

func TestDriverRanker_ScoreNonIncreasingInDistance(t *testing.T) {
	r := NewDriverRanker(DefaultRankingWeights(), 5)

	prev := r.Score(0, 4.5, 0.85)
	for d := 0.25; d <= 15; d += 0.25 {
		s := r.Score(d, 4.5, 0.85)
		assert.LessOrEqual(t, s, prev, "score rose at %v km", d)
		assert.GreaterOrEqual(t, s, 0.0)
		prev = s
	}
}

func TestDriverRanker_RankEmpty(t *testing.T) {
	r := NewDriverRanker(DefaultRankingWeights(), 5)

	got := r.Rank(nil, nil, 0)
	assert.Empty(t, got.Drivers)
	assert.Equal(t, 0, got.TotalAvailable)
}

func TestDriverRanker_RankUsesStats(t *testing.T) {
	r := NewDriverRanker(DefaultRankingWeights(), 5)

	candidates := []domain.DriverCandidate{
		{DriverID: "near-poor", DistanceKm: 0.5},
		{DriverID: "far-great", DistanceKm: 1.5},
		{DriverID: "unknown", DistanceKm: 1.0},
	}
	stats := map[string]domain.DriverStats{
		"near-poor": {Rating: 3.0, AcceptanceRate: 0.3},
		"far-great": {Rating: 5.0, AcceptanceRate: 1.0},
	}

	got := r.Rank(candidates, stats, 0)
	require.Len(t, got.Drivers, 3)
	assert.Equal(t, 3, got.TotalAvailable)

	assert.Equal(t, "far-great", got.Drivers[0].DriverID)
	assert.InDelta(t, 0.94, got.Drivers[0].Score, 1e-9)
	assert.Equal(t, "unknown", got.Drivers[1].DriverID)
	assert.Equal(t, 4.5, got.Drivers[1].Rating)
	assert.Equal(t, 0.85, got.Drivers[1].AcceptanceRate)
	assert.Equal(t, "near-poor", got.Drivers[2].DriverID)
	assert.InDelta(t, 0.65, got.Drivers[2].Score, 1e-9)

	for _, d := range got.Drivers {
		assert.GreaterOrEqual(t, d.ETAMinutes, 1)
	}
}

func TestDriverRanker_RankTieBreaks(t *testing.T) {
	r := NewDriverRanker(DefaultRankingWeights(), 5)

	// Same distance and default stats: only the id separates them.
	candidates := []domain.DriverCandidate{
		{DriverID: "c", DistanceKm: 2},
		{DriverID: "b", DistanceKm: 2},
		{DriverID: "a", DistanceKm: 2},
	}

	got := r.Rank(candidates, nil, 0)
	require.Len(t, got.Drivers, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got.Drivers))
}

func TestDriverRanker_RankTruncates(t *testing.T) {
	r := NewDriverRanker(DefaultRankingWeights(), 5)

	var candidates []domain.DriverCandidate
	for i := 0; i < 8; i++ {
		candidates = append(candidates, domain.DriverCandidate{
			DriverID:   fmt.Sprintf("d%d", i),
			DistanceKm: float64(i) * 0.7,
		})
	}

	got := r.Rank(candidates, nil, 0)
	assert.Len(t, got.Drivers, 5)
	assert.Equal(t, 8, got.TotalAvailable)
	assert.Equal(t, []string{"d0", "d1", "d2", "d3", "d4"}, ids(got.Drivers))

	got = r.Rank(candidates, nil, 2)
	assert.Len(t, got.Drivers, 2)

	got = r.Rank(candidates, nil, -3)
	assert.Len(t, got.Drivers, 5)
}

func TestNewRankingWeights(t *testing.T) {
	w, err := NewRankingWeights(0.5, 0.25, 0.25)
	require.NoError(t, err)
	assert.Equal(t, RankingWeights{Distance: 0.5, Rating: 0.25, Acceptance: 0.25}, w)

	_, err = NewRankingWeights(0.5, 0.5, 0.5)
	assert.ErrorIs(t, err, ErrInvalidRankingWeights)

	_, err = NewRankingWeights(1.2, -0.1, -0.1)
	assert.ErrorIs(t, err, ErrInvalidRankingWeights)
}

func ids(drivers []domain.RankedDriver) []string {
	out := make([]string, len(drivers))
	for i, d := range drivers {
		out[i] = d.DriverID
	}
	return out
}
