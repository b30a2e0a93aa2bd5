package service

import (
	"math"
	"sort"

	"ridematch/internal/domain"
	"ridematch/internal/geo"
)

const (
	defaultResultLimit = 5

	// scoreDistanceHorizonKm is where the distance term of the score reaches zero.
	scoreDistanceHorizonKm = 10.0
	maxRating              = 5.0
)

// RankingWeights weighs the three terms of a driver score.
type RankingWeights struct {
	Distance   float64
	Rating     float64
	Acceptance float64
}

// DefaultRankingWeights returns 0.4 distance, 0.3 rating, 0.3 acceptance.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{Distance: 0.4, Rating: 0.3, Acceptance: 0.3}
}

// NewRankingWeights rejects negative weights and weights that do not sum to 1.
func NewRankingWeights(distance, rating, acceptance float64) (RankingWeights, error) {
	if distance < 0 || rating < 0 || acceptance < 0 {
		return RankingWeights{}, ErrInvalidRankingWeights
	}
	if math.Abs(distance+rating+acceptance-1.0) > 1e-6 {
		return RankingWeights{}, ErrInvalidRankingWeights
	}
	return RankingWeights{Distance: distance, Rating: rating, Acceptance: acceptance}, nil
}

// DriverRanker scores candidates and orders them deterministically.
type DriverRanker struct {
	weights      RankingWeights
	defaultLimit int
}

// NewDriverRanker creates a ranker. A non-positive defaultLimit means 5.
func NewDriverRanker(weights RankingWeights, defaultLimit int) *DriverRanker {
	if defaultLimit <= 0 {
		defaultLimit = defaultResultLimit
	}
	return &DriverRanker{weights: weights, defaultLimit: defaultLimit}
}

// Score returns the desirability of a driver in [0, 1]. It never increases
// with distance.
func (r *DriverRanker) Score(distanceKm, rating, acceptanceRate float64) float64 {
	distanceScore := math.Max(0, 1-distanceKm/scoreDistanceHorizonKm)
	ratingScore := clamp(rating, 0, maxRating) / maxRating
	acceptanceScore := clamp(acceptanceRate, 0, 1)

	return r.weights.Distance*distanceScore +
		r.weights.Rating*ratingScore +
		r.weights.Acceptance*acceptanceScore
}

// Rank scores candidates and returns the best limit of them. Drivers missing
// from stats get domain.DefaultDriverStats. A non-positive limit uses the
// ranker default.
func (r *DriverRanker) Rank(candidates []domain.DriverCandidate, stats map[string]domain.DriverStats, limit int) domain.RankResult {
	if limit <= 0 {
		limit = r.defaultLimit
	}

	ranked := make([]domain.RankedDriver, 0, len(candidates))
	for _, c := range candidates {
		s, ok := stats[c.DriverID]
		if !ok {
			s = domain.DefaultDriverStats()
		}
		ranked = append(ranked, domain.RankedDriver{
			DriverID:       c.DriverID,
			DistanceKm:     c.DistanceKm,
			ETAMinutes:     geo.EstimateDuration(c.DistanceKm, 1.0),
			Rating:         s.Rating,
			AcceptanceRate: s.AcceptanceRate,
			Score:          r.Score(c.DistanceKm, s.Rating, s.AcceptanceRate),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		return a.DriverID < b.DriverID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return domain.RankResult{
		Drivers:        ranked,
		TotalAvailable: len(candidates),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
