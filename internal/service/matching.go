package service

import (
	"context"
	"sort"
	"time"

	"ridematch/internal/domain"
	"ridematch/internal/geo"
)

const (
	defaultSearchRadiusKm    = 5.0
	defaultCandidatePoolSize = 10
	findDriversLimit         = 5
)

// MatchingConfig holds the tunables of a MatchingService.
type MatchingConfig struct {
	SearchRadiusKm    float64
	CandidatePoolSize int
	UpstreamTimeout   time.Duration
}

// MatchingService ranks nearby drivers for a pickup.
type MatchingService struct {
	gateway         SupplyDemandGateway
	stats           DriverStatsSource
	ranker          *DriverRanker
	searchRadiusKm  float64
	poolSize        int
	upstreamTimeout time.Duration
}

// NewMatchingService creates a new MatchingService. stats may be nil, in which
// case every driver gets domain.DefaultDriverStats.
func NewMatchingService(
	gateway SupplyDemandGateway,
	stats DriverStatsSource,
	ranker *DriverRanker,
	cfg MatchingConfig,
) *MatchingService {
	if cfg.SearchRadiusKm <= 0 {
		cfg.SearchRadiusKm = defaultSearchRadiusKm
	}
	if cfg.CandidatePoolSize <= 0 {
		cfg.CandidatePoolSize = defaultCandidatePoolSize
	}
	return &MatchingService{
		gateway:         gateway,
		stats:           stats,
		ranker:          ranker,
		searchRadiusKm:  cfg.SearchRadiusKm,
		poolSize:        cfg.CandidatePoolSize,
		upstreamTimeout: cfg.UpstreamTimeout,
	}
}

// MatchRequest contains the parameters for ranking drivers for a ride.
type MatchRequest struct {
	RideID        string
	Pickup        domain.Coordinate
	VehicleClass  string  // Echoed only; the location index has no vehicle data
	MaxDistanceKm float64 // Optional: 0 uses default
	Limit         int     // Optional: 0 uses the ranker default
}

// MatchResult is the ranked shortlist for a ride.
type MatchResult struct {
	RideID         string
	Drivers        []domain.RankedDriver
	TotalAvailable int
}

// Match ranks the nearest drivers around the pickup. It never fails on
// upstream errors: no reachable index yields an empty, degraded result and
// unreadable stats fall back to defaults.
func (s *MatchingService) Match(ctx context.Context, req MatchRequest) (domain.Outcome[MatchResult], error) {
	if !req.Pickup.Valid() {
		return domain.Outcome[MatchResult]{}, ErrInvalidLocation
	}
	if req.MaxDistanceKm < 0 {
		return domain.Outcome[MatchResult]{}, ErrInvalidRadius
	}

	radiusKm := req.MaxDistanceKm
	if radiusKm == 0 {
		radiusKm = s.searchRadiusKm
	}

	result := MatchResult{RideID: req.RideID, Drivers: []domain.RankedDriver{}}

	nearby, err := s.nearbyDrivers(ctx, "match", req.Pickup, radiusKm)
	if err != nil {
		return domain.Degraded(result, err), nil
	}

	pool := nearby
	if len(pool) > s.poolSize {
		pool = pool[:s.poolSize]
	}

	stats, statsErr := s.driverStats(ctx, "match", pool)

	ranked := s.ranker.Rank(pool, stats, req.Limit)
	result.Drivers = ranked.Drivers
	result.TotalAvailable = len(nearby)

	if statsErr != nil {
		return domain.Degraded(result, statsErr), nil
	}
	return domain.Ok(result), nil
}

// FindDriversResult lists the closest drivers around a pickup.
type FindDriversResult struct {
	Drivers     []domain.DriverSuggestion
	VehicleType string
	TotalFound  int
}

// FindDrivers lists up to five of the nearest drivers ordered by distance,
// better rated first on equal distance. A radius of 0 uses the default.
func (s *MatchingService) FindDrivers(ctx context.Context, pickup domain.Coordinate, vehicleType string, radiusKm float64) (domain.Outcome[FindDriversResult], error) {
	if !pickup.Valid() {
		return domain.Outcome[FindDriversResult]{}, ErrInvalidLocation
	}
	if radiusKm < 0 {
		return domain.Outcome[FindDriversResult]{}, ErrInvalidRadius
	}
	if radiusKm == 0 {
		radiusKm = s.searchRadiusKm
	}
	result := FindDriversResult{
		Drivers:     []domain.DriverSuggestion{},
		VehicleType: domain.NormalizeVehicleClass(vehicleType),
	}

	nearby, err := s.nearbyDrivers(ctx, "find_drivers", pickup, radiusKm)
	if err != nil {
		return domain.Degraded(result, err), nil
	}

	pool := nearby
	if len(pool) > s.poolSize {
		pool = pool[:s.poolSize]
	}

	stats, statsErr := s.driverStats(ctx, "find_drivers", pool)

	suggestions := make([]domain.DriverSuggestion, 0, len(pool))
	for _, c := range pool {
		st, ok := stats[c.DriverID]
		if !ok {
			st = domain.DefaultDriverStats()
		}
		suggestions = append(suggestions, domain.DriverSuggestion{
			DriverID:       c.DriverID,
			DistanceKm:     c.DistanceKm,
			ETAMinutes:     geo.EstimateDuration(c.DistanceKm, 1.0),
			Rating:         st.Rating,
			AcceptanceRate: st.AcceptanceRate,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		return a.Rating > b.Rating
	})
	if len(suggestions) > findDriversLimit {
		suggestions = suggestions[:findDriversLimit]
	}

	result.Drivers = suggestions
	result.TotalFound = len(nearby)

	if statsErr != nil {
		return domain.Degraded(result, statsErr), nil
	}
	return domain.Ok(result), nil
}

func (s *MatchingService) nearbyDrivers(ctx context.Context, operation string, at domain.Coordinate, radiusKm float64) ([]domain.DriverCandidate, error) {
	ctx, cancel := withTimeout(ctx, s.upstreamTimeout)
	defer cancel()

	start := time.Now()
	nearby, err := s.gateway.NearbyDrivers(ctx, at.Lat, at.Lng, radiusKm)
	observeUpstream("nearby_drivers", start)
	if err != nil {
		fallback(ctx, operation, "nearby_drivers", err)
		return nil, wrapUpstream(err)
	}
	return nearby, nil
}

// driverStats loads stats for the pool. Whatever could be read is returned
// even on error; the caller fills gaps with defaults.
func (s *MatchingService) driverStats(ctx context.Context, operation string, pool []domain.DriverCandidate) (map[string]domain.DriverStats, error) {
	if s.stats == nil || len(pool) == 0 {
		return map[string]domain.DriverStats{}, nil
	}

	ids := make([]string, len(pool))
	for i, c := range pool {
		ids[i] = c.DriverID
	}

	ctx, cancel := withTimeout(ctx, s.upstreamTimeout)
	defer cancel()

	start := time.Now()
	stats, err := s.stats.GetDriverStats(ctx, ids)
	observeUpstream("driver_stats", start)
	if stats == nil {
		stats = map[string]domain.DriverStats{}
	}
	if err != nil {
		fallback(ctx, operation, "driver_stats", err)
		return stats, wrapUpstream(err)
	}
	return stats, nil
}
