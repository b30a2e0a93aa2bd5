package service

import (
	"context"
	"math"
	"time"

	"ridematch/internal/domain"
	"ridematch/internal/metrics"
)

// SurgeConfig shapes the surge curve.
type SurgeConfig struct {
	Threshold     float64 // Demand/supply ratio above which surge starts
	Slope         float64 // Multiplier added per unit of ratio above Threshold
	MaxMultiplier float64 // Upper bound, also used when there is demand but no supply
}

// DefaultSurgeConfig returns the default surge curve.
func DefaultSurgeConfig() SurgeConfig {
	return SurgeConfig{
		Threshold:     0.8,
		Slope:         0.5,
		MaxMultiplier: 3.0,
	}
}

// SurgeEngine turns supply and demand counts into a bounded multiplier.
type SurgeEngine struct {
	cfg SurgeConfig
}

// NewSurgeEngine validates cfg and returns an engine.
func NewSurgeEngine(cfg SurgeConfig) (*SurgeEngine, error) {
	if cfg.Threshold <= 0 || cfg.Slope <= 0 || cfg.MaxMultiplier < 1.0 {
		return nil, ErrInvalidSurgeConfig
	}
	return &SurgeEngine{cfg: cfg}, nil
}

// ComputeSurge returns the multiplier for the given counts, always in [1, MaxMultiplier].
func (e *SurgeEngine) ComputeSurge(activeRides, availableDrivers int) float64 {
	if activeRides < 0 {
		activeRides = 0
	}
	if availableDrivers < 0 {
		availableDrivers = 0
	}

	// Avoid division by zero
	if availableDrivers == 0 {
		if activeRides > 0 {
			return e.cfg.MaxMultiplier
		}
		return 1.0
	}

	ratio := float64(activeRides) / float64(availableDrivers)
	if ratio <= e.cfg.Threshold {
		return 1.0
	}
	return math.Min(1.0+(ratio-e.cfg.Threshold)*e.cfg.Slope, e.cfg.MaxMultiplier)
}

// DemandLabel buckets a multiplier. Boundaries belong to the lower bucket.
func (e *SurgeEngine) DemandLabel(surge float64) domain.DemandLevel {
	switch {
	case surge <= 1.0:
		return domain.DemandNormal
	case surge <= 1.5:
		return domain.DemandModerate
	case surge <= 2.0:
		return domain.DemandHigh
	default:
		return domain.DemandVeryHigh
	}
}

// State computes the full surge snapshot for the given counts.
func (e *SurgeEngine) State(activeRides, availableDrivers int) domain.SurgeState {
	multiplier := e.ComputeSurge(activeRides, availableDrivers)

	// Zero supply leaves the ratio undefined; it stays 0.
	var ratio float64
	if availableDrivers > 0 {
		ratio = float64(activeRides) / float64(availableDrivers)
	}

	return domain.SurgeState{
		ActiveRides:      activeRides,
		AvailableDrivers: availableDrivers,
		Ratio:            ratio,
		Multiplier:       multiplier,
		DemandLevel:      e.DemandLabel(multiplier),
	}
}

// PricingService answers surge queries for a location.
type PricingService struct {
	gateway         SupplyDemandGateway
	engine          *SurgeEngine
	defaultRadiusKm float64
	upstreamTimeout time.Duration
}

// NewPricingService creates a new PricingService.
func NewPricingService(
	gateway SupplyDemandGateway,
	engine *SurgeEngine,
	defaultRadiusKm float64,
	upstreamTimeout time.Duration,
) *PricingService {
	return &PricingService{
		gateway:         gateway,
		engine:          engine,
		defaultRadiusKm: defaultRadiusKm,
		upstreamTimeout: upstreamTimeout,
	}
}

// SurgeQuery returns the surge state around location. A radius of 0 uses the
// default. Unreadable counts are treated as zero and the outcome is degraded.
func (s *PricingService) SurgeQuery(ctx context.Context, location domain.Coordinate, radiusKm float64) (domain.Outcome[domain.SurgeState], error) {
	if !location.Valid() {
		return domain.Outcome[domain.SurgeState]{}, ErrInvalidLocation
	}
	if radiusKm < 0 {
		return domain.Outcome[domain.SurgeState]{}, ErrInvalidRadius
	}
	if radiusKm == 0 {
		radiusKm = s.defaultRadiusKm
	}

	counts, err := fetchCounts(ctx, s.gateway, "surge_query", location, radiusKm, s.upstreamTimeout)
	state := s.engine.State(counts.activeRides, counts.availableDrivers)
	metrics.ObserveSurge(state.Multiplier)

	if err != nil {
		return domain.Degraded(state, err), nil
	}
	return domain.Ok(state), nil
}
