package service

import (
	"context"
	"time"

	"ridematch/internal/domain"
	"ridematch/internal/geo"
	"ridematch/internal/metrics"
)

// RideEstimator prices a trip from live surge and the traffic heuristic.
type RideEstimator struct {
	gateway         SupplyDemandGateway
	engine          *SurgeEngine
	traffic         TrafficProvider
	schedule        geo.FareSchedule
	countRadiusKm   float64
	upstreamTimeout time.Duration
}

// EstimatorConfig holds the tunables of a RideEstimator.
type EstimatorConfig struct {
	Schedule        geo.FareSchedule
	CountRadiusKm   float64
	UpstreamTimeout time.Duration
}

// NewRideEstimator creates a new RideEstimator.
func NewRideEstimator(
	gateway SupplyDemandGateway,
	engine *SurgeEngine,
	traffic TrafficProvider,
	cfg EstimatorConfig,
) *RideEstimator {
	return &RideEstimator{
		gateway:         gateway,
		engine:          engine,
		traffic:         traffic,
		schedule:        cfg.Schedule,
		countRadiusKm:   cfg.CountRadiusKm,
		upstreamTimeout: cfg.UpstreamTimeout,
	}
}

// Estimate computes distance, duration, surge and fare for req.
// Unreadable surge counts are taken as zero and the estimate is marked degraded.
func (e *RideEstimator) Estimate(ctx context.Context, req domain.RideEstimateRequest) (domain.Outcome[domain.RideEstimate], error) {
	if !req.Pickup.Valid() || !req.Destination.Valid() {
		return domain.Outcome[domain.RideEstimate]{}, ErrInvalidLocation
	}

	distance := geo.Distance(req.Pickup, req.Destination)
	trafficFactor := e.traffic.Factor(ctx, req.Pickup)
	duration := geo.EstimateDuration(distance, trafficFactor)

	counts, err := fetchCounts(ctx, e.gateway, "estimate", req.Pickup, e.countRadiusKm, e.upstreamTimeout)
	surge := e.engine.ComputeSurge(counts.activeRides, counts.availableDrivers)
	metrics.ObserveSurge(surge)

	estimate := domain.RideEstimate{
		DistanceKm:      distance,
		DurationMinutes: duration,
		TrafficFactor:   trafficFactor,
		SurgeMultiplier: surge,
		Fare:            geo.CalculateFare(distance, duration, surge, e.schedule),
		VehicleClass:    domain.NormalizeVehicleClass(req.VehicleClass),
	}

	if err != nil {
		return domain.Degraded(estimate, err), nil
	}
	return domain.Ok(estimate), nil
}
