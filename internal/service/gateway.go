package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ridematch/internal/domain"
	"ridematch/internal/logger"
	"ridematch/internal/metrics"
)

// SupplyDemandGateway answers proximity and counting queries about a location.
type SupplyDemandGateway interface {
	// NearbyDrivers returns drivers within radiusKm ordered by distance ascending.
	NearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]domain.DriverCandidate, error)
	ActiveRideCount(ctx context.Context, lat, lng, radiusKm float64) (int, error)
	AvailableDriverCount(ctx context.Context, lat, lng, radiusKm float64) (int, error)
}

// DriverStatsSource resolves rating and acceptance rate for a batch of drivers.
// Drivers without recorded stats are absent from the returned map.
type DriverStatsSource interface {
	GetDriverStats(ctx context.Context, driverIDs []string) (map[string]domain.DriverStats, error)
}

// supplyDemand is the pair of counts behind a surge multiplier.
type supplyDemand struct {
	activeRides      int
	availableDrivers int
}

// fetchCounts reads both counts concurrently under timeout. A failed read
// counts as zero observed and is reported through the returned error.
func fetchCounts(ctx context.Context, gw SupplyDemandGateway, operation string, loc domain.Coordinate, radiusKm float64, timeout time.Duration) (supplyDemand, error) {
	var counts supplyDemand
	var ridesErr, driversErr error

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		counts.activeRides, ridesErr = gw.ActiveRideCount(gctx, loc.Lat, loc.Lng, radiusKm)
		observeUpstream("active_rides", start)
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		counts.availableDrivers, driversErr = gw.AvailableDriverCount(gctx, loc.Lat, loc.Lng, radiusKm)
		observeUpstream("available_drivers", start)
		return nil
	})
	_ = g.Wait()

	var errs []error
	if ridesErr != nil {
		counts.activeRides = 0
		fallback(ctx, operation, "active_rides", ridesErr)
		errs = append(errs, ridesErr)
	}
	if driversErr != nil {
		counts.availableDrivers = 0
		fallback(ctx, operation, "available_drivers", driversErr)
		errs = append(errs, driversErr)
	}
	if len(errs) > 0 {
		return counts, wrapUpstream(errors.Join(errs...))
	}
	return counts, nil
}

// fallback records that operation substituted a default for upstream.
func fallback(ctx context.Context, operation, upstream string, err error) {
	metrics.RecordFallback(operation, upstream)
	logger.WithContext(ctx).Warn("upstream read failed, using fallback",
		zap.String("operation", operation),
		zap.String("upstream", upstream),
		zap.Error(err),
	)
}

func observeUpstream(upstream string, start time.Time) {
	metrics.ObserveUpstream(upstream, time.Since(start))
}

func wrapUpstream(err error) error {
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
