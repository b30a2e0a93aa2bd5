package redis

import (
	"context"

	"ridematch/internal/domain"
)

// LocationStoreInterface defines the driver proximity queries.
type LocationStoreInterface interface {
	FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]domain.DriverCandidate, error)
	CountDrivers(ctx context.Context, lat, lng, radiusKm float64) (int, error)
}

// DemandStoreInterface defines the active-ride counting query.
type DemandStoreInterface interface {
	ActiveRideCount(ctx context.Context, lat, lng, radiusKm float64) (int, error)
}

// StatsCacheInterface defines the driver stats cache.
type StatsCacheInterface interface {
	GetDriverStatsBatch(ctx context.Context, driverIDs []string) (map[string]domain.DriverStats, []string, error)
	SetDriverStatsBatch(ctx context.Context, stats map[string]domain.DriverStats) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ DemandStoreInterface   = (*DemandStore)(nil)
	_ StatsCacheInterface    = (*CacheStore)(nil)
)
