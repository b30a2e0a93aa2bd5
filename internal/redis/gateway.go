package redis

import (
	"context"

	"ridematch/internal/domain"
)

// Gateway answers supply and demand queries from the driver GEO index and
// the demand counters.
type Gateway struct {
	locations LocationStoreInterface
	demand    DemandStoreInterface
}

// NewGateway creates a new Gateway.
func NewGateway(locations LocationStoreInterface, demand DemandStoreInterface) *Gateway {
	return &Gateway{locations: locations, demand: demand}
}

// NearbyDrivers returns drivers within radiusKm, nearest first.
func (g *Gateway) NearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]domain.DriverCandidate, error) {
	return g.locations.FindNearbyDrivers(ctx, lat, lng, radiusKm)
}

// ActiveRideCount returns the number of rides in progress around (lat, lng).
func (g *Gateway) ActiveRideCount(ctx context.Context, lat, lng, radiusKm float64) (int, error) {
	return g.demand.ActiveRideCount(ctx, lat, lng, radiusKm)
}

// AvailableDriverCount returns the number of drivers around (lat, lng).
func (g *Gateway) AvailableDriverCount(ctx context.Context, lat, lng, radiusKm float64) (int, error) {
	return g.locations.CountDrivers(ctx, lat, lng, radiusKm)
}
