package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"ridematch/internal/domain"
)

const driverLocationKey = "drivers:locations"

// LocationStore reads the driver GEO index maintained by the driver service.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// FindNearbyDrivers returns drivers within radiusKm, nearest first.
func (s *LocationStore) FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]domain.DriverCandidate, error) {
	results, err := s.client.GeoRadius(ctx, driverLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:   radiusKm,
		Unit:     "km",
		WithDist: true,
		Sort:     "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.DriverCandidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, domain.DriverCandidate{
			DriverID:   r.Name,
			DistanceKm: r.Dist,
		})
	}

	return candidates, nil
}

// CountDrivers returns how many drivers are within radiusKm.
func (s *LocationStore) CountDrivers(ctx context.Context, lat, lng, radiusKm float64) (int, error) {
	results, err := s.client.GeoRadius(ctx, driverLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius: radiusKm,
		Unit:   "km",
	}).Result()
	if err != nil {
		return 0, err
	}
	return len(results), nil
}
