package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"ridematch/internal/domain"
	"ridematch/internal/geo"
)

const activeRidesPrefix = "stats:active_rides:"

// DemandStore reads active-ride counters bucketed by H3 cell.
// The counters are written by the trip service.
type DemandStore struct {
	client *redis.Client
}

// NewDemandStore creates a new DemandStore.
func NewDemandStore(client *redis.Client) *DemandStore {
	return &DemandStore{client: client}
}

// ActiveRidesKey returns the counter key of a cell.
func ActiveRidesKey(cell string) string {
	return activeRidesPrefix + cell
}

// ActiveRideCount sums the counters of every cell covering radiusKm around (lat, lng).
// Missing or malformed counters count as zero.
func (s *DemandStore) ActiveRideCount(ctx context.Context, lat, lng, radiusKm float64) (int, error) {
	cells, err := geo.DemandCells(domain.Coordinate{Lat: lat, Lng: lng}, radiusKm)
	if err != nil {
		return 0, fmt.Errorf("resolve demand cells: %w", err)
	}

	keys := make([]string, len(cells))
	for i, cell := range cells {
		keys[i] = ActiveRidesKey(cell)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(str)
		if err != nil || n < 0 {
			continue
		}
		total += n
	}
	return total, nil
}
