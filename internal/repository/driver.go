package repository

import (
	"context"
	"errors"

	"ridematch/internal/domain"
)

// ErrNotFound is returned when a driver has no stats row.
var ErrNotFound = errors.New("driver stats not found")

// DriverStatsRepository reads driver quality signals. It never writes.
type DriverStatsRepository interface {
	// GetStatsByIDs returns the stats of every listed driver that has a row.
	// Unknown ids are omitted from the result.
	GetStatsByIDs(ctx context.Context, driverIDs []string) (map[string]domain.DriverStats, error)

	// GetStats returns the stats of one driver or ErrNotFound.
	GetStats(ctx context.Context, driverID string) (domain.DriverStats, error)
}
