package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"ridematch/internal/domain"
	"ridematch/internal/repository"
)

// DriverStatsRepository is a PostgreSQL implementation of repository.DriverStatsRepository.
// It reads the driver_stats table maintained by the driver service.
type DriverStatsRepository struct {
	q Querier
}

// NewDriverStatsRepository creates a new PostgreSQL driver stats repository.
func NewDriverStatsRepository(db *sql.DB) *DriverStatsRepository {
	return &DriverStatsRepository{q: db}
}

// GetStatsByIDs fetches all listed drivers in a single query.
func (r *DriverStatsRepository) GetStatsByIDs(ctx context.Context, driverIDs []string) (map[string]domain.DriverStats, error) {
	result := make(map[string]domain.DriverStats, len(driverIDs))
	if len(driverIDs) == 0 {
		return result, nil
	}

	query := `SELECT driver_id, rating, acceptance_rate FROM driver_stats WHERE driver_id = ANY($1)`

	rows, err := r.q.QueryContext(ctx, query, pq.Array(driverIDs))
	if err != nil {
		return nil, fmt.Errorf("query driver stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    string
			stats domain.DriverStats
		)
		if err := rows.Scan(&id, &stats.Rating, &stats.AcceptanceRate); err != nil {
			return nil, fmt.Errorf("scan driver stats: %w", err)
		}
		result[id] = stats
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate driver stats: %w", err)
	}

	return result, nil
}

// GetStats retrieves the stats of one driver.
func (r *DriverStatsRepository) GetStats(ctx context.Context, driverID string) (domain.DriverStats, error) {
	query := `SELECT rating, acceptance_rate FROM driver_stats WHERE driver_id = $1`

	var stats domain.DriverStats
	err := r.q.QueryRowContext(ctx, query, driverID).Scan(&stats.Rating, &stats.AcceptanceRate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DriverStats{}, repository.ErrNotFound
		}
		return domain.DriverStats{}, err
	}

	return stats, nil
}
