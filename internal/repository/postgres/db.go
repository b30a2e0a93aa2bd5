package postgres

import (
	"context"
	"database/sql"
)

// Querier is the read-only subset of *sql.DB and *sql.Tx the repositories use.
// Stats are owned by another service, so nothing here executes writes.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// NewDriverStatsRepositoryWithQuerier creates a repository over q, for
// example a read-only transaction.
func NewDriverStatsRepositoryWithQuerier(q Querier) *DriverStatsRepository {
	return &DriverStatsRepository{q: q}
}
