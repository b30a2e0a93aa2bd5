package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridematch/internal/domain"
	"ridematch/internal/repository"
)

func newMockRepo(t *testing.T) (*DriverStatsRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDriverStatsRepository(db), mock
}

func TestDriverStatsRepository_GetStatsByIDs(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"driver_id", "rating", "acceptance_rate"}).
		AddRow("d1", 4.9, 0.95).
		AddRow("d2", 3.8, 0.6)
	mock.ExpectQuery(`SELECT driver_id, rating, acceptance_rate FROM driver_stats WHERE driver_id = ANY\(\$1\)`).
		WillReturnRows(rows)

	got, err := repo.GetStatsByIDs(context.Background(), []string{"d1", "d2", "d3"})
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.DriverStats{
		"d1": {Rating: 4.9, AcceptanceRate: 0.95},
		"d2": {Rating: 3.8, AcceptanceRate: 0.6},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverStatsRepository_GetStatsByIDs_EmptyInputSkipsQuery(t *testing.T) {
	repo, mock := newMockRepo(t)

	got, err := repo.GetStatsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverStatsRepository_GetStatsByIDs_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM driver_stats`).WillReturnError(errors.New("connection reset"))

	_, err := repo.GetStatsByIDs(context.Background(), []string{"d1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query driver stats")
}

func TestDriverStatsRepository_GetStats(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT rating, acceptance_rate FROM driver_stats WHERE driver_id = \$1`).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"rating", "acceptance_rate"}).AddRow(4.2, 0.7))

	got, err := repo.GetStats(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, domain.DriverStats{Rating: 4.2, AcceptanceRate: 0.7}, got)
}

func TestDriverStatsRepository_GetStats_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM driver_stats WHERE driver_id = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"rating", "acceptance_rate"}))

	_, err := repo.GetStats(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDriverStatsRepository_WithinTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT rating, acceptance_rate FROM driver_stats WHERE driver_id = \$1`).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"rating", "acceptance_rate"}).AddRow(4.4, 0.7))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	stats, err := NewDriverStatsRepositoryWithQuerier(tx).GetStats(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, domain.DriverStats{Rating: 4.4, AcceptanceRate: 0.7}, stats)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
