package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridematch/internal/domain"
	"ridematch/internal/geo"
)

func demandKeys(t *testing.T, lat, lng, radiusKm float64) []string {
	t.Helper()
	cells, err := geo.DemandCells(domain.Coordinate{Lat: lat, Lng: lng}, radiusKm)
	require.NoError(t, err)
	keys := make([]string, len(cells))
	for i, c := range cells {
		keys[i] = ActiveRidesKey(c)
	}
	return keys
}

func TestDemandStore_ActiveRideCount_SumsCells(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewDemandStore(client)

	keys := demandKeys(t, 10.7764, 106.7008, 1)
	values := make([]interface{}, len(keys))
	values[0] = "4"
	values[1] = "2"
	values[2] = "garbage"
	values[3] = "-3"

	mock.ExpectMGet(keys...).SetVal(values)

	n, err := store.ActiveRideCount(context.Background(), 10.7764, 106.7008, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDemandStore_ActiveRideCount_Error(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewDemandStore(client)

	keys := demandKeys(t, 10.7764, 106.7008, 0)
	require.Len(t, keys, 1)
	mock.ExpectMGet(keys...).SetErr(errors.New("timeout"))

	_, err := store.ActiveRideCount(context.Background(), 10.7764, 106.7008, 0)
	assert.Error(t, err)
}
