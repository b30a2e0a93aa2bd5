package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorForHour(t *testing.T) {
	want := map[int]float64{
		0: 0.8, 3: 0.8, 5: 0.8,
		6: 1.0,
		7: 1.5, 8: 1.5, 9: 1.5,
		10: 1.0, 12: 1.0, 16: 1.0,
		17: 1.5, 18: 1.5, 19: 1.5,
		20: 1.0, 21: 1.0,
		22: 0.8, 23: 0.8,
	}
	for hour, factor := range want {
		assert.Equal(t, factor, FactorForHour(hour), "hour %d", hour)
	}
}

func TestHourlyTraffic_UsesConfiguredZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	// 01:30 UTC is 08:30 in Ho Chi Minh City.
	now := func() time.Time { return time.Date(2024, 3, 4, 1, 30, 0, 0, time.UTC) }

	local := NewHourlyTraffic(loc, now)
	assert.Equal(t, 1.5, local.Factor(context.Background(), benThanh))

	utc := NewHourlyTraffic(time.UTC, now)
	assert.Equal(t, 0.8, utc.Factor(context.Background(), benThanh))
}
