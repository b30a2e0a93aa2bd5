package service

import (
	"context"
	"time"

	"ridematch/internal/domain"
)

const (
	rushHourTrafficFactor = 1.5
	nightTrafficFactor    = 0.8
	normalTrafficFactor   = 1.0
)

// TrafficProvider returns a travel-time multiplier for a location.
type TrafficProvider interface {
	Factor(ctx context.Context, at domain.Coordinate) float64
}

// HourlyTraffic is a clock-based stand-in for live traffic data. Morning
// (07-09) and evening (17-19) rush hours slow travel, nights (22-05) speed it up.
type HourlyTraffic struct {
	loc *time.Location
	now func() time.Time
}

// NewHourlyTraffic evaluates hours in loc. A nil now uses time.Now.
func NewHourlyTraffic(loc *time.Location, now func() time.Time) *HourlyTraffic {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &HourlyTraffic{loc: loc, now: now}
}

// Factor ignores the location; only the local hour matters.
func (t *HourlyTraffic) Factor(_ context.Context, _ domain.Coordinate) float64 {
	return FactorForHour(t.now().In(t.loc).Hour())
}

// FactorForHour maps an hour of day (0-23) to a traffic factor.
func FactorForHour(hour int) float64 {
	switch {
	case (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19):
		return rushHourTrafficFactor
	case hour >= 22 || hour <= 5:
		return nightTrafficFactor
	default:
		return normalTrafficFactor
	}
}
