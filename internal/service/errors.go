package service

import "errors"

var (
	// ErrInvalidLocation is returned when coordinates are outside WGS84 ranges.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidRadius is returned when a search radius is negative.
	ErrInvalidRadius = errors.New("invalid radius")

	// ErrInvalidDistance is returned when a prediction distance is not in (0, 100] km.
	ErrInvalidDistance = errors.New("distance must be greater than 0 and at most 100 km")

	// ErrInvalidTimeOfDay is returned for an unknown time-of-day value.
	ErrInvalidTimeOfDay = errors.New("time_of_day must be OFF_PEAK or RUSH_HOUR")

	// ErrInvalidDayType is returned for an unknown day-type value.
	ErrInvalidDayType = errors.New("day_type must be WEEKDAY or WEEKEND")

	// ErrInvalidRankingWeights is returned when ranking weights are negative or do not sum to 1.
	ErrInvalidRankingWeights = errors.New("ranking weights must be non-negative and sum to 1")

	// ErrInvalidSurgeConfig is returned when the surge curve is not usable.
	ErrInvalidSurgeConfig = errors.New("invalid surge configuration")

	// ErrUpstreamUnavailable marks a fallback substituted for a failed or slow upstream read.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
