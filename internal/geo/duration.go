package geo

import "math"

// AverageSpeedKmh is the assumed city speed with no traffic.
const AverageSpeedKmh = 30.0

// EstimateDuration returns whole travel minutes for distanceKm, never less than 1.
// A trafficFactor above 1 slows travel down; non-positive factors count as 1.
func EstimateDuration(distanceKm, trafficFactor float64) int {
	if trafficFactor <= 0 {
		trafficFactor = 1.0
	}
	if distanceKm < 0 {
		distanceKm = 0
	}

	speed := AverageSpeedKmh / trafficFactor
	minutes := int(math.Floor(distanceKm / speed * 60))
	if minutes < 1 {
		return 1
	}
	return minutes
}
