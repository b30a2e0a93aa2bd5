// Package geo holds the pure distance, travel-time and fare arithmetic.
package geo

import (
	"math"

	"ridematch/internal/domain"
)

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometres between a and b.
func Distance(a, b domain.Coordinate) float64 {
	return haversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rLat1 := toRadians(lat1)
	rLat2 := toRadians(lat2)
	dLat := rLat2 - rLat1
	dLng := toRadians(lng2 - lng1)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// Rounding can push h a hair past 1 for antipodal points.
	h = math.Min(1, h)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
