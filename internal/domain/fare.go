package domain

import "strings"

// VehicleClassStandard is used when a request carries no vehicle class.
const VehicleClassStandard = "STANDARD"

// NormalizeVehicleClass upper-cases class and defaults it to VehicleClassStandard.
func NormalizeVehicleClass(class string) string {
	class = strings.ToUpper(strings.TrimSpace(class))
	if class == "" {
		return VehicleClassStandard
	}
	return class
}

// FareBreakdown is the itemised fare of a trip.
// Monetary fields are in the smallest currency unit.
type FareBreakdown struct {
	BaseFare        int64
	DistanceFare    int64
	TimeFare        int64
	Subtotal        int64
	SurgeMultiplier float64
	Total           int64
}

// RideEstimateRequest asks for a trip estimate between two points.
// Pickup and destination may be equal; that yields the minimum fare.
type RideEstimateRequest struct {
	Pickup       Coordinate
	Destination  Coordinate
	VehicleClass string
}

// RideEstimate is the result of estimating a trip.
type RideEstimate struct {
	DistanceKm      float64
	DurationMinutes int
	TrafficFactor   float64
	SurgeMultiplier float64
	Fare            FareBreakdown
	VehicleClass    string
}
