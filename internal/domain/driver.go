package domain

// DriverCandidate is a driver returned by a proximity query, not yet ranked.
type DriverCandidate struct {
	DriverID   string
	DistanceKm float64
}

// DriverStats carries the driver quality signals used for ranking.
type DriverStats struct {
	Rating         float64 // 0-5
	AcceptanceRate float64 // 0-1
}

// DefaultDriverStats is assumed for drivers with no recorded stats.
func DefaultDriverStats() DriverStats {
	return DriverStats{Rating: 4.5, AcceptanceRate: 0.85}
}

// RankedDriver is a scored candidate. It is recomputed on every request.
type RankedDriver struct {
	DriverID       string
	DistanceKm     float64
	ETAMinutes     int
	Rating         float64
	AcceptanceRate float64
	Score          float64
}

// RankResult is an ordered, truncated list of ranked drivers.
type RankResult struct {
	Drivers        []RankedDriver
	TotalAvailable int
}

// DriverSuggestion is a nearby driver listed by distance for the find-drivers path.
type DriverSuggestion struct {
	DriverID       string
	DistanceKm     float64
	ETAMinutes     int
	Rating         float64
	AcceptanceRate float64
}
