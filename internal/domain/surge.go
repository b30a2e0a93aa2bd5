package domain

// DemandLevel is a qualitative bucket derived from a surge multiplier.
type DemandLevel string

const (
	DemandNormal   DemandLevel = "normal"
	DemandModerate DemandLevel = "moderate"
	DemandHigh     DemandLevel = "high"
	DemandVeryHigh DemandLevel = "very_high"
)

// SurgeState is the supply/demand snapshot behind a surge multiplier.
// It is computed fresh on every query.
type SurgeState struct {
	ActiveRides      int
	AvailableDrivers int
	// Ratio is ActiveRides / AvailableDrivers. With no available drivers it
	// is undefined and reported as 0; Multiplier still reflects the shortage.
	Ratio       float64
	Multiplier  float64
	DemandLevel DemandLevel
}
