package geo

import (
	"math"

	"ridematch/internal/domain"
)

// FareSchedule holds the rates a fare is built from, in the smallest currency unit.
type FareSchedule struct {
	BaseFare      int64
	PerKmRate     int64
	PerMinuteRate int64
}

// DefaultFareSchedule returns the standard city rates.
func DefaultFareSchedule() FareSchedule {
	return FareSchedule{
		BaseFare:      15000,
		PerKmRate:     12000,
		PerMinuteRate: 2000,
	}
}

// CalculateFare composes a fare breakdown. Every product is truncated toward
// zero so a fare never rounds up.
func CalculateFare(distanceKm float64, durationMinutes int, surgeMultiplier float64, schedule FareSchedule) domain.FareBreakdown {
	distanceFare := truncate(distanceKm * float64(schedule.PerKmRate))
	timeFare := int64(durationMinutes) * schedule.PerMinuteRate
	subtotal := schedule.BaseFare + distanceFare + timeFare
	total := truncate(float64(subtotal) * surgeMultiplier)

	return domain.FareBreakdown{
		BaseFare:        schedule.BaseFare,
		DistanceFare:    distanceFare,
		TimeFare:        timeFare,
		Subtotal:        subtotal,
		SurgeMultiplier: surgeMultiplier,
		Total:           total,
	}
}

func truncate(v float64) int64 {
	if v <= 0 {
		return 0
	}
	return int64(math.Trunc(v))
}
