package domain

// TimeOfDay is the time-of-day feature of the prediction model.
type TimeOfDay string

const (
	TimeOfDayOffPeak  TimeOfDay = "OFF_PEAK"
	TimeOfDayRushHour TimeOfDay = "RUSH_HOUR"
)

// DayType is the day-type feature of the prediction model.
type DayType string

const (
	DayTypeWeekday DayType = "WEEKDAY"
	DayTypeWeekend DayType = "WEEKEND"
)

// PredictionInput is the feature vector of the ETA/price model.
type PredictionInput struct {
	DistanceKm float64
	TimeOfDay  TimeOfDay
	DayType    DayType
}

// Prediction is the model output after clamping.
type Prediction struct {
	ETAMinutes      int
	PriceMultiplier float64
}

// FallbackPrediction is returned when the model cannot answer.
func FallbackPrediction() Prediction {
	return Prediction{ETAMinutes: 20, PriceMultiplier: 1.0}
}

// ModelOutput is the raw, unclamped output of a prediction model.
type ModelOutput struct {
	ETAMinutes      float64
	PriceMultiplier float64
}

// ModelInfo describes the model serving predictions.
type ModelInfo struct {
	Kind    string
	Version string
	Source  string
}
