// Package prediction holds the ETA and price multiplier model adapters.
package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ridematch/internal/domain"
)

// featureCount is the width of the model input: distance_km, time_of_day, day_type.
const featureCount = 3

// Scaler standardises features as (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Regression is one linear output of the model.
type Regression struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// LinearModelFile is the on-disk form of a LinearModel.
type LinearModelFile struct {
	Version         string     `json:"version"`
	FeatureNames    []string   `json:"feature_names"`
	Scaler          Scaler     `json:"scaler"`
	ETA             Regression `json:"eta"`
	PriceMultiplier Regression `json:"price_multiplier"`
}

// LinearModel predicts ETA and price multiplier with two linear regressions
// over standardised features.
type LinearModel struct {
	file   LinearModelFile
	source string
}

// BaselineModel returns eta = 2*d + 5 and price = 1 + 0.02*d with an
// identity scaler. It is used when no model file is configured.
func BaselineModel() *LinearModel {
	return &LinearModel{
		file: LinearModelFile{
			Version:      "baseline",
			FeatureNames: []string{"distance_km", "time_of_day", "day_type"},
			Scaler: Scaler{
				Mean:  []float64{0, 0, 0},
				Scale: []float64{1, 1, 1},
			},
			ETA:             Regression{Intercept: 5, Coefficients: []float64{2, 0, 0}},
			PriceMultiplier: Regression{Intercept: 1, Coefficients: []float64{0.02, 0, 0}},
		},
		source: "builtin",
	}
}

// LoadLinearModel reads and validates a model file.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var file LinearModelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode model file: %w", err)
	}
	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("invalid model file %s: %w", path, err)
	}

	return &LinearModel{file: file, source: path}, nil
}

func (f LinearModelFile) validate() error {
	if len(f.Scaler.Mean) != featureCount || len(f.Scaler.Scale) != featureCount {
		return fmt.Errorf("scaler must have %d features", featureCount)
	}
	for i, s := range f.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("scaler scale[%d] is zero", i)
		}
	}
	if len(f.ETA.Coefficients) != featureCount {
		return fmt.Errorf("eta needs %d coefficients, got %d", featureCount, len(f.ETA.Coefficients))
	}
	if len(f.PriceMultiplier.Coefficients) != featureCount {
		return fmt.Errorf("price_multiplier needs %d coefficients, got %d", featureCount, len(f.PriceMultiplier.Coefficients))
	}
	return nil
}

// Predict evaluates both regressions. The output is not clamped.
func (m *LinearModel) Predict(_ context.Context, in domain.PredictionInput) (domain.ModelOutput, error) {
	x := m.scale(encodeFeatures(in))
	return domain.ModelOutput{
		ETAMinutes:      m.file.ETA.eval(x),
		PriceMultiplier: m.file.PriceMultiplier.eval(x),
	}, nil
}

// Info describes the loaded model.
func (m *LinearModel) Info() domain.ModelInfo {
	return domain.ModelInfo{Kind: "linear", Version: m.file.Version, Source: m.source}
}

func (m *LinearModel) scale(x [featureCount]float64) [featureCount]float64 {
	for i := range x {
		x[i] = (x[i] - m.file.Scaler.Mean[i]) / m.file.Scaler.Scale[i]
	}
	return x
}

func (r Regression) eval(x [featureCount]float64) float64 {
	y := r.Intercept
	for i, c := range r.Coefficients {
		y += c * x[i]
	}
	return y
}

// encodeFeatures maps the input to [distance_km, rush_hour, weekend].
func encodeFeatures(in domain.PredictionInput) [featureCount]float64 {
	var rushHour, weekend float64
	if in.TimeOfDay == domain.TimeOfDayRushHour {
		rushHour = 1
	}
	if in.DayType == domain.DayTypeWeekend {
		weekend = 1
	}
	return [featureCount]float64{in.DistanceKm, rushHour, weekend}
}
