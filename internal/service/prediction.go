package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"ridematch/internal/domain"
	"ridematch/internal/logger"
	"ridematch/internal/metrics"
)

const (
	maxPredictionDistanceKm = 100.0
	minETAMinutes           = 1
	maxETAMinutes           = 120
	minPriceMultiplier      = 1.0
	maxPriceMultiplier      = 2.0
)

// Predictor is the ETA and price multiplier model.
type Predictor interface {
	Predict(ctx context.Context, in domain.PredictionInput) (domain.ModelOutput, error)
	Info() domain.ModelInfo
}

// PredictionService validates prediction requests and bounds model output.
type PredictionService struct {
	model Predictor
}

// NewPredictionService creates a new PredictionService.
func NewPredictionService(model Predictor) *PredictionService {
	return &PredictionService{model: model}
}

// Predict returns the clamped model prediction. Model failures yield the
// fallback prediction marked degraded; only invalid input is an error.
func (s *PredictionService) Predict(ctx context.Context, in domain.PredictionInput) (domain.Outcome[domain.Prediction], error) {
	if err := validatePredictionInput(in); err != nil {
		metrics.Predictions.WithLabelValues("invalid").Inc()
		return domain.Outcome[domain.Prediction]{}, err
	}

	out, err := s.model.Predict(ctx, in)
	if err != nil {
		metrics.Predictions.WithLabelValues("fallback").Inc()
		logger.WithContext(ctx).Warn("prediction failed, returning fallback", zap.Error(err))
		return domain.Degraded(domain.FallbackPrediction(), err), nil
	}
	if math.IsNaN(out.ETAMinutes) || math.IsNaN(out.PriceMultiplier) {
		metrics.Predictions.WithLabelValues("fallback").Inc()
		logger.WithContext(ctx).Warn("prediction is not a number, returning fallback")
		return domain.Degraded(domain.FallbackPrediction(), ErrUpstreamUnavailable), nil
	}

	metrics.Predictions.WithLabelValues("ok").Inc()
	return domain.Ok(clampPrediction(out)), nil
}

// ModelInfo describes the serving model.
func (s *PredictionService) ModelInfo() domain.ModelInfo {
	return s.model.Info()
}

func validatePredictionInput(in domain.PredictionInput) error {
	if !(in.DistanceKm > 0 && in.DistanceKm <= maxPredictionDistanceKm) {
		return ErrInvalidDistance
	}
	switch in.TimeOfDay {
	case domain.TimeOfDayOffPeak, domain.TimeOfDayRushHour:
	default:
		return ErrInvalidTimeOfDay
	}
	switch in.DayType {
	case domain.DayTypeWeekday, domain.DayTypeWeekend:
	default:
		return ErrInvalidDayType
	}
	return nil
}

// clampPrediction bounds ETA to [1, 120] whole minutes (truncating) and the
// multiplier to [1.0, 2.0] rounded to two decimals.
func clampPrediction(out domain.ModelOutput) domain.Prediction {
	eta := int(math.Max(minETAMinutes, math.Min(maxETAMinutes, out.ETAMinutes)))
	multiplier := math.Max(minPriceMultiplier, math.Min(maxPriceMultiplier, out.PriceMultiplier))
	return domain.Prediction{
		ETAMinutes:      eta,
		PriceMultiplier: math.Round(multiplier*100) / 100,
	}
}
