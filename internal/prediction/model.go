package prediction

import (
	"context"

	"ridematch/internal/domain"
)

// Model produces raw ETA and price multiplier predictions.
type Model interface {
	Predict(ctx context.Context, in domain.PredictionInput) (domain.ModelOutput, error)
	Info() domain.ModelInfo
}

var (
	_ Model = (*LinearModel)(nil)
	_ Model = (*RemoteModel)(nil)
	_ Model = (*Breaker)(nil)
)
