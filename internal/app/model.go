package app

import (
	"fmt"

	"ridematch/internal/config"
	"ridematch/internal/prediction"
)

// NewPredictionModel selects the prediction model: a remote model server when
// MODEL_SERVER_URL is set, else the model file at MODEL_PATH, else the
// built-in baseline. The result is wrapped in a circuit breaker.
func NewPredictionModel(cfg config.PredictionConfig) (prediction.Model, error) {
	var model prediction.Model

	switch {
	case cfg.RemoteURL != "":
		model = prediction.NewRemoteModel(cfg.RemoteURL, cfg.Timeout)
	case cfg.ModelPath != "":
		linear, err := prediction.LoadLinearModel(cfg.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load model: %w", err)
		}
		model = linear
	default:
		model = prediction.BaselineModel()
	}

	return prediction.NewBreaker(model, prediction.BreakerSettings{
		Name:             "prediction",
		FailureThreshold: cfg.BreakerFailures,
		OpenTimeout:      cfg.BreakerOpenTimeout,
	}), nil
}
