package prediction

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"ridematch/internal/domain"
	"ridematch/internal/logger"
	"ridematch/internal/metrics"
)

// ErrCircuitOpen is returned while the breaker refuses calls.
var ErrCircuitOpen = errors.New("prediction circuit breaker open")

// BreakerSettings configures a Breaker.
type BreakerSettings struct {
	Name             string
	FailureThreshold uint32        // Consecutive failures that open the breaker
	OpenTimeout      time.Duration // Time spent open before probing again
}

// Breaker guards a Model with a circuit breaker.
type Breaker struct {
	model   Model
	breaker *gobreaker.CircuitBreaker
}

// NewBreaker wraps model.
func NewBreaker(model Model, settings BreakerSettings) *Breaker {
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	name := settings.Name
	if name == "" {
		name = "prediction"
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller giving up says nothing about the model's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, stateValue(to))
			logger.Info("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	metrics.SetBreakerState(name, stateValue(cb.State()))

	return &Breaker{model: model, breaker: cb}
}

// Predict calls the wrapped model unless the breaker is open.
func (b *Breaker) Predict(ctx context.Context, in domain.PredictionInput) (domain.ModelOutput, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.model.Predict(ctx, in)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.ModelOutput{}, ErrCircuitOpen
		}
		return domain.ModelOutput{}, err
	}
	return result.(domain.ModelOutput), nil
}

// Info describes the wrapped model.
func (b *Breaker) Info() domain.ModelInfo {
	return b.model.Info()
}

// State returns the breaker state name.
func (b *Breaker) State() string {
	return b.breaker.State().String()
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 0.5
	case gobreaker.StateOpen:
		return 1
	default:
		return -1
	}
}
