package prediction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridematch/internal/domain"
)

type stubModel struct {
	calls int
	err   error
	out   domain.ModelOutput
}

func (s *stubModel) Predict(context.Context, domain.PredictionInput) (domain.ModelOutput, error) {
	s.calls++
	return s.out, s.err
}

func (s *stubModel) Info() domain.ModelInfo {
	return domain.ModelInfo{Kind: "stub"}
}

func TestBreaker_PassesThrough(t *testing.T) {
	model := &stubModel{out: domain.ModelOutput{ETAMinutes: 12, PriceMultiplier: 1.1}}
	b := NewBreaker(model, BreakerSettings{Name: "pass-through", FailureThreshold: 2, OpenTimeout: time.Minute})

	out, err := b.Predict(context.Background(), domain.PredictionInput{DistanceKm: 3})
	require.NoError(t, err)
	assert.Equal(t, model.out, out)
	assert.Equal(t, "stub", b.Info().Kind)
	assert.Equal(t, "closed", b.State())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	model := &stubModel{err: errors.New("model down")}
	b := NewBreaker(model, BreakerSettings{Name: "opens", FailureThreshold: 2, OpenTimeout: time.Minute})
	ctx := context.Background()

	_, err := b.Predict(ctx, domain.PredictionInput{})
	assert.EqualError(t, err, "model down")
	_, err = b.Predict(ctx, domain.PredictionInput{})
	assert.EqualError(t, err, "model down")

	_, err = b.Predict(ctx, domain.PredictionInput{})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, model.calls, "open breaker must not call the model")
	assert.Equal(t, "open", b.State())
}

func TestBreaker_CanceledCallsDoNotTrip(t *testing.T) {
	model := &stubModel{err: context.Canceled}
	b := NewBreaker(model, BreakerSettings{Name: "canceled", FailureThreshold: 1, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		_, err := b.Predict(context.Background(), domain.PredictionInput{})
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, 3, model.calls)
	assert.Equal(t, "closed", b.State())
}
