package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridematch/internal/domain"
	"ridematch/internal/logger"
)

func TestRemoteModel_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, predictPath, r.URL.Path)
		assert.Equal(t, "req-7", r.Header.Get(requestIDHeader))

		var body remoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 8.5, body.DistanceKm)
		assert.Equal(t, "RUSH_HOUR", body.TimeOfDay)
		assert.Equal(t, "WEEKDAY", body.DayType)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"eta_minutes": 22, "price_multiplier": 1.08}`))
	}))
	defer srv.Close()

	m := NewRemoteModel(srv.URL+"/", time.Second)
	ctx := logger.ContextWithRequestID(context.Background(), "req-7")

	out, err := m.Predict(ctx, domain.PredictionInput{
		DistanceKm: 8.5,
		TimeOfDay:  domain.TimeOfDayRushHour,
		DayType:    domain.DayTypeWeekday,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ModelOutput{ETAMinutes: 22, PriceMultiplier: 1.08}, out)
	assert.Equal(t, "remote", m.Info().Kind)
}

func TestRemoteModel_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`},
		{"bad json", http.StatusOK, `nope`},
		{"missing fields", http.StatusOK, `{"eta_minutes": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewRemoteModel(srv.URL, time.Second).Predict(context.Background(), domain.PredictionInput{DistanceKm: 1})
			assert.Error(t, err)
		})
	}
}

func TestRemoteModel_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewRemoteModel(srv.URL, time.Second).Predict(context.Background(), domain.PredictionInput{DistanceKm: 1})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}
