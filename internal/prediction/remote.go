package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ridematch/internal/domain"
	"ridematch/internal/logger"
)

const (
	predictPath     = "/api/predict"
	requestIDHeader = "X-Request-ID"
)

// RemoteModel asks a model server for predictions.
type RemoteModel struct {
	httpClient *http.Client
	baseURL    string
}

// NewRemoteModel creates a client for the model server at baseURL.
func NewRemoteModel(baseURL string, timeout time.Duration) *RemoteModel {
	return &RemoteModel{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type remoteRequest struct {
	DistanceKm float64 `json:"distance_km"`
	TimeOfDay  string  `json:"time_of_day"`
	DayType    string  `json:"day_type"`
}

type remoteResponse struct {
	ETAMinutes      *float64 `json:"eta_minutes"`
	PriceMultiplier *float64 `json:"price_multiplier"`
}

// StatusError is returned when the model server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model server returned %d: %s", e.StatusCode, e.Body)
}

// Predict posts the input to the model server.
func (m *RemoteModel) Predict(ctx context.Context, in domain.PredictionInput) (domain.ModelOutput, error) {
	body, err := json.Marshal(remoteRequest{
		DistanceKm: in.DistanceKm,
		TimeOfDay:  string(in.TimeOfDay),
		DayType:    string(in.DayType),
	})
	if err != nil {
		return domain.ModelOutput{}, fmt.Errorf("marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+predictPath, bytes.NewReader(body))
	if err != nil {
		return domain.ModelOutput{}, fmt.Errorf("create prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := logger.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return domain.ModelOutput{}, fmt.Errorf("call model server: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.ModelOutput{}, fmt.Errorf("read model server response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ModelOutput{}, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var out remoteResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return domain.ModelOutput{}, fmt.Errorf("decode model server response: %w", err)
	}
	if out.ETAMinutes == nil || out.PriceMultiplier == nil {
		return domain.ModelOutput{}, fmt.Errorf("model server response is missing fields")
	}

	return domain.ModelOutput{ETAMinutes: *out.ETAMinutes, PriceMultiplier: *out.PriceMultiplier}, nil
}

// Info describes the remote model.
func (m *RemoteModel) Info() domain.ModelInfo {
	return domain.ModelInfo{Kind: "remote", Version: "unknown", Source: m.baseURL}
}
