package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridematch/internal/domain"
	"ridematch/internal/service"
)

// ServiceInfo identifies the running service in stats and health responses.
type ServiceInfo struct {
	Name    string
	Version string
}

// PredictionHandler handles ETA/price predictions and service stats.
type PredictionHandler struct {
	predictions *service.PredictionService
	info        ServiceInfo
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictions *service.PredictionService, info ServiceInfo) *PredictionHandler {
	return &PredictionHandler{
		predictions: predictions,
		info:        info,
	}
}

// PredictRequest is the HTTP request body for a prediction.
type PredictRequest struct {
	DistanceKm float64 `json:"distance_km"`
	TimeOfDay  string  `json:"time_of_day"`
	DayType    string  `json:"day_type"`
}

// PredictResponse is the HTTP response for a prediction.
type PredictResponse struct {
	ETAMinutes      int     `json:"eta_minutes"`
	PriceMultiplier float64 `json:"price_multiplier"`
	DistanceKm      float64 `json:"distance_km"`
	TimeOfDay       string  `json:"time_of_day"`
	DayType         string  `json:"day_type"`
	Degraded        bool    `json:"degraded,omitempty"`
}

// StatsResponse describes the service and its model.
type StatsResponse struct {
	Service      string `json:"service"`
	Version      string `json:"version"`
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelKind    string `json:"model_kind"`
	ModelVersion string `json:"model_version"`
	ModelPath    string `json:"model_path"`
}

// Predict handles POST /api/predict
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.predictions.Predict(c.Request.Context(), domain.PredictionInput{
		DistanceKm: req.DistanceKm,
		TimeOfDay:  domain.TimeOfDay(req.TimeOfDay),
		DayType:    domain.DayType(req.DayType),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOutcome(c, out.Degraded, out.Reason, PredictResponse{
		ETAMinutes:      out.Value.ETAMinutes,
		PriceMultiplier: out.Value.PriceMultiplier,
		DistanceKm:      req.DistanceKm,
		TimeOfDay:       req.TimeOfDay,
		DayType:         req.DayType,
		Degraded:        out.Degraded,
	})
}

// Stats handles GET /api/stats
func (h *PredictionHandler) Stats(c *gin.Context) {
	model := h.predictions.ModelInfo()
	respondJSON(c, http.StatusOK, StatsResponse{
		Service:      h.info.Name,
		Version:      h.info.Version,
		Status:       "running",
		ModelLoaded:  model.Kind != "",
		ModelKind:    model.Kind,
		ModelVersion: model.Version,
		ModelPath:    model.Source,
	})
}

// Health handles GET /health
func (h *PredictionHandler) Health(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.info.Name,
		"version": h.info.Version,
	})
}
