package handler

import (
	"github.com/gin-gonic/gin"

	"ridematch/internal/domain"
	"ridematch/internal/service"
)

// PricingHandler handles fare estimates and surge queries.
type PricingHandler struct {
	estimator *service.RideEstimator
	pricing   *service.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(estimator *service.RideEstimator, pricing *service.PricingService) *PricingHandler {
	return &PricingHandler{
		estimator: estimator,
		pricing:   pricing,
	}
}

// EstimateRequest is the HTTP request body for a fare estimate.
type EstimateRequest struct {
	Pickup      *LocationBody `json:"pickup" validate:"required"`
	Destination *LocationBody `json:"destination" validate:"required"`
	VehicleType string        `json:"vehicle_type" validate:"omitempty,max=32"`
}

// FareBreakdownResponse itemises a fare.
type FareBreakdownResponse struct {
	BaseFare        int64   `json:"base_fare"`
	DistanceFare    int64   `json:"distance_fare"`
	TimeFare        int64   `json:"time_fare"`
	Subtotal        int64   `json:"subtotal"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
	Total           int64   `json:"total"`
}

// EstimateResponse is the HTTP response for a fare estimate.
type EstimateResponse struct {
	DistanceKm      float64               `json:"distance_km"`
	DurationMinutes int                   `json:"duration_minutes"`
	EstimatedFare   int64                 `json:"estimated_fare"`
	SurgeMultiplier float64               `json:"surge_multiplier"`
	TrafficFactor   float64               `json:"traffic_factor"`
	VehicleType     string                `json:"vehicle_type"`
	FareBreakdown   FareBreakdownResponse `json:"fare_breakdown"`
	Degraded        bool                  `json:"degraded,omitempty"`
}

// SurgeRequest is the HTTP request body for a surge query.
type SurgeRequest struct {
	Location *LocationBody `json:"location" validate:"required"`
	RadiusKm *float64      `json:"radius_km" validate:"omitempty,gt=0,lte=50"`
}

// SurgeResponse is the HTTP response for a surge query.
type SurgeResponse struct {
	SurgeMultiplier  float64 `json:"surge_multiplier"`
	DemandLevel      string  `json:"demand_level"`
	ActiveRides      int     `json:"active_rides"`
	AvailableDrivers int     `json:"available_drivers"`
	Degraded         bool    `json:"degraded,omitempty"`
}

// Estimate handles POST /api/ride/estimate
func (h *PricingHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.estimator.Estimate(c.Request.Context(), domain.RideEstimateRequest{
		Pickup:       req.Pickup.coordinate(),
		Destination:  req.Destination.coordinate(),
		VehicleClass: req.VehicleType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	est := out.Value
	fare := est.Fare
	respondOutcome(c, out.Degraded, out.Reason, EstimateResponse{
		DistanceKm:      round(est.DistanceKm, 2),
		DurationMinutes: est.DurationMinutes,
		EstimatedFare:   fare.Total,
		SurgeMultiplier: est.SurgeMultiplier,
		TrafficFactor:   est.TrafficFactor,
		VehicleType:     est.VehicleClass,
		FareBreakdown: FareBreakdownResponse{
			BaseFare:        fare.BaseFare,
			DistanceFare:    fare.DistanceFare,
			TimeFare:        fare.TimeFare,
			Subtotal:        fare.Subtotal,
			SurgeMultiplier: fare.SurgeMultiplier,
			Total:           fare.Total,
		},
		Degraded: out.Degraded,
	})
}

// Surge handles POST /api/surge/pricing
func (h *PricingHandler) Surge(c *gin.Context) {
	var req SurgeRequest
	if !bindJSON(c, &req) {
		return
	}

	var radiusKm float64
	if req.RadiusKm != nil {
		radiusKm = *req.RadiusKm
	}

	out, err := h.pricing.SurgeQuery(c.Request.Context(), req.Location.coordinate(), radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	state := out.Value
	respondOutcome(c, out.Degraded, out.Reason, SurgeResponse{
		SurgeMultiplier:  state.Multiplier,
		DemandLevel:      string(state.DemandLevel),
		ActiveRides:      state.ActiveRides,
		AvailableDrivers: state.AvailableDrivers,
		Degraded:         out.Degraded,
	})
}
