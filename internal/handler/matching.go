package handler

import (
	"github.com/gin-gonic/gin"

	"ridematch/internal/service"
)

// MatchingHandler handles driver matching and lookup.
type MatchingHandler struct {
	matching *service.MatchingService
}

// NewMatchingHandler creates a new MatchingHandler.
func NewMatchingHandler(matching *service.MatchingService) *MatchingHandler {
	return &MatchingHandler{matching: matching}
}

// MatchRequest is the HTTP request body for ranking drivers for a ride.
type MatchRequest struct {
	RideID        string        `json:"ride_id" validate:"required,max=128"`
	Pickup        *LocationBody `json:"pickup" validate:"required"`
	VehicleType   string        `json:"vehicle_type" validate:"omitempty,max=32"`
	MaxDistanceKm *float64      `json:"max_distance_km" validate:"omitempty,gt=0,lte=50"`
	Limit         int           `json:"limit" validate:"omitempty,gte=1,lte=20"`
}

// MatchedDriver is a ranked driver in a match response.
type MatchedDriver struct {
	DriverID       string  `json:"driver_id"`
	DistanceKm     float64 `json:"distance_km"`
	ETAMinutes     int     `json:"eta_minutes"`
	Rating         float64 `json:"rating"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	Score          float64 `json:"score"`
}

// MatchResponse is the HTTP response for a match request.
type MatchResponse struct {
	RideID         string          `json:"ride_id"`
	MatchedDrivers []MatchedDriver `json:"matched_drivers"`
	TotalAvailable int             `json:"total_available"`
	Degraded       bool            `json:"degraded,omitempty"`
}

// FindDriversRequest is the HTTP request body for listing nearby drivers.
type FindDriversRequest struct {
	Pickup         *LocationBody `json:"pickup" validate:"required"`
	VehicleType    string        `json:"vehicle_type" validate:"omitempty,max=32"`
	SearchRadiusKm *float64      `json:"search_radius_km" validate:"omitempty,gt=0,lte=50"`
}

// SuggestedDriver is a nearby driver in a find-drivers response.
type SuggestedDriver struct {
	DriverID       string  `json:"driver_id"`
	DistanceKm     float64 `json:"distance_km"`
	ETAMinutes     int     `json:"eta_minutes"`
	Rating         float64 `json:"rating"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// FindDriversResponse is the HTTP response for a find-drivers request.
type FindDriversResponse struct {
	VehicleType      string            `json:"vehicle_type"`
	SuggestedDrivers []SuggestedDriver `json:"suggested_drivers"`
	TotalFound       int               `json:"total_found"`
	Degraded         bool              `json:"degraded,omitempty"`
}

// Match handles POST /api/match/drivers
func (h *MatchingHandler) Match(c *gin.Context) {
	var req MatchRequest
	if !bindJSON(c, &req) {
		return
	}

	var maxDistance float64
	if req.MaxDistanceKm != nil {
		maxDistance = *req.MaxDistanceKm
	}

	out, err := h.matching.Match(c.Request.Context(), service.MatchRequest{
		RideID:        req.RideID,
		Pickup:        req.Pickup.coordinate(),
		VehicleClass:  req.VehicleType,
		MaxDistanceKm: maxDistance,
		Limit:         req.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	drivers := make([]MatchedDriver, 0, len(out.Value.Drivers))
	for _, d := range out.Value.Drivers {
		drivers = append(drivers, MatchedDriver{
			DriverID:       d.DriverID,
			DistanceKm:     round(d.DistanceKm, 2),
			ETAMinutes:     d.ETAMinutes,
			Rating:         d.Rating,
			AcceptanceRate: d.AcceptanceRate,
			Score:          round(d.Score, 3),
		})
	}

	respondOutcome(c, out.Degraded, out.Reason, MatchResponse{
		RideID:         out.Value.RideID,
		MatchedDrivers: drivers,
		TotalAvailable: out.Value.TotalAvailable,
		Degraded:       out.Degraded,
	})
}

// FindDrivers handles POST /api/drivers/find
func (h *MatchingHandler) FindDrivers(c *gin.Context) {
	var req FindDriversRequest
	if !bindJSON(c, &req) {
		return
	}

	var radius float64
	if req.SearchRadiusKm != nil {
		radius = *req.SearchRadiusKm
	}

	out, err := h.matching.FindDrivers(c.Request.Context(), req.Pickup.coordinate(), req.VehicleType, radius)
	if err != nil {
		respondError(c, err)
		return
	}

	drivers := make([]SuggestedDriver, 0, len(out.Value.Drivers))
	for _, d := range out.Value.Drivers {
		drivers = append(drivers, SuggestedDriver{
			DriverID:       d.DriverID,
			DistanceKm:     round(d.DistanceKm, 2),
			ETAMinutes:     d.ETAMinutes,
			Rating:         d.Rating,
			AcceptanceRate: d.AcceptanceRate,
		})
	}

	respondOutcome(c, out.Degraded, out.Reason, FindDriversResponse{
		VehicleType:      out.Value.VehicleType,
		SuggestedDrivers: drivers,
		TotalFound:       out.Value.TotalFound,
		Degraded:         out.Degraded,
	})
}
