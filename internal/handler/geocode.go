package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridematch/internal/domain"
	"ridematch/internal/geocode"
)

// GeocodeHandler handles place autocomplete and reverse geocoding.
type GeocodeHandler struct {
	geocoder *geocode.Service
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(geocoder *geocode.Service) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

// AutocompleteQuery holds the query parameters of an autocomplete request.
type AutocompleteQuery struct {
	Q     string   `form:"q" validate:"required,max=200"`
	Lat   *float64 `form:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng   *float64 `form:"lng" validate:"omitempty,gte=-180,lte=180"`
	Limit int      `form:"limit" validate:"omitempty,gte=1,lte=10"`
}

// ReverseQuery holds the query parameters of a reverse geocoding request.
type ReverseQuery struct {
	Lat *float64 `form:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `form:"lng" validate:"required,gte=-180,lte=180"`
}

// AutocompleteResponse lists matching places.
type AutocompleteResponse struct {
	Results []geocode.Place `json:"results"`
}

// Autocomplete handles GET /api/geo/autocomplete
func (h *GeocodeHandler) Autocomplete(c *gin.Context) {
	var q AutocompleteQuery
	if !bindQuery(c, &q) {
		return
	}

	if (q.Lat == nil) != (q.Lng == nil) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng must be given together"})
		return
	}

	var near *domain.Coordinate
	if q.Lat != nil {
		near = &domain.Coordinate{Lat: *q.Lat, Lng: *q.Lng}
	}

	places, err := h.geocoder.Autocomplete(c.Request.Context(), q.Q, near, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AutocompleteResponse{Results: places})
}

// Reverse handles GET /api/geo/reverse
func (h *GeocodeHandler) Reverse(c *gin.Context) {
	var q ReverseQuery
	if !bindQuery(c, &q) {
		return
	}

	place, err := h.geocoder.Reverse(c.Request.Context(), domain.Coordinate{Lat: *q.Lat, Lng: *q.Lng})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, place)
}
