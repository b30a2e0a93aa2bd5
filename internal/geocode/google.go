package geocode

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"ridematch/internal/domain"
)

const (
	googleSource       = "google"
	googleSearchRadius = 5000 // metres
)

// GoogleProvider geocodes through the Google Maps Places and Geocoding APIs.
type GoogleProvider struct {
	client   *maps.Client
	language string
}

// NewGoogleProvider creates a GoogleProvider for apiKey.
func NewGoogleProvider(apiKey, language string) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleProvider{client: client, language: language}, nil
}

func (p *GoogleProvider) Name() string {
	return googleSource
}

// Search runs a text search, restricted to 5 km around near when given.
func (p *GoogleProvider) Search(ctx context.Context, query string, near *domain.Coordinate, limit int) ([]Place, error) {
	req := &maps.TextSearchRequest{
		Query:    query,
		Language: p.language,
	}
	if near != nil {
		req.Location = &maps.LatLng{Lat: near.Lat, Lng: near.Lng}
		req.Radius = googleSearchRadius
	}

	resp, err := p.client.TextSearch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	places := make([]Place, 0, limit)
	for _, r := range resp.Results {
		if len(places) >= limit {
			break
		}
		places = append(places, Place{
			PlaceID: r.PlaceID,
			Name:    r.Name,
			Lat:     r.Geometry.Location.Lat,
			Lng:     r.Geometry.Location.Lng,
			Address: r.FormattedAddress,
			Source:  googleSource,
		})
	}
	return places, nil
}

// Reverse returns the best reverse geocoding match. The coordinate echoed back
// is the one asked for, not the match's.
func (p *GoogleProvider) Reverse(ctx context.Context, at domain.Coordinate) (Place, error) {
	results, err := p.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: at.Lat, Lng: at.Lng},
		Language: p.language,
	})
	if err != nil {
		return Place{}, fmt.Errorf("geocoding api error: %w", err)
	}

	place := Place{Lat: at.Lat, Lng: at.Lng, Source: googleSource}
	if len(results) == 0 {
		return place, nil
	}

	best := results[0]
	place.PlaceID = best.PlaceID
	place.Address = best.FormattedAddress
	if len(best.AddressComponents) > 0 {
		place.Name = best.AddressComponents[0].LongName
	}
	return place, nil
}
