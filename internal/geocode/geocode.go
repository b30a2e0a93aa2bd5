package geocode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ridematch/internal/domain"
	"ridematch/internal/logger"
	"ridematch/internal/metrics"
)

const (
	defaultLimit = 5
	maxLimit     = 10
)

var (
	// ErrEmptyQuery is returned when an autocomplete query is blank.
	ErrEmptyQuery = errors.New("query is required")

	// ErrInvalidLocation is returned for coordinates outside WGS84 ranges.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrProvider wraps failures of the geocoding provider.
	ErrProvider = errors.New("geocoding provider failed")
)

// Place is a geocoded location as returned to clients and stored in the cache.
type Place struct {
	PlaceID string  `json:"place_id"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
	Source  string  `json:"source"`
}

// Provider is a forward and reverse geocoder.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, near *domain.Coordinate, limit int) ([]Place, error)
	Reverse(ctx context.Context, at domain.Coordinate) (Place, error)
}

// Cache stores JSON documents with an expiry.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Service answers autocomplete and reverse lookups through a read-through cache.
type Service struct {
	provider Provider
	cache    Cache
	ttl      time.Duration
}

// NewService creates a new Service. cache may be nil.
func NewService(provider Provider, cache Cache, ttl time.Duration) *Service {
	return &Service{provider: provider, cache: cache, ttl: ttl}
}

// Autocomplete returns up to limit places matching query, biased towards near
// when given. A non-positive limit means 5; limits above 10 are capped.
func (s *Service) Autocomplete(ctx context.Context, query string, near *domain.Coordinate, limit int) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if near != nil && !near.Valid() {
		return nil, ErrInvalidLocation
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var lat, lng string
	if near != nil {
		lat, lng = formatCoord(near.Lat), formatCoord(near.Lng)
	}
	key := fmt.Sprintf("geo:ac:%s:%s:%s:%s:%d", s.provider.Name(), query, lat, lng, limit)

	var places []Place
	if s.readCache(ctx, key, &places) {
		return places, nil
	}

	places, err := s.provider.Search(ctx, query, near, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if places == nil {
		places = []Place{}
	}

	s.writeCache(ctx, key, places)
	return places, nil
}

// Reverse returns the place at a coordinate.
func (s *Service) Reverse(ctx context.Context, at domain.Coordinate) (Place, error) {
	if !at.Valid() {
		return Place{}, ErrInvalidLocation
	}

	key := fmt.Sprintf("geo:rev:%s:%s:%s", s.provider.Name(), formatCoord(at.Lat), formatCoord(at.Lng))

	var place Place
	if s.readCache(ctx, key, &place) {
		return place, nil
	}

	place, err := s.provider.Reverse(ctx, at)
	if err != nil {
		return Place{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	s.writeCache(ctx, key, place)
	return place, nil
}

func (s *Service) readCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		logger.WithContext(ctx).Warn("geocode cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if found {
		metrics.RecordCacheLookup("geocode", 1, 0)
	} else {
		metrics.RecordCacheLookup("geocode", 0, 1)
	}
	return found
}

func (s *Service) writeCache(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, s.ttl); err != nil {
		logger.WithContext(ctx).Warn("geocode cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
