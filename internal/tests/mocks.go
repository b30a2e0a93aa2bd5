package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"ridematch/internal/domain"
	"ridematch/internal/geo"
	"ridematch/internal/logger"
	"ridematch/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK SUPPLY/DEMAND GATEWAY
// ──────────────────────────────────────────────

// DriverPosition places a driver for MockGateway.
type DriverPosition struct {
	DriverID string
	Location domain.Coordinate
}

// MockGateway is an in-memory supply/demand gateway. Distances are computed
// with the haversine formula, the way the GEO index does.
type MockGateway struct {
	mu      sync.RWMutex
	drivers []DriverPosition
	rides   []domain.Coordinate

	// Counters for verification
	NearbyCallCount      int32
	ActiveRideCallCount  int32
	DriverCountCallCount int32

	// Error injection
	NearbyError      error
	ActiveRideError  error
	DriverCountError error

	// Delay is applied before every call and honours context cancellation.
	Delay time.Duration
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// AddDriver places a driver.
func (m *MockGateway) AddDriver(driverID string, lat, lng float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers = append(m.drivers, DriverPosition{DriverID: driverID, Location: domain.Coordinate{Lat: lat, Lng: lng}})
}

// AddActiveRide records a ride in progress starting at (lat, lng).
func (m *MockGateway) AddActiveRide(lat, lng float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides = append(m.rides, domain.Coordinate{Lat: lat, Lng: lng})
}

func (m *MockGateway) wait(ctx context.Context) error {
	if m.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockGateway) NearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]domain.DriverCandidate, error) {
	atomic.AddInt32(&m.NearbyCallCount, 1)
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.NearbyError != nil {
		return nil, m.NearbyError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	origin := domain.Coordinate{Lat: lat, Lng: lng}
	var out []domain.DriverCandidate
	for _, d := range m.drivers {
		dist := geo.Distance(origin, d.Location)
		if dist <= radiusKm {
			out = append(out, domain.DriverCandidate{DriverID: d.DriverID, DistanceKm: dist})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

func (m *MockGateway) ActiveRideCount(ctx context.Context, lat, lng, radiusKm float64) (int, error) {
	atomic.AddInt32(&m.ActiveRideCallCount, 1)
	if err := m.wait(ctx); err != nil {
		return 0, err
	}
	if m.ActiveRideError != nil {
		return 0, m.ActiveRideError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	origin := domain.Coordinate{Lat: lat, Lng: lng}
	count := 0
	for _, r := range m.rides {
		if geo.Distance(origin, r) <= radiusKm {
			count++
		}
	}
	return count, nil
}

func (m *MockGateway) AvailableDriverCount(ctx context.Context, lat, lng, radiusKm float64) (int, error) {
	atomic.AddInt32(&m.DriverCountCallCount, 1)
	if err := m.wait(ctx); err != nil {
		return 0, err
	}
	if m.DriverCountError != nil {
		return 0, m.DriverCountError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	origin := domain.Coordinate{Lat: lat, Lng: lng}
	count := 0
	for _, d := range m.drivers {
		if geo.Distance(origin, d.Location) <= radiusKm {
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER STATS REPOSITORY
// ──────────────────────────────────────────────

// MockDriverStatsRepository is a mock implementation of DriverStatsRepository.
type MockDriverStatsRepository struct {
	mu    sync.RWMutex
	stats map[string]domain.DriverStats

	// Counters for verification
	BatchCallCount int32
	LastBatchIDs   []string

	// Error injection
	Error error
}

// NewMockDriverStatsRepository creates a new mock stats repository.
func NewMockDriverStatsRepository() *MockDriverStatsRepository {
	return &MockDriverStatsRepository{stats: make(map[string]domain.DriverStats)}
}

// SetStats records stats for a driver.
func (m *MockDriverStatsRepository) SetStats(driverID string, rating, acceptance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[driverID] = domain.DriverStats{Rating: rating, AcceptanceRate: acceptance}
}

func (m *MockDriverStatsRepository) GetStatsByIDs(ctx context.Context, driverIDs []string) (map[string]domain.DriverStats, error) {
	atomic.AddInt32(&m.BatchCallCount, 1)
	m.mu.Lock()
	m.LastBatchIDs = append([]string(nil), driverIDs...)
	m.mu.Unlock()
	if m.Error != nil {
		return nil, m.Error
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.DriverStats)
	for _, id := range driverIDs {
		if s, ok := m.stats[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (m *MockDriverStatsRepository) GetStats(ctx context.Context, driverID string) (domain.DriverStats, error) {
	got, err := m.GetStatsByIDs(ctx, []string{driverID})
	if err != nil {
		return domain.DriverStats{}, err
	}
	s, ok := got[driverID]
	if !ok {
		return domain.DriverStats{}, repository.ErrNotFound
	}
	return s, nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER STATS CACHE
// ──────────────────────────────────────────────

// MockStatsCache is an in-memory driver stats cache.
type MockStatsCache struct {
	mu    sync.RWMutex
	stats map[string]domain.DriverStats

	// Error injection
	GetError error
	SetError error

	// Stored receives every successful SetDriverStatsBatch call.
	Stored chan map[string]domain.DriverStats
	// StoredRequestIDs receives the request id seen by each successful store.
	StoredRequestIDs chan string
}

// NewMockStatsCache creates a new mock cache.
func NewMockStatsCache() *MockStatsCache {
	return &MockStatsCache{
		stats:            make(map[string]domain.DriverStats),
		Stored:           make(chan map[string]domain.DriverStats, 16),
		StoredRequestIDs: make(chan string, 16),
	}
}

// Put seeds a cache entry.
func (m *MockStatsCache) Put(driverID string, rating, acceptance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[driverID] = domain.DriverStats{Rating: rating, AcceptanceRate: acceptance}
}

// Has reports whether driverID is cached.
func (m *MockStatsCache) Has(driverID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.stats[driverID]
	return ok
}

func (m *MockStatsCache) GetDriverStatsBatch(ctx context.Context, driverIDs []string) (map[string]domain.DriverStats, []string, error) {
	if m.GetError != nil {
		return nil, nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := make(map[string]domain.DriverStats)
	var missing []string
	for _, id := range driverIDs {
		if s, ok := m.stats[id]; ok {
			hits[id] = s
		} else {
			missing = append(missing, id)
		}
	}
	return hits, missing, nil
}

func (m *MockStatsCache) SetDriverStatsBatch(ctx context.Context, stats map[string]domain.DriverStats) error {
	if m.SetError != nil {
		return m.SetError
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	for id, s := range stats {
		m.stats[id] = s
	}
	m.mu.Unlock()

	select {
	case m.StoredRequestIDs <- logger.RequestIDFromContext(ctx):
	default:
	}
	select {
	case m.Stored <- stats:
	default:
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK PREDICTION MODEL
// ──────────────────────────────────────────────

// MockModel returns a fixed output or error.
type MockModel struct {
	Output domain.ModelOutput
	Error  error

	CallCount int32
}

func (m *MockModel) Predict(ctx context.Context, in domain.PredictionInput) (domain.ModelOutput, error) {
	atomic.AddInt32(&m.CallCount, 1)
	if m.Error != nil {
		return domain.ModelOutput{}, m.Error
	}
	return m.Output, nil
}

func (m *MockModel) Info() domain.ModelInfo {
	return domain.ModelInfo{Kind: "mock", Version: "test", Source: "memory"}
}

// ──────────────────────────────────────────────
// FIXED CLOCK TRAFFIC
// ──────────────────────────────────────────────

// FixedTraffic always reports the same traffic factor.
type FixedTraffic float64

func (f FixedTraffic) Factor(context.Context, domain.Coordinate) float64 {
	return float64(f)
}
