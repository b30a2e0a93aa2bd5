package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"ridematch/internal/domain"
	"ridematch/internal/metrics"
)

// DefaultDriverStatsTTL is used when the store is built with a zero TTL.
const DefaultDriverStatsTTL = 5 * time.Minute

const driverStatsPrefix = "cache:driver_stats:"

// CacheStore handles JSON caching in Redis.
type CacheStore struct {
	client   *redis.Client
	statsTTL time.Duration
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client, statsTTL time.Duration) *CacheStore {
	if statsTTL <= 0 {
		statsTTL = DefaultDriverStatsTTL
	}
	return &CacheStore{client: client, statsTTL: statsTTL}
}

// cachedDriverStats is the cached form of domain.DriverStats.
type cachedDriverStats struct {
	Rating         float64 `json:"rating"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// GetDriverStatsBatch retrieves stats for many drivers using a pipeline.
// Returns the hits and the ids that must be loaded elsewhere.
func (s *CacheStore) GetDriverStatsBatch(ctx context.Context, driverIDs []string) (map[string]domain.DriverStats, []string, error) {
	result := make(map[string]domain.DriverStats, len(driverIDs))
	if len(driverIDs) == 0 {
		return result, nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(driverIDs))
	for i, id := range driverIDs {
		cmds[i] = pipe.Get(ctx, driverStatsPrefix+id)
	}

	// Exec reports redis.Nil for any missing key; those are handled per command.
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return result, driverIDs, err
	}

	var missing []string
	for i, cmd := range cmds {
		id := driverIDs[i]
		data, err := cmd.Bytes()
		if err != nil {
			missing = append(missing, id)
			continue
		}

		var cached cachedDriverStats
		if err := json.Unmarshal(data, &cached); err != nil {
			missing = append(missing, id)
			continue
		}
		result[id] = domain.DriverStats{Rating: cached.Rating, AcceptanceRate: cached.AcceptanceRate}
	}

	metrics.RecordCacheLookup("driver_stats", len(result), len(missing))
	return result, missing, nil
}

// SetDriverStatsBatch stores stats for many drivers using a pipeline.
func (s *CacheStore) SetDriverStatsBatch(ctx context.Context, stats map[string]domain.DriverStats) error {
	if len(stats) == 0 {
		return nil
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pipe := s.client.Pipeline()
	for _, id := range ids {
		st := stats[id]
		data, err := json.Marshal(cachedDriverStats{Rating: st.Rating, AcceptanceRate: st.AcceptanceRate})
		if err != nil {
			continue
		}
		pipe.Set(ctx, driverStatsPrefix+id, data, s.statsTTL)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// GetJSON decodes the value at key into dest. It reports false on a miss.
func (s *CacheStore) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v at key for ttl.
func (s *CacheStore) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}
