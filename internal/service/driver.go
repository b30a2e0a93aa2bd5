package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ridematch/internal/domain"
	"ridematch/internal/logger"
	"ridematch/internal/redis"
	"ridematch/internal/repository"
)

const statsCacheFillTimeout = 2 * time.Second

// DriverStatsService resolves driver stats from the cache first and the
// database for misses.
type DriverStatsService struct {
	cacheStore redis.StatsCacheInterface
	statsRepo  repository.DriverStatsRepository
}

// NewDriverStatsService creates a new DriverStatsService. Either dependency may be nil.
func NewDriverStatsService(
	cacheStore redis.StatsCacheInterface,
	statsRepo repository.DriverStatsRepository,
) *DriverStatsService {
	return &DriverStatsService{
		cacheStore: cacheStore,
		statsRepo:  statsRepo,
	}
}

// GetDriverStats returns the recorded stats of the listed drivers. Drivers
// with no record are omitted. A cache failure falls through to the database;
// a database failure is returned together with whatever the cache produced.
func (s *DriverStatsService) GetDriverStats(ctx context.Context, driverIDs []string) (map[string]domain.DriverStats, error) {
	stats, missing := s.fromCache(ctx, driverIDs)
	if len(missing) == 0 || s.statsRepo == nil {
		return stats, nil
	}

	loaded, err := s.statsRepo.GetStatsByIDs(ctx, missing)
	if err != nil {
		return stats, err
	}

	for id, st := range loaded {
		stats[id] = st
	}
	s.cacheStatsAsync(ctx, loaded)

	return stats, nil
}

func (s *DriverStatsService) fromCache(ctx context.Context, driverIDs []string) (map[string]domain.DriverStats, []string) {
	if s.cacheStore == nil {
		return make(map[string]domain.DriverStats, len(driverIDs)), driverIDs
	}

	cached, missing, err := s.cacheStore.GetDriverStatsBatch(ctx, driverIDs)
	if err != nil {
		logger.WithContext(ctx).Warn("driver stats cache read failed", zap.Error(err))
		return make(map[string]domain.DriverStats, len(driverIDs)), driverIDs
	}
	return cached, missing
}

// cacheStatsAsync caches loaded stats in the background (fire and forget).
func (s *DriverStatsService) cacheStatsAsync(ctx context.Context, stats map[string]domain.DriverStats) {
	if s.cacheStore == nil || len(stats) == 0 {
		return
	}

	// The fill outlives the request, but keeps its values for logging.
	fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statsCacheFillTimeout)
	go func() {
		defer cancel()
		if err := s.cacheStore.SetDriverStatsBatch(fillCtx, stats); err != nil {
			logger.WithContext(fillCtx).Debug("driver stats cache fill failed", zap.Error(err))
		}
	}()
}
