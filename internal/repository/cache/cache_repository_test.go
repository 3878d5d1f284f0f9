package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/poi-zoom-service/internal/config"
	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/domain/repository"
	"github.com/poi-zoom-service/internal/repository/cache"
)

// CacheRepositorySuite runs against a local Redis, DB 1
type CacheRepositorySuite struct {
	suite.Suite
	redis *cache.Redis
	repo  repository.CacheRepository
	ctx   context.Context
}

func (s *CacheRepositorySuite) SetupSuite() {
	r, err := cache.NewRedis(context.Background(), &config.RedisConfig{
		Host:     "localhost",
		Port:     6379,
		DB:       1,
		PoolSize: 2,
	}, zap.NewNop())
	if err != nil {
		s.T().Skipf("Redis not available for integration tests: %v", err)
	}
	s.redis = r
	s.repo = cache.NewCacheRepository(r)
}

func (s *CacheRepositorySuite) TearDownSuite() {
	if s.redis != nil {
		s.redis.Close()
	}
}

func (s *CacheRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.redis.Client().Del(s.ctx, cache.SelectionStatsKey, "test:zoom:key").Err())
}

func (s *CacheRepositorySuite) TestGetSetDelete() {
	val, err := s.repo.Get(s.ctx, "test:zoom:key")
	s.NoError(err)
	s.Nil(val, "miss returns nil without error")

	s.Require().NoError(s.repo.Set(s.ctx, "test:zoom:key", []byte(`{"zoom":17}`), time.Minute))

	exists, err := s.repo.Exists(s.ctx, "test:zoom:key")
	s.NoError(err)
	s.True(exists)

	val, err = s.repo.Get(s.ctx, "test:zoom:key")
	s.NoError(err)
	s.Equal(`{"zoom":17}`, string(val))

	ttl, err := s.redis.Client().TTL(s.ctx, "test:zoom:key").Result()
	s.NoError(err)
	s.Greater(ttl, time.Duration(0))

	s.Require().NoError(s.repo.Delete(s.ctx, "test:zoom:key"))
	exists, err = s.repo.Exists(s.ctx, "test:zoom:key")
	s.NoError(err)
	s.False(exists)
}

func (s *CacheRepositorySuite) TestSelectionStats() {
	stats, err := s.repo.GetSelectionStats(s.ctx)
	s.NoError(err)
	s.Len(stats, len(domain.TerminationReasons))
	for _, reason := range domain.TerminationReasons {
		s.Zero(stats[reason])
	}

	s.Require().NoError(s.repo.IncrSelectionStat(s.ctx, domain.TargetReachedWithinRadius))
	s.Require().NoError(s.repo.IncrSelectionStat(s.ctx, domain.TargetReachedWithinRadius))
	s.Require().NoError(s.repo.IncrSelectionStat(s.ctx, domain.ZoomLimitReached))

	stats, err = s.repo.GetSelectionStats(s.ctx)
	s.NoError(err)
	s.Equal(int64(2), stats[domain.TargetReachedWithinRadius])
	s.Equal(int64(1), stats[domain.ZoomLimitReached])
	s.Equal(int64(0), stats[domain.FirstMatchBeyondRadius])
}

func (s *CacheRepositorySuite) TestSelectionStats_SkipsMalformedCounter() {
	s.Require().NoError(s.redis.Client().HSet(s.ctx, cache.SelectionStatsKey, "bogus", "x").Err())

	stats, err := s.repo.GetSelectionStats(s.ctx)
	s.NoError(err)
	_, ok := stats[domain.TerminationReason("bogus")]
	s.False(ok)
}

func (s *CacheRepositorySuite) TestHealth() {
	s.NoError(s.redis.Health(s.ctx))
}

func TestCacheRepositorySuite(t *testing.T) {
	suite.Run(t, new(CacheRepositorySuite))
}
