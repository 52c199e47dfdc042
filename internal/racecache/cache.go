// Package racecache provides a TTL caching layer over a race data source.
package racecache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-optimizer/internal/config"
	"github.com/yourusername/keiba-optimizer/internal/datasource"
	"github.com/yourusername/keiba-optimizer/internal/models"
)

// CachingDataSource decorates a RaceDataSource with per-operation TTL caches.
// Entrant odds move until the off, so the entrant TTL is short; results are
// immutable once published and cache for much longer.
type CachingDataSource struct {
	source   datasource.RaceDataSource
	entrants *gocache.Cache
	results  *gocache.Cache
	logger   *logrus.Logger
}

// New wraps a data source with the configured caches.
func New(source datasource.RaceDataSource, cfg *config.CacheConfig, logger *logrus.Logger) *CachingDataSource {
	entrantTTL := time.Duration(cfg.EntrantTTLSeconds) * time.Second
	resultTTL := time.Duration(cfg.ResultTTLSeconds) * time.Second

	return &CachingDataSource{
		source:   source,
		entrants: gocache.New(entrantTTL, entrantTTL*2),
		results:  gocache.New(resultTTL, resultTTL*2),
		logger:   logger,
	}
}

// ListUpcomingRaces retrieves upcoming races, cached under the entrant TTL.
func (c *CachingDataSource) ListUpcomingRaces(ctx context.Context, days int) ([]models.Race, error) {
	key := fmt.Sprintf("upcoming:%d", days)
	if cached, found := c.entrants.Get(key); found {
		CacheHitsTotal.WithLabelValues("race_list").Inc()
		return cached.([]models.Race), nil
	}
	CacheMissesTotal.WithLabelValues("race_list").Inc()

	races, err := c.source.ListUpcomingRaces(ctx, days)
	if err != nil {
		return nil, err
	}
	c.entrants.SetDefault(key, races)
	return races, nil
}

// ListPastRaces retrieves past races, cached under the entrant TTL.
func (c *CachingDataSource) ListPastRaces(ctx context.Context, days int) ([]models.Race, error) {
	key := fmt.Sprintf("past:%d", days)
	if cached, found := c.entrants.Get(key); found {
		CacheHitsTotal.WithLabelValues("race_list").Inc()
		return cached.([]models.Race), nil
	}
	CacheMissesTotal.WithLabelValues("race_list").Inc()

	races, err := c.source.ListPastRaces(ctx, days)
	if err != nil {
		return nil, err
	}
	c.entrants.SetDefault(key, races)
	return races, nil
}

// FetchEntrants retrieves a race card, cached under the entrant TTL.
func (c *CachingDataSource) FetchEntrants(ctx context.Context, raceID string) ([]models.Horse, error) {
	if cached, found := c.entrants.Get("entrants:" + raceID); found {
		CacheHitsTotal.WithLabelValues("entrants").Inc()
		return cached.([]models.Horse), nil
	}
	CacheMissesTotal.WithLabelValues("entrants").Inc()

	horses, err := c.source.FetchEntrants(ctx, raceID)
	if err != nil {
		return nil, err
	}
	c.entrants.SetDefault("entrants:"+raceID, horses)
	return horses, nil
}

// FetchResult retrieves a race result, cached under the result TTL.
func (c *CachingDataSource) FetchResult(ctx context.Context, raceID string) (*models.RaceResult, error) {
	if cached, found := c.results.Get("result:" + raceID); found {
		CacheHitsTotal.WithLabelValues("result").Inc()
		return cached.(*models.RaceResult), nil
	}
	CacheMissesTotal.WithLabelValues("result").Inc()

	result, err := c.source.FetchResult(ctx, raceID)
	if err != nil {
		return nil, err
	}
	c.results.SetDefault("result:"+raceID, result)
	return result, nil
}

// Name returns the underlying data source name
func (c *CachingDataSource) Name() string {
	return c.source.Name()
}

// HealthCheck delegates to the underlying source; cache state is irrelevant
// to health.
func (c *CachingDataSource) HealthCheck(ctx context.Context) error {
	return c.source.HealthCheck(ctx)
}

// Flush drops every cached entry. Used by the scheduler after a refresh and
// by tests.
func (c *CachingDataSource) Flush() {
	c.entrants.Flush()
	c.results.Flush()
	c.logger.Debug("Race data caches flushed")
}
