package racecache

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-optimizer/internal/config"
	"github.com/yourusername/keiba-optimizer/internal/models"
)

// countingSource counts upstream calls so tests can observe cache behavior.
type countingSource struct {
	entrantCalls int
	resultCalls  int
	listCalls    int
	healthErr    error
}

func (s *countingSource) ListUpcomingRaces(ctx context.Context, days int) ([]models.Race, error) {
	s.listCalls++
	return []models.Race{{ID: "r1"}}, nil
}

func (s *countingSource) ListPastRaces(ctx context.Context, days int) ([]models.Race, error) {
	s.listCalls++
	return []models.Race{{ID: "r0"}}, nil
}

func (s *countingSource) FetchEntrants(ctx context.Context, raceID string) ([]models.Horse, error) {
	s.entrantCalls++
	return []models.Horse{{ID: raceID + "-1", HorseNumber: 1, OddsWin: 2.0}}, nil
}

func (s *countingSource) FetchResult(ctx context.Context, raceID string) (*models.RaceResult, error) {
	s.resultCalls++
	return &models.RaceResult{RaceID: raceID}, nil
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) HealthCheck(ctx context.Context) error { return s.healthErr }

func newTestCache(source *countingSource) *CachingDataSource {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return New(source, &config.CacheConfig{EntrantTTLSeconds: 60, ResultTTLSeconds: 3600}, logger)
}

func TestEntrantsAreCached(t *testing.T) {
	source := &countingSource{}
	cache := newTestCache(source)
	ctx := context.Background()

	first, err := cache.FetchEntrants(ctx, "r1")
	require.NoError(t, err)
	second, err := cache.FetchEntrants(ctx, "r1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.entrantCalls)

	// A different race is a different key.
	_, err = cache.FetchEntrants(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, 2, source.entrantCalls)
}

func TestResultsAreCached(t *testing.T) {
	source := &countingSource{}
	cache := newTestCache(source)
	ctx := context.Background()

	_, err := cache.FetchResult(ctx, "r1")
	require.NoError(t, err)
	_, err = cache.FetchResult(ctx, "r1")
	require.NoError(t, err)

	assert.Equal(t, 1, source.resultCalls)
}

func TestRaceListsAreCachedPerWindow(t *testing.T) {
	source := &countingSource{}
	cache := newTestCache(source)
	ctx := context.Background()

	_, err := cache.ListUpcomingRaces(ctx, 7)
	require.NoError(t, err)
	_, err = cache.ListUpcomingRaces(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, source.listCalls)

	// A different window or direction bypasses the cached entry.
	_, err = cache.ListUpcomingRaces(ctx, 14)
	require.NoError(t, err)
	_, err = cache.ListPastRaces(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, source.listCalls)
}

func TestFlushDropsEntries(t *testing.T) {
	source := &countingSource{}
	cache := newTestCache(source)
	ctx := context.Background()

	_, err := cache.FetchEntrants(ctx, "r1")
	require.NoError(t, err)
	cache.Flush()
	_, err = cache.FetchEntrants(ctx, "r1")
	require.NoError(t, err)

	assert.Equal(t, 2, source.entrantCalls)
}

func TestHealthCheckBypassesCache(t *testing.T) {
	source := &countingSource{healthErr: models.ErrDataUnavailable}
	cache := newTestCache(source)

	assert.ErrorIs(t, cache.HealthCheck(context.Background()), models.ErrDataUnavailable)
	assert.Equal(t, "counting", cache.Name())
}
