package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-optimizer/internal/models"
)

func newTestAPIClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewAPIClient(NewRateLimitedHTTPClient(cfg, logger), srv.URL, 5, logger)
}

func TestListUpcomingRaces(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/races", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("from"))
		require.NotEmpty(t, r.URL.Query().Get("to"))

		w.Write([]byte(`[
			{"race_id":"202605021101","race_name":"日本ダービー","course":"芝2400m","date":"2026-05-31"},
			{"race_id":"202699990001","race_name":"未知","course":"芝1200m","date":"2026-06-01"}
		]`))
	})

	races, err := client.ListUpcomingRaces(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, races, 2)

	assert.Equal(t, "202605021101", races[0].ID)
	assert.Equal(t, "Tokyo", races[0].Venue)
	assert.Equal(t, 1, races[0].RaceNumber)
	assert.Equal(t, "unknown", races[1].Venue)
}

func TestFetchEntrants(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/races/202605021101/entrants", r.URL.Path)
		require.Equal(t, "5", r.URL.Query().Get("history"))

		w.Write([]byte(`[
			{"horse_id":"h1","horse_name":"アルファ","jockey":"武","weight":"57.0",
			 "odds_win":"2.5","odds_place":"1.3","horse_number":1,"gate_number":1,
			 "body_weight":"486","weight_change":4,"popularity":1,
			 "history":[{"ranking":1,"field_size":14,"last_3f":"34.2"}]},
			{"horse_id":"h2","horse_name":"ベータ","jockey":"川田","weight":"55.5",
			 "odds_win":"","odds_place":"","horse_number":2,"gate_number":2,
			 "body_weight":"470","weight_change":null,"popularity":0,"history":[]}
		]`))
	})

	horses, err := client.FetchEntrants(context.Background(), "202605021101")
	require.NoError(t, err)
	require.Len(t, horses, 2)

	h := horses[0]
	assert.Equal(t, "アルファ", h.Name)
	assert.InDelta(t, 2.5, h.OddsWin, 1e-9)
	assert.InDelta(t, 1.3, h.OddsPlace, 1e-9)
	assert.Equal(t, 486, h.BodyWeight)
	require.NotNil(t, h.WeightChange)
	assert.Equal(t, 4, *h.WeightChange)
	require.Len(t, h.RaceHistory, 1)
	assert.InDelta(t, 34.2, h.RaceHistory[0].Last3F, 1e-9)

	// Scratched entrant: empty odds strings parse to zero.
	assert.False(t, horses[1].HasOdds())
	assert.Nil(t, horses[1].WeightChange)
}

func TestFetchResult(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/races/202605021101/result", r.URL.Path)

		w.Write([]byte(`{
			"race_id":"202605021101","race_name":"日本ダービー","date":"2026-05-31","course":"芝2400m",
			"horses":[
				{"ranking":1,"horse_number":1,"horse_name":"アルファ","jockey":"武","time":"2:24.1","odds_win":"2.5","popularity":1},
				{"ranking":null,"horse_number":2,"horse_name":"ベータ","jockey":"川田","time":"","odds_win":"4.0","popularity":2}
			],
			"payouts":[
				{"bet_type":"単勝","results":[{"horse_numbers":"1","amount":"250","popularity":1}]},
				{"bet_type":"3連単","results":[{"horse_numbers":"1-3-5","amount":"12,500","popularity":18}]},
				{"bet_type":"枠連","results":[{"horse_numbers":"1-2","amount":"990","popularity":3}]}
			]
		}`))
	})

	result, err := client.FetchResult(context.Background(), "202605021101")
	require.NoError(t, err)

	assert.Equal(t, "Tokyo", result.Venue)
	require.Len(t, result.Horses, 2)
	assert.Nil(t, result.Horses[1].Ranking, "a scratched horse has no ranking")

	// The bracket quinella pool is unsupported and silently skipped.
	require.Len(t, result.Payouts, 2)

	win, ok := result.PayoutFor(models.BetTypeWin)
	require.True(t, ok)
	assert.Equal(t, 250, win.Results[0].Amount)

	trifecta, ok := result.PayoutFor(models.BetTypeTrifecta)
	require.True(t, ok)
	assert.Equal(t, 12500, trifecta.Results[0].Amount, "comma separated amounts parse")
}

func TestErrorMapping(t *testing.T) {
	t.Run("404 unwraps to race not found", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.FetchEntrants(context.Background(), "missing")
		assert.ErrorIs(t, err, models.ErrRaceNotFound)

		var dsErr DataSourceError
		require.True(t, errors.As(err, &dsErr))
		assert.Equal(t, ErrCodeNotFound, dsErr.Code)
	})

	t.Run("server error unwraps to data unavailable", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.ListUpcomingRaces(context.Background(), 7)
		assert.ErrorIs(t, err, models.ErrDataUnavailable)
	})

	t.Run("malformed payload unwraps to data unavailable", func(t *testing.T) {
		client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>nope</html>"))
		})

		_, err := client.FetchResult(context.Background(), "r")
		assert.ErrorIs(t, err, models.ErrDataUnavailable)
	})
}

func TestParseHelpers(t *testing.T) {
	assert.InDelta(t, 12.3, parseOdds("12.3"), 1e-9)
	assert.Zero(t, parseOdds(""))
	assert.Zero(t, parseOdds("取消"))
	assert.Zero(t, parseOdds("-1.5"))

	assert.EqualValues(t, 12500, parseAmount("12,500"))
	assert.EqualValues(t, 250, parseAmount("250"))
	assert.Zero(t, parseAmount(""))
}

func TestMockDataSource(t *testing.T) {
	mock := NewMockDataSource()
	ctx := context.Background()

	races, err := mock.ListUpcomingRaces(ctx, 7)
	require.NoError(t, err)
	assert.NotEmpty(t, races)

	horses, err := mock.FetchEntrants(ctx, races[0].ID)
	require.NoError(t, err)
	require.NotEmpty(t, horses)
	for _, h := range horses {
		assert.True(t, h.HasOdds())
	}

	result, err := mock.FetchResult(ctx, races[0].ID)
	require.NoError(t, err)
	require.NotNil(t, result.Winner())
	assert.Len(t, result.PlacedHorses(), 3)

	for _, bt := range []models.BetType{models.BetTypeWin, models.BetTypePlace, models.BetTypeWide, models.BetTypeTrio, models.BetTypeTrifecta} {
		_, ok := result.PayoutFor(bt)
		assert.Truef(t, ok, "mock result missing %s payout", bt)
	}

	assert.NoError(t, mock.HealthCheck(ctx))
}
