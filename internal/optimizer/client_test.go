package optimizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-optimizer/internal/config"
	"github.com/yourusername/keiba-optimizer/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(&config.OptimizerConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, logger)
}

func TestOptimizeDerivesProfitFigures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/optimize", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req models.OptimizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "202605021101", req.RaceID)
		require.Equal(t, 10000, req.Budget)

		json.NewEncoder(w).Encode(models.OptimizeResponse{
			RaceID: req.RaceID,
			Budget: req.Budget,
			Recommendations: []models.Recommendation{
				{HorseID: "h1", RecommendedBet: 4000, IfWinsReturn: 8000, ExpectedReturn: 3200, OddsWin: 2.0, WinProbability: 0.4},
				{HorseID: "h2", RecommendedBet: 2000, IfWinsReturn: 9000, ExpectedReturn: 1800, OddsWin: 4.5, WinProbability: 0.2},
			},
			TotalBet:            6000,
			TotalExpectedReturn: 5000,
			GuaranteedReturn:    8000,
			Coverage:            0.6,
		})
	})

	resp, err := client.Optimize(context.Background(), models.OptimizeRequest{RaceID: "202605021101", Budget: 10000})
	require.NoError(t, err)

	assert.Equal(t, 6000, resp.TotalBet)
	assert.Equal(t, 4000, resp.RemainingBudget)
	assert.InDelta(t, 5000.0, resp.TotalExpectedReturn, 1e-9)
	assert.InDelta(t, 2000.0, resp.Profit, 1e-9)
	assert.InDelta(t, 8000.0/6000.0-1, resp.ProfitRate, 1e-9)
}

func TestOptimizeRecomputesAggregates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The solver reports aggregates that disagree with its own
		// recommendations; the recomputed values win.
		json.NewEncoder(w).Encode(models.OptimizeResponse{
			Recommendations: []models.Recommendation{
				{HorseID: "h1", RecommendedBet: 3000, IfWinsReturn: 7500, ExpectedReturn: 3000},
			},
			TotalBet:            9999,
			TotalExpectedReturn: 123456,
			GuaranteedReturn:    7500,
		})
	})

	resp, err := client.Optimize(context.Background(), models.OptimizeRequest{RaceID: "r", Budget: 10000})
	require.NoError(t, err)

	assert.Equal(t, 3000, resp.TotalBet)
	assert.InDelta(t, 3000.0, resp.TotalExpectedReturn, 1e-9)
}

func TestOptimizeErrorMapping(t *testing.T) {
	t.Run("404 maps to race not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := client.Optimize(context.Background(), models.OptimizeRequest{RaceID: "missing", Budget: 10000})
		assert.ErrorIs(t, err, models.ErrRaceNotFound)
	})

	t.Run("malformed body maps to invalid response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})
		_, err := client.Optimize(context.Background(), models.OptimizeRequest{RaceID: "r", Budget: 10000})
		assert.ErrorIs(t, err, models.ErrInvalidOptimizerResponse)
	})

	t.Run("negative stake maps to invalid response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(models.OptimizeResponse{
				Recommendations: []models.Recommendation{
					{HorseID: "h1", RecommendedBet: -100},
				},
			})
		})
		_, err := client.Optimize(context.Background(), models.OptimizeRequest{RaceID: "r", Budget: 10000})
		assert.ErrorIs(t, err, models.ErrInvalidOptimizerResponse)
	})

	t.Run("overspend maps to invalid response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(models.OptimizeResponse{
				Recommendations: []models.Recommendation{
					{HorseID: "h1", RecommendedBet: 20000},
				},
			})
		})
		_, err := client.Optimize(context.Background(), models.OptimizeRequest{RaceID: "r", Budget: 10000})
		assert.ErrorIs(t, err, models.ErrInvalidOptimizerResponse)
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})
		assert.NoError(t, client.HealthCheck(context.Background()))
	})

	t.Run("unhealthy", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		assert.ErrorIs(t, client.HealthCheck(context.Background()), models.ErrOptimizerUnavailable)
	})
}
