// Package optimizer provides the budget allocation solver client.
package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-optimizer/internal/config"
	"github.com/yourusername/keiba-optimizer/internal/models"
)

// expectedReturnTolerance is the largest divergence between the solver's
// reported total expected return and the sum of its per-recommendation
// expected returns that passes without a data-quality warning.
const expectedReturnTolerance = 0.01

// Client calls the remote budget optimizer service over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

// NewClient creates a new optimizer service client with retry support.
func NewClient(cfg *config.OptimizerConfig, logger *logrus.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	retryClient.Logger = nil

	return &Client{
		client:  retryClient.StandardClient(),
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

// Optimize requests a budget allocation for a race and normalizes the answer.
func (c *Client) Optimize(ctx context.Context, req models.OptimizeRequest) (*models.OptimizeResponse, error) {
	start := time.Now()

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal optimize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/optimize", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		OptimizeErrorsTotal.WithLabelValues("network").Inc()
		return nil, fmt.Errorf("%w: %v", models.ErrOptimizerUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", models.ErrRaceNotFound, req.RaceID)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		OptimizeErrorsTotal.WithLabelValues("http_error").Inc()
		return nil, fmt.Errorf("%w: status %d: %s", models.ErrOptimizerUnavailable, resp.StatusCode, string(body))
	}

	var result models.OptimizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		OptimizeErrorsTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidOptimizerResponse, err)
	}

	if err := c.normalize(&result, req); err != nil {
		OptimizeErrorsTotal.WithLabelValues("normalize").Inc()
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"race_id":           result.RaceID,
		"budget":            result.Budget,
		"total_bet":         result.TotalBet,
		"guaranteed_return": result.GuaranteedReturn,
		"recommendations":   len(result.Recommendations),
		"duration":          time.Since(start),
	}).Info("Optimization completed")

	OptimizeRequestsTotal.Inc()
	OptimizeLatency.Observe(time.Since(start).Seconds())

	return &result, nil
}

// normalize recomputes the aggregate fields the service claims and derives
// profit figures. The per-recommendation sum is authoritative for the total
// expected return; a divergent remote value is logged, not trusted.
func (c *Client) normalize(resp *models.OptimizeResponse, req models.OptimizeRequest) error {
	if resp.RaceID == "" {
		resp.RaceID = req.RaceID
	}
	if resp.Budget == 0 {
		resp.Budget = req.Budget
	}

	totalBet := 0
	totalExpected := 0.0
	for i := range resp.Recommendations {
		rec := &resp.Recommendations[i]
		if rec.RecommendedBet < 0 {
			return fmt.Errorf("%w: negative stake %d for horse %s", models.ErrInvalidOptimizerResponse, rec.RecommendedBet, rec.HorseID)
		}
		totalBet += rec.RecommendedBet
		totalExpected += rec.ExpectedReturn
	}

	if totalBet > resp.Budget {
		return fmt.Errorf("%w: total bet %d exceeds budget %d", models.ErrInvalidOptimizerResponse, totalBet, resp.Budget)
	}

	if resp.TotalBet != 0 && resp.TotalBet != totalBet {
		c.logger.WithFields(logrus.Fields{
			"race_id":  resp.RaceID,
			"reported": resp.TotalBet,
			"computed": totalBet,
		}).Warn("Optimizer reported total bet diverges from recommendations")
	}
	if math.Abs(resp.TotalExpectedReturn-totalExpected) > expectedReturnTolerance {
		c.logger.WithFields(logrus.Fields{
			"race_id":  resp.RaceID,
			"reported": resp.TotalExpectedReturn,
			"computed": totalExpected,
		}).Warn("Optimizer reported expected return diverges from recommendations")
	}

	resp.TotalBet = totalBet
	resp.TotalExpectedReturn = totalExpected
	resp.RemainingBudget = resp.Budget - totalBet
	resp.Derive()
	return nil
}

// HealthCheck checks optimizer service availability.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrOptimizerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", models.ErrOptimizerUnavailable, resp.StatusCode)
	}
	return nil
}
