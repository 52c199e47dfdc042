package simulation

import (
	"github.com/google/uuid"

	"github.com/yourusername/keiba-optimizer/internal/models"
)

// Summarize aggregates a catalog of strategy results for one race.
//
// Realized figures (stakes, payouts, profit, hit rate) come straight from
// the strategies; in prospective mode payouts are zero and only the expected
// return is meaningful. The aggregate expected return is nil whenever any
// strategy's expected return is unknown, so a missing value is never folded
// in as zero.
func Summarize(raceID string, results []models.SimulationResult) models.SimulationSummary {
	summary := models.SimulationSummary{
		RunID:      uuid.New().String(),
		RaceID:     raceID,
		Strategies: len(results),
	}

	expected := 0.0
	expectedKnown := len(results) > 0
	for _, r := range results {
		summary.TotalBet += r.TotalBet
		summary.TotalPayout += r.TotalPayout
		summary.TotalProfit += r.TotalProfit
		if r.HitStrategy() {
			summary.HitStrategies++
		}
		if r.TotalProfit >= HighPayoutThreshold {
			summary.HighPayouts = append(summary.HighPayouts, r.Name)
		}
		if r.ExpectedReturn != nil {
			expected += *r.ExpectedReturn
		} else {
			expectedKnown = false
		}
	}

	if summary.Strategies > 0 {
		summary.HitRate = float64(summary.HitStrategies) / float64(summary.Strategies)
	}
	if summary.TotalBet > 0 {
		summary.ReturnRate = float64(summary.TotalPayout) / float64(summary.TotalBet)
	}
	if expectedKnown {
		summary.ExpectedReturn = &expected
	}
	return summary
}
