package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-optimizer/internal/models"
)

func TestSummarizeRetrospective(t *testing.T) {
	results := GeneratePost(threeHorseResult())
	summary := Summarize("202605021101", results)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, "202605021101", summary.RaceID)
	assert.Equal(t, 6, summary.Strategies)
	assert.Equal(t, 6, summary.HitStrategies)
	assert.InDelta(t, 1.0, summary.HitRate, 1e-9)
	assert.Equal(t, 6*Budget, summary.TotalBet)
	assert.Equal(t, summary.TotalPayout-summary.TotalBet, summary.TotalProfit)
	assert.InDelta(t, float64(summary.TotalPayout)/float64(summary.TotalBet), summary.ReturnRate, 1e-9)

	// Wide, trio and trifecta all cleared the high payout threshold.
	assert.Contains(t, summary.HighPayouts, "wide_top3")
	assert.Contains(t, summary.HighPayouts, "trio_top3")
	assert.Contains(t, summary.HighPayouts, "trifecta_top3")
	assert.NotContains(t, summary.HighPayouts, "win_top3")
}

func TestSummarizeExpectedReturnPropagation(t *testing.T) {
	t.Run("nil when any strategy expected return is unknown", func(t *testing.T) {
		results := GeneratePre(threeHorseCard())
		summary := Summarize("r", results)
		assert.Nil(t, summary.ExpectedReturn)
	})

	t.Run("set when every strategy expected return is known", func(t *testing.T) {
		a, b := 12000.0, 8000.0
		results := []models.SimulationResult{
			{Name: "a", TotalBet: Budget, ExpectedReturn: &a},
			{Name: "b", TotalBet: Budget, ExpectedReturn: &b},
		}
		summary := Summarize("r", results)
		require.NotNil(t, summary.ExpectedReturn)
		assert.InDelta(t, 20000.0, *summary.ExpectedReturn, 1e-9)
	})

	t.Run("a known zero is not treated as unknown", func(t *testing.T) {
		zero := 0.0
		results := []models.SimulationResult{
			{Name: "a", TotalBet: Budget, ExpectedReturn: &zero},
		}
		summary := Summarize("r", results)
		require.NotNil(t, summary.ExpectedReturn)
		assert.Zero(t, *summary.ExpectedReturn)
	})
}

func TestSummarizeEmptyCatalog(t *testing.T) {
	summary := Summarize("r", nil)

	assert.Zero(t, summary.Strategies)
	assert.Zero(t, summary.HitRate)
	assert.Zero(t, summary.ReturnRate)
	assert.Nil(t, summary.ExpectedReturn)
	assert.Empty(t, summary.HighPayouts)
}

func TestSummarizeRunIDsAreUnique(t *testing.T) {
	first := Summarize("r", nil)
	second := Summarize("r", nil)
	assert.NotEqual(t, first.RunID, second.RunID)
}
