package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestVenueFromRaceID(t *testing.T) {
	tests := []struct {
		raceID   string
		expected string
	}{
		{"202605021101", "Tokyo"},
		{"202601010101", "Sapporo"},
		{"202610030812", "Kokura"},
		{"202699010101", "unknown"},
		{"2026", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.expected, VenueFromRaceID(tt.raceID), "race id %q", tt.raceID)
	}
}

func TestRaceNumberFromRaceID(t *testing.T) {
	assert.Equal(t, 11, RaceNumberFromRaceID("202605021011"))
	assert.Equal(t, 1, RaceNumberFromRaceID("202605021101"))
	assert.Zero(t, RaceNumberFromRaceID("20260502"))
	assert.Zero(t, RaceNumberFromRaceID("20260502XXXX"))
}

func TestPayoutLine(t *testing.T) {
	p := Payout{Type: BetTypePlace, Results: []PayoutLine{
		{HorseNumbers: "1", Amount: 110},
		{HorseNumbers: "2", Amount: 140},
	}}

	line, ok := p.Line(1)
	require.True(t, ok)
	assert.Equal(t, 140, line.Amount)

	// Out of range falls back to the first line.
	line, ok = p.Line(5)
	require.True(t, ok)
	assert.Equal(t, 110, line.Amount)

	line, ok = p.Line(-1)
	require.True(t, ok)
	assert.Equal(t, 110, line.Amount)

	_, ok = Payout{}.Line(0)
	assert.False(t, ok)
}

func TestRaceResultHelpers(t *testing.T) {
	result := RaceResult{
		Horses: []HorseResult{
			{HorseNumber: 3, Ranking: intPtr(2)},
			{HorseNumber: 7, Ranking: intPtr(1)},
			{HorseNumber: 1, Ranking: nil},
			{HorseNumber: 5, Ranking: intPtr(3)},
			{HorseNumber: 9, Ranking: intPtr(4)},
		},
		Payouts: []Payout{
			{Type: BetTypeWin, Results: []PayoutLine{{HorseNumbers: "7", Amount: 300}}},
		},
	}

	t.Run("winner", func(t *testing.T) {
		winner := result.Winner()
		require.NotNil(t, winner)
		assert.Equal(t, 7, winner.HorseNumber)
	})

	t.Run("placed horses in ranking order", func(t *testing.T) {
		placed := result.PlacedHorses()
		require.Len(t, placed, 3)
		assert.Equal(t, []int{7, 3, 5}, []int{placed[0].HorseNumber, placed[1].HorseNumber, placed[2].HorseNumber})
	})

	t.Run("payout lookup", func(t *testing.T) {
		_, ok := result.PayoutFor(BetTypeWin)
		assert.True(t, ok)
		_, ok = result.PayoutFor(BetTypeTrifecta)
		assert.False(t, ok)
	})

	t.Run("no ranking data means no winner", func(t *testing.T) {
		empty := RaceResult{Horses: []HorseResult{{HorseNumber: 1}}}
		assert.Nil(t, empty.Winner())
		assert.Empty(t, empty.PlacedHorses())
	})
}

func TestOptimizeResponseDerive(t *testing.T) {
	t.Run("profit and rate", func(t *testing.T) {
		resp := OptimizeResponse{TotalBet: 6000, GuaranteedReturn: 8000}
		resp.Derive()
		assert.InDelta(t, 2000.0, resp.Profit, 1e-9)
		assert.InDelta(t, 8000.0/6000.0-1, resp.ProfitRate, 1e-9)
	})

	t.Run("zero total bet", func(t *testing.T) {
		resp := OptimizeResponse{TotalBet: 0, GuaranteedReturn: 0}
		resp.Derive()
		assert.Zero(t, resp.Profit)
		assert.Zero(t, resp.ProfitRate)
	})
}

func TestHorseHasOdds(t *testing.T) {
	assert.True(t, (&Horse{OddsWin: 1.1}).HasOdds())
	assert.False(t, (&Horse{OddsWin: 0}).HasOdds())
	assert.False(t, (&Horse{OddsWin: -1}).HasOdds())
}
