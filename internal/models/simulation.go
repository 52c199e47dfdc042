package models

// SimulatedBet is a single ticket inside a strategy simulation.
// HorseNumbers holds 1 entry for win/place, 2 for wide and 3 for trio and
// trifecta tickets. Payout is zero unless the ticket hit.
type SimulatedBet struct {
	HorseNumbers []int  `json:"horse_numbers"`
	Label        string `json:"label"`
	Stake        int    `json:"stake"`
	Hit          bool   `json:"hit"`
	Payout       int    `json:"payout"`

	// EstimatedProbability is the heuristic hit probability attached in
	// prospective mode; nil in retrospective mode.
	EstimatedProbability *float64 `json:"estimated_probability,omitempty"`
}

// SimulationResult is one staking strategy applied to a race.
//
// In retrospective mode TotalPayout/TotalProfit are realized figures. In
// prospective mode ExpectedReturn carries the estimate instead; it is nil
// when the pool's odds are unknown before the race (wide, trio, trifecta),
// which callers must keep distinct from an expected return of zero.
type SimulationResult struct {
	Name           string         `json:"name"`
	BetType        BetType        `json:"bet_type"`
	Description    string         `json:"description"`
	Bets           []SimulatedBet `json:"bets"`
	TotalBet       int            `json:"total_bet"`
	TotalPayout    int            `json:"total_payout"`
	TotalProfit    int            `json:"total_profit"`
	ExpectedReturn *float64       `json:"expected_return,omitempty"`
}

// HitStrategy reports whether the strategy finished in profit.
func (s *SimulationResult) HitStrategy() bool {
	return s.TotalProfit > 0
}

// SimulationSummary aggregates every strategy simulated for one race.
//
// ExpectedReturn is nil when any included strategy has an unknown expected
// return; a nil component must never be averaged in as zero.
type SimulationSummary struct {
	RunID          string   `json:"run_id"`
	RaceID         string   `json:"race_id"`
	Strategies     int      `json:"strategies"`
	HitStrategies  int      `json:"hit_strategies"`
	HitRate        float64  `json:"hit_rate"`
	TotalBet       int      `json:"total_bet"`
	TotalPayout    int      `json:"total_payout"`
	TotalProfit    int      `json:"total_profit"`
	ReturnRate     float64  `json:"return_rate"`
	HighPayouts    []string `json:"high_payouts"`
	ExpectedReturn *float64 `json:"expected_return,omitempty"`
}
