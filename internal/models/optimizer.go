package models

// OptimizeRequest is the budget allocation request sent to the solver.
// Budget is validated before the request leaves the process: positive and a
// multiple of the 100 yen betting unit.
type OptimizeRequest struct {
	RaceID string `json:"race_id" validate:"required"`
	Budget int    `json:"budget" validate:"required,gt=0,betunit"`
}

// Recommendation is one recommended stake within an optimizer response.
type Recommendation struct {
	HorseID        string  `json:"horse_id"`
	HorseName      string  `json:"horse_name"`
	RecommendedBet int     `json:"recommended_bet"`
	IfWinsReturn   float64 `json:"if_wins_return"`
	ExpectedReturn float64 `json:"expected_return"`
	OddsWin        float64 `json:"odds_win"`
	WinProbability float64 `json:"win_probability"`
}

// OptimizeResponse is the normalized solver answer plus locally derived
// figures. TotalExpectedReturn is always recomputed from the recommendation
// expected returns; the remote field is only compared against it for a
// data-quality warning. The solver is assumed, not verified, to satisfy the
// guarantee that any recommended winner pays at least GuaranteedReturn.
type OptimizeResponse struct {
	RaceID              string           `json:"race_id"`
	Budget              int              `json:"budget"`
	Recommendations     []Recommendation `json:"recommendations"`
	TotalBet            int              `json:"total_bet"`
	TotalExpectedReturn float64          `json:"total_expected_return"`
	GuaranteedReturn    float64          `json:"guaranteed_return"`
	RemainingBudget     int              `json:"remaining_budget"`
	Coverage            float64          `json:"coverage"`

	// Derived locally, never sent by the solver.
	Profit     float64 `json:"profit"`
	ProfitRate float64 `json:"profit_rate"`
}

// Derive fills Profit and ProfitRate from the normalized fields.
func (r *OptimizeResponse) Derive() {
	r.Profit = r.GuaranteedReturn - float64(r.TotalBet)
	if r.TotalBet > 0 {
		r.ProfitRate = r.GuaranteedReturn/float64(r.TotalBet) - 1
	} else {
		r.ProfitRate = 0
	}
}
