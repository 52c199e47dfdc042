package models

// Horse represents one entrant on a race card before the off.
// Raw fields come from the data source and are immutable after creation;
// WinProbability and ExpectedValue are filled in by the estimator.
type Horse struct {
	ID             string  `json:"horse_id"`
	Name           string  `json:"horse_name"`
	Jockey         string  `json:"jockey"`
	Weight         float64 `json:"weight"`
	OddsWin        float64 `json:"odds_win"`
	OddsPlace      float64 `json:"odds_place"`
	HorseNumber    int     `json:"horse_number"`
	GateNumber     int     `json:"gate_number"`
	BodyWeight     int     `json:"body_weight"`
	WeightChange   *int    `json:"weight_change"`
	Popularity     int     `json:"popularity"`
	WinProbability float64 `json:"win_probability"`
	ExpectedValue  float64 `json:"expected_value"`

	// RaceHistory is fetched separately and consumed by the form model.
	// It is stripped before the horse is returned to API clients.
	RaceHistory []HistoryEntry `json:"-"`
}

// HistoryEntry is a single past run used by the form model.
type HistoryEntry struct {
	Ranking   *int    `json:"ranking"`
	FieldSize int     `json:"field_size"`
	Last3F    float64 `json:"last_3f"`
}

// HasOdds reports whether the horse carries a usable win price.
// Scratched or unpriced entrants have odds of zero.
func (h *Horse) HasOdds() bool {
	return h.OddsWin > 0
}
