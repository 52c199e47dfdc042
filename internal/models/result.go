package models

import "sort"

// HorseResult is one entrant's line in a finished race.
// Ranking is nil when the horse was scratched, disqualified or pulled up.
type HorseResult struct {
	Ranking        *int    `json:"ranking"`
	HorseNumber    int     `json:"horse_number"`
	Name           string  `json:"horse_name"`
	Jockey         string  `json:"jockey"`
	Time           string  `json:"time"`
	OddsWin        float64 `json:"odds_win"`
	Popularity     int     `json:"popularity"`
	WinProbability float64 `json:"win_probability"`
	ExpectedValue  float64 `json:"expected_value"`
}

// Finished reports whether the horse completed the race with an official
// ranking at or better than rank.
func (r *HorseResult) Finished(rank int) bool {
	return r.Ranking != nil && *r.Ranking <= rank
}

// RaceResult is the full post-race snapshot: final order plus payout tables.
type RaceResult struct {
	RaceID   string        `json:"race_id"`
	RaceName string        `json:"race_name"`
	Venue    string        `json:"venue"`
	Date     string        `json:"date"`
	Course   string        `json:"course"`
	Horses   []HorseResult `json:"horses"`
	Payouts  []Payout      `json:"payouts"`
}

// Winner returns the horse that finished first, or nil when no ranking data
// is available.
func (r *RaceResult) Winner() *HorseResult {
	for i := range r.Horses {
		if r.Horses[i].Ranking != nil && *r.Horses[i].Ranking == 1 {
			return &r.Horses[i]
		}
	}
	return nil
}

// PlacedHorses returns the entrants with a finite ranking <= 3 sorted by
// ranking ascending. The order matches the place/wide payout line order
// published by the data source, which is what index-based payout lookup
// relies on.
func (r *RaceResult) PlacedHorses() []HorseResult {
	placed := make([]HorseResult, 0, 3)
	for _, h := range r.Horses {
		if h.Finished(3) {
			placed = append(placed, h)
		}
	}
	sort.SliceStable(placed, func(i, j int) bool {
		return *placed[i].Ranking < *placed[j].Ranking
	})
	return placed
}

// PayoutFor returns the payout record for the given bet type.
func (r *RaceResult) PayoutFor(betType BetType) (Payout, bool) {
	for _, p := range r.Payouts {
		if p.Type == betType {
			return p, true
		}
	}
	return Payout{}, false
}
