package models

// BetType identifies a pari-mutuel pool.
type BetType string

// Supported pools. Wide is the quinella-place pool (both horses in the top
// three, any order); Trio and Trifecta are the boxed and exact triple pools.
const (
	BetTypeWin      BetType = "win"
	BetTypePlace    BetType = "place"
	BetTypeWide     BetType = "wide"
	BetTypeTrio     BetType = "trio"
	BetTypeTrifecta BetType = "trifecta"
)

// Payout is the official payout table for one pool of a finished race.
type Payout struct {
	Type    BetType      `json:"type"`
	Results []PayoutLine `json:"results"`
}

// PayoutLine is one paying combination within a pool. Amount is the return
// per 100 yen staked. Popularity ranks the combination among all combinations
// of the pool (1 = most backed).
type PayoutLine struct {
	HorseNumbers string `json:"horse_numbers"`
	Amount       int    `json:"amount"`
	Popularity   int    `json:"popularity"`
}

// Line returns the payout line at index i, falling back to the first line
// when the index is out of range. Place and wide pools publish one line per
// placed combination in ranking order; when the exact combination cannot be
// identified the first line is a documented approximation, not an error.
func (p Payout) Line(i int) (PayoutLine, bool) {
	if len(p.Results) == 0 {
		return PayoutLine{}, false
	}
	if i < 0 || i >= len(p.Results) {
		return p.Results[0], true
	}
	return p.Results[i], true
}
