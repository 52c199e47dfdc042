package simulation

import (
	"sort"
	"strconv"

	"github.com/yourusername/keiba-optimizer/internal/allocation"
	"github.com/yourusername/keiba-optimizer/internal/models"
)

// placeProbability is the heuristic chance of a top-3 finish given a win
// probability, assuming the three paid places are roughly equally likely.
func placeProbability(winProb float64) float64 {
	p := winProb * 3
	if p > 0.95 {
		p = 0.95
	}
	return p
}

// buildWinTop3 stakes the budget proportionally on the three most probable
// entrants to win.
func (g *generator) buildWinTop3() (models.SimulationResult, bool) {
	targets := g.top(3)
	if len(targets) == 0 {
		return models.SimulationResult{}, false
	}

	var winPayout models.Payout
	if !g.prospective() {
		var ok bool
		if winPayout, ok = g.result.PayoutFor(models.BetTypeWin); !ok {
			return models.SimulationResult{}, false
		}
	}

	weights := make([]float64, len(targets))
	for i, t := range targets {
		weights[i] = t.Prob
	}
	stakes := allocation.ProportionalSplit(Budget, weights)

	res := models.SimulationResult{
		Name:        "win_top3",
		BetType:     models.BetTypeWin,
		Description: "Proportional win bets on the three most probable entrants",
		TotalBet:    Budget,
	}

	expected := 0.0
	for i, t := range targets {
		bet := models.SimulatedBet{
			HorseNumbers: []int{t.Number},
			Label:        betLabel("Win ", []int{t.Number}),
			Stake:        stakes[i],
		}
		if g.prospective() {
			bet.EstimatedProbability = floatPtr(t.Prob)
			expected += float64(bet.Stake) * t.OddsWin * t.Prob
		} else if g.finished(t.Number, 1) {
			bet.Hit = true
			bet.Payout = payoutAmount(winLine(winPayout, t.Number), bet.Stake)
		}
		res.Bets = append(res.Bets, bet)
		res.TotalPayout += bet.Payout
	}

	if g.prospective() {
		res.ExpectedReturn = floatPtr(expected)
	} else {
		res.TotalProfit = res.TotalPayout - res.TotalBet
	}
	return res, true
}

// buildPlaceTop3 stakes the budget proportionally on the same top three to
// finish in the money.
func (g *generator) buildPlaceTop3() (models.SimulationResult, bool) {
	targets := g.top(3)
	if len(targets) == 0 {
		return models.SimulationResult{}, false
	}

	var placePayout models.Payout
	if !g.prospective() {
		var ok bool
		if placePayout, ok = g.result.PayoutFor(models.BetTypePlace); !ok {
			return models.SimulationResult{}, false
		}
	}

	weights := make([]float64, len(targets))
	for i, t := range targets {
		weights[i] = t.Prob
	}
	stakes := allocation.ProportionalSplit(Budget, weights)

	res := models.SimulationResult{
		Name:        "place_top3",
		BetType:     models.BetTypePlace,
		Description: "Proportional place bets on the three most probable entrants",
		TotalBet:    Budget,
	}

	expected := 0.0
	expectedKnown := true
	for i, t := range targets {
		bet := models.SimulatedBet{
			HorseNumbers: []int{t.Number},
			Label:        betLabel("Place ", []int{t.Number}),
			Stake:        stakes[i],
		}
		if g.prospective() {
			p := placeProbability(t.Prob)
			bet.EstimatedProbability = floatPtr(p)
			if t.OddsPlace > 0 {
				expected += float64(bet.Stake) * t.OddsPlace * p
			} else {
				expectedKnown = false
			}
		} else if g.finished(t.Number, 3) {
			bet.Hit = true
			if line, ok := placePayout.Line(g.placedIndex(t.Number)); ok {
				bet.Payout = payoutAmount(line, bet.Stake)
			}
		}
		res.Bets = append(res.Bets, bet)
		res.TotalPayout += bet.Payout
	}

	if g.prospective() {
		if expectedKnown {
			res.ExpectedReturn = floatPtr(expected)
		}
	} else {
		res.TotalProfit = res.TotalPayout - res.TotalBet
	}
	return res, true
}

// buildWidePairs splits the budget equally across every pair of the top
// three. Wide odds are not published before the off, so the prospective
// expected return is unknown.
func (g *generator) buildWidePairs() (models.SimulationResult, bool) {
	targets := g.top(3)
	if len(targets) < 2 {
		return models.SimulationResult{}, false
	}

	var widePayout models.Payout
	if !g.prospective() {
		var ok bool
		if widePayout, ok = g.result.PayoutFor(models.BetTypeWide); !ok {
			return models.SimulationResult{}, false
		}
	}

	type pair struct{ a, b entrant }
	pairs := make([]pair, 0, 3)
	for i := 0; i < len(targets); i++ {
		for j := i + 1; j < len(targets); j++ {
			pairs = append(pairs, pair{targets[i], targets[j]})
		}
	}
	stakes := allocation.EqualSplit(Budget, len(pairs))

	res := models.SimulationResult{
		Name:        "wide_top3",
		BetType:     models.BetTypeWide,
		Description: "Equal quinella-place bets on every pair of the top three",
		TotalBet:    Budget,
	}

	for i, pr := range pairs {
		numbers := sortedNumbers(pr.a.Number, pr.b.Number)
		bet := models.SimulatedBet{
			HorseNumbers: numbers,
			Label:        betLabel("Wide ", numbers),
			Stake:        stakes[i],
		}
		if g.prospective() {
			// Independence between placing events is assumed; the product
			// doubled is a heuristic, not exact combinatorics.
			p := pr.a.Prob * pr.b.Prob * 2
			if p > 0.95 {
				p = 0.95
			}
			bet.EstimatedProbability = floatPtr(p)
		} else if g.finished(pr.a.Number, 3) && g.finished(pr.b.Number, 3) {
			bet.Hit = true
			if line, ok := widePayout.Line(wideLineIndex(g.placedIndex(pr.a.Number), g.placedIndex(pr.b.Number))); ok {
				bet.Payout = payoutAmount(line, bet.Stake)
			}
		}
		res.Bets = append(res.Bets, bet)
		res.TotalPayout += bet.Payout
	}

	if !g.prospective() {
		res.TotalProfit = res.TotalPayout - res.TotalBet
	}
	return res, true
}

// buildTrioBox puts the whole budget on the top three finishing in the money
// in any order.
func (g *generator) buildTrioBox() (models.SimulationResult, bool) {
	targets := g.top(3)
	if len(targets) < 3 {
		return models.SimulationResult{}, false
	}

	var trioPayout models.Payout
	if !g.prospective() {
		var ok bool
		if trioPayout, ok = g.result.PayoutFor(models.BetTypeTrio); !ok {
			return models.SimulationResult{}, false
		}
	}

	numbers := sortedNumbers(targets[0].Number, targets[1].Number, targets[2].Number)
	bet := models.SimulatedBet{
		HorseNumbers: numbers,
		Label:        betLabel("Trio ", numbers),
		Stake:        Budget,
	}

	res := models.SimulationResult{
		Name:        "trio_top3",
		BetType:     models.BetTypeTrio,
		Description: "Full budget on the top three placing in any order",
		TotalBet:    Budget,
	}

	if g.prospective() {
		p := targets[0].Prob * targets[1].Prob * targets[2].Prob * 6
		if p > 0.90 {
			p = 0.90
		}
		bet.EstimatedProbability = floatPtr(p)
	} else if g.finished(targets[0].Number, 3) && g.finished(targets[1].Number, 3) && g.finished(targets[2].Number, 3) {
		bet.Hit = true
		if line, ok := trioPayout.Line(0); ok {
			bet.Payout = payoutAmount(line, bet.Stake)
		}
	}

	res.Bets = []models.SimulatedBet{bet}
	res.TotalPayout = bet.Payout
	if !g.prospective() {
		res.TotalProfit = res.TotalPayout - res.TotalBet
	}
	return res, true
}

// buildTrifecta puts the whole budget on the top three finishing in exact
// probability order.
func (g *generator) buildTrifecta() (models.SimulationResult, bool) {
	targets := g.top(3)
	if len(targets) < 3 {
		return models.SimulationResult{}, false
	}

	var trifectaPayout models.Payout
	if !g.prospective() {
		var ok bool
		if trifectaPayout, ok = g.result.PayoutFor(models.BetTypeTrifecta); !ok {
			return models.SimulationResult{}, false
		}
	}

	numbers := []int{targets[0].Number, targets[1].Number, targets[2].Number}
	bet := models.SimulatedBet{
		HorseNumbers: numbers,
		Label:        betLabel("Trifecta ", numbers),
		Stake:        Budget,
	}

	res := models.SimulationResult{
		Name:        "trifecta_top3",
		BetType:     models.BetTypeTrifecta,
		Description: "Full budget on the exact predicted finishing order",
		TotalBet:    Budget,
	}

	if g.prospective() {
		bet.EstimatedProbability = floatPtr(exactOrderProbability(targets[0].Prob, targets[1].Prob, targets[2].Prob))
	} else if g.exactOrder(numbers) {
		bet.Hit = true
		if line, ok := trifectaPayout.Line(0); ok {
			bet.Payout = payoutAmount(line, bet.Stake)
		}
	}

	res.Bets = []models.SimulatedBet{bet}
	res.TotalPayout = bet.Payout
	if !g.prospective() {
		res.TotalProfit = res.TotalPayout - res.TotalBet
	}
	return res, true
}

// buildHybrid splits the budget half and half between a win and a place bet
// on the favourite (lowest win odds). There is no composite bet type, so the
// result carries the win leg's type; the place leg is visible in the bets
// themselves.
func (g *generator) buildHybrid() (models.SimulationResult, bool) {
	if len(g.ranked) == 0 {
		return models.SimulationResult{}, false
	}
	fav := g.ranked[0]
	for _, e := range g.ranked[1:] {
		if e.OddsWin < fav.OddsWin || (e.OddsWin == fav.OddsWin && e.Number < fav.Number) {
			fav = e
		}
	}

	var winPayout, placePayout models.Payout
	if !g.prospective() {
		var okWin, okPlace bool
		winPayout, okWin = g.result.PayoutFor(models.BetTypeWin)
		placePayout, okPlace = g.result.PayoutFor(models.BetTypePlace)
		if !okWin || !okPlace {
			return models.SimulationResult{}, false
		}
	}

	winStake := Budget / 2
	placeStake := Budget - winStake

	winBet := models.SimulatedBet{
		HorseNumbers: []int{fav.Number},
		Label:        betLabel("Win ", []int{fav.Number}),
		Stake:        winStake,
	}
	placeBet := models.SimulatedBet{
		HorseNumbers: []int{fav.Number},
		Label:        betLabel("Place ", []int{fav.Number}),
		Stake:        placeStake,
	}

	res := models.SimulationResult{
		Name:        "favourite_win_place",
		BetType:     models.BetTypeWin,
		Description: "Half win, half place on the favourite",
		TotalBet:    Budget,
	}

	if g.prospective() {
		winBet.EstimatedProbability = floatPtr(fav.Prob)
		pp := placeProbability(fav.Prob)
		placeBet.EstimatedProbability = floatPtr(pp)
		if fav.OddsPlace > 0 {
			expected := float64(winStake)*fav.OddsWin*fav.Prob + float64(placeStake)*fav.OddsPlace*pp
			res.ExpectedReturn = floatPtr(expected)
		}
	} else {
		if g.finished(fav.Number, 1) {
			winBet.Hit = true
			winBet.Payout = payoutAmount(winLine(winPayout, fav.Number), winBet.Stake)
		}
		if g.finished(fav.Number, 3) {
			placeBet.Hit = true
			if line, ok := placePayout.Line(g.placedIndex(fav.Number)); ok {
				placeBet.Payout = payoutAmount(line, placeBet.Stake)
			}
		}
	}

	res.Bets = []models.SimulatedBet{winBet, placeBet}
	res.TotalPayout = winBet.Payout + placeBet.Payout
	if !g.prospective() {
		res.TotalProfit = res.TotalPayout - res.TotalBet
	}
	return res, true
}

// exactOrderProbability chains conditional win probabilities for an exact
// 1-2-3 order. Over a poorly normalized subset the chain can exceed one, so
// it is floored at zero and capped at 0.50; the cap is a guard, not a
// derived bound.
func exactOrderProbability(p1, p2, p3 float64) float64 {
	p := p1
	if d := 1 - p1; d > 0 {
		p *= p2 / d
	}
	if d := 1 - p1 - p2; d > 0 {
		p *= p3 / d
	}
	if p < 0 {
		p = 0
	}
	if p > 0.50 {
		p = 0.50
	}
	return p
}

// exactOrder reports whether the placed horses match numbers exactly.
func (g *generator) exactOrder(numbers []int) bool {
	placed := g.result.PlacedHorses()
	if len(placed) < len(numbers) {
		return false
	}
	for i, n := range numbers {
		if placed[i].HorseNumber != n {
			return false
		}
	}
	return true
}

// winLine finds the win payout line for a horse number, falling back to the
// first line. Dead heats publish one line per winner.
func winLine(p models.Payout, horseNumber int) models.PayoutLine {
	target := strconv.Itoa(horseNumber)
	for _, line := range p.Results {
		if line.HorseNumbers == target {
			return line
		}
	}
	if line, ok := p.Line(0); ok {
		return line
	}
	return models.PayoutLine{}
}

// wideLineIndex maps a pair of placed indices (0-based) to the wide payout
// line index. Lines are published in the order 1-2, 1-3, 2-3.
func wideLineIndex(i, j int) int {
	idx := i + j - 1
	if idx < 0 {
		return 0
	}
	return idx
}

func sortedNumbers(numbers ...int) []int {
	out := append([]int(nil), numbers...)
	sort.Ints(out)
	return out
}
