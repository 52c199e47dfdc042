// Package estimator converts market odds into win probabilities and
// expected values.
//
// Two models are provided. The market model strips the takeout by
// normalizing inverse odds over the field. The blended model mixes that
// market probability with an odds-independent form score so that a horse the
// market underrates can come out with positive expected value; with the
// market model alone every entrant's EV converges to minus the takeout rate.
package estimator

import "github.com/yourusername/keiba-optimizer/internal/models"

// Alpha is the weight given to the form model in the blend. The market
// aggregates far more information than recent form does, so the market keeps
// the larger share.
const Alpha = 0.40

// EstimateMarket fills WinProbability and ExpectedValue on every horse using
// inverse-odds normalization only: p_i = (1/odds_i) / sum(1/odds). Horses
// without a usable price keep zero probability and zero EV and contribute no
// probability mass.
func EstimateMarket(horses []models.Horse) []models.Horse {
	out := make([]models.Horse, len(horses))
	copy(out, horses)

	totalInv := 0.0
	for i := range out {
		if out[i].HasOdds() {
			totalInv += 1.0 / out[i].OddsWin
		}
	}
	for i := range out {
		if !out[i].HasOdds() || totalInv <= 0 {
			out[i].WinProbability = 0
			out[i].ExpectedValue = 0
			continue
		}
		p := (1.0 / out[i].OddsWin) / totalInv
		out[i].WinProbability = p
		out[i].ExpectedValue = out[i].OddsWin*p - 1.0
	}
	return out
}

// Estimate fills WinProbability and ExpectedValue on every horse using the
// blended model: p = Alpha*p_form + (1-Alpha)*p_market. Horses without race
// history get a neutral form score, so the blend degrades gracefully to the
// market model when no history was fetched.
func Estimate(horses []models.Horse) []models.Horse {
	out := make([]models.Horse, len(horses))
	copy(out, horses)
	if len(out) == 0 {
		return out
	}

	globalAvg3F := fieldAverageLast3F(out)

	invOdds := make([]float64, len(out))
	formScores := make([]float64, len(out))
	totalInv, totalForm := 0.0, 0.0
	for i := range out {
		if !out[i].HasOdds() {
			continue
		}
		invOdds[i] = 1.0 / out[i].OddsWin
		formScores[i] = gateFactor(out[i].GateNumber) *
			weightChangeFactor(out[i].WeightChange) *
			rankingFactor(out[i].RaceHistory) *
			last3FFactor(out[i].RaceHistory, globalAvg3F)
		totalInv += invOdds[i]
		totalForm += formScores[i]
	}

	for i := range out {
		if invOdds[i] <= 0 || totalInv <= 0 {
			out[i].WinProbability = 0
			out[i].ExpectedValue = 0
			continue
		}
		pMarket := invOdds[i] / totalInv
		pForm := pMarket
		if totalForm > 0 {
			pForm = formScores[i] / totalForm
		}
		p := Alpha*pForm + (1.0-Alpha)*pMarket
		out[i].WinProbability = p
		out[i].ExpectedValue = out[i].OddsWin*p - 1.0
	}
	return out
}

// EstimateResults fills WinProbability and ExpectedValue on finished-race
// lines from their pre-off win odds, using the market model. Retrospective
// simulation ranks entrants by these probabilities.
func EstimateResults(results []models.HorseResult) []models.HorseResult {
	out := make([]models.HorseResult, len(results))
	copy(out, results)

	totalInv := 0.0
	for i := range out {
		if out[i].OddsWin > 0 {
			totalInv += 1.0 / out[i].OddsWin
		}
	}
	for i := range out {
		if out[i].OddsWin <= 0 || totalInv <= 0 {
			out[i].WinProbability = 0
			out[i].ExpectedValue = 0
			continue
		}
		p := (1.0 / out[i].OddsWin) / totalInv
		out[i].WinProbability = p
		out[i].ExpectedValue = out[i].OddsWin*p - 1.0
	}
	return out
}

// gateFactor gives inside draws (1-3) a small edge and wide draws (7-8) a
// small penalty. Zero means the draw is unknown.
func gateFactor(gate int) float64 {
	switch {
	case gate <= 0:
		return 1.0
	case gate <= 3:
		return 1.04
	case gate <= 6:
		return 1.00
	default:
		return 0.96
	}
}

// weightChangeFactor scores the body-weight swing since the last run.
// A modest gain reads as condition, a drop as a concern, an extreme move in
// either direction as a bigger concern.
func weightChangeFactor(wc *int) float64 {
	if wc == nil {
		return 1.0
	}
	switch {
	case *wc >= 2 && *wc <= 8:
		return 1.04
	case *wc >= -2 && *wc < 2:
		return 1.00
	case (*wc >= -6 && *wc < -2) || (*wc > 8 && *wc <= 12):
		return 0.95
	default:
		return 0.90
	}
}

// rankingFactor averages the finishing score (n-rank)/(n-1) over the last
// three runs and maps the deviation from 0.5 to at most +-20%.
func rankingFactor(history []models.HistoryEntry) float64 {
	sum, n := 0.0, 0
	for i, run := range history {
		if i >= 3 {
			break
		}
		if run.Ranking == nil || run.FieldSize <= 1 {
			continue
		}
		sum += float64(run.FieldSize-*run.Ranking) / float64(run.FieldSize-1)
		n++
	}
	if n == 0 {
		return 1.0
	}
	mult := 1.0 + (sum/float64(n)-0.5)*0.40
	return clamp(mult, 0.80, 1.20)
}

// last3FFactor compares the horse's average closing three furlongs against
// the field average. One second of pace is worth about 2.4%, capped at 12%.
func last3FFactor(history []models.HistoryEntry, globalAvg float64) float64 {
	if globalAvg <= 0 {
		return 1.0
	}
	avg := averageLast3F(history)
	if avg <= 0 {
		return 1.0
	}
	mult := 1.0 + (globalAvg-avg)*0.024
	return clamp(mult, 0.88, 1.12)
}

func averageLast3F(history []models.HistoryEntry) float64 {
	sum, n := 0.0, 0
	for i, run := range history {
		if i >= 3 {
			break
		}
		if run.Last3F > 0 {
			sum += run.Last3F
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func fieldAverageLast3F(horses []models.Horse) float64 {
	sum, n := 0.0, 0
	for i := range horses {
		if !horses[i].HasOdds() {
			continue
		}
		if avg := averageLast3F(horses[i].RaceHistory); avg > 0 {
			sum += avg
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
