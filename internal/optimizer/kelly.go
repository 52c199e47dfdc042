package optimizer

import (
	"fmt"
	"sort"

	"github.com/yourusername/keiba-optimizer/internal/allocation"
	"github.com/yourusername/keiba-optimizer/internal/models"
)

// SolveKelly computes a local half-Kelly budget allocation across the
// positive-edge horses of a race. It serves as the offline fallback when no
// remote optimizer is configured and produces the same response shape.
//
// The full Kelly fraction for a win bet at decimal odds o with estimated win
// probability p is f = p - (1-p)/(o-1). Half of that fraction is staked to
// damp estimation error. Fractions are renormalized if they would exceed the
// budget, and every stake lands on the 100 yen betting unit.
func SolveKelly(raceID string, budget int, horses []models.Horse) (*models.OptimizeResponse, error) {
	if budget <= 0 || budget%allocation.Unit != 0 {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidBudget, budget)
	}

	type candidate struct {
		horse    models.Horse
		fraction float64
	}

	var candidates []candidate
	totalFraction := 0.0
	for _, h := range horses {
		if h.OddsWin <= 1 || h.WinProbability <= 0 {
			continue
		}
		f := h.WinProbability - (1-h.WinProbability)/(h.OddsWin-1)
		if f <= 0 {
			continue
		}
		f /= 2
		candidates = append(candidates, candidate{horse: h, fraction: f})
		totalFraction += f
	}

	resp := &models.OptimizeResponse{
		RaceID: raceID,
		Budget: budget,
	}
	if len(candidates) == 0 {
		resp.RemainingBudget = budget
		resp.Derive()
		return resp, nil
	}

	// Never stake more than the whole budget across the book.
	scale := 1.0
	if totalFraction > 1 {
		scale = 1 / totalFraction
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].fraction > candidates[j].fraction
	})

	remaining := budget
	coverage := 0.0
	guaranteed := 0.0
	for _, c := range candidates {
		raw := float64(budget) * c.fraction * scale
		if raw < float64(allocation.Unit)/2 {
			// Would round below one betting unit; not worth a ticket.
			continue
		}
		stake := allocation.RoundToUnit(raw)
		if stake > remaining {
			stake = remaining
		}
		if stake == 0 {
			continue
		}
		remaining -= stake

		ifWins := float64(stake) * c.horse.OddsWin
		rec := models.Recommendation{
			HorseID:        c.horse.ID,
			HorseName:      c.horse.Name,
			RecommendedBet: stake,
			IfWinsReturn:   ifWins,
			ExpectedReturn: ifWins * c.horse.WinProbability,
			OddsWin:        c.horse.OddsWin,
			WinProbability: c.horse.WinProbability,
		}
		resp.Recommendations = append(resp.Recommendations, rec)
		resp.TotalBet += stake
		resp.TotalExpectedReturn += rec.ExpectedReturn
		coverage += c.horse.WinProbability
		if guaranteed == 0 || ifWins < guaranteed {
			guaranteed = ifWins
		}
	}

	resp.RemainingBudget = budget - resp.TotalBet
	resp.Coverage = coverage
	resp.GuaranteedReturn = guaranteed
	resp.Derive()
	return resp, nil
}
