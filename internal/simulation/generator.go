// Package simulation builds the fixed catalog of staking strategies for a
// race and reconciles it against official results.
//
// Every strategy stakes the same fixed budget. In prospective mode (no
// result yet) the catalog carries expected returns, which are nil for pools
// whose odds are unknown before the off. In retrospective mode each ticket
// is matched against the final order and the payout tables to produce
// realized figures.
package simulation

import (
	"fmt"
	"sort"

	"github.com/yourusername/keiba-optimizer/internal/models"
)

const (
	// Budget is the fixed stake allocated to every strategy, in yen.
	Budget = 10000

	// HighPayoutThreshold flags a strategy whose profit merits visual
	// distinction. The value is core logic, not a presentation choice.
	HighPayoutThreshold = 10000
)

// entrant is the slice of horse data the builders operate on, common to both
// modes.
type entrant struct {
	Number    int
	Name      string
	OddsWin   float64
	OddsPlace float64
	Prob      float64
}

// generator holds one race's inputs. result is nil in prospective mode.
type generator struct {
	ranked []entrant
	result *models.RaceResult
}

// descriptor names one catalog entry and how to build it. Builders return
// false to drop the strategy from the catalog (degenerate field, missing
// payout record); that is a silent skip, not an error.
type descriptor struct {
	build func(g *generator) (models.SimulationResult, bool)
}

// catalog is the fixed, ordered strategy menu.
var catalog = []descriptor{
	{build: (*generator).buildWinTop3},
	{build: (*generator).buildPlaceTop3},
	{build: (*generator).buildWidePairs},
	{build: (*generator).buildTrioBox},
	{build: (*generator).buildTrifecta},
	{build: (*generator).buildHybrid},
}

// GeneratePre builds the prospective catalog from a pre-race entrant list.
// Horses must already carry win probabilities from the estimator.
func GeneratePre(horses []models.Horse) []models.SimulationResult {
	g := &generator{ranked: rankHorses(horses)}
	return g.run()
}

// GeneratePost builds the retrospective catalog from a finished race,
// ranking entrants by the win probability estimated before the off.
func GeneratePost(result *models.RaceResult) []models.SimulationResult {
	if result == nil {
		return nil
	}
	g := &generator{ranked: rankResults(result.Horses), result: result}
	return g.run()
}

func (g *generator) run() []models.SimulationResult {
	if len(g.ranked) == 0 {
		return nil
	}
	out := make([]models.SimulationResult, 0, len(catalog))
	for _, d := range catalog {
		if res, ok := d.build(g); ok {
			out = append(out, res)
		}
	}
	return out
}

// rankHorses filters to priced entrants with positive probability and sorts
// by descending probability, horse number breaking ties for determinism.
func rankHorses(horses []models.Horse) []entrant {
	ranked := make([]entrant, 0, len(horses))
	for i := range horses {
		if !horses[i].HasOdds() || horses[i].WinProbability <= 0 {
			continue
		}
		ranked = append(ranked, entrant{
			Number:    horses[i].HorseNumber,
			Name:      horses[i].Name,
			OddsWin:   horses[i].OddsWin,
			OddsPlace: horses[i].OddsPlace,
			Prob:      horses[i].WinProbability,
		})
	}
	sortRanked(ranked)
	return ranked
}

func rankResults(results []models.HorseResult) []entrant {
	ranked := make([]entrant, 0, len(results))
	for i := range results {
		if results[i].OddsWin <= 0 || results[i].WinProbability <= 0 {
			continue
		}
		ranked = append(ranked, entrant{
			Number:  results[i].HorseNumber,
			Name:    results[i].Name,
			OddsWin: results[i].OddsWin,
			Prob:    results[i].WinProbability,
		})
	}
	sortRanked(ranked)
	return ranked
}

func sortRanked(ranked []entrant) {
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Prob != ranked[j].Prob {
			return ranked[i].Prob > ranked[j].Prob
		}
		return ranked[i].Number < ranked[j].Number
	})
}

// top returns the n highest-probability entrants, fewer when the field is
// short.
func (g *generator) top(n int) []entrant {
	if len(g.ranked) < n {
		n = len(g.ranked)
	}
	return g.ranked[:n]
}

// prospective reports whether the generator runs without a race result.
func (g *generator) prospective() bool {
	return g.result == nil
}

// rankingOf looks up the official ranking for a horse number; nil when the
// horse did not finish or no result is attached.
func (g *generator) rankingOf(horseNumber int) *int {
	if g.result == nil {
		return nil
	}
	for i := range g.result.Horses {
		if g.result.Horses[i].HorseNumber == horseNumber {
			return g.result.Horses[i].Ranking
		}
	}
	return nil
}

// finished reports whether the horse finished at or better than rank.
func (g *generator) finished(horseNumber, rank int) bool {
	r := g.rankingOf(horseNumber)
	return r != nil && *r <= rank
}

// placedIndex returns the target's index among the placed horses sorted by
// ranking ascending. Place and wide payout lines are stored in that order,
// so the index doubles as the payout line index. A missing horse maps to
// index 0; that is a documented approximation kept from the data source's
// shape, not a silent bug.
func (g *generator) placedIndex(horseNumber int) int {
	if g.result == nil {
		return 0
	}
	for i, h := range g.result.PlacedHorses() {
		if h.HorseNumber == horseNumber {
			return i
		}
	}
	return 0
}

func payoutAmount(line models.PayoutLine, stake int) int {
	return line.Amount * stake / 100
}

func floatPtr(v float64) *float64 { return &v }

func betLabel(prefix string, numbers []int) string {
	s := prefix
	for i, n := range numbers {
		if i > 0 {
			s += "-"
		}
		s += fmt.Sprintf("%d", n)
	}
	return s
}
