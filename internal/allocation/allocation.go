// Package allocation holds the stake rounding and budget splitting
// primitives shared by every staking strategy.
package allocation

// Unit is the betting unit in yen. Every stake is a positive multiple of it.
const Unit = 100

// RoundToUnit rounds an amount to the nearest betting unit with a floor of
// one unit. A stake can never round down to zero or go negative.
func RoundToUnit(amount float64) int {
	rounded := int((amount+float64(Unit)/2)/float64(Unit)) * Unit
	if rounded < Unit {
		return Unit
	}
	return rounded
}

// ProportionalSplit allocates budget across weights proportionally, each
// share rounded to the betting unit. When the weights sum to zero the budget
// is split equally. The rounding residual is added in full to the first
// allocation so the total always reconciles exactly to budget; this is a
// deliberate simplification, not a fairness guarantee.
func ProportionalSplit(budget int, weights []float64) []int {
	if len(weights) == 0 {
		return nil
	}

	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}

	allocs := make([]int, len(weights))
	sum := 0
	for i, w := range weights {
		var share float64
		if total > 0 {
			if w > 0 {
				share = float64(budget) * w / total
			}
		} else {
			share = float64(budget) / float64(len(weights))
		}
		allocs[i] = RoundToUnit(share)
		sum += allocs[i]
	}

	allocs[0] += budget - sum
	return allocs
}

// EqualSplit divides budget evenly with the residual added to the LAST
// allocation. Used for combination bets where no weight ordering exists.
// Unlike ProportionalSplit the shares are not rounded to the betting unit;
// a three-way split of 10000 is 3333/3333/3334.
func EqualSplit(budget, n int) []int {
	if n <= 0 {
		return nil
	}
	allocs := make([]int, n)
	share := budget / n
	for i := range allocs {
		allocs[i] = share
	}
	allocs[n-1] += budget - share*n
	return allocs
}
