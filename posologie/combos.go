package posologie

import "sort"

// maxTabletsPerStrength caps how many tablets of one strength a single day
// may use. Keeps regimens practical and bounds the search space.
const maxTabletsPerStrength = 4

// searchBudget bounds the total number of search nodes one strategy may
// visit. When it runs out, the current branch is abandoned and the caller
// falls through to its next strategy instead of hanging.
type searchBudget struct {
	remaining int
	exhausted bool
}

func newSearchBudget(n int) *searchBudget {
	return &searchBudget{remaining: n}
}

// spend consumes one unit and reports whether the search may continue.
func (b *searchBudget) spend() bool {
	if b.remaining <= 0 {
		b.exhausted = true
		return false
	}
	b.remaining--
	return true
}

// comboSearch enumerates tablet combinations for a single day's target.
type comboSearch struct {
	strengths []int // descending, deduplicated
	suffixSum []int // suffixSum[i] = sum of strengths[i:]
	allowHalf bool
	budget    *searchBudget
	found     []DayCombo
}

// findDayCombos returns every tablet combination that reaches target mg
// within DoseTolerance, best combinations first. An empty result is the
// normal "this day is infeasible" outcome, not an error.
//
// The search backtracks over strengths in descending order, trying 0 to
// maxTabletsPerStrength tablets of each. When allowHalf is set, a residual
// equal to half the smallest strength may be closed with a single split
// tablet.
func findDayCombos(target float64, strengths []int, allowHalf bool, budget *searchBudget) []DayCombo {
	norm := normalizeStrengths(strengths)
	if len(norm) == 0 || target <= 0 {
		return nil
	}

	cs := &comboSearch{
		strengths: norm,
		suffixSum: make([]int, len(norm)+1),
		allowHalf: allowHalf,
		budget:    budget,
	}
	for i := len(norm) - 1; i >= 0; i-- {
		cs.suffixSum[i] = cs.suffixSum[i+1] + norm[i]
	}

	cs.backtrack(0, target, nil)
	sortCombos(cs.found)
	return cs.found
}

func (cs *comboSearch) backtrack(idx int, remaining float64, stack []PillCount) {
	if !cs.budget.spend() {
		return
	}

	if equalWithin(remaining, 0) {
		combo := make(DayCombo, len(stack))
		copy(combo, stack)
		cs.found = append(cs.found, combo)
		return
	}
	if remaining < -DoseTolerance {
		return
	}

	if idx == len(cs.strengths) {
		// All strengths spent. A half of the smallest strength may still
		// close the residual.
		if cs.allowHalf {
			smallest := cs.strengths[len(cs.strengths)-1]
			if equalWithin(remaining, float64(smallest)/2) {
				combo := make(DayCombo, len(stack), len(stack)+1)
				copy(combo, stack)
				combo = append(combo, PillCount{Mg: smallest, Count: 1, Half: true})
				cs.found = append(cs.found, combo)
			}
		}
		return
	}

	// Prune branches that cannot reach the remainder even at full caps.
	reach := float64(maxTabletsPerStrength * cs.suffixSum[idx])
	if cs.allowHalf {
		reach += float64(cs.strengths[len(cs.strengths)-1]) / 2
	}
	if remaining > reach+DoseTolerance {
		return
	}

	mg := cs.strengths[idx]
	for count := 0; count <= maxTabletsPerStrength; count++ {
		rest := remaining - float64(mg*count)
		if rest < -DoseTolerance {
			break
		}
		next := stack
		if count > 0 {
			next = append(stack, PillCount{Mg: mg, Count: count})
		}
		cs.backtrack(idx+1, rest, next)
	}
}

// sortCombos orders combinations best-first: fewest tablets, then larger
// strengths before smaller ones, then whole tablets before halves.
func sortCombos(combos []DayCombo) {
	sort.SliceStable(combos, func(i, j int) bool {
		return comboLess(combos[i], combos[j])
	})
}

func comboLess(a, b DayCombo) bool {
	if ta, tb := a.tabletCount(), b.tabletCount(); ta != tb {
		return ta < tb
	}
	// Entries are ordered by descending strength, so the first difference
	// decides which combo leans on larger tablets.
	for k := 0; k < len(a) && k < len(b); k++ {
		if a[k].Mg != b[k].Mg {
			return a[k].Mg > b[k].Mg
		}
		if a[k].Count != b[k].Count {
			return a[k].Count > b[k].Count
		}
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a.halfCount() < b.halfCount()
}
