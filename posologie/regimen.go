package posologie

import "math"

// uniformComboLimit caps how many alternative day combos the uniform
// strategy turns into separate options; the ranker picks between them.
const uniformComboLimit = 3

// patternStepSpan sizes the split strategy's trial-dose window: it probes
// this many multiples of the smallest strength on each side of the even
// daily dose.
const patternStepSpan = 4

// generator synthesizes full-week options from single-day combinations.
type generator struct {
	in        CalculationInput
	strengths []int
	step      float64 // trial-dose granularity, 1 mg or 0.5 mg with halves
	perBudget int     // search budget per strategy
	options   []DosageOption
}

// generateOptions runs the three regimen strategies in order and
// accumulates every feasible option. Uniform and pattern-split always run;
// stop-day variants only when the first two found nothing. An empty result
// means no regimen reaches the weekly target, which the caller reports as
// a normal outcome.
func generateOptions(in CalculationInput, iterationBudget int) []DosageOption {
	strengths := normalizeStrengths(in.AvailablePills)
	if len(strengths) == 0 {
		return nil
	}

	step := 1.0
	if in.AllowHalf {
		step = 0.5
	}

	g := &generator{
		in:        in,
		strengths: strengths,
		step:      step,
		perBudget: iterationBudget / 3,
	}

	g.uniform()
	g.patternSplit()
	if len(g.options) == 0 {
		g.stopDayVariants()
	}
	return g.options
}

// uniform targets weeklyDose/7 on every day.
func (g *generator) uniform() {
	daily := g.in.WeeklyDose / 7
	budget := newSearchBudget(g.perBudget)
	combos := findDayCombos(daily, g.strengths, g.in.AllowHalf, budget)

	for i, combo := range combos {
		if i == uniformComboLimit {
			break
		}
		actual := combo.totalDose() * 7
		if !equalWithin(actual, g.in.WeeklyDose) {
			continue
		}
		opt := DosageOption{Kind: OptionUniform, WeeklyDoseActual: actual}
		for d := 0; d < 7; d++ {
			opt.Days[d] = combo
		}
		g.options = append(g.options, opt)
	}
}

// patternSplit tries two-level weeks: one trial dose on the pattern's
// special days and a complementary dose on the rest. Trial doses step at
// 1 mg, or 0.5 mg when half tablets are allowed, across a window around
// the even daily dose. Whether either dose is reachable with the available
// tablets is left entirely to the combo search.
func (g *generator) patternSplit() {
	special := g.in.SpecialDayPattern.normalize().specialDays()
	nA := len(special)
	nB := 7 - nA
	budget := newSearchBudget(g.perBudget)

	base := g.in.WeeklyDose / 7
	smallest := g.strengths[len(g.strengths)-1]
	span := int(math.Ceil(float64(patternStepSpan*smallest) / g.step))
	center := int(math.Floor(base / g.step))
	for k := center - span; k <= center+span; k++ {
		if k < 1 {
			continue
		}
		tA := float64(k) * g.step
		tB := (g.in.WeeklyDose - float64(nA)*tA) / float64(nB)
		if tB <= DoseTolerance {
			continue
		}
		if equalWithin(tA, tB) {
			continue // degenerates to the uniform strategy
		}

		combosA := findDayCombos(tA, g.strengths, g.in.AllowHalf, budget)
		if len(combosA) == 0 {
			continue
		}
		combosB := findDayCombos(tB, g.strengths, g.in.AllowHalf, budget)
		if len(combosB) == 0 {
			continue
		}

		comboA, comboB := combosA[0], combosB[0]
		actual := comboA.totalDose()*float64(nA) + comboB.totalDose()*float64(nB)
		if !equalWithin(actual, g.in.WeeklyDose) {
			continue
		}

		opt := DosageOption{Kind: OptionNonUniform, WeeklyDoseActual: actual}
		for d := 0; d < 7; d++ {
			opt.Days[d] = comboB
		}
		for _, d := range special {
			opt.Days[d] = comboA
		}
		g.options = append(g.options, opt)

		if budget.exhausted {
			return
		}
	}
}

// stopDayVariants drops one or two dosing days and redistributes the weekly
// target over the remaining days. Used when the target sits too low or too
// high for a full seven-day week.
func (g *generator) stopDayVariants() {
	for drop := 1; drop <= 2; drop++ {
		active := 7 - drop
		target := g.in.WeeklyDose / float64(active)
		budget := newSearchBudget(g.perBudget)

		combos := findDayCombos(target, g.strengths, g.in.AllowHalf, budget)
		if len(combos) == 0 {
			continue
		}
		combo := combos[0]
		actual := combo.totalDose() * float64(active)
		if !equalWithin(actual, g.in.WeeklyDose) {
			continue
		}

		stops := spreadStopDays(drop)
		opt := DosageOption{
			Kind:             OptionUniform,
			StopDays:         stops,
			WeeklyDoseActual: actual,
		}
		for d := 0; d < 7; d++ {
			if !opt.isStopDay(d) {
				opt.Days[d] = combo
			}
		}
		g.options = append(g.options, opt)
	}
}

// spreadStopDays places n rest days evenly across the Monday-indexed week,
// never adjacent, always the same for the same n. Placement is a pure
// function of the count: one rest day lands on Sunday, a second on
// Thursday.
func spreadStopDays(n int) []int {
	if n <= 0 {
		return nil
	}
	if n > 2 {
		n = 2
	}
	stops := make([]int, 0, n)
	for i := 0; i < n; i++ {
		stops = append(stops, 6-i*3)
	}
	// ascending day order
	for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
		stops[i], stops[j] = stops[j], stops[i]
	}
	return stops
}
