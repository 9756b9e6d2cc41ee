package posologie

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// formatOutput expands a ranked option into its serializable form: all
// seven day schedules materialized (rest days get an empty pill list and a
// zero total), a human-readable description, and the weekly tablet tally.
// Pure transformation, no side effects.
func formatOutput(opt DosageOption) FinalOutput {
	schedule := make([]DaySchedule, 7)
	for d := 0; d < 7; d++ {
		if opt.isStopDay(d) {
			schedule[d] = DaySchedule{
				DayIndex:  d,
				TotalDose: 0,
				Pills:     []PillRenderData{},
				IsStopDay: true,
			}
			continue
		}
		combo := opt.Days[d]
		pills := make([]PillRenderData, len(combo))
		for i, p := range combo {
			pills[i] = PillRenderData{Mg: p.Mg, Count: p.Count, IsHalf: p.Half}
		}
		schedule[d] = DaySchedule{
			DayIndex:  d,
			TotalDose: round2(combo.totalDose()),
			Pills:     pills,
		}
	}

	return FinalOutput{
		Description:       describeOption(opt),
		WeeklyDoseActual:  round2(opt.WeeklyDoseActual),
		WeeklySchedule:    schedule,
		TotalPillsMessage: totalPillsMessage(opt),
	}
}

// describeOption summarizes a regimen in one sentence.
func describeOption(opt DosageOption) string {
	if opt.Description != "" {
		return opt.Description
	}

	switch {
	case opt.Kind == OptionNonUniform:
		return describeSplit(opt)
	case len(opt.StopDays) > 0:
		dose := firstActiveDose(opt)
		return fmt.Sprintf("%s per day, no dose on %s", formatMg(dose), joinDays(opt.StopDays))
	default:
		return fmt.Sprintf("Same dose every day: %s", formatMg(opt.Days[0].totalDose()))
	}
}

// describeSplit names the two dose groups of a non-uniform week, smaller
// group first.
func describeSplit(opt DosageOption) string {
	groups := make(map[float64][]int)
	for d := 0; d < 7; d++ {
		if opt.isStopDay(d) {
			continue
		}
		dose := round2(opt.Days[d].totalDose())
		groups[dose] = append(groups[dose], d)
	}

	type group struct {
		dose float64
		days []int
	}
	ordered := make([]group, 0, len(groups))
	for dose, days := range groups {
		ordered = append(ordered, group{dose, days})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i].days) != len(ordered[j].days) {
			return len(ordered[i].days) < len(ordered[j].days)
		}
		return ordered[i].dose > ordered[j].dose
	})

	parts := make([]string, 0, len(ordered))
	for i, gr := range ordered {
		if i == len(ordered)-1 && len(ordered) > 1 {
			parts = append(parts, fmt.Sprintf("%s on the other days", formatMg(gr.dose)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s on %s", formatMg(gr.dose), joinDays(gr.days)))
	}
	return strings.Join(parts, ", ")
}

// totalPillsMessage tallies tablets per strength across the week, for
// example "Per week: 3 x 5 mg, 4 x 2 mg, 2 x half 1 mg (9 tablets)".
func totalPillsMessage(opt DosageOption) string {
	type tally struct {
		whole int
		half  int
	}
	perStrength := make(map[int]*tally)
	for d := 0; d < 7; d++ {
		for _, p := range opt.Days[d] {
			t := perStrength[p.Mg]
			if t == nil {
				t = &tally{}
				perStrength[p.Mg] = t
			}
			if p.Half {
				t.half += p.Count
			} else {
				t.whole += p.Count
			}
		}
	}

	strengths := make([]int, 0, len(perStrength))
	for mg := range perStrength {
		strengths = append(strengths, mg)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(strengths)))

	var parts []string
	var tablets int
	for _, mg := range strengths {
		t := perStrength[mg]
		if t.whole > 0 {
			parts = append(parts, fmt.Sprintf("%d x %d mg", t.whole, mg))
			tablets += t.whole
		}
		if t.half > 0 {
			parts = append(parts, fmt.Sprintf("%d x half %d mg", t.half, mg))
			tablets += t.half
		}
	}
	if len(parts) == 0 {
		return "No tablets required"
	}

	noun := "tablets"
	if tablets == 1 {
		noun = "tablet"
	}
	return fmt.Sprintf("Per week: %s (%d %s)", strings.Join(parts, ", "), tablets, noun)
}

// firstActiveDose returns the daily dose of the first non-rest day.
func firstActiveDose(opt DosageOption) float64 {
	for d := 0; d < 7; d++ {
		if !opt.isStopDay(d) {
			return opt.Days[d].totalDose()
		}
	}
	return 0
}

// joinDays renders day indices as "Mon/Wed/Fri".
func joinDays(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < 7 {
			names = append(names, dayNames[d])
		}
	}
	return strings.Join(names, "/")
}

// formatMg renders a dose without trailing zeros: 3 mg, 2.5 mg.
func formatMg(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64) + " mg"
}
