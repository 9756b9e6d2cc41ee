// Package posologie computes weekly tablet schedules for a target dose.
// Given a weekly dose in mg and the tablet strengths a patient has available,
// it searches for practical 7-day regimens (same dose every day, two-level
// day patterns, or weeks with rest days) and returns them ranked by how
// closely they match the target and how convenient they are to take.
//
// The solver is pure and synchronous: no I/O, no logging, no shared state.
// A Solve call always terminates and either returns options or an empty
// list when no regimen fits the target.
package posologie

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DoseTolerance is the margin, in mg, within which two dose totals are
// considered equal. Dose arithmetic never uses exact float comparison.
const DoseTolerance = 0.01

// DayPattern selects which days carry the distinct dose in a split regimen.
type DayPattern string

const (
	// PatternMonWedFri doses Monday, Wednesday and Friday at one level and
	// the remaining four days at another.
	PatternMonWedFri DayPattern = "mon-wed-fri"
	// PatternFriSun doses Friday and Sunday at one level and the remaining
	// five days at another.
	PatternFriSun DayPattern = "fri-sun"
)

// specialDays returns the day indices (0=Mon..6=Sun) that carry the
// pattern's distinct dose.
func (p DayPattern) specialDays() []int {
	switch p {
	case PatternFriSun:
		return []int{4, 6}
	default:
		return []int{0, 2, 4}
	}
}

// normalize lower-cases the pattern and maps the empty value to the
// Mon/Wed/Fri default.
func (p DayPattern) normalize() DayPattern {
	s := DayPattern(strings.ToLower(strings.TrimSpace(string(p))))
	if s == "" {
		return PatternMonWedFri
	}
	return s
}

// CalculationInput is a single solve request. It is treated as immutable:
// the solver never mutates it and two identical inputs produce identical
// ranked output.
type CalculationInput struct {
	// WeeklyDose is the target total dose over 7 days, in mg.
	WeeklyDose float64 `json:"weekly_dose"`
	// AllowHalf permits splitting one tablet of the smallest strength to
	// close a half-step residual.
	AllowHalf bool `json:"allow_half"`
	// AvailablePills lists the tablet strengths on hand, in whole mg.
	AvailablePills []int `json:"available_pills"`
	// SpecialDayPattern chooses the day grouping for split regimens.
	SpecialDayPattern DayPattern `json:"special_day_pattern"`
	// DaysUntilAppointment is informational for the caller's display; it
	// does not alter the search.
	DaysUntilAppointment int `json:"days_until_appointment"`
	// StartDayOfWeek (0=Mon..6=Sun) is display-only rotation. Schedule
	// indices in the output are calendar-absolute: day_index 0 is always
	// Monday, and rest days do not rotate with the start day.
	StartDayOfWeek int `json:"start_day_of_week"`
}

// PillCount is a number of tablets of a single strength. When Half is set
// the entry stands for Count half-tablets of that strength.
type PillCount struct {
	Mg    int  `json:"mg"`
	Count int  `json:"count"`
	Half  bool `json:"half"`
}

// dose returns the mg delivered by this entry.
func (p PillCount) dose() float64 {
	d := float64(p.Mg) * float64(p.Count)
	if p.Half {
		d /= 2
	}
	return d
}

// DayCombo is one day's tablet combination, ordered by descending strength.
type DayCombo []PillCount

// totalDose returns the mg delivered by the whole combination.
func (c DayCombo) totalDose() float64 {
	var total float64
	for _, p := range c {
		total += p.dose()
	}
	return total
}

// tabletCount counts physical tablets; a half-tablet still counts as one.
func (c DayCombo) tabletCount() int {
	var n int
	for _, p := range c {
		n += p.Count
	}
	return n
}

// halfCount counts half-tablet entries.
func (c DayCombo) halfCount() int {
	var n int
	for _, p := range c {
		if p.Half {
			n += p.Count
		}
	}
	return n
}

// signature is a canonical string form used for deduplication.
func (c DayCombo) signature() string {
	var b strings.Builder
	for _, p := range c {
		if p.Half {
			fmt.Fprintf(&b, "%dxh%d,", p.Count, p.Mg)
		} else {
			fmt.Fprintf(&b, "%dx%d,", p.Count, p.Mg)
		}
	}
	return b.String()
}

// OptionKind tags how a DosageOption distributes doses across the week.
type OptionKind int

const (
	// OptionUniform doses every active day identically.
	OptionUniform OptionKind = iota
	// OptionNonUniform doses two day groups at different levels.
	OptionNonUniform
)

// DosageOption is a candidate weekly regimen. It is transient: produced,
// ranked and formatted within one solve call, never stored.
type DosageOption struct {
	Kind             OptionKind
	Days             [7]DayCombo
	StopDays         []int
	WeeklyDoseActual float64
	Description      string
}

// isStopDay reports whether day index d carries no dose.
func (o DosageOption) isStopDay(d int) bool {
	for _, s := range o.StopDays {
		if s == d {
			return true
		}
	}
	return false
}

// signature canonicalizes the whole week for deduplication: two options
// with identical day-by-day schedules collapse to one.
func (o DosageOption) signature() string {
	var b strings.Builder
	for d := 0; d < 7; d++ {
		if o.isStopDay(d) {
			b.WriteString("stop;")
			continue
		}
		b.WriteString(o.Days[d].signature())
		b.WriteByte(';')
	}
	return b.String()
}

// weekTabletCount counts tablets across all seven days.
func (o DosageOption) weekTabletCount() int {
	var n int
	for d := 0; d < 7; d++ {
		n += o.Days[d].tabletCount()
	}
	return n
}

// weekHalfCount counts half-tablets across all seven days.
func (o DosageOption) weekHalfCount() int {
	var n int
	for d := 0; d < 7; d++ {
		n += o.Days[d].halfCount()
	}
	return n
}

// distinctStrengths counts how many different tablet strengths the week uses.
func (o DosageOption) distinctStrengths() int {
	seen := make(map[int]bool)
	for d := 0; d < 7; d++ {
		for _, p := range o.Days[d] {
			seen[p.Mg] = true
		}
	}
	return len(seen)
}

// PillRenderData is one pill line of a day schedule, ready to serialize.
type PillRenderData struct {
	Mg     int  `json:"mg"`
	Count  int  `json:"count"`
	IsHalf bool `json:"is_half"`
}

// DaySchedule is one day of the final weekly schedule. DayIndex runs
// 0=Monday through 6=Sunday.
type DaySchedule struct {
	DayIndex  int              `json:"day_index"`
	TotalDose float64          `json:"total_dose"`
	Pills     []PillRenderData `json:"pills"`
	IsStopDay bool             `json:"is_stop_day"`
}

// FinalOutput is one fully expanded regimen at the serialization boundary.
// WeeklySchedule always holds exactly 7 entries ordered by day index, and
// the day totals sum to WeeklyDoseActual within DoseTolerance.
type FinalOutput struct {
	Description       string        `json:"description"`
	WeeklyDoseActual  float64       `json:"weekly_dose_actual"`
	WeeklySchedule    []DaySchedule `json:"weekly_schedule"`
	TotalPillsMessage string        `json:"total_pills_message"`
}

// equalWithin reports whether two doses match within DoseTolerance.
func equalWithin(a, b float64) bool {
	return math.Abs(a-b) <= DoseTolerance
}

// round2 rounds a dose to two decimals for output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// normalizeStrengths deduplicates and sorts strengths descending, dropping
// non-positive values.
func normalizeStrengths(strengths []int) []int {
	seen := make(map[int]bool, len(strengths))
	out := make([]int, 0, len(strengths))
	for _, s := range strengths {
		if s > 0 && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
