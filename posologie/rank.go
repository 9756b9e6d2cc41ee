package posologie

import (
	"math"
	"sort"
)

// optionScore carries the composite ranking terms for one option, computed
// once before sorting.
type optionScore struct {
	opt       DosageOption
	doseDelta float64 // distance from the requested weekly dose
	strengths int     // distinct tablet strengths used
	tablets   int     // tablets per week
	halves    int     // half-tablets per week
	signature string
}

// rankOptions deduplicates structurally identical weekly schedules and
// orders the rest by how well they serve the patient: closest weekly dose
// first, then fewer distinct strengths, then fewer tablets, then whole
// tablets over halves. The list is cut to maxOptions before formatting.
func rankOptions(options []DosageOption, weeklyDose float64, maxOptions int) []DosageOption {
	if len(options) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(options))
	scored := make([]optionScore, 0, len(options))
	for _, opt := range options {
		sig := opt.signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		scored = append(scored, optionScore{
			opt:       opt,
			doseDelta: math.Abs(opt.WeeklyDoseActual - weeklyDose),
			strengths: opt.distinctStrengths(),
			tablets:   opt.weekTabletCount(),
			halves:    opt.weekHalfCount(),
			signature: sig,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if math.Abs(a.doseDelta-b.doseDelta) > DoseTolerance/10 {
			return a.doseDelta < b.doseDelta
		}
		if a.strengths != b.strengths {
			return a.strengths < b.strengths
		}
		if a.tablets != b.tablets {
			return a.tablets < b.tablets
		}
		if a.halves != b.halves {
			return a.halves < b.halves
		}
		// Full determinism even for true ties.
		return a.signature < b.signature
	})

	if maxOptions > 0 && len(scored) > maxOptions {
		scored = scored[:maxOptions]
	}

	ranked := make([]DosageOption, len(scored))
	for i, s := range scored {
		ranked[i] = s.opt
	}
	return ranked
}
