package posologie

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestSolveUniformScenario(t *testing.T) {
	// 21 mg weekly resolves to one 3 mg tablet every day.
	outputs, err := NewSolver().Solve(CalculationInput{
		WeeklyDose:     21.0,
		AvailablePills: []int{1, 2, 3, 5},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(outputs) == 0 {
		t.Fatal("Expected at least one option")
	}

	top := outputs[0]
	if math.Abs(top.WeeklyDoseActual-21.0) > DoseTolerance {
		t.Errorf("Top option actual %v, want 21.0", top.WeeklyDoseActual)
	}
	for _, day := range top.WeeklySchedule {
		if day.IsStopDay {
			t.Errorf("Day %d should not be a stop day", day.DayIndex)
		}
		if len(day.Pills) != 1 || day.Pills[0].Mg != 3 || day.Pills[0].Count != 1 || day.Pills[0].IsHalf {
			t.Errorf("Day %d pills = %v, want a single whole 3 mg tablet", day.DayIndex, day.Pills)
		}
	}
}

func TestSolveFiveMgScenario(t *testing.T) {
	// 35 mg weekly from 1 and 5 mg tablets: one 5 mg tablet daily.
	outputs, err := NewSolver().Solve(CalculationInput{
		WeeklyDose:     35.0,
		AvailablePills: []int{1, 5},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(outputs) == 0 {
		t.Fatal("Expected at least one option")
	}

	top := outputs[0]
	for _, day := range top.WeeklySchedule {
		if len(day.Pills) != 1 || day.Pills[0].Mg != 5 || day.Pills[0].Count != 1 {
			t.Errorf("Day %d pills = %v, want one 5 mg tablet", day.DayIndex, day.Pills)
		}
	}
}

func TestSolveSplitWithoutUnitStrength(t *testing.T) {
	// 17 mg weekly from 2 and 3 mg tablets has no uniform week, but a
	// Mon/Wed/Fri split does exist: 3 mg on the three marked days plus 2 mg
	// on the rest. The solver must find it rather than report infeasible.
	outputs, err := NewSolver().Solve(CalculationInput{
		WeeklyDose:        17.0,
		AvailablePills:    []int{2, 3},
		SpecialDayPattern: PatternMonWedFri,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(outputs) == 0 {
		t.Fatal("Expected a split option for 17 mg weekly from 2 and 3 mg tablets")
	}

	top := outputs[0]
	if math.Abs(top.WeeklyDoseActual-17.0) > DoseTolerance {
		t.Errorf("Actual %v, want 17.0", top.WeeklyDoseActual)
	}
	for _, day := range top.WeeklySchedule {
		want := 2.0
		if day.DayIndex == 0 || day.DayIndex == 2 || day.DayIndex == 4 {
			want = 3.0
		}
		if math.Abs(day.TotalDose-want) > DoseTolerance {
			t.Errorf("Day %d dose %v, want %v", day.DayIndex, day.TotalDose, want)
		}
	}
}

func TestSolveInfeasibleScenario(t *testing.T) {
	// 3 mg weekly is unreachable from whole 5 mg tablets.
	outputs, err := NewSolver().Solve(CalculationInput{
		WeeklyDose:     3.0,
		AvailablePills: []int{5},
	})
	if err != nil {
		t.Fatalf("Infeasible input should not error, got %v", err)
	}
	if len(outputs) != 0 {
		t.Errorf("Expected empty result, got %d options", len(outputs))
	}
}

func TestSolveHalfTablets(t *testing.T) {
	// 17.5 mg weekly from 5 mg tablets needs a half tablet each day.
	outputs, err := NewSolver().Solve(CalculationInput{
		WeeklyDose:     17.5,
		AvailablePills: []int{5},
		AllowHalf:      true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(outputs) == 0 {
		t.Fatal("Expected an option with half tablets")
	}

	top := outputs[0]
	if math.Abs(top.WeeklyDoseActual-17.5) > DoseTolerance {
		t.Errorf("Actual %v, want 17.5", top.WeeklyDoseActual)
	}
	foundHalf := false
	for _, day := range top.WeeklySchedule {
		for _, p := range day.Pills {
			if p.IsHalf {
				foundHalf = true
			}
		}
	}
	if !foundHalf {
		t.Error("Expected half tablets in the schedule")
	}
}

func TestSolveNoHalvesWhenDisallowed(t *testing.T) {
	inputs := []CalculationInput{
		{WeeklyDose: 21.0, AvailablePills: []int{1, 2, 3, 5}},
		{WeeklyDose: 28.0, AvailablePills: []int{1, 2}},
		{WeeklyDose: 14.0, AvailablePills: []int{2, 5}},
	}

	for _, in := range inputs {
		outputs, err := NewSolver().Solve(in)
		if err != nil {
			t.Fatalf("Expected no error for %v, got %v", in, err)
		}
		for _, out := range outputs {
			for _, day := range out.WeeklySchedule {
				for _, p := range day.Pills {
					if p.IsHalf {
						t.Errorf("Half tablet %+v produced with halves disallowed", p)
					}
				}
			}
		}
	}
}

func TestSolveRoundTripInvariant(t *testing.T) {
	inputs := []CalculationInput{
		{WeeklyDose: 21.0, AvailablePills: []int{1, 2, 3, 5}},
		{WeeklyDose: 17.0, AvailablePills: []int{1}},
		{WeeklyDose: 17.5, AvailablePills: []int{5}, AllowHalf: true},
		{WeeklyDose: 10.0, AvailablePills: []int{2}},
		{WeeklyDose: 16.0, AvailablePills: []int{1, 2, 3}, SpecialDayPattern: PatternFriSun},
	}

	for _, in := range inputs {
		outputs, err := NewSolver().Solve(in)
		if err != nil {
			t.Fatalf("Expected no error for %v, got %v", in, err)
		}
		for _, out := range outputs {
			if len(out.WeeklySchedule) != 7 {
				t.Fatalf("Expected 7 day schedules, got %d", len(out.WeeklySchedule))
			}
			var sum float64
			for _, day := range out.WeeklySchedule {
				sum += day.TotalDose
			}
			if math.Abs(sum-out.WeeklyDoseActual) > DoseTolerance {
				t.Errorf("Input %v: day totals %v vs actual %v", in, sum, out.WeeklyDoseActual)
			}
		}
	}
}

func TestSolveDeterministic(t *testing.T) {
	in := CalculationInput{
		WeeklyDose:        17.0,
		AvailablePills:    []int{1, 2, 3, 5},
		SpecialDayPattern: PatternMonWedFri,
		AllowHalf:         true,
	}

	first, err := NewSolver().Solve(in)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := NewSolver().Solve(in)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Run %d differs from first run", i)
		}
	}
}

func TestSolveInvalidInputs(t *testing.T) {
	cases := []struct {
		name string
		in   CalculationInput
	}{
		{"zero dose", CalculationInput{WeeklyDose: 0, AvailablePills: []int{5}}},
		{"negative dose", CalculationInput{WeeklyDose: -7, AvailablePills: []int{5}}},
		{"no pills", CalculationInput{WeeklyDose: 21, AvailablePills: nil}},
		{"bad pattern", CalculationInput{WeeklyDose: 21, AvailablePills: []int{5}, SpecialDayPattern: "weekends"}},
		{"bad start day", CalculationInput{WeeklyDose: 21, AvailablePills: []int{5}, StartDayOfWeek: 9}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outputs, err := NewSolver().Solve(tc.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
			if len(outputs) != 0 {
				t.Errorf("Expected no outputs, got %d", len(outputs))
			}
		})
	}
}

func TestSolveLargeDoseTerminates(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		outputs, err := NewSolver().Solve(CalculationInput{
			WeeklyDose:     200.0,
			AvailablePills: []int{1, 2, 3, 5},
		})
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		for _, out := range outputs {
			if math.Abs(out.WeeklyDoseActual-200.0) > DoseTolerance {
				t.Errorf("Option outside tolerance: %v", out.WeeklyDoseActual)
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Solve did not terminate within its time budget")
	}
}

func TestSolveStartDayDoesNotShiftSchedule(t *testing.T) {
	// Schedule indices are calendar-absolute; the start day only matters to
	// the caller's display.
	base := CalculationInput{WeeklyDose: 10.0, AvailablePills: []int{2}}
	rotated := base
	rotated.StartDayOfWeek = 4

	a, err := NewSolver().Solve(base)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	b, err := NewSolver().Solve(rotated)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Start day of week should not change the computed schedule")
	}
}
