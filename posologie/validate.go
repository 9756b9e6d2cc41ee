package posologie

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks a malformed calculation request. Callers can test
// for it with errors.Is and map it to a client error at their boundary.
var ErrInvalidInput = errors.New("invalid calculation input")

// ValidateInput rejects malformed requests before any search begins. A nil
// return guarantees the solver can run to completion on the input.
func ValidateInput(in CalculationInput) error {
	if math.IsNaN(in.WeeklyDose) || math.IsInf(in.WeeklyDose, 0) {
		return fmt.Errorf("%w: weekly dose must be a finite number", ErrInvalidInput)
	}
	if in.WeeklyDose <= 0 {
		return fmt.Errorf("%w: weekly dose must be positive, got %v", ErrInvalidInput, in.WeeklyDose)
	}
	if len(in.AvailablePills) == 0 {
		return fmt.Errorf("%w: at least one tablet strength is required", ErrInvalidInput)
	}
	for _, mg := range in.AvailablePills {
		if mg <= 0 {
			return fmt.Errorf("%w: tablet strength must be positive, got %d", ErrInvalidInput, mg)
		}
	}
	switch in.SpecialDayPattern.normalize() {
	case PatternMonWedFri, PatternFriSun:
	default:
		return fmt.Errorf("%w: unknown day pattern %q", ErrInvalidInput, in.SpecialDayPattern)
	}
	if in.DaysUntilAppointment < 0 {
		return fmt.Errorf("%w: days until appointment cannot be negative, got %d", ErrInvalidInput, in.DaysUntilAppointment)
	}
	if in.StartDayOfWeek < 0 || in.StartDayOfWeek > 6 {
		return fmt.Errorf("%w: start day of week must be 0-6, got %d", ErrInvalidInput, in.StartDayOfWeek)
	}
	return nil
}
