package posologie

const (
	// DefaultMaxIterations bounds the search nodes visited per solve call,
	// split across the strategies. Generous for realistic inputs; a
	// safeguard against pathological ones.
	DefaultMaxIterations = 150000
	// DefaultMaxOptions is how many ranked regimens a solve call returns.
	DefaultMaxOptions = 4
)

// Solver computes weekly dosing regimens. It holds only tuning limits and
// is safe for concurrent use; every Solve call is independent.
type Solver struct {
	maxIterations int
	maxOptions    int
}

// NewSolver returns a solver with default limits.
func NewSolver() *Solver {
	return NewSolverWithLimits(DefaultMaxIterations, DefaultMaxOptions)
}

// NewSolverWithLimits returns a solver with custom iteration and result
// limits. Non-positive values fall back to the defaults.
func NewSolverWithLimits(maxIterations, maxOptions int) *Solver {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if maxOptions <= 0 {
		maxOptions = DefaultMaxOptions
	}
	return &Solver{maxIterations: maxIterations, maxOptions: maxOptions}
}

// Solve validates the input and returns ranked weekly regimens. A nil error
// with an empty slice means the request was well formed but no combination
// of the available tablets reaches the weekly target: the caller reports
// that as "no regimen found", not as a failure. The only error returned
// wraps ErrInvalidInput.
func (s *Solver) Solve(in CalculationInput) ([]FinalOutput, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	options := generateOptions(in, s.maxIterations)
	ranked := rankOptions(options, in.WeeklyDose, s.maxOptions)

	outputs := make([]FinalOutput, len(ranked))
	for i, opt := range ranked {
		outputs[i] = formatOutput(opt)
	}
	return outputs, nil
}
