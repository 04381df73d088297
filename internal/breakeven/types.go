package breakeven

import (
	"context"

	"github.com/rgehrsitz/goalcalc/internal/calculation"
	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// DefaultTargetProbability is the confidence level the solver aims for
const DefaultTargetProbability = 0.80

// Simulator is the probability oracle the solver searches over
type Simulator interface {
	Simulate(ctx context.Context, goal domain.GoalSpec, ra domain.ReturnAssumptions, pathCount int, seed int64) (*calculation.SimulationResult, error)
}

// SolverOptions configures the bisection search
type SolverOptions struct {
	Iterations int   // bisection steps
	Paths      int   // paths per oracle call
	Seed       int64 // shared by every oracle call (common random numbers)
	CacheSize  int   // memoized oracle results per solve
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Iterations: 20,
		Paths:      5000,
		Seed:       42,
		CacheSize:  64,
	}
}

// SolveResult describes a finished search
type SolveResult struct {
	MonthlyAmount       float64 `json:"monthlyAmount"`
	TargetProbability   float64 `json:"targetProbability"`
	AchievedProbability float64 `json:"achievedProbability"` // at the upper bracket
	Low                 float64 `json:"low"`
	High                float64 `json:"high"`
	Iterations          int     `json:"iterations"`
	Evaluations         int     `json:"evaluations"`
	CacheHits           int     `json:"cacheHits"`
	ConvergenceInfo     string  `json:"convergenceInfo"`
}

// SolverError represents errors from the required-contribution solver
type SolverError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}
