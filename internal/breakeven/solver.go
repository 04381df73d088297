package breakeven

import (
	"context"
	"errors"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rgehrsitz/goalcalc/internal/calculation"
	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// Solver finds the monthly contribution that reaches a target success probability
type Solver struct {
	Simulator Simulator
	Options   SolverOptions
	Logger    calculation.Logger
}

// NewSolver creates a new required-contribution solver
func NewSolver(sim Simulator, options SolverOptions) *Solver {
	defaults := DefaultSolverOptions()
	if options.Iterations <= 0 {
		options.Iterations = defaults.Iterations
	}
	if options.Paths <= 0 {
		options.Paths = defaults.Paths
	}
	if options.CacheSize <= 0 {
		options.CacheSize = defaults.CacheSize
	}
	return &Solver{Simulator: sim, Options: options, Logger: calculation.NopLogger{}}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(sim Simulator) *Solver {
	return NewSolver(sim, DefaultSolverOptions())
}

// SetLogger replaces the logger; nil installs a NopLogger
func (s *Solver) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	s.Logger = l
}

// FindRequiredMonthly returns the monthly contribution needed to reach targetProbability
func (s *Solver) FindRequiredMonthly(ctx context.Context, goal domain.GoalSpec, ra domain.ReturnAssumptions, targetProbability float64) (float64, error) {
	res, err := s.Solve(ctx, goal, ra, targetProbability)
	if err != nil {
		return 0, err
	}
	return res.MonthlyAmount, nil
}

// Solve bisects over [0, target/months] for a fixed number of iterations.
//
// Success probability is assumed non-decreasing in the contribution. Every
// oracle call reuses the same seed and path count, so all candidates see the
// same return draws and the assumption holds path by path. Oracle results are
// memoized per call by contribution rounded to cents.
func (s *Solver) Solve(ctx context.Context, goal domain.GoalSpec, ra domain.ReturnAssumptions, targetProbability float64) (*SolveResult, error) {
	if targetProbability <= 0 || targetProbability > 1 || math.IsNaN(targetProbability) {
		return nil, domain.NewValidationError("find_required_monthly", "targetProbability", "ERR_RANGE",
			fmt.Sprintf("targetProbability must be in (0, 1], got %g", targetProbability))
	}
	months := goal.Months()
	if months < 1 {
		return nil, domain.NewValidationError("find_required_monthly", "yearsToGoal", "ERR_GTE", "yearsToGoal must be at least 1")
	}

	memo, err := lru.New[int64, float64](s.Options.CacheSize)
	if err != nil {
		return nil, &SolverError{Operation: "find_required_monthly", Message: "failed to create memo", Cause: err}
	}

	result := &SolveResult{TargetProbability: targetProbability}
	probability := func(contribution float64) (float64, error) {
		key := int64(math.Round(contribution * 100))
		if p, ok := memo.Get(key); ok {
			result.CacheHits++
			return p, nil
		}
		sim, err := s.Simulator.Simulate(ctx, goal.WithContribution(contribution), ra, s.Options.Paths, s.Options.Seed)
		if err != nil {
			return 0, err
		}
		result.Evaluations++
		memo.Add(key, sim.ProbabilityOfSuccess)
		return sim.ProbabilityOfSuccess, nil
	}

	low, high := 0.0, goal.TargetWealth/float64(months)
	achieved := math.NaN()

	for result.Iterations < s.Options.Iterations {
		if err := ctx.Err(); err != nil {
			return nil, solverError(err)
		}
		result.Iterations++

		mid := (low + high) / 2
		p, err := probability(mid)
		if err != nil {
			return nil, solverError(err)
		}

		if p < targetProbability {
			low = mid
		} else {
			high = mid
			achieved = p
		}
	}

	result.Low, result.High = low, high
	result.MonthlyAmount = (low + high) / 2
	if math.IsNaN(achieved) {
		result.ConvergenceInfo = fmt.Sprintf("target %.0f%% not reached below upper bound after %d iterations",
			targetProbability*100, result.Iterations)
	} else {
		result.AchievedProbability = achieved
		result.ConvergenceInfo = fmt.Sprintf("bracket [%.2f, %.2f] after %d iterations", low, high, result.Iterations)
	}

	s.Logger.Debugf("required monthly %.2f (%s, %d evaluations, %d cache hits)",
		result.MonthlyAmount, result.ConvergenceInfo, result.Evaluations, result.CacheHits)
	return result, nil
}

func solverError(err error) error {
	var te *domain.TimeoutError
	var ne *domain.NumericalError
	var ve *domain.ValidationError
	if errors.As(err, &te) || errors.As(err, &ne) || errors.As(err, &ve) {
		return &SolverError{Operation: "find_required_monthly", Message: "oracle failed", Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &SolverError{
			Operation: "find_required_monthly",
			Message:   "search interrupted",
			Cause:     &domain.TimeoutError{Operation: "find_required_monthly", Cause: err},
		}
	}
	return &SolverError{Operation: "find_required_monthly", Message: "search failed", Cause: err}
}
