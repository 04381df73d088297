package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/goalcalc/internal/breakeven"
	"github.com/rgehrsitz/goalcalc/internal/calculation"
	"github.com/rgehrsitz/goalcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Options configures an Analyzer
type Options struct {
	Paths             int           // paths for reported projections
	SolverPaths       int           // paths per required-contribution oracle call
	SolverIterations  int           // bisection steps
	Seed              int64         // default seed for Analyze
	TargetProbability float64       // confidence level for the required contribution
	Timeout           time.Duration // wall-clock budget per analysis, 0 disables
	Workers           int           // concurrent path blocks per simulation
	BatchConcurrency  int           // rows analyzed concurrently by AnalyzeBatch
	Thresholds        domain.ThresholdConfig
}

// DefaultOptions returns the standard analysis settings
func DefaultOptions() Options {
	return Options{
		Paths:             calculation.DefaultPaths,
		SolverPaths:       breakeven.DefaultSolverOptions().Paths,
		SolverIterations:  breakeven.DefaultSolverOptions().Iterations,
		Seed:              42,
		TargetProbability: breakeven.DefaultTargetProbability,
		Timeout:           30 * time.Second,
		BatchConcurrency:  2,
		Thresholds:        domain.DefaultThresholds(),
	}
}

// Recorder receives analysis telemetry
type Recorder interface {
	ObserveAnalysis(status domain.Status, elapsed time.Duration)
	ObserveSimulation(elapsed time.Duration)
	ObserveSolver(iterations, evaluations, cacheHits int)
	ObserveError(kind string)
}

// NopRecorder drops all telemetry
type NopRecorder struct{}

func (NopRecorder) ObserveAnalysis(domain.Status, time.Duration) {}
func (NopRecorder) ObserveSimulation(time.Duration)              {}
func (NopRecorder) ObserveSolver(int, int, int)                  {}
func (NopRecorder) ObserveError(string)                          {}

// Analyzer turns goal specifications into analysis results. It holds no
// per-analysis state, so one instance may serve concurrent callers.
type Analyzer struct {
	options   Options
	simulator *calculation.ContributionSimulator
	Logger    calculation.Logger
	Metrics   Recorder
	Now       func() time.Time
}

// New creates an analyzer, filling unset options with defaults
func New(options Options) *Analyzer {
	d := DefaultOptions()
	if options.Paths <= 0 {
		options.Paths = d.Paths
	}
	if options.SolverPaths <= 0 {
		options.SolverPaths = d.SolverPaths
	}
	if options.SolverIterations <= 0 {
		options.SolverIterations = d.SolverIterations
	}
	if options.TargetProbability <= 0 {
		options.TargetProbability = d.TargetProbability
	}
	if options.BatchConcurrency <= 0 {
		options.BatchConcurrency = d.BatchConcurrency
	}
	if options.Thresholds == (domain.ThresholdConfig{}) {
		options.Thresholds = d.Thresholds
	}
	return &Analyzer{
		options:   options,
		simulator: calculation.NewContributionSimulator(calculation.MonteCarloConfig{Workers: options.Workers}),
		Logger:    calculation.NopLogger{},
		Metrics:   NopRecorder{},
		Now:       time.Now,
	}
}

// Options returns the effective options
func (a *Analyzer) Options() Options {
	return a.options
}

// SetLogger replaces the logger; nil installs a NopLogger
func (a *Analyzer) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	a.Logger = l
	a.simulator.SetLogger(l)
}

// Analyze runs Run with the configured seed and path count
func (a *Analyzer) Analyze(ctx context.Context, goal domain.GoalSpec) (*domain.AnalysisResult, error) {
	return a.Run(ctx, goal, a.options.Seed, a.options.Paths)
}

// Run is the single analysis entry point. Apart from AnalyzedAt the result
// is fully determined by (goal, seed, pathCount).
func (a *Analyzer) Run(ctx context.Context, goal domain.GoalSpec, seed int64, pathCount int) (*domain.AnalysisResult, error) {
	start := time.Now()
	result, err := a.run(ctx, goal, seed, pathCount)
	if err != nil {
		kind := domain.ErrorKind(err)
		a.Metrics.ObserveError(kind)
		a.Logger.Warnf("analysis failed (%s): %v", kind, err)
		return nil, err
	}
	a.Metrics.ObserveAnalysis(result.Status, time.Since(start))
	a.Logger.Infof("analysis complete: status=%s p=%.4f required=%.2f elapsed=%s",
		result.Status, result.ProbabilityOfSuccess, result.RequiredMonthlyFor80Percent, time.Since(start))
	return result, nil
}

func (a *Analyzer) run(ctx context.Context, goal domain.GoalSpec, seed int64, pathCount int) (*domain.AnalysisResult, error) {
	thresholds := a.options.Thresholds
	goal = goal.Normalized()
	if err := domain.ValidateGoal(goal, thresholds); err != nil {
		return nil, err
	}
	if pathCount < 1 {
		return nil, domain.NewValidationError("analyze", "pathCount", "ERR_GTE",
			fmt.Sprintf("pathCount must be at least 1, got %d", pathCount))
	}

	if a.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.options.Timeout)
		defer cancel()
	}

	ra, err := calculation.Assumptions(goal.RiskProfile)
	if err != nil {
		return nil, err
	}
	requiredCAGR, err := calculation.RequiredCAGR(goal.CurrentWealth, goal.TargetWealth, goal.YearsToGoal)
	if err != nil {
		return nil, err
	}
	lump, err := calculation.LumpSum(goal, ra)
	if err != nil {
		return nil, err
	}

	simStart := time.Now()
	sim, err := a.simulator.Simulate(ctx, goal, ra, pathCount, seed)
	if err != nil {
		return nil, a.budgetError(err)
	}
	a.Metrics.ObserveSimulation(time.Since(simStart))

	solver := breakeven.NewSolver(a.simulator, breakeven.SolverOptions{
		Iterations: a.options.SolverIterations,
		Paths:      a.options.SolverPaths,
		Seed:       seed,
	})
	solver.SetLogger(a.Logger)
	solved, err := solver.Solve(ctx, goal, ra, a.options.TargetProbability)
	if err != nil {
		return nil, a.budgetError(err)
	}
	a.Metrics.ObserveSolver(solved.Iterations, solved.Evaluations, solved.CacheHits)

	status, flags := calculation.EvaluateStatus(calculation.StatusInputs{
		ProbabilityOfSuccess: sim.ProbabilityOfSuccess,
		RequiredMonthly:      solved.MonthlyAmount,
		MonthlyIncome:        goal.MonthlyIncome,
		RequiredCAGR:         requiredCAGR,
	}, thresholds)

	result := &domain.AnalysisResult{
		Input:                       goal,
		Assumptions:                 ra,
		ProbabilityOfSuccess:        round(sim.ProbabilityOfSuccess, 4),
		RequiredMonthlyFor80Percent: round(solved.MonthlyAmount, 2),
		ContributionGap:             round(solved.MonthlyAmount-goal.MonthlyContribution, 2),
		Projections: domain.Projections{
			Percentile20: round(sim.Percentile20, 2),
			Percentile50: round(sim.Percentile50, 2),
			Percentile80: round(sim.Percentile80, 2),
		},
		LumpSumOnly: domain.LumpSumResult{
			ProbabilityOfSuccess: round(lump.ProbabilityOfSuccess, 4),
			Percentile20:         round(lump.Percentile20, 2),
			Percentile50:         round(lump.Percentile50, 2),
			Percentile80:         round(lump.Percentile80, 2),
		},
		RequiredAnnualReturn: round(requiredCAGR, 4),
		SustainableIncome: domain.SustainableIncome{
			Conservative: round(goal.TargetWealth*0.03, 2),
			Moderate:     round(goal.TargetWealth*0.04, 2),
		},
		Status:     status,
		Flags:      flags,
		AnalyzedAt: a.Now().UTC(),
		Version:    domain.Version,
	}
	result.Recommendations = calculation.Recommend(result, thresholds)
	return result, nil
}

// SolveTargets finds the required monthly contribution at each confidence
// level, using the configured solver settings and seed.
func (a *Analyzer) SolveTargets(ctx context.Context, goal domain.GoalSpec, targets []float64) (*breakeven.MultiTargetResult, error) {
	goal = goal.Normalized()
	if err := domain.ValidateGoal(goal, a.options.Thresholds); err != nil {
		return nil, err
	}
	if a.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.options.Timeout)
		defer cancel()
	}
	ra, err := calculation.Assumptions(goal.RiskProfile)
	if err != nil {
		return nil, err
	}

	solver := breakeven.NewSolver(a.simulator, breakeven.SolverOptions{
		Iterations: a.options.SolverIterations,
		Paths:      a.options.SolverPaths,
		Seed:       a.options.Seed,
	})
	solver.SetLogger(a.Logger)
	res, err := solver.SolveTargets(ctx, goal, ra, targets)
	if err != nil {
		return nil, a.budgetError(err)
	}
	for _, r := range res.Results {
		a.Metrics.ObserveSolver(r.Iterations, r.Evaluations, r.CacheHits)
	}
	return res, nil
}

// budgetError reports an exceeded budget at the analysis boundary
func (a *Analyzer) budgetError(err error) error {
	var te *domain.TimeoutError
	if errors.As(err, &te) || errors.Is(err, context.DeadlineExceeded) {
		return &domain.TimeoutError{Operation: "analyze", Budget: a.options.Timeout, Cause: err}
	}
	return err
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
