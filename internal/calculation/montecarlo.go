package calculation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"

	"github.com/rgehrsitz/goalcalc/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPaths is the ensemble size used for reported projections
	DefaultPaths = 15000
	// DefaultBlockSize is the number of paths that share one random source
	DefaultBlockSize = 1024
)

// MonteCarloConfig holds configuration for the contribution path simulator
type MonteCarloConfig struct {
	Workers   int // concurrent path blocks, 0 means GOMAXPROCS
	BlockSize int // paths per seeded block, 0 means DefaultBlockSize
}

// SimulationResult is the empirical terminal-wealth distribution of one run
type SimulationResult struct {
	Terminal             []float64 `json:"-"` // ascending
	Paths                int       `json:"paths"`
	Months               int       `json:"months"`
	Seed                 int64     `json:"seed"`
	ProbabilityOfSuccess float64   `json:"probabilityOfSuccess"`
	Percentile20         float64   `json:"percentile20"`
	Percentile50         float64   `json:"percentile50"`
	Percentile80         float64   `json:"percentile80"`
}

// Projections returns the percentile summary of the run
func (r *SimulationResult) Projections() domain.Projections {
	return domain.Projections{
		Percentile20: r.Percentile20,
		Percentile50: r.Percentile50,
		Percentile80: r.Percentile80,
	}
}

// ContributionSimulator runs randomized monthly wealth trajectories with a
// fixed contribution added before each month's return is applied
type ContributionSimulator struct {
	config MonteCarloConfig
	Logger Logger
}

// NewContributionSimulator creates a simulator, filling unset config fields with defaults
func NewContributionSimulator(config MonteCarloConfig) *ContributionSimulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.BlockSize <= 0 {
		config.BlockSize = DefaultBlockSize
	}
	return &ContributionSimulator{config: config, Logger: NopLogger{}}
}

// SetLogger replaces the logger; nil installs a NopLogger
func (s *ContributionSimulator) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	s.Logger = l
}

// Config returns the effective configuration
func (s *ContributionSimulator) Config() MonteCarloConfig {
	return s.config
}

// Simulate runs pathCount independent trajectories for the goal.
//
// Paths are split into fixed blocks, each drawing from its own PCG source
// seeded with (seed, block index), so the output depends only on
// (goal, assumptions, pathCount, seed) and never on the worker count.
// Wealth is floored at zero; a balance wiped out by a draw at or below -100%
// can be rebuilt by later contributions.
func (s *ContributionSimulator) Simulate(ctx context.Context, goal domain.GoalSpec, ra domain.ReturnAssumptions, pathCount int, seed int64) (*SimulationResult, error) {
	if pathCount < 1 {
		return nil, domain.NewValidationError("simulate", "pathCount", "ERR_GTE",
			fmt.Sprintf("pathCount must be at least 1, got %d", pathCount))
	}
	months := goal.Months()
	if months < 1 {
		return nil, domain.NewValidationError("simulate", "yearsToGoal", "ERR_GTE", "yearsToGoal must be at least 1")
	}

	monthlyReturn := ra.ArithmeticReturn / 12
	monthlyVol := ra.Volatility / math.Sqrt(12)
	contribution := goal.MonthlyContribution

	terminal := make([]float64, pathCount)
	blockSize := s.config.BlockSize
	blocks := (pathCount + blockSize - 1) / blockSize

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for b := 0; b < blocks; b++ {
		start := b * blockSize
		end := min(start+blockSize, pathCount)
		block := uint64(b)
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(uint64(seed), block))
			wealth := terminal[start:end]
			for i := range wealth {
				wealth[i] = goal.CurrentWealth
			}
			for m := 0; m < months; m++ {
				for i := range wealth {
					w := (wealth[i] + contribution) * (1 + monthlyReturn + monthlyVol*rng.NormFloat64())
					if w < 0 {
						w = 0
					}
					wealth[i] = w
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, simulationError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, simulationError(err)
	}

	slices.Sort(terminal)
	if last := terminal[len(terminal)-1]; math.IsNaN(terminal[0]) || math.IsInf(last, 0) || math.IsNaN(last) {
		return nil, &domain.NumericalError{
			Operation: "simulate",
			Message:   fmt.Sprintf("terminal wealth is not finite (mu=%g, sigma=%g, months=%d)", monthlyReturn, monthlyVol, months),
		}
	}

	result := &SimulationResult{
		Terminal:             terminal,
		Paths:                pathCount,
		Months:               months,
		Seed:                 seed,
		ProbabilityOfSuccess: ShareAtLeast(terminal, goal.TargetWealth),
		Percentile20:         Percentile(terminal, 0.20),
		Percentile50:         Percentile(terminal, 0.50),
		Percentile80:         Percentile(terminal, 0.80),
	}
	s.Logger.Debugf("simulated %d paths over %d months: p(success)=%.4f p50=%.2f",
		pathCount, months, result.ProbabilityOfSuccess, result.Percentile50)
	return result, nil
}

func simulationError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.TimeoutError{Operation: "simulate", Cause: err}
	}
	return fmt.Errorf("simulate: %w", err)
}
