package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/rgehrsitz/goalcalc/internal/calculation"
	"github.com/rgehrsitz/goalcalc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestAnalyzer(opts Options) *Analyzer {
	if opts.Paths == 0 {
		opts.Paths = 5000
	}
	if opts.SolverPaths == 0 {
		opts.SolverPaths = 2000
	}
	a := New(opts)
	a.Now = func() time.Time { return fixedNow }
	return a
}

func retirementGoal() domain.GoalSpec {
	return domain.GoalSpec{
		ClientID:            "CLIENT_001",
		CurrentWealth:       10000,
		TargetWealth:        1000000,
		YearsToGoal:         30,
		MonthlyContribution: 500,
		RiskProfile:         domain.RiskAggressive,
		MonthlyIncome:       domain.Float(8000),
	}
}

func TestNewDefaults(t *testing.T) {
	a := New(Options{})
	opts := a.Options()
	assert.Equal(t, 15000, opts.Paths)
	assert.Equal(t, 5000, opts.SolverPaths)
	assert.Equal(t, 20, opts.SolverIterations)
	assert.Equal(t, 0.80, opts.TargetProbability)
	assert.Equal(t, 2, opts.BatchConcurrency)
	assert.Equal(t, domain.DefaultThresholds(), opts.Thresholds)
	assert.Zero(t, opts.Timeout, "zero timeout stays disabled")
}

func TestAnalyzeRetirementGoal(t *testing.T) {
	a := newTestAnalyzer(Options{Paths: calculation.DefaultPaths})

	res, err := a.Run(context.Background(), retirementGoal(), 42, calculation.DefaultPaths)
	require.NoError(t, err)

	assert.InDelta(t, 0.52, res.ProbabilityOfSuccess, 0.02)
	assert.Greater(t, res.RequiredMonthlyFor80Percent, 500.0)
	assert.InDelta(t, res.RequiredMonthlyFor80Percent-500, res.ContributionGap, 0.011)
	assert.Equal(t, domain.StatusRed, res.Status)
	assert.InDelta(t, 0.1659, res.RequiredAnnualReturn, 0.0001)
	assert.Contains(t, res.Flags, "Required return 17% exceeds realistic expectations")
	assert.Equal(t, "CRITICAL: Current goal is not achievable with stated parameters.", res.Recommendations[0])

	assert.InDelta(t, 0.0872, res.Assumptions.GeometricReturn, 1e-9)
	assert.LessOrEqual(t, res.Projections.Percentile20, res.Projections.Percentile50)
	assert.LessOrEqual(t, res.Projections.Percentile50, res.Projections.Percentile80)
	assert.Less(t, res.LumpSumOnly.ProbabilityOfSuccess, 0.05)
	assert.Equal(t, 30000.0, res.SustainableIncome.Conservative)
	assert.Equal(t, 40000.0, res.SustainableIncome.Moderate)
	assert.Equal(t, fixedNow, res.AnalyzedAt)
	assert.Equal(t, domain.Version, res.Version)
	assert.Equal(t, retirementGoal(), res.Input)
}

func TestAnalyzeTargetBelowCurrent(t *testing.T) {
	a := newTestAnalyzer(Options{})
	goal := domain.GoalSpec{CurrentWealth: 500000, TargetWealth: 100000, YearsToGoal: 10, RiskProfile: domain.RiskConservative}

	res, err := a.Analyze(context.Background(), goal)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusGreen, res.Status)
	assert.Greater(t, res.ProbabilityOfSuccess, 0.99)
	assert.InDelta(t, 0, res.RequiredMonthlyFor80Percent, 0.01)
	assert.Empty(t, res.Flags)
	assert.Negative(t, res.RequiredAnnualReturn)
	assert.Contains(t, res.Recommendations, "Consider reducing risk profile for similar outcomes with less volatility.")
}

func TestAnalyzeShortHorizon(t *testing.T) {
	a := newTestAnalyzer(Options{})
	goal := domain.GoalSpec{CurrentWealth: 10000, TargetWealth: 100000, YearsToGoal: 1}

	res, err := a.Analyze(context.Background(), goal)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRed, res.Status)
	assert.Equal(t, domain.RiskAggressive, res.Input.RiskProfile, "empty profile defaults to aggressive")
	assert.Contains(t, res.Flags, "Required return 900% exceeds realistic expectations")
	assert.Contains(t, res.Flags, "Success probability 0% critically low")
	assert.LessOrEqual(t, res.RequiredMonthlyFor80Percent, 100000.0/12)
}

func TestAnalyzeValidation(t *testing.T) {
	a := newTestAnalyzer(Options{})

	goal := retirementGoal()
	goal.YearsToGoal = 0
	_, err := a.Analyze(context.Background(), goal)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	goal = retirementGoal()
	goal.RiskProfile = "Reckless"
	_, err = a.Analyze(context.Background(), goal)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "riskProfile", ve.Fields[0].Field)

	_, err = a.Run(context.Background(), retirementGoal(), 42, 0)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "pathCount", ve.Fields[0].Field)
}

func TestRunDeterministic(t *testing.T) {
	a := newTestAnalyzer(Options{Workers: 1})
	b := newTestAnalyzer(Options{Workers: 6})

	first, err := a.Run(context.Background(), retirementGoal(), 7, 3000)
	require.NoError(t, err)
	second, err := b.Run(context.Background(), retirementGoal(), 7, 3000)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyzeTimeout(t *testing.T) {
	a := newTestAnalyzer(Options{Timeout: time.Nanosecond})

	_, err := a.Analyze(context.Background(), retirementGoal())
	var te *domain.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "analyze", te.Operation)
	assert.True(t, te.Retryable())
	assert.Equal(t, "timeout", domain.ErrorKind(err))

	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err = newTestAnalyzer(Options{}).Analyze(expired, retirementGoal())
	assert.ErrorAs(t, err, &te)
}

type countingRecorder struct {
	NopRecorder
	analyses map[domain.Status]int
	errs     map[string]int
	solves   int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{analyses: map[domain.Status]int{}, errs: map[string]int{}}
}

func (r *countingRecorder) ObserveAnalysis(s domain.Status, _ time.Duration) { r.analyses[s]++ }
func (r *countingRecorder) ObserveSolver(int, int, int)                     { r.solves++ }
func (r *countingRecorder) ObserveError(kind string)                        { r.errs[kind]++ }

func TestAnalyzeRecordsMetrics(t *testing.T) {
	a := newTestAnalyzer(Options{})
	rec := newCountingRecorder()
	a.Metrics = rec

	_, err := a.Analyze(context.Background(), retirementGoal())
	require.NoError(t, err)
	goal := retirementGoal()
	goal.CurrentWealth = -1
	_, err = a.Analyze(context.Background(), goal)
	require.Error(t, err)

	assert.Equal(t, 1, rec.analyses[domain.StatusRed])
	assert.Equal(t, 1, rec.solves)
	assert.Equal(t, 1, rec.errs["validation"])
}

func TestSolveTargets(t *testing.T) {
	a := newTestAnalyzer(Options{})
	rec := newCountingRecorder()
	a.Metrics = rec

	res, err := a.SolveTargets(context.Background(), retirementGoal(), []float64{0.9, 0.5})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, 0.5, res.Results[0].TargetProbability)
	assert.Less(t, res.Results[0].MonthlyAmount, res.Results[1].MonthlyAmount)
	assert.Equal(t, 2, rec.solves)

	_, err = a.SolveTargets(context.Background(), retirementGoal(), []float64{1.5})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	goal := retirementGoal()
	goal.TargetWealth = 0
	_, err = a.SolveTargets(context.Background(), goal, nil)
	assert.ErrorAs(t, err, &ve)
}
