package breakeven

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rgehrsitz/goalcalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveTargets(t *testing.T) {
	solver := NewDefaultSolver(&stubSimulator{fn: identity})
	goal := unitGoal().WithContribution(0.6)

	res, err := solver.SolveTargets(context.Background(), goal, domain.ReturnAssumptions{}, []float64{0.8, 0.5, 0.8})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, 0.5, res.Results[0].TargetProbability)
	assert.Equal(t, 0.8, res.Results[1].TargetProbability)
	assert.Less(t, res.Results[0].MonthlyAmount, res.Results[1].MonthlyAmount)

	require.Len(t, res.Recommendations, 2)
	assert.Equal(t, "Current contribution of $0.60 already meets the 50% confidence level", res.Recommendations[0])
	assert.Contains(t, res.Recommendations[1], "between 50% and 80% costs about $0.01/month")
}

func TestSolveTargetsDefault(t *testing.T) {
	solver := NewDefaultSolver(&stubSimulator{fn: identity})

	res, err := solver.SolveTargets(context.Background(), unitGoal(), domain.ReturnAssumptions{}, nil)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, DefaultTargetProbability, res.Results[0].TargetProbability)
	assert.Empty(t, res.Recommendations)
}

func TestSolveTargetsUnreachable(t *testing.T) {
	solver := NewDefaultSolver(&stubSimulator{fn: func(c float64) float64 { return c * 0.7 }})

	res, err := solver.SolveTargets(context.Background(), unitGoal(), domain.ReturnAssumptions{}, []float64{0.5, 0.9})
	require.NoError(t, err)
	assert.Positive(t, res.Results[0].AchievedProbability)
	assert.Zero(t, res.Results[1].AchievedProbability)
	assert.Contains(t, res.Recommendations[len(res.Recommendations)-1], "90% confidence is not reachable")
}

func TestSolveTargetsError(t *testing.T) {
	solver := NewDefaultSolver(&stubSimulator{fn: identity})

	_, err := solver.SolveTargets(context.Background(), unitGoal(), domain.ReturnAssumptions{}, []float64{0.5, 2})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func sampleMulti() *MultiTargetResult {
	return &MultiTargetResult{
		Goal: domain.GoalSpec{MonthlyContribution: 500},
		Results: []*SolveResult{
			{TargetProbability: 0.5, MonthlyAmount: 420, AchievedProbability: 0.5012},
			{TargetProbability: 0.8, MonthlyAmount: 1850.25, AchievedProbability: 0.8004},
			{TargetProbability: 0.95, MonthlyAmount: 2777.78},
		},
		Recommendations: []string{"Current contribution of $500.00 already meets the 50% confidence level"},
	}
}

func TestTableFormatter(t *testing.T) {
	tf := &TableFormatter{}

	out := tf.Format(&SolveResult{
		TargetProbability:   0.8,
		MonthlyAmount:       1850.254,
		AchievedProbability: 0.8004,
		Low:                 1850.25,
		High:                1850.26,
		Iterations:          20,
		Evaluations:         18,
		CacheHits:           2,
		ConvergenceInfo:     "bracket [1850.25, 1850.26] after 20 iterations",
	})
	assert.Contains(t, out, "REQUIRED CONTRIBUTION SEARCH")
	assert.Contains(t, out, "Target Probability:  80%")
	assert.Contains(t, out, "Required Monthly:    $1850.25")
	assert.Contains(t, out, "20 (18 simulations, 2 cached)")
	assert.Contains(t, out, "Converged")

	out = tf.Format(&SolveResult{TargetProbability: 0.95, MonthlyAmount: 2777.78})
	assert.Contains(t, out, "Target not reached")

	multi := tf.FormatMultiTarget(sampleMulti())
	assert.Contains(t, multi, "REQUIRED CONTRIBUTION BY CONFIDENCE LEVEL")
	assert.Contains(t, multi, "Current Monthly:     $500.00")
	assert.Contains(t, multi, "1.9K")
	assert.Contains(t, multi, "+1.4K")
	assert.Contains(t, multi, "-80.00")
	assert.Contains(t, multi, "50.1%")
	assert.Contains(t, multi, "n/a")
	assert.Contains(t, multi, "RECOMMENDATIONS")
}

func TestTableFormatterHelpers(t *testing.T) {
	tf := &TableFormatter{}
	assert.Equal(t, "1.50M", tf.formatShort(decimal.NewFromInt(1500000)))
	assert.Equal(t, "2.5K", tf.formatShort(decimal.NewFromInt(2500)))
	assert.Equal(t, "12.30", tf.formatShort(decimal.NewFromFloat(12.3)))
	assert.Equal(t, "+", tf.deltaSymbol(decimal.NewFromInt(1)))
	assert.Equal(t, "", tf.deltaSymbol(decimal.NewFromInt(-1)))
	assert.Equal(t, " ", tf.deltaSymbol(decimal.Zero))
}

func TestJSONFormatter(t *testing.T) {
	compact, err := (&JSONFormatter{}).FormatMultiTarget(sampleMulti())
	require.NoError(t, err)
	assert.NotContains(t, compact, "\n")

	pretty, err := (&JSONFormatter{Pretty: true}).FormatMultiTarget(sampleMulti())
	require.NoError(t, err)
	assert.Contains(t, pretty, "\n  ")

	var decoded MultiTargetResult
	require.NoError(t, json.Unmarshal([]byte(pretty), &decoded))
	require.Len(t, decoded.Results, 3)
	assert.Equal(t, 1850.25, decoded.Results[1].MonthlyAmount)

	single, err := (&JSONFormatter{}).Format(sampleMulti().Results[0])
	require.NoError(t, err)
	assert.Contains(t, single, `"targetProbability":0.5`)
}
