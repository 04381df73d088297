package calculation

import (
	"testing"

	"github.com/rgehrsitz/goalcalc/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRecommendGreen(t *testing.T) {
	r := &domain.AnalysisResult{Status: domain.StatusGreen, ProbabilityOfSuccess: 0.95}
	recs := Recommend(r, domain.DefaultThresholds())
	assert.Equal(t, []string{
		"Current plan is on track. Continue current savings rate.",
		"Consider reducing risk profile for similar outcomes with less volatility.",
	}, recs)

	r.ProbabilityOfSuccess = 0.85
	assert.Len(t, Recommend(r, domain.DefaultThresholds()), 1)
}

func TestRecommendYellow(t *testing.T) {
	r := &domain.AnalysisResult{
		Input: domain.GoalSpec{
			YearsToGoal:         20,
			MonthlyContribution: 500,
			MonthlyIncome:       domain.Float(4000),
		},
		Status:                      domain.StatusYellow,
		ProbabilityOfSuccess:        0.7,
		RequiredMonthlyFor80Percent: 900,
	}
	assert.Equal(t, []string{
		"Increase monthly contribution by $400 to reach 80% success probability.",
		"Alternative: Reduce target or extend timeline.",
		"Review risk profile - higher allocation may help but increases volatility.",
	}, Recommend(r, domain.DefaultThresholds()))

	// no income, already contributing enough
	r.Input.MonthlyIncome = nil
	r.RequiredMonthlyFor80Percent = 400
	assert.Equal(t, []string{
		"Review risk profile - higher allocation may help but increases volatility.",
	}, Recommend(r, domain.DefaultThresholds()))
}

func TestRecommendRed(t *testing.T) {
	r := &domain.AnalysisResult{
		Input: domain.GoalSpec{
			YearsToGoal:   30,
			MonthlyIncome: domain.Float(8000),
		},
		Status:      domain.StatusRed,
		Projections: domain.Projections{Percentile20: 123456.7},
	}
	assert.Equal(t, []string{
		"CRITICAL: Current goal is not achievable with stated parameters.",
		"Realistic target at 80% confidence: $123,457",
		"Consider extending timeline beyond 30 years if possible.",
		"Sustainable monthly savings at your income: $1,600",
	}, Recommend(r, domain.DefaultThresholds()))

	r.Input.YearsToGoal = 45
	r.Input.MonthlyIncome = nil
	assert.Len(t, Recommend(r, domain.DefaultThresholds()), 2)
}

func TestFormatDollars(t *testing.T) {
	assert.Equal(t, "$0", formatDollars(0))
	assert.Equal(t, "$999", formatDollars(999.4))
	assert.Equal(t, "$1,000", formatDollars(999.5))
	assert.Equal(t, "$1,234,568", formatDollars(1234567.89))
	assert.Equal(t, "-$42", formatDollars(-42.4))
}
