package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// LumpSum computes the closed-form log-normal outcome of compounding the
// current wealth for the goal horizon with no further contributions.
func LumpSum(goal domain.GoalSpec, ra domain.ReturnAssumptions) (domain.LumpSumResult, error) {
	if goal.CurrentWealth <= 0 || goal.TargetWealth <= 0 {
		return domain.LumpSumResult{}, &domain.NumericalError{
			Operation: "lump_sum",
			Message:   fmt.Sprintf("log of non-positive wealth (current=%g, target=%g)", goal.CurrentWealth, goal.TargetWealth),
		}
	}

	years := float64(goal.YearsToGoal)
	meanLog := math.Log(goal.CurrentWealth) + years*ra.GeometricReturn
	stdLog := ra.Volatility * math.Sqrt(years)

	if math.IsNaN(meanLog) || math.IsInf(meanLog, 0) || math.IsNaN(stdLog) || math.IsInf(stdLog, 0) || stdLog < 0 {
		return domain.LumpSumResult{}, &domain.NumericalError{
			Operation: "lump_sum",
			Message:   fmt.Sprintf("degenerate log-normal parameters (mean=%g, std=%g)", meanLog, stdLog),
		}
	}

	result := domain.LumpSumResult{
		Percentile20: math.Exp(meanLog + NormalQuantile(0.20)*stdLog),
		Percentile50: math.Exp(meanLog),
		Percentile80: math.Exp(meanLog + NormalQuantile(0.80)*stdLog),
	}

	logTarget := math.Log(goal.TargetWealth)
	if stdLog == 0 {
		// No volatility: the outcome is the median, which either reaches the target or not.
		if meanLog >= logTarget {
			result.ProbabilityOfSuccess = 1
		}
	} else {
		z := (logTarget - meanLog) / stdLog
		result.ProbabilityOfSuccess = 1 - NormalCDF(z)
	}

	for _, v := range []float64{result.ProbabilityOfSuccess, result.Percentile20, result.Percentile50, result.Percentile80} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.LumpSumResult{}, &domain.NumericalError{Operation: "lump_sum", Message: "result is not finite"}
		}
	}
	return result, nil
}

// NormalCDF is the standard normal cumulative distribution function
func NormalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// NormalQuantile is the inverse of NormalCDF for p in (0, 1)
func NormalQuantile(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
