package calculation

import (
	"fmt"

	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// Recommend produces actionable advice for an assessed goal
func Recommend(r *domain.AnalysisResult, t domain.ThresholdConfig) []string {
	recs := []string{}
	goal := r.Input

	switch r.Status {
	case domain.StatusGreen:
		recs = append(recs, "Current plan is on track. Continue current savings rate.")
		if r.ProbabilityOfSuccess > 0.90 {
			recs = append(recs, "Consider reducing risk profile for similar outcomes with less volatility.")
		}

	case domain.StatusYellow:
		gap := r.RequiredMonthlyFor80Percent - goal.MonthlyContribution
		if gap > 0 {
			recs = append(recs, fmt.Sprintf("Increase monthly contribution by %s to reach %s success probability.",
				formatDollars(gap), pct(t.SuccessProbGreen)))
		}
		if goal.HasIncome() && r.RequiredMonthlyFor80Percent > goal.Income()*t.ContributionWarningPct {
			recs = append(recs, "Alternative: Reduce target or extend timeline.")
		}
		recs = append(recs, "Review risk profile - higher allocation may help but increases volatility.")

	default:
		recs = append(recs, "CRITICAL: Current goal is not achievable with stated parameters.")
		recs = append(recs, fmt.Sprintf("Realistic target at 80%% confidence: %s", formatDollars(r.Projections.Percentile20)))
		if goal.YearsToGoal < 40 {
			recs = append(recs, fmt.Sprintf("Consider extending timeline beyond %d years if possible.", goal.YearsToGoal))
		}
		if goal.HasIncome() {
			recs = append(recs, fmt.Sprintf("Sustainable monthly savings at your income: %s",
				formatDollars(goal.Income()*t.ContributionWarningPct)))
		}
	}

	return recs
}

// formatDollars renders a whole-dollar amount, e.g. $1,234
func formatDollars(v float64) string {
	return FormatMoney(v, 0)
}
