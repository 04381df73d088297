package breakeven

import (
	"context"
	"fmt"
	"sort"

	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// MultiTargetResult holds one solve per requested confidence level
type MultiTargetResult struct {
	Goal            domain.GoalSpec `json:"goal"`
	Results         []*SolveResult  `json:"results"` // ascending target probability
	Recommendations []string        `json:"recommendations"`
}

// SolveTargets runs Solve for each target probability. Duplicates are
// dropped and results are returned in ascending probability order.
func (s *Solver) SolveTargets(
	ctx context.Context,
	goal domain.GoalSpec,
	ra domain.ReturnAssumptions,
	targets []float64,
) (*MultiTargetResult, error) {
	if len(targets) == 0 {
		targets = []float64{DefaultTargetProbability}
	}
	sorted := append([]float64(nil), targets...)
	sort.Float64s(sorted)

	result := &MultiTargetResult{Goal: goal}
	for i, p := range sorted {
		if i > 0 && p == sorted[i-1] {
			continue
		}
		res, err := s.Solve(ctx, goal, ra, p)
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, res)
	}
	result.Recommendations = s.generateMultiTargetRecommendations(result)
	return result, nil
}

func (s *Solver) generateMultiTargetRecommendations(result *MultiTargetResult) []string {
	var recommendations []string
	current := result.Goal.MonthlyContribution

	var met []*SolveResult
	for _, r := range result.Results {
		if r.MonthlyAmount <= current {
			met = append(met, r)
		}
	}
	if len(met) > 0 {
		best := met[len(met)-1]
		recommendations = append(recommendations,
			fmt.Sprintf("Current contribution of $%.2f already meets the %.0f%% confidence level",
				current, best.TargetProbability*100))
	}

	if n := len(result.Results); n > 1 {
		lo, hi := result.Results[0], result.Results[n-1]
		if lo.TargetProbability < hi.TargetProbability {
			step := (hi.MonthlyAmount - lo.MonthlyAmount) / ((hi.TargetProbability - lo.TargetProbability) * 100)
			recommendations = append(recommendations,
				fmt.Sprintf("Each additional point of confidence between %.0f%% and %.0f%% costs about $%.2f/month",
					lo.TargetProbability*100, hi.TargetProbability*100, step))
		}
	}

	for _, r := range result.Results {
		if r.AchievedProbability == 0 {
			recommendations = append(recommendations,
				fmt.Sprintf("%.0f%% confidence is not reachable below the search bound; extend the timeline or lower the target",
					r.TargetProbability*100))
		}
	}
	return recommendations
}
