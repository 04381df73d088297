package calculation

import (
	"fmt"

	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// StatusInputs are the computed figures the status evaluator classifies
type StatusInputs struct {
	ProbabilityOfSuccess float64
	RequiredMonthly      float64
	MonthlyIncome        *float64
	RequiredCAGR         float64
}

// EvaluateStatus maps the computed figures onto GREEN/YELLOW/RED.
// Checks run in a fixed order and may only escalate the status; every
// triggered check appends a flag.
func EvaluateStatus(in StatusInputs, t domain.ThresholdConfig) (domain.Status, []string) {
	status := domain.StatusGreen
	flags := []string{}

	switch {
	case in.ProbabilityOfSuccess < t.SuccessProbYellow:
		status = status.Escalate(domain.StatusRed)
		flags = append(flags, fmt.Sprintf("Success probability %s critically low", pct(in.ProbabilityOfSuccess)))
	case in.ProbabilityOfSuccess < t.SuccessProbGreen:
		status = status.Escalate(domain.StatusYellow)
		flags = append(flags, fmt.Sprintf("Success probability %s below %s threshold",
			pct(in.ProbabilityOfSuccess), pct(t.SuccessProbGreen)))
	}

	if in.MonthlyIncome != nil && *in.MonthlyIncome > 0 {
		share := in.RequiredMonthly / *in.MonthlyIncome
		switch {
		case share > t.ContributionCriticalPct:
			status = status.Escalate(domain.StatusRed)
			flags = append(flags, fmt.Sprintf("Required savings %s of income is unsustainable", pct(share)))
		case share > t.ContributionWarningPct:
			status = status.Escalate(domain.StatusYellow)
			flags = append(flags, fmt.Sprintf("Required savings %s of income is high", pct(share)))
		}
	}

	switch {
	case in.RequiredCAGR > t.RequiredReturnCritical:
		status = status.Escalate(domain.StatusRed)
		flags = append(flags, fmt.Sprintf("Required return %s exceeds realistic expectations", pct(in.RequiredCAGR)))
	case in.RequiredCAGR > t.RequiredReturnWarning:
		status = status.Escalate(domain.StatusYellow)
		flags = append(flags, fmt.Sprintf("Required return %s is aggressive", pct(in.RequiredCAGR)))
	}

	return status, flags
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
