package domain

import "fmt"

// ThresholdConfig holds the cut-offs used to classify a goal
type ThresholdConfig struct {
	SuccessProbGreen        float64 `yaml:"success_prob_green" json:"successProbGreen" default:"0.80"`
	SuccessProbYellow       float64 `yaml:"success_prob_yellow" json:"successProbYellow" default:"0.50"`
	ContributionWarningPct  float64 `yaml:"contribution_warning_pct" json:"contributionWarningPct" default:"0.20"`
	ContributionCriticalPct float64 `yaml:"contribution_critical_pct" json:"contributionCriticalPct" default:"0.35"`
	RequiredReturnWarning   float64 `yaml:"required_return_warning" json:"requiredReturnWarning" default:"0.12"`
	RequiredReturnCritical  float64 `yaml:"required_return_critical" json:"requiredReturnCritical" default:"0.15"`
	MinHorizonYears         int     `yaml:"min_horizon_years" json:"minHorizonYears" default:"1"`
	MaxHorizonYears         int     `yaml:"max_horizon_years" json:"maxHorizonYears" default:"50"`
}

// DefaultThresholds returns the standard threshold set
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		SuccessProbGreen:        0.80,
		SuccessProbYellow:       0.50,
		ContributionWarningPct:  0.20,
		ContributionCriticalPct: 0.35,
		RequiredReturnWarning:   0.12,
		RequiredReturnCritical:  0.15,
		MinHorizonYears:         1,
		MaxHorizonYears:         50,
	}
}

// Validate checks that each warning level sits below its critical level
func (t ThresholdConfig) Validate() error {
	if t.SuccessProbYellow < 0 || t.SuccessProbGreen > 1 || t.SuccessProbYellow > t.SuccessProbGreen {
		return fmt.Errorf("success probability thresholds must satisfy 0 <= yellow (%.2f) <= green (%.2f) <= 1",
			t.SuccessProbYellow, t.SuccessProbGreen)
	}
	if t.ContributionWarningPct < 0 || t.ContributionWarningPct > t.ContributionCriticalPct {
		return fmt.Errorf("contribution thresholds must satisfy 0 <= warning (%.2f) <= critical (%.2f)",
			t.ContributionWarningPct, t.ContributionCriticalPct)
	}
	if t.RequiredReturnWarning > t.RequiredReturnCritical {
		return fmt.Errorf("required return warning (%.2f) cannot exceed critical (%.2f)",
			t.RequiredReturnWarning, t.RequiredReturnCritical)
	}
	if t.MinHorizonYears < 1 || t.MinHorizonYears > t.MaxHorizonYears {
		return fmt.Errorf("horizon bounds must satisfy 1 <= min (%d) <= max (%d)", t.MinHorizonYears, t.MaxHorizonYears)
	}
	return nil
}
