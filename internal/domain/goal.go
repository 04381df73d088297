package domain

import (
	"strings"
)

// RiskProfile names one of the fixed portfolio allocations a goal can be invested in
type RiskProfile string

const (
	RiskConservative   RiskProfile = "conservative"
	RiskModerate       RiskProfile = "moderate"
	RiskAggressive     RiskProfile = "aggressive"
	RiskVeryAggressive RiskProfile = "very_aggressive"
)

// DefaultRiskProfile is applied when a goal does not name a profile
const DefaultRiskProfile = RiskAggressive

// RiskProfiles lists every supported profile from least to most volatile
var RiskProfiles = []RiskProfile{
	RiskConservative,
	RiskModerate,
	RiskAggressive,
	RiskVeryAggressive,
}

// ParseRiskProfile normalizes a user-supplied profile name.
// An empty string maps to DefaultRiskProfile; unknown names are returned as-is
// so that validation can report them.
func ParseRiskProfile(s string) RiskProfile {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultRiskProfile
	}
	return RiskProfile(s)
}

// IsValid reports whether the profile is one of RiskProfiles
func (rp RiskProfile) IsValid() bool {
	for _, p := range RiskProfiles {
		if rp == p {
			return true
		}
	}
	return false
}

func (rp RiskProfile) String() string { return string(rp) }

// GoalSpec describes a single wealth-accumulation goal
type GoalSpec struct {
	ClientID            string      `yaml:"client_id,omitempty" json:"clientId,omitempty"`
	CurrentWealth       float64     `yaml:"current_wealth" json:"currentWealth" validate:"gt=0"`
	TargetWealth        float64     `yaml:"target_wealth" json:"targetWealth" validate:"gt=0"`
	YearsToGoal         int         `yaml:"years" json:"yearsToGoal" validate:"gte=1,lte=50"`
	MonthlyContribution float64     `yaml:"monthly_contribution" json:"monthlyContribution" validate:"gte=0"`
	RiskProfile         RiskProfile `yaml:"risk_profile" json:"riskProfile" validate:"riskprofile"`
	MonthlyIncome       *float64    `yaml:"monthly_income,omitempty" json:"monthlyIncome" validate:"omitempty,gte=0"`
}

// Normalized returns a copy with the risk profile name canonicalized
func (g GoalSpec) Normalized() GoalSpec {
	g.RiskProfile = ParseRiskProfile(string(g.RiskProfile))
	return g
}

// Months returns the horizon in months
func (g GoalSpec) Months() int {
	return g.YearsToGoal * 12
}

// WithContribution returns a copy of the goal with a different monthly contribution
func (g GoalSpec) WithContribution(monthly float64) GoalSpec {
	g.MonthlyContribution = monthly
	return g
}

// HasIncome reports whether a positive monthly income was supplied
func (g GoalSpec) HasIncome() bool {
	return g.MonthlyIncome != nil && *g.MonthlyIncome > 0
}

// Income returns the monthly income or zero when absent
func (g GoalSpec) Income() float64 {
	if g.MonthlyIncome == nil {
		return 0
	}
	return *g.MonthlyIncome
}

// Float returns a pointer to v, for optional fields such as MonthlyIncome
func Float(v float64) *float64 {
	return &v
}

// GoalRow is one parsed batch input row. Err is set when the row could not
// be turned into a GoalSpec; such rows are reported, not analyzed.
type GoalRow struct {
	Line int
	Goal GoalSpec
	Err  error
}
