package domain

import (
	"time"
)

// Version is reported in every AnalysisResult
const Version = "1.0.0"

// Status is the tri-state feasibility summary of a goal
type Status string

const (
	StatusGreen  Status = "GREEN"
	StatusYellow Status = "YELLOW"
	StatusRed    Status = "RED"
)

// Severity orders statuses so that checks can only escalate
func (s Status) Severity() int {
	switch s {
	case StatusGreen:
		return 0
	case StatusYellow:
		return 1
	case StatusRed:
		return 2
	default:
		return -1
	}
}

// Escalate returns the more severe of s and other
func (s Status) Escalate(other Status) Status {
	if other.Severity() > s.Severity() {
		return other
	}
	return s
}

// ReturnAssumptions are the market parameters implied by a risk profile.
// GeometricReturn is always derived from the other two. Build values with
// calculation.Assumptions; the fields are exported for serialization only and
// a hand-set GeometricReturn is not reconciled by any consumer.
type ReturnAssumptions struct {
	ArithmeticReturn float64     `json:"arithmeticReturn" yaml:"arithmetic_return"`
	GeometricReturn  float64     `json:"geometricReturn" yaml:"geometric_return"`
	Volatility       float64     `json:"volatility" yaml:"volatility"`
	RiskProfile      RiskProfile `json:"riskProfile" yaml:"risk_profile"`
}

// Projections holds terminal-wealth percentiles
type Projections struct {
	Percentile20 float64 `json:"percentile20" yaml:"percentile20"`
	Percentile50 float64 `json:"percentile50" yaml:"percentile50"`
	Percentile80 float64 `json:"percentile80" yaml:"percentile80"`
}

// LumpSumResult is the closed-form outcome with no further contributions
type LumpSumResult struct {
	ProbabilityOfSuccess float64 `json:"probabilityOfSuccess" yaml:"probability_of_success"`
	Percentile20         float64 `json:"percentile20" yaml:"percentile20"`
	Percentile50         float64 `json:"percentile50" yaml:"percentile50"`
	Percentile80         float64 `json:"percentile80" yaml:"percentile80"`
}

// SustainableIncome is the annual income the target supports at safe withdrawal rates
type SustainableIncome struct {
	Conservative float64 `json:"conservative" yaml:"conservative"` // 3% withdrawal
	Moderate     float64 `json:"moderate" yaml:"moderate"`         // 4% withdrawal
}

// AnalysisResult is the full assessment of one goal
type AnalysisResult struct {
	Input                       GoalSpec          `json:"input" yaml:"input"`
	Assumptions                 ReturnAssumptions `json:"assumptions" yaml:"assumptions"`
	ProbabilityOfSuccess        float64           `json:"probabilityOfSuccess" yaml:"probability_of_success"`
	RequiredMonthlyFor80Percent float64           `json:"requiredMonthlyFor80Percent" yaml:"required_monthly_for_80_percent"`
	ContributionGap             float64           `json:"contributionGap" yaml:"contribution_gap"`
	Projections                 Projections       `json:"projections" yaml:"projections"`
	LumpSumOnly                 LumpSumResult     `json:"lumpSumOnly" yaml:"lump_sum_only"`
	RequiredAnnualReturn        float64           `json:"requiredAnnualReturn" yaml:"required_annual_return"`
	SustainableIncome           SustainableIncome `json:"sustainableIncome" yaml:"sustainable_income"`
	Status                      Status            `json:"status" yaml:"status"`
	Flags                       []string          `json:"flags" yaml:"flags"`
	Recommendations             []string          `json:"recommendations" yaml:"recommendations"`
	AnalyzedAt                  time.Time         `json:"analyzedAt" yaml:"analyzed_at"`
	Version                     string            `json:"version" yaml:"version"`
}
