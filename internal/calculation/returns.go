package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// ProfileInfo describes the market assumptions behind a risk profile
type ProfileInfo struct {
	Name             domain.RiskProfile `json:"name" yaml:"name"`
	ArithmeticReturn float64            `json:"arithmeticReturn" yaml:"arithmetic_return"`
	Volatility       float64            `json:"volatility" yaml:"volatility"`
	Description      string             `json:"description" yaml:"description"`
}

var profileTable = map[domain.RiskProfile]ProfileInfo{
	domain.RiskConservative: {
		Name:             domain.RiskConservative,
		ArithmeticReturn: 0.06,
		Volatility:       0.10,
		Description:      "Bond-heavy allocation (70% bonds, 30% stocks)",
	},
	domain.RiskModerate: {
		Name:             domain.RiskModerate,
		ArithmeticReturn: 0.08,
		Volatility:       0.13,
		Description:      "Balanced allocation (40% bonds, 60% stocks)",
	},
	domain.RiskAggressive: {
		Name:             domain.RiskAggressive,
		ArithmeticReturn: 0.10,
		Volatility:       0.16,
		Description:      "Equity-focused (S&P 500-like)",
	},
	domain.RiskVeryAggressive: {
		Name:             domain.RiskVeryAggressive,
		ArithmeticReturn: 0.12,
		Volatility:       0.20,
		Description:      "Concentrated/leveraged positions",
	},
}

// Profiles returns every risk profile, least volatile first
func Profiles() []ProfileInfo {
	out := make([]ProfileInfo, 0, len(domain.RiskProfiles))
	for _, p := range domain.RiskProfiles {
		out = append(out, profileTable[p])
	}
	return out
}

// Assumptions looks up the market parameters for a risk profile
func Assumptions(profile domain.RiskProfile) (domain.ReturnAssumptions, error) {
	info, ok := profileTable[profile]
	if !ok {
		return domain.ReturnAssumptions{}, domain.NewValidationError(
			"return_model", "riskProfile", "ERR_RISKPROFILE",
			fmt.Sprintf("unknown risk profile %q", profile))
	}
	return domain.ReturnAssumptions{
		ArithmeticReturn: info.ArithmeticReturn,
		GeometricReturn:  GeometricReturn(info.ArithmeticReturn, info.Volatility),
		Volatility:       info.Volatility,
		RiskProfile:      profile,
	}, nil
}

// GeometricReturn converts an arithmetic return to its volatility-adjusted compounding rate
func GeometricReturn(arithmetic, volatility float64) float64 {
	return arithmetic - volatility*volatility/2
}

// RequiredCAGR is the deterministic annual growth rate that turns current into target over years
func RequiredCAGR(current, target float64, years int) (float64, error) {
	if current <= 0 || target <= 0 || years <= 0 {
		return 0, &domain.NumericalError{
			Operation: "required_cagr",
			Message:   fmt.Sprintf("undefined for current=%g target=%g years=%d", current, target, years),
		}
	}
	cagr := math.Pow(target/current, 1/float64(years)) - 1
	if math.IsNaN(cagr) || math.IsInf(cagr, 0) {
		return 0, &domain.NumericalError{Operation: "required_cagr", Message: "result is not finite"}
	}
	return cagr, nil
}
