package calculation

import (
	"testing"

	"github.com/rgehrsitz/goalcalc/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateStatus(t *testing.T) {
	th := domain.DefaultThresholds()

	tests := []struct {
		name   string
		in     StatusInputs
		status domain.Status
		flags  []string
	}{
		{
			name:   "on track",
			in:     StatusInputs{ProbabilityOfSuccess: 0.9, RequiredCAGR: 0.05},
			status: domain.StatusGreen,
			flags:  []string{},
		},
		{
			name:   "probability exactly at green threshold",
			in:     StatusInputs{ProbabilityOfSuccess: 0.80, RequiredCAGR: 0.12},
			status: domain.StatusGreen,
			flags:  []string{},
		},
		{
			name:   "probability below green",
			in:     StatusInputs{ProbabilityOfSuccess: 0.6},
			status: domain.StatusYellow,
			flags:  []string{"Success probability 60% below 80% threshold"},
		},
		{
			name:   "probability critically low",
			in:     StatusInputs{ProbabilityOfSuccess: 0.3},
			status: domain.StatusRed,
			flags:  []string{"Success probability 30% critically low"},
		},
		{
			name:   "high savings share",
			in:     StatusInputs{ProbabilityOfSuccess: 0.9, RequiredMonthly: 250, MonthlyIncome: domain.Float(1000)},
			status: domain.StatusYellow,
			flags:  []string{"Required savings 25% of income is high"},
		},
		{
			name:   "savings share exactly at warning",
			in:     StatusInputs{ProbabilityOfSuccess: 0.9, RequiredMonthly: 200, MonthlyIncome: domain.Float(1000)},
			status: domain.StatusGreen,
			flags:  []string{},
		},
		{
			name:   "unsustainable savings share",
			in:     StatusInputs{ProbabilityOfSuccess: 0.9, RequiredMonthly: 400, MonthlyIncome: domain.Float(1000)},
			status: domain.StatusRed,
			flags:  []string{"Required savings 40% of income is unsustainable"},
		},
		{
			name:   "zero income skips savings check",
			in:     StatusInputs{ProbabilityOfSuccess: 0.9, RequiredMonthly: 400, MonthlyIncome: domain.Float(0)},
			status: domain.StatusGreen,
			flags:  []string{},
		},
		{
			name:   "aggressive required return",
			in:     StatusInputs{ProbabilityOfSuccess: 0.9, RequiredCAGR: 0.13},
			status: domain.StatusYellow,
			flags:  []string{"Required return 13% is aggressive"},
		},
		{
			name:   "unrealistic required return",
			in:     StatusInputs{ProbabilityOfSuccess: 0.9, RequiredCAGR: 9.0},
			status: domain.StatusRed,
			flags:  []string{"Required return 900% exceeds realistic expectations"},
		},
		{
			name: "later yellow check never downgrades red",
			in: StatusInputs{
				ProbabilityOfSuccess: 0.3,
				RequiredMonthly:      250,
				MonthlyIncome:        domain.Float(1000),
				RequiredCAGR:         0.13,
			},
			status: domain.StatusRed,
			flags: []string{
				"Success probability 30% critically low",
				"Required savings 25% of income is high",
				"Required return 13% is aggressive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, flags := EvaluateStatus(tt.in, th)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.flags, flags)
		})
	}
}

func TestEvaluateStatusCustomThresholds(t *testing.T) {
	th := domain.DefaultThresholds()
	th.SuccessProbGreen = 0.95

	status, flags := EvaluateStatus(StatusInputs{ProbabilityOfSuccess: 0.9}, th)
	assert.Equal(t, domain.StatusYellow, status)
	assert.Equal(t, []string{"Success probability 90% below 95% threshold"}, flags)
}
