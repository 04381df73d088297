package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rgehrsitz/goalcalc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 15000, c.Simulation.Paths)
	assert.Equal(t, 5000, c.Simulation.SolverPaths)
	assert.Equal(t, 20, c.Simulation.SolverIterations)
	assert.Equal(t, int64(42), c.Simulation.Seed)
	assert.Equal(t, 0.80, c.Simulation.TargetProbability)
	assert.Equal(t, 30*time.Second, c.Simulation.Timeout)
	assert.Equal(t, domain.DefaultThresholds(), c.Thresholds)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, []string{"*"}, c.Server.CORSOrigins)
	require.NoError(t, c.Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
simulation:
  paths: 2000
  seed: 7
  timeout: 5s
thresholds:
  success_prob_green: 0.9
logging:
  format: json
`)
	c, err := NewInputParser().Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 2000, c.Simulation.Paths)
	assert.Equal(t, int64(7), c.Simulation.Seed)
	assert.Equal(t, 5*time.Second, c.Simulation.Timeout)
	assert.Equal(t, 0.9, c.Thresholds.SuccessProbGreen)
	// untouched fields keep defaults
	assert.Equal(t, 5000, c.Simulation.SolverPaths)
	assert.Equal(t, 0.50, c.Thresholds.SuccessProbYellow)
	assert.Equal(t, "json", c.Logging.Format)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative paths", "simulation:\n  paths: -1\n", "simulation.paths"},
		{"target probability", "simulation:\n  target_probability: 1.5\n", "target_probability"},
		{"log format", "logging:\n  format: xml\n", "logging.format"},
		{"port", "server:\n  port: 70000\n", "server.port"},
		{"malformed", "simulation: [", "failed to parse YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goalcalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  workers: 3\n"), 0o644))

	c, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Simulation.Workers)

	_, err = NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("GOALCALC_SEED", "99")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("PORT", "9090")

	c, err := NewInputParser().LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, int64(99), c.Simulation.Seed)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, c.Server.CORSOrigins)
	assert.Equal(t, 9090, c.Server.Port)

	t.Setenv("GOALCALC_PATHS", "many")
	_, err = NewInputParser().LoadWithEnv("")
	assert.ErrorContains(t, err, "GOALCALC_PATHS")
}

func TestAnalyzerOptions(t *testing.T) {
	c := Default()
	c.Simulation.Paths = 1234
	opts := c.AnalyzerOptions()

	assert.Equal(t, 1234, opts.Paths)
	assert.Equal(t, c.Simulation.Timeout, opts.Timeout)
	assert.Equal(t, c.Thresholds, opts.Thresholds)
}

func TestReadGoals(t *testing.T) {
	input := `client_id,current_wealth,target_wealth,years,monthly_contribution,risk_profile,monthly_income
A1,100000,500000,20,1000,Moderate,8000
A2,50000,250000,10.0,500,,
A3,abc,250000,10,500,aggressive,
`
	rows, err := ReadGoals(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	require.NoError(t, first.Err)
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "A1", first.Goal.ClientID)
	assert.Equal(t, domain.RiskModerate, first.Goal.RiskProfile)
	assert.Equal(t, 240, first.Goal.Months())
	require.NotNil(t, first.Goal.MonthlyIncome)
	assert.Equal(t, 8000.0, *first.Goal.MonthlyIncome)

	second := rows[1]
	require.NoError(t, second.Err)
	assert.Equal(t, 10, second.Goal.YearsToGoal)
	assert.Equal(t, domain.DefaultRiskProfile, second.Goal.RiskProfile)
	assert.Nil(t, second.Goal.MonthlyIncome)

	third := rows[2]
	require.Error(t, third.Err)
	assert.Equal(t, 4, third.Line)
	assert.Equal(t, "validation", domain.ErrorKind(third.Err))
	assert.Contains(t, third.Err.Error(), "current_wealth")
}

func TestReadGoalsOptionalColumnsAbsent(t *testing.T) {
	input := "client_id,current_wealth,target_wealth,years,monthly_contribution\nX,1,2,3,4\n"
	rows, err := ReadGoals(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.RiskAggressive, rows[0].Goal.RiskProfile)
	assert.False(t, rows[0].Goal.HasIncome())
}

func TestReadGoalsMissingColumns(t *testing.T) {
	_, err := ReadGoals(strings.NewReader("client_id,current_wealth\nX,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_wealth")
	assert.Contains(t, err.Error(), "monthly_contribution")

	_, err = ReadGoals(strings.NewReader(""))
	assert.Error(t, err)
}

func TestSampleRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSampleCSV(&buf))

	rows, err := ReadGoals(&buf)
	require.NoError(t, err)
	require.Len(t, rows, len(SampleGoals()))
	for i, row := range rows {
		require.NoError(t, row.Err)
		assert.Equal(t, SampleGoals()[i], row.Goal)
	}
}
