package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/rgehrsitz/goalcalc/internal/analyzer"
	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// CSVHeader is the batch output column order
var CSVHeader = []string{
	"client_id",
	"current_wealth",
	"target_wealth",
	"years",
	"monthly_contribution",
	"risk_profile",
	"monthly_income",
	"assumed_return",
	"assumed_volatility",
	"prob_success",
	"percentile_20",
	"percentile_50_median",
	"percentile_80",
	"required_monthly_for_80pct",
	"contribution_gap",
	"prob_success_lump_only",
	"flag_status",
	"flag_reasons",
	"recommendations",
	"error",
}

// CSVFormatter writes one row per analyzed goal.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) FormatResult(result *domain.AnalysisResult) ([]byte, error) {
	return c.write(func(w *csv.Writer) error {
		return w.Write(resultRow(result))
	})
}

func (c CSVFormatter) FormatBatch(batch *analyzer.BatchResult) ([]byte, error) {
	return c.write(func(w *csv.Writer) error {
		for _, it := range batch.Items {
			row := failedRow(it)
			if it.Result != nil {
				row = resultRow(it.Result)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c CSVFormatter) write(body func(*csv.Writer) error) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	if err := body(w); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resultRow(r *domain.AnalysisResult) []string {
	in := r.Input
	income := ""
	if in.MonthlyIncome != nil {
		income = fixed(*in.MonthlyIncome, 2)
	}
	return []string{
		in.ClientID,
		fixed(in.CurrentWealth, 2),
		fixed(in.TargetWealth, 2),
		strconv.Itoa(in.YearsToGoal),
		fixed(in.MonthlyContribution, 2),
		in.RiskProfile.String(),
		income,
		fixed(r.Assumptions.ArithmeticReturn, 4),
		fixed(r.Assumptions.Volatility, 4),
		fixed(r.ProbabilityOfSuccess, 4),
		fixed(r.Projections.Percentile20, 2),
		fixed(r.Projections.Percentile50, 2),
		fixed(r.Projections.Percentile80, 2),
		fixed(r.RequiredMonthlyFor80Percent, 2),
		fixed(r.ContributionGap, 2),
		fixed(r.LumpSumOnly.ProbabilityOfSuccess, 4),
		string(r.Status),
		strings.Join(r.Flags, "; "),
		strings.Join(r.Recommendations, " | "),
		"",
	}
}

func failedRow(it analyzer.BatchItem) []string {
	row := make([]string, len(CSVHeader))
	row[0] = it.ClientID
	row[len(row)-1] = it.Error
	return row
}
