package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// RequiredColumns must all be present in a batch input header
var RequiredColumns = []string{
	"client_id",
	"current_wealth",
	"target_wealth",
	"years",
	"monthly_contribution",
}

// OptionalColumns may be omitted; risk_profile then defaults to aggressive
var OptionalColumns = []string{"risk_profile", "monthly_income"}

// ReadGoals parses a batch CSV. A missing required column fails the whole
// file; a bad value fails only its row, reported through GoalRow.Err.
func ReadGoals(r io.Reader) ([]domain.GoalRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []domain.GoalRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				rows = append(rows, domain.GoalRow{Line: pe.StartLine, Err: domain.NewValidationError(
					"read_goals", "row", "ERR_CSV", pe.Error())})
				continue
			}
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if blank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		goal, err := parseGoal(record, index)
		rows = append(rows, domain.GoalRow{Line: line, Goal: goal, Err: err})
	}
	return rows, nil
}

func parseGoal(record []string, index map[string]int) (domain.GoalSpec, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	goal := domain.GoalSpec{
		ClientID:    field("client_id"),
		RiskProfile: domain.ParseRiskProfile(field("risk_profile")),
	}
	verr := &domain.ValidationError{Operation: "read_goals"}
	bad := func(col, raw string) {
		verr.Fields = append(verr.Fields, domain.FieldError{
			Field:   col,
			Code:    "ERR_NUMBER",
			Message: fmt.Sprintf("%s: %q is not a number", col, raw),
		})
	}

	var ok bool
	if goal.CurrentWealth, ok = parseFloat(field("current_wealth")); !ok {
		bad("current_wealth", field("current_wealth"))
	}
	if goal.TargetWealth, ok = parseFloat(field("target_wealth")); !ok {
		bad("target_wealth", field("target_wealth"))
	}
	if goal.YearsToGoal, ok = parseYears(field("years")); !ok {
		bad("years", field("years"))
	}
	if goal.MonthlyContribution, ok = parseFloat(field("monthly_contribution")); !ok {
		bad("monthly_contribution", field("monthly_contribution"))
	}
	if raw := field("monthly_income"); raw != "" && !strings.EqualFold(raw, "nan") {
		income, ok := parseFloat(raw)
		if !ok {
			bad("monthly_income", raw)
		} else {
			goal.MonthlyIncome = domain.Float(income)
		}
	}

	if len(verr.Fields) > 0 {
		return goal, verr
	}
	return goal, nil
}

func parseFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseYears accepts integers and integral floats such as "10.0"
func parseYears(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	v, ok := parseFloat(s)
	if !ok || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// SampleGoals returns the demonstration client set written by WriteSampleCSV
func SampleGoals() []domain.GoalSpec {
	return []domain.GoalSpec{
		{ClientID: "CLIENT_001", CurrentWealth: 10000, TargetWealth: 1000000, YearsToGoal: 30, MonthlyContribution: 500, RiskProfile: domain.RiskAggressive, MonthlyIncome: domain.Float(8000)},
		{ClientID: "CLIENT_002", CurrentWealth: 50000, TargetWealth: 500000, YearsToGoal: 20, MonthlyContribution: 1000, RiskProfile: domain.RiskModerate, MonthlyIncome: domain.Float(10000)},
		{ClientID: "CLIENT_003", CurrentWealth: 100000, TargetWealth: 2000000, YearsToGoal: 25, MonthlyContribution: 2000, RiskProfile: domain.RiskAggressive, MonthlyIncome: domain.Float(15000)},
		{ClientID: "CLIENT_004", CurrentWealth: 5000, TargetWealth: 100000, YearsToGoal: 10, MonthlyContribution: 200, RiskProfile: domain.RiskConservative, MonthlyIncome: domain.Float(4000)},
		{ClientID: "CLIENT_005", CurrentWealth: 250000, TargetWealth: 1000000, YearsToGoal: 15, MonthlyContribution: 3000, RiskProfile: domain.RiskModerate, MonthlyIncome: domain.Float(20000)},
	}
}

// WriteSampleCSV writes SampleGoals in the batch input format
func WriteSampleCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	header := append(append([]string{}, RequiredColumns...), OptionalColumns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, g := range SampleGoals() {
		record := []string{
			g.ClientID,
			strconv.FormatFloat(g.CurrentWealth, 'f', -1, 64),
			strconv.FormatFloat(g.TargetWealth, 'f', -1, 64),
			strconv.Itoa(g.YearsToGoal),
			strconv.FormatFloat(g.MonthlyContribution, 'f', -1, 64),
			g.RiskProfile.String(),
			strconv.FormatFloat(g.Income(), 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %s: %w", g.ClientID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
