package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a single solve
func (tf *TableFormatter) Format(result *SolveResult) string {
	var sb strings.Builder

	sb.WriteString("REQUIRED CONTRIBUTION SEARCH\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Target Probability:  %.0f%%\n", result.TargetProbability*100))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result)))
	sb.WriteString(fmt.Sprintf("Required Monthly:    $%s\n", tf.formatCurrency(result.MonthlyAmount)))
	sb.WriteString(fmt.Sprintf("Bracket:             $%s - $%s\n", tf.formatCurrency(result.Low), tf.formatCurrency(result.High)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d (%d simulations, %d cached)\n",
		result.Iterations, result.Evaluations, result.CacheHits))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	return sb.String()
}

// FormatMultiTarget generates a comparison table across confidence levels
func (tf *TableFormatter) FormatMultiTarget(result *MultiTargetResult) string {
	var sb strings.Builder

	sb.WriteString("REQUIRED CONTRIBUTION BY CONFIDENCE LEVEL\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Current Monthly:     $%s\n\n", tf.formatCurrency(result.Goal.MonthlyContribution)))

	sb.WriteString(fmt.Sprintf("%-12s %14s %14s %10s\n", "CONFIDENCE", "MONTHLY", "GAP", "ACHIEVED"))
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for _, r := range result.Results {
		gap := decimal.NewFromFloat(r.MonthlyAmount - result.Goal.MonthlyContribution).Round(2)
		sb.WriteString(fmt.Sprintf("%-12s %14s %14s %10s\n",
			fmt.Sprintf("%.0f%%", r.TargetProbability*100),
			tf.formatShort(decimal.NewFromFloat(r.MonthlyAmount)),
			tf.deltaSymbol(gap)+tf.formatShort(gap),
			tf.formatAchieved(r),
		))
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString("  " + rec + "\n")
		}
	}
	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for a single solve
func (jf *JSONFormatter) Format(result *SolveResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiTarget generates JSON output across confidence levels
func (jf *JSONFormatter) FormatMultiTarget(result *MultiTargetResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(result *SolveResult) string {
	if result.AchievedProbability > 0 {
		return "✓ Converged"
	}
	return "⚠ Target not reached within search bound"
}

func (tf *TableFormatter) formatAchieved(result *SolveResult) string {
	if result.AchievedProbability == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", result.AchievedProbability*100)
}

func (tf *TableFormatter) formatCurrency(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(2)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return ""
	}
	return " "
}
