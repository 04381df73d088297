package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/goalcalc/internal/analyzer"
	"github.com/rgehrsitz/goalcalc/internal/domain"
)

var (
	ColorSuccess = lipgloss.Color("#22C55E")
	ColorWarning = lipgloss.Color("#EAB308")
	ColorDanger  = lipgloss.Color("#EF4444")
	ColorMuted   = lipgloss.Color("#6B7280")

	TitleStyle = lipgloss.NewStyle().Bold(true)
	LabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorDanger)
)

// StatusStyle colors a status badge
func StatusStyle(s domain.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch s {
	case domain.StatusGreen:
		return base.Foreground(ColorSuccess)
	case domain.StatusYellow:
		return base.Foreground(ColorWarning)
	default:
		return base.Foreground(ColorDanger)
	}
}

// ConsoleFormatter renders a human-readable report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) FormatResult(r *domain.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	writeResult(&buf, r)
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) FormatBatch(batch *analyzer.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, TitleStyle.Render("PROCESSING COMPLETE"))
	fmt.Fprintln(&buf, rule)

	s := batch.Summary
	fmt.Fprintf(&buf, "  Total records:    %d\n", s.Total)
	fmt.Fprintf(&buf, "  %s %d\n", StatusStyle(domain.StatusGreen).Render("GREEN (on track):"), s.Green)
	fmt.Fprintf(&buf, "  %s %d\n", StatusStyle(domain.StatusYellow).Render("YELLOW (warning):"), s.Yellow)
	fmt.Fprintf(&buf, "  %s   %d\n", StatusStyle(domain.StatusRed).Render("RED (critical):"), s.Red)
	fmt.Fprintf(&buf, "  Failed:           %d\n", s.Failed)
	fmt.Fprintf(&buf, "  Avg success prob: %s\n", FormatPercentage(s.AverageProbability))
	fmt.Fprintf(&buf, "  Processed at:     %s\n", s.ProcessedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintln(&buf)

	for _, it := range batch.Items {
		if it.Result == nil {
			fmt.Fprintf(&buf, "%-12s line %d  %s\n", it.ClientID, it.Line, ErrorStyle.Render("ERROR: "+it.Error))
			continue
		}
		r := it.Result
		fmt.Fprintf(&buf, "%-12s %s  p=%s  need %s/mo\n",
			it.ClientID,
			StatusStyle(r.Status).Render(fmt.Sprintf("%-6s", r.Status)),
			FormatPercentage(r.ProbabilityOfSuccess),
			FormatCurrency(r.RequiredMonthlyFor80Percent),
		)
		for _, f := range r.Flags {
			fmt.Fprintf(&buf, "    - %s\n", f)
		}
	}
	return buf.Bytes(), nil
}

func writeResult(buf *bytes.Buffer, r *domain.AnalysisResult) {
	in := r.Input
	title := "GOAL FEASIBILITY ANALYSIS"
	if in.ClientID != "" {
		title += ": " + in.ClientID
	}
	fmt.Fprintln(buf, TitleStyle.Render(title))
	fmt.Fprintln(buf, strings.Repeat("=", 60))

	line := func(label, value string) {
		fmt.Fprintf(buf, "%s %s\n", LabelStyle.Render(fmt.Sprintf("%-30s", label+":")), value)
	}
	line("Current wealth", FormatCurrency(in.CurrentWealth))
	line("Target wealth", FormatCurrency(in.TargetWealth))
	line("Horizon", fmt.Sprintf("%d years", in.YearsToGoal))
	line("Monthly contribution", FormatCurrency(in.MonthlyContribution))
	line("Risk profile", fmt.Sprintf("%s (%s return, %s volatility)",
		in.RiskProfile, FormatPercentage(r.Assumptions.ArithmeticReturn), FormatPercentage(r.Assumptions.Volatility)))
	fmt.Fprintln(buf)

	line("Status", StatusStyle(r.Status).Render(string(r.Status)))
	line("Probability of success", FormatPercentage(r.ProbabilityOfSuccess))
	line("Lump sum only", FormatPercentage(r.LumpSumOnly.ProbabilityOfSuccess))
	line("Required monthly (80%)", FormatCurrency(r.RequiredMonthlyFor80Percent))
	line("Contribution gap", FormatCurrency(r.ContributionGap))
	line("Required annual return", FormatPercentage(r.RequiredAnnualReturn))
	fmt.Fprintln(buf)

	line("20th percentile", FormatCurrency(r.Projections.Percentile20))
	line("Median", FormatCurrency(r.Projections.Percentile50))
	line("80th percentile", FormatCurrency(r.Projections.Percentile80))
	line("Sustainable income (3%/4%)", FormatCurrency(r.SustainableIncome.Conservative)+" / "+FormatCurrency(r.SustainableIncome.Moderate))

	if len(r.Flags) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, TitleStyle.Render("Flags"))
		for _, f := range r.Flags {
			fmt.Fprintf(buf, "  - %s\n", f)
		}
	}
	if len(r.Recommendations) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, TitleStyle.Render("Recommendations"))
		for _, rec := range r.Recommendations {
			fmt.Fprintf(buf, "  * %s\n", rec)
		}
	}
}
