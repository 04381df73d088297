package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rgehrsitz/goalcalc/internal/breakeven"
	"github.com/rgehrsitz/goalcalc/internal/calculation"
	"github.com/rgehrsitz/goalcalc/internal/config"
	"github.com/rgehrsitz/goalcalc/internal/domain"
	"github.com/rgehrsitz/goalcalc/internal/output"
	"github.com/rgehrsitz/goalcalc/internal/server"
	"github.com/spf13/cobra"
)

func formatter(name string) (output.Formatter, error) {
	f := output.GetFormatterByName(name)
	if f == nil {
		return nil, fmt.Errorf("unsupported format %q (available: %v)", name, output.AvailableFormatterNames())
	}
	return f, nil
}

// goalFlags binds the command-line description of a single goal
type goalFlags struct {
	goal    domain.GoalSpec
	profile string
	income  float64
}

func (g *goalFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&g.goal.ClientID, "client-id", "", "Client identifier echoed in the output")
	fl.Float64Var(&g.goal.CurrentWealth, "current", 0, "Starting capital ($)")
	fl.Float64Var(&g.goal.TargetWealth, "target", 0, "Goal amount ($)")
	fl.IntVar(&g.goal.YearsToGoal, "years", 0, "Time horizon in years (1-50)")
	fl.Float64Var(&g.goal.MonthlyContribution, "monthly", 0, "Planned monthly savings ($)")
	fl.StringVar(&g.profile, "profile", string(domain.DefaultRiskProfile), "Risk profile: conservative, moderate, aggressive, very_aggressive")
	fl.Float64Var(&g.income, "income", 0, "Monthly income for the savings-burden check ($)")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("years")
}

func (g *goalFlags) spec(cmd *cobra.Command) domain.GoalSpec {
	goal := g.goal
	goal.RiskProfile = domain.ParseRiskProfile(g.profile)
	if cmd.Flags().Changed("income") {
		goal.MonthlyIncome = domain.Float(g.income)
	}
	return goal
}

func analyzeCmd(a *app) *cobra.Command {
	var (
		gf     goalFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single goal",
		Example: "  goalcalc analyze --current 10000 --target 1000000 --years 30 --monthly 500 --income 8000\n" +
			"  goalcalc analyze --current 100000 --target 200000 --years 10 --profile moderate -f json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter(format)
			if err != nil {
				return err
			}
			result, err := a.analyzer.Analyze(cmd.Context(), gf.spec(cmd))
			if err != nil {
				return err
			}
			data, err := f.FormatResult(result)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	gf.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, json, yaml, csv)")
	return cmd
}

func solveCmd(a *app) *cobra.Command {
	var (
		gf      goalFlags
		targets []float64
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:     "solve",
		Short:   "Find the monthly contribution required at one or more confidence levels",
		Example: "  goalcalc solve --current 50000 --target 500000 --years 20 --monthly 1000 -p 0.5,0.8,0.95",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.analyzer.SolveTargets(cmd.Context(), gf.spec(cmd), targets)
			if err != nil {
				return err
			}
			if asJSON {
				out, err := (&breakeven.JSONFormatter{Pretty: true}).FormatMultiTarget(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), (&breakeven.TableFormatter{}).FormatMultiTarget(result))
			return nil
		},
	}
	gf.bind(cmd)
	cmd.Flags().Float64SliceVarP(&targets, "probability", "p", []float64{breakeven.DefaultTargetProbability}, "Target success probabilities in (0, 1]")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func batchCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "batch <input.csv> [output]",
		Short: "Analyze every goal in a CSV file",
		Long: "Reads client goals from CSV and writes one result row per client.\n\n" +
			"Required columns: " + fmt.Sprint(config.RequiredColumns) + "\n" +
			"Optional columns: " + fmt.Sprint(config.OptionalColumns) + "\n\n" +
			"Without an output path a console summary is printed. The output format\n" +
			"follows the file extension unless --format is given.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer in.Close()

			rows, err := config.ReadGoals(in)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			a.logger.Infof("processing %s: %d rows", args[0], len(rows))
			result := a.analyzer.AnalyzeBatch(cmd.Context(), rows)

			summary, err := output.ConsoleFormatter{}.FormatBatch(result)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				_, err = cmd.OutOrStdout().Write(summary)
				return err
			}

			f := output.FormatForPath(args[1])
			if cmd.Flags().Changed("format") {
				if f, err = formatter(format); err != nil {
					return err
				}
			}
			if err := output.WriteBatch(f, result, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Output written to: %s\n", args[1])
			_, err = cmd.OutOrStdout().Write(summary)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output file format (csv, json, yaml)")
	return cmd
}

func sampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample <path>",
		Short: "Write a sample input CSV (use - for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return config.WriteSampleCSV(cmd.OutOrStdout())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			if err := config.WriteSampleCSV(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample input created: %s\n", args[0])
			return nil
		},
	}
}

func profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List risk profiles and their market assumptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROFILE\tRETURN\tVOLATILITY\tGEOMETRIC\tDESCRIPTION")
			for _, p := range calculation.Profiles() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					p.Name,
					output.FormatPercentage(p.ArithmeticReturn),
					output.FormatPercentage(p.Volatility),
					output.FormatPercentage(calculation.GeometricReturn(p.ArithmeticReturn, p.Volatility)),
					p.Description,
				)
			}
			return w.Flush()
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config.Server
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.analyzer, cfg, a.logger, a.registry)
			fmt.Fprintf(cmd.OutOrStdout(), "goalcalc API listening on http://%s\n", srv.Addr())
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default from config)")
	return cmd
}
