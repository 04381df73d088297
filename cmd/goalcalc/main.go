package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rgehrsitz/goalcalc/internal/analyzer"
	"github.com/rgehrsitz/goalcalc/internal/config"
	"github.com/rgehrsitz/goalcalc/internal/logger"
	"github.com/rgehrsitz/goalcalc/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries state shared by subcommands, built in PersistentPreRunE
type app struct {
	configPath string
	seed       int64
	paths      int
	logLevel   string
	debug      bool

	config   *config.Config
	logger   *logger.Logger
	registry *prometheus.Registry
	analyzer *analyzer.Analyzer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "goalcalc",
		Short: "Financial goal feasibility analyzer",
		Long: "Estimates the probability of reaching a wealth target with monthly contributions,\n" +
			"the contribution required for 80% confidence, and a GREEN/YELLOW/RED status.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger == nil {
				return nil
			}
			return a.logger.Close()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to YAML configuration file")
	pf.Int64Var(&a.seed, "seed", 42, "Random seed for reproducibility")
	pf.IntVar(&a.paths, "paths", 0, "Monte Carlo paths for reported projections (default from config)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&a.debug, "debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(analyzeCmd(a))
	rootCmd.AddCommand(solveCmd(a))
	rootCmd.AddCommand(batchCmd(a))
	rootCmd.AddCommand(sampleCmd())
	rootCmd.AddCommand(profilesCmd())
	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.NewInputParser().LoadWithEnv(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Simulation.Seed = a.seed
	}
	if flags.Changed("paths") {
		if a.paths < 1 {
			return fmt.Errorf("--paths must be positive, got %d", a.paths)
		}
		cfg.Simulation.Paths = a.paths
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.debug {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return err
	}

	a.config = cfg
	a.logger = log
	a.registry = prometheus.NewRegistry()
	a.analyzer = analyzer.New(cfg.AnalyzerOptions())
	a.analyzer.SetLogger(log)
	a.analyzer.Metrics = metrics.New(a.registry)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goalcalc %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "go %s\n", bi.GoVersion)
			}
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
