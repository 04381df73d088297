package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/rgehrsitz/goalcalc/internal/analyzer"
	"github.com/rgehrsitz/goalcalc/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration file
type Config struct {
	Simulation SimulationConfig       `yaml:"simulation"`
	Thresholds domain.ThresholdConfig `yaml:"thresholds"`
	Logging    LoggingConfig          `yaml:"logging"`
	Server     ServerConfig           `yaml:"server"`
}

// SimulationConfig controls the Monte Carlo engine and solver
type SimulationConfig struct {
	Paths             int           `yaml:"paths" default:"15000"`
	SolverPaths       int           `yaml:"solver_paths" default:"5000"`
	SolverIterations  int           `yaml:"solver_iterations" default:"20"`
	Seed              int64         `yaml:"seed" default:"42"`
	Workers           int           `yaml:"workers"`
	BatchConcurrency  int           `yaml:"batch_concurrency" default:"2"`
	TargetProbability float64       `yaml:"target_probability" default:"0.80"`
	Timeout           time.Duration `yaml:"timeout" default:"30s"`
}

// LoggingConfig selects the log level and encoding
type LoggingConfig struct {
	Level  string `yaml:"level" default:"warn"`
	Format string `yaml:"format" default:"console"`
	Output string `yaml:"output" default:"stderr"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Host         string        `yaml:"host" default:"0.0.0.0"`
	Port         int           `yaml:"port" default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"60s"`
	CORSOrigins  []string      `yaml:"cors_origins" default:"[\"*\"]"`
	MaxUpload    int64         `yaml:"max_upload_bytes" default:"5242880"`
}

// InputParser loads application configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// Default returns a configuration with every default applied
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		// Tags are static; failure here is a programming error.
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// LoadFromFile loads configuration from a YAML (or JSON) file on top of the defaults
func (ip *InputParser) LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes configuration data on top of the defaults and validates it
func (ip *InputParser) Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads the file (if any) and applies environment overrides
func (ip *InputParser) LoadWithEnv(filename string) (*Config, error) {
	var c *Config
	var err error
	if filename != "" {
		if c, err = ip.LoadFromFile(filename); err != nil {
			return nil, err
		}
	} else {
		c = Default()
	}

	if v := os.Getenv("GOALCALC_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("GOALCALC_SEED: %w", err)
		}
		c.Simulation.Seed = seed
	}
	if v := os.Getenv("GOALCALC_PATHS"); v != "" {
		paths, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("GOALCALC_PATHS: %w", err)
		}
		c.Simulation.Paths = paths
	}
	if v := os.Getenv("GOALCALC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return c, nil
}

// Validate checks ranges of every section
func (c *Config) Validate() error {
	s := c.Simulation
	if s.Paths < 1 {
		return fmt.Errorf("simulation.paths must be positive, got %d", s.Paths)
	}
	if s.SolverPaths < 1 {
		return fmt.Errorf("simulation.solver_paths must be positive, got %d", s.SolverPaths)
	}
	if s.SolverIterations < 1 || s.SolverIterations > 60 {
		return fmt.Errorf("simulation.solver_iterations must be between 1 and 60, got %d", s.SolverIterations)
	}
	if s.Workers < 0 {
		return fmt.Errorf("simulation.workers cannot be negative")
	}
	if s.BatchConcurrency < 1 {
		return fmt.Errorf("simulation.batch_concurrency must be positive, got %d", s.BatchConcurrency)
	}
	if s.TargetProbability <= 0 || s.TargetProbability > 1 {
		return fmt.Errorf("simulation.target_probability must be in (0, 1], got %g", s.TargetProbability)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("simulation.timeout cannot be negative")
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if c.Thresholds.MaxHorizonYears > 50 {
		return fmt.Errorf("thresholds.max_horizon_years cannot exceed 50, got %d", c.Thresholds.MaxHorizonYears)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// AnalyzerOptions maps the configuration onto analyzer options
func (c *Config) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		Paths:             c.Simulation.Paths,
		SolverPaths:       c.Simulation.SolverPaths,
		SolverIterations:  c.Simulation.SolverIterations,
		Seed:              c.Simulation.Seed,
		TargetProbability: c.Simulation.TargetProbability,
		Timeout:           c.Simulation.Timeout,
		Workers:           c.Simulation.Workers,
		BatchConcurrency:  c.Simulation.BatchConcurrency,
		Thresholds:        c.Thresholds,
	}
}
