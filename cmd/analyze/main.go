// Command analyze runs the two-phase worst-case resource analysis pipeline
// against a single Go source file and function, as configured by a YAML
// file: analyze <configfile>.
package main

import (
	"fmt"
	"os"

	"github.com/KnoooW/spf-wca/internal/config"
	"github.com/KnoooW/spf-wca/internal/driver"
	"github.com/KnoooW/spf-wca/internal/host"
	"github.com/KnoooW/spf-wca/internal/logging"
	"github.com/KnoooW/spf-wca/internal/wcerr"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// target is the config surface this CLI adds beyond the core Config —
// which function, in which file, to symbolically execute. This is bound to
// the concrete host, not the core search strategy, but a runnable binary
// needs it somewhere, and the Driver/host split keeps it out of
// internal/config.
type target struct {
	Source       string `yaml:"source"`
	Function     string `yaml:"function"`
	MaxSteps     int    `yaml:"maxSteps"`
	PathSelector string `yaml:"pathSelector"`
}

var rootCmd = &cobra.Command{
	Use:   "analyze <configfile>",
	Short: "Empirically discover worst-case resource growth for a program under test",
	Args:  cobra.ExactArgs(1),
	Run:   runAnalyze,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) {
	configPath := args[0]

	cfg, tgt, err := loadConfig(configPath)
	if err != nil {
		report(err)
		os.Exit(exitCodeFor(err))
	}

	log := logging.New(logging.Config{Level: verbosity(cfg.Verbose)})

	selector := resolveSelector(tgt.PathSelector)
	maxSteps := tgt.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 1_000_000
	}

	source, err := os.ReadFile(tgt.Source)
	if err != nil {
		report(wcerr.New(wcerr.Configuration, "startup", err))
		os.Exit(wcerr.ExitCode(wcerr.Configuration))
	}

	ssaHost, err := host.NewSSAHost(string(source), tgt.Function, selector, maxSteps, cfg.Heuristic.NoSolver, log)
	if err != nil {
		report(wcerr.New(wcerr.HostFailure, "startup", err))
		os.Exit(wcerr.ExitCode(wcerr.HostFailure))
	}

	r, err := driver.New(log).Run(cfg, ssaHost)
	if err != nil {
		report(err)
		os.Exit(exitCodeFor(err))
	}

	log.Info("analysis complete", "points", len(r.Series), "chart", r.ChartPath, "policyReused", r.PolicyReuse)
	os.Exit(0)
}

// loadConfig reads the core configuration surface and the CLI's own
// target surface from the same YAML document.
func loadConfig(path string) (*config.Config, *target, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	tgt, err := loadTarget(path)
	if err != nil {
		return nil, nil, wcerr.New(wcerr.Configuration, "load", err)
	}
	if tgt.Source == "" || tgt.Function == "" {
		return nil, nil, wcerr.New(wcerr.Configuration, "load", fmt.Errorf("target.source and target.function are required"))
	}
	return cfg, tgt, nil
}

func loadTarget(path string) (*target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Target target `yaml:"target"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Target, nil
}

func resolveSelector(name string) host.PathSelector {
	switch name {
	case "bfs":
		return &host.BfsPathSelector{}
	case "random":
		return &host.RandomPathSelector{}
	case "depth":
		return &host.DepthPathSelector{}
	case "complexity":
		return host.NewComplexityPathSelector(nil)
	default:
		return &host.DfsPathSelector{}
	}
}

func verbosity(verbose bool) logging.Level {
	if verbose {
		return logging.LevelDebug
	}
	return logging.LevelInfo
}

func report(err error) {
	if werr, ok := err.(*wcerr.Error); ok {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", werr)
		return
	}
	fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
}

func exitCodeFor(err error) int {
	if werr, ok := err.(*wcerr.Error); ok {
		return wcerr.ExitCode(werr.Kind)
	}
	return 1
}
