// Package driver orchestrates the two-phase worst-case search: run policy
// generation once at N0, then run policy-guided heuristic search for every
// n in [0, Nmax], assemble the resulting series, and hand it to the
// fitting/chart collaborators.
package driver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KnoooW/spf-wca/internal/chart"
	"github.com/KnoooW/spf-wca/internal/config"
	"github.com/KnoooW/spf-wca/internal/fitting"
	"github.com/KnoooW/spf-wca/internal/hostapi"
	"github.com/KnoooW/spf-wca/internal/logging"
	"github.com/KnoooW/spf-wca/internal/policy"
	"github.com/KnoooW/spf-wca/internal/wcerr"
)

// policyFileName is the file phase 1 writes and phase 2 reads, rooted at
// <outputDir>/serialized, its default location.
const policyFileName = "policy.bin"

// Point is one (n, WC(n)) sample of the series Driver assembles.
type Point struct {
	N  int
	WC int
}

// Report is everything Driver produces: the raw series, the fitted
// projection curves, where the chart was written, and bookkeeping useful
// for the verbose side-channel reports.
type Report struct {
	Series      []Point
	Curves      []fitting.Curve
	ChartPath   string
	PolicyPath  string
	Horizon     int
	PolicyReuse bool
	Misses      int
}

// Driver ties configuration, the host and the policy package together.
type Driver struct {
	log *logging.Logger
}

func New(log *logging.Logger) *Driver {
	if log == nil {
		log = logging.Default()
	}
	return &Driver{log: log}
}

// Run executes the full pipeline against host, per cfg. Failure in any
// per-n exploration aborts the pipeline; partial series are never returned.
func (d *Driver) Run(cfg *config.Config, host hostapi.Host) (*Report, error) {
	policyPath := filepath.Join(cfg.OutputDir, "serialized", policyFileName)

	trie, reused, err := d.loadOrGeneratePolicy(cfg, host, policyPath)
	if err != nil {
		return nil, err
	}

	series, misses, err := d.runHeuristicSweep(cfg, host, trie)
	if err != nil {
		return nil, err
	}

	if cfg.Verbose {
		if err := d.writeVerboseReports(cfg, trie, series); err != nil {
			d.log.Warn("failed to write verbose reports", "error", err)
		}
	}

	report := &Report{
		Series:      series,
		PolicyPath:  policyPath,
		PolicyReuse: reused,
		Misses:      misses,
	}

	if len(series) == 0 {
		d.log.Warn("phase 2 produced an empty series; fitting skipped", "kind", wcerr.EmptySeries.String())
		report.ChartPath, err = d.renderChart(cfg, nil, nil)
		return report, err
	}

	points := toFittingPoints(series)
	report.Horizon = cfg.PredictionHorizon(len(series))
	report.Curves = fitting.FitAll(points, report.Horizon)

	report.ChartPath, err = d.renderChart(cfg, points, report.Curves)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (d *Driver) loadOrGeneratePolicy(cfg *config.Config, host hostapi.Host, policyPath string) (*policy.Trie, bool, error) {
	if cfg.ReusePolicy {
		if f, err := os.Open(policyPath); err == nil {
			defer f.Close()
			trie, err := policy.Deserialize(f)
			if err != nil {
				return nil, false, wcerr.New(wcerr.PolicyIO, "reuse", err)
			}
			d.log.Info("reusing existing policy", "path", policyPath)
			return trie, true, nil
		}
	}

	d.log.Info("generating policy", "inputSize", cfg.Policy.InputSize)
	generator := policy.NewGenerator(d.log, cfg.Policy.MaxKeySize)

	if err := host.Run(cfg.Policy.InputSize, generator); err != nil {
		return nil, false, wcerr.New(wcerr.HostFailure, "policy-generation", err)
	}

	if err := os.MkdirAll(filepath.Dir(policyPath), 0o755); err != nil {
		return nil, false, wcerr.New(wcerr.PolicyIO, "policy-generation", err)
	}
	f, err := os.Create(policyPath)
	if err != nil {
		return nil, false, wcerr.New(wcerr.PolicyIO, "policy-generation", err)
	}
	defer f.Close()

	trie, err := generator.Finish(f)
	if err != nil {
		return nil, false, wcerr.New(wcerr.PolicyIO, "policy-generation", err)
	}
	return trie, false, nil
}

func (d *Driver) runHeuristicSweep(cfg *config.Config, host hostapi.Host, trie *policy.Trie) ([]Point, int, error) {
	fallback := policy.ExploreAll
	if cfg.Heuristic.Fallback == "firstChoice" {
		fallback = policy.FirstChoice
	}

	series := make([]Point, 0, cfg.Input.Max+1)
	totalMisses := 0

	for n := 0; n <= cfg.Input.Max; n++ {
		d.log.Info("exploring with heuristic input size", "n", n)
		search := policy.NewSearch(trie, cfg.Policy.MaxKeySize, fallback, d.log)

		if err := host.Run(n, search); err != nil {
			return nil, 0, wcerr.New(wcerr.HostFailure, fmt.Sprintf("heuristic-search n=%d", n), err)
		}

		series = append(series, Point{N: n, WC: search.WC()})
		totalMisses += search.Misses()
	}
	return series, totalMisses, nil
}

func (d *Driver) renderChart(cfg *config.Config, points []fitting.Point, curves []fitting.Curve) (string, error) {
	chartPath := filepath.Join(cfg.OutputDir, "chart.svg")
	budget := chart.Budget{
		MaxInputSize: cfg.Req.MaxInputSize,
		MaxRes:       cfg.Req.MaxRes,
	}
	if err := chart.Render(chartPath, points, curves, budget); err != nil {
		return "", wcerr.New(wcerr.PolicyIO, "chart", err)
	}
	return chartPath, nil
}

// writeVerboseReports writes a reduced per-phase JSON summary for each
// phase, rather than a full directory tree of visualizations.
func (d *Driver) writeVerboseReports(cfg *config.Config, trie *policy.Trie, series []Point) error {
	dir := filepath.Join(cfg.OutputDir, "verbose")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	policyReport := struct {
		InputSize int `json:"inputSize"`
	}{InputSize: cfg.Policy.InputSize}
	if err := writeJSON(filepath.Join(dir, "policy_report.json"), policyReport); err != nil {
		return err
	}

	heuristicReport := struct {
		Series []Point `json:"series"`
		Max    int     `json:"maxInputSize"`
	}{Series: series, Max: cfg.Input.Max}
	if err := writeJSON(filepath.Join(dir, "heuristic_report.json"), heuristicReport); err != nil {
		return err
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toFittingPoints(series []Point) []fitting.Point {
	points := make([]fitting.Point, len(series))
	for i, p := range series {
		points[i] = fitting.Point{X: float64(p.N), Y: float64(p.WC)}
	}
	return points
}

