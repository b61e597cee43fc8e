package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KnoooW/spf-wca/internal/config"
	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/hostapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHistory/fakeDecider mirror the policy package's own test doubles; a
// separate copy since package tests don't share unexported helpers across
// package boundaries.
type fakeHistory []decision.Decision

func (h fakeHistory) History() []decision.Decision { return []decision.Decision(h) }

type fakeDecider struct{ restricted []int }

func (d *fakeDecider) Restrict(choices []int) { d.restricted = append([]int(nil), choices...) }

// linearHost has no branches; its single path costs exactly n.
type linearHost struct{}

func (linearHost) Run(inputSize int, obs hostapi.Observer) error {
	obs.OnTerminal(hostapi.TerminalEvent{Cost: inputSize, History: fakeHistory(nil)})
	return nil
}

// branchingHost models a binary branch at site "b" where choice 1 costs
// n^2 and choice 0 costs n. With no restriction it explores both; with a
// restriction it only explores the allowed choices.
type branchingHost struct{}

func (branchingHost) Run(inputSize int, obs hostapi.Observer) error {
	site := decision.BranchInstruction{Site: "b"}
	decider := &fakeDecider{}
	obs.OnBranch(hostapi.BranchEvent{
		BranchID:         site.Site,
		AvailableChoices: []int{0, 1},
		Context:          "frame",
		History:          fakeHistory(nil),
	}, decider)

	choices := decider.restricted
	if len(choices) == 0 {
		choices = []int{0, 1}
	}

	for _, c := range choices {
		cost := inputSize
		if c == 1 {
			cost = inputSize * inputSize
		}
		d := decision.FromBranch(site, c, "frame")
		obs.OnTerminal(hostapi.TerminalEvent{Cost: cost, History: fakeHistory{d}})
	}
	return nil
}

func baseConfig(t *testing.T, maxInput int) *config.Config {
	t.Helper()
	return &config.Config{
		Policy:    config.PolicyConfig{InputSize: 3},
		Input:     config.InputConfig{Max: maxInput},
		OutputDir: t.TempDir(),
	}
}

func TestDriverLinearSeries(t *testing.T) {
	cfg := baseConfig(t, 10)
	report, err := New(nil).Run(cfg, linearHost{})
	require.NoError(t, err)

	require.Len(t, report.Series, 11)
	for n, p := range report.Series {
		assert.Equal(t, n, p.N)
		assert.Equal(t, n, p.WC)
	}
}

func TestDriverBranchingSeriesPrefersHeavyChoice(t *testing.T) {
	cfg := baseConfig(t, 7)
	report, err := New(nil).Run(cfg, branchingHost{})
	require.NoError(t, err)

	require.Len(t, report.Series, 8)
	last := report.Series[len(report.Series)-1]
	assert.Equal(t, 7, last.N)
	assert.Equal(t, 49, last.WC)
}

func TestDriverWritesPolicyFile(t *testing.T) {
	cfg := baseConfig(t, 2)
	report, err := New(nil).Run(cfg, branchingHost{})
	require.NoError(t, err)

	_, err = os.Stat(report.PolicyPath)
	require.NoError(t, err)
	assert.False(t, report.PolicyReuse)
}

func TestDriverReusesExistingPolicy(t *testing.T) {
	cfg := baseConfig(t, 2)
	host := branchingHost{}

	first, err := New(nil).Run(cfg, host)
	require.NoError(t, err)
	assert.False(t, first.PolicyReuse)

	cfg.ReusePolicy = true
	second, err := New(nil).Run(cfg, host)
	require.NoError(t, err)
	assert.True(t, second.PolicyReuse)
	assert.Equal(t, first.Series, second.Series)
}

func TestDriverRendersChart(t *testing.T) {
	cfg := baseConfig(t, 5)
	report, err := New(nil).Run(cfg, linearHost{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.OutputDir, "chart.svg"), report.ChartPath)
	_, err = os.Stat(report.ChartPath)
	require.NoError(t, err)
}

func TestDriverVerboseWritesReports(t *testing.T) {
	cfg := baseConfig(t, 3)
	cfg.Verbose = true
	_, err := New(nil).Run(cfg, linearHost{})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "verbose", "policy_report.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "verbose", "heuristic_report.json"))
	require.NoError(t, err)
}

// failingHost reports a host failure on the second phase-2 invocation, to
// exercise the "abort the pipeline, partial series are not emitted" rule.
type failingHost struct{ calls int }

func (h *failingHost) Run(inputSize int, obs hostapi.Observer) error {
	h.calls++
	if h.calls > 2 {
		return assertError{}
	}
	obs.OnTerminal(hostapi.TerminalEvent{Cost: inputSize, History: fakeHistory(nil)})
	return nil
}

type assertError struct{}

func (assertError) Error() string { return "host exploded" }

func TestDriverAbortsOnHostFailure(t *testing.T) {
	cfg := baseConfig(t, 5)
	_, err := New(nil).Run(cfg, &failingHost{})
	require.Error(t, err)
}
