package policy

import (
	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/hostapi"
)

// fakeHistory is a minimal hostapi.HistoryHandle backed by a plain slice,
// used only by this package's tests.
type fakeHistory []decision.Decision

func (h fakeHistory) History() []decision.Decision { return []decision.Decision(h) }

// fakeDecider records whichever Restrict call, if any, a test's Observer
// makes.
type fakeDecider struct {
	restricted []int
	called     bool
}

func (d *fakeDecider) Restrict(choices []int) {
	d.called = true
	d.restricted = append([]int(nil), choices...)
}

var _ hostapi.HistoryHandle = fakeHistory(nil)
var _ hostapi.Decider = (*fakeDecider)(nil)
