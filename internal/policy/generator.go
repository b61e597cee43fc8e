package policy

import (
	"io"

	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/hostapi"
	"github.com/KnoooW/spf-wca/internal/logging"
	"github.com/KnoooW/spf-wca/internal/path"
)

// Generator attaches to the host during the exhaustive phase-1 exploration
// at input size N0. It watches every branch and terminal event, remembers
// the heaviest path seen so far, and on Finish compiles that path's
// decisions into a Trie via context-preserving prefix keys.
//
// Ties on cost are broken in favor of the earliest-discovered heaviest
// path: Generator only overwrites its remembered path on strictly greater
// cost.
type Generator struct {
	log *logging.Logger

	// maxKeySize bounds the context-preserving prefix built for each
	// decision of the heaviest path.
	maxKeySize int

	bestCost    int
	haveBest    bool
	bestHistory []decision.Decision
}

// NewGenerator builds a Generator. maxKeySize <= 0 means unbounded prefixes.
func NewGenerator(log *logging.Logger, maxKeySize int) *Generator {
	if log == nil {
		log = logging.Default()
	}
	return &Generator{log: log, maxKeySize: maxKeySize}
}

var _ hostapi.Observer = (*Generator)(nil)

// OnBranch is a no-op: Generator does not restrict phase-1 exploration,
// which is exhaustive by construction. It only needs the Decision history
// that hostapi.HistoryHandle already accumulates on its own.
func (g *Generator) OnBranch(hostapi.BranchEvent, hostapi.Decider) {}

// OnTerminal records the path if it is strictly heavier than anything seen
// so far.
func (g *Generator) OnTerminal(event hostapi.TerminalEvent) {
	if g.haveBest && event.Cost <= g.bestCost {
		return
	}
	g.bestCost = event.Cost
	g.haveBest = true
	g.bestHistory = append(g.bestHistory[:0:0], event.History.History()...)
	g.log.Debug("new heaviest path", "cost", event.Cost, "length", len(g.bestHistory))
}

// Finish compiles the heaviest path's decisions into a Trie and serializes
// it to w. Returns the built Trie so the Driver can also use it in-process
// without a round trip through disk, if it wants to.
func (g *Generator) Finish(w io.Writer) (*Trie, error) {
	full := path.Of(g.bestHistory...)
	builder := NewBuilder()

	for i := 0; i < full.Len(); i++ {
		key := full.CtxPreservingSuffixBefore(i, g.maxKeySize)
		builder.Put(key, full.At(i).ChoiceIndex)
	}

	trie := builder.Build()
	if w != nil {
		if err := Serialize(trie, w); err != nil {
			return nil, err
		}
	}
	g.log.Info("policy generation complete", "decisions", full.Len(), "cost", g.bestCost)
	return trie, nil
}
