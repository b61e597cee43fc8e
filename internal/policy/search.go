package policy

import (
	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/hostapi"
	"github.com/KnoooW/spf-wca/internal/logging"
	"github.com/KnoooW/spf-wca/internal/path"
)

// Default is the pruning fallback used when the policy has no opinion at a
// branch (an empty recommended set). ExploreAll keeps every available
// choice open — expensive but never wrong. FirstChoice deterministically
// keeps only the first available choice — cheap but can miss the true
// worst path, matching the original's "no-solver fallback" label.
type Default int

const (
	ExploreAll Default = iota
	FirstChoice
)

// Search attaches to the host during a policy-guided heuristic exploration
// at a single input size n. At every branch it consults trie, restricts the
// host's choices to the recommendation (falling back to fallback on a
// miss), and tracks the single heaviest terminal path across the whole
// exploration.
//
// A fresh Search must be constructed per input size; it keeps no state
// that could leak between explorations.
type Search struct {
	trie       *Trie
	maxKeySize int
	fallback   Default
	log        *logging.Logger

	misses int

	bestCost    int
	haveBest    bool
	bestHistory []decision.Decision
}

// NewSearch builds a Search consulting trie, building context-preserving
// histories bounded by maxKeySize, and falling back to fallback on a
// policy miss.
func NewSearch(trie *Trie, maxKeySize int, fallback Default, log *logging.Logger) *Search {
	if log == nil {
		log = logging.Default()
	}
	return &Search{trie: trie, maxKeySize: maxKeySize, fallback: fallback, log: log}
}

var _ hostapi.Observer = (*Search)(nil)

// OnBranch builds the context-preserving history up to this branch, looks
// it up in the policy, and restricts the host's exploration accordingly.
func (s *Search) OnBranch(event hostapi.BranchEvent, decider hostapi.Decider) {
	history := path.FromHistory(event.History.History(), true, s.maxKeySize)
	recommended := s.trie.ChoicesForLongestSuffix(history)

	if len(recommended) > 0 {
		if narrowed := intersect(event.AvailableChoices, recommended); len(narrowed) > 0 {
			decider.Restrict(narrowed)
			return
		}
	}

	s.misses++
	s.log.Debug("policy miss", "branch", event.BranchID)
	switch s.fallback {
	case FirstChoice:
		if len(event.AvailableChoices) > 0 {
			decider.Restrict(event.AvailableChoices[:1])
		}
	case ExploreAll:
		// Leave every choice open: don't call Restrict at all.
	}
}

// OnTerminal tracks the single heaviest path observed across this
// exploration.
func (s *Search) OnTerminal(event hostapi.TerminalEvent) {
	if s.haveBest && event.Cost <= s.bestCost {
		return
	}
	s.bestCost = event.Cost
	s.haveBest = true
	s.bestHistory = append(s.bestHistory[:0:0], event.History.History()...)
}

// WC returns the maximum cost observed (0 if no terminal was ever seen).
func (s *Search) WC() int {
	return s.bestCost
}

// Decisions returns the decision sequence of the heaviest path observed.
func (s *Search) Decisions() []decision.Decision {
	return append([]decision.Decision(nil), s.bestHistory...)
}

// Misses returns how many branches this exploration fell back to the
// configured default on.
func (s *Search) Misses() int {
	return s.misses
}

func intersect(available []int, recommended map[int]struct{}) []int {
	var result []int
	for _, c := range available {
		if _, ok := recommended[c]; ok {
			result = append(result, c)
		}
	}
	return result
}
