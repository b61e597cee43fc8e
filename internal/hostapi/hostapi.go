// Package hostapi is the narrow capability contract between the
// symbolic-execution host and the two observers (policy generation and
// heuristic search) that drive it. Neither observer imports go/ssa or z3
// directly; they only see BranchEvent and TerminalEvent.
package hostapi

import "github.com/KnoooW/spf-wca/internal/decision"

// HistoryHandle is an opaque reference the host hands back with a
// BranchEvent or TerminalEvent, letting the observer ask for the decision
// sequence leading up to that event without the host exposing its internal
// branching-point chain.
type HistoryHandle interface {
	// History returns the chronological sequence of Decisions made on the
	// way to this event, oldest first.
	History() []decision.Decision
}

// ContextHandle identifies the stack frame a branch or terminal event
// occurred in. It satisfies decision.ContextID and is compared by reference
// identity.
type ContextHandle interface{}

// BranchEvent is dispatched synchronously by the host every time execution
// reaches a branch site with at least one choice still feasible.
type BranchEvent struct {
	BranchID         string
	AvailableChoices []int
	Context          ContextHandle
	History          HistoryHandle
}

// TerminalEvent is dispatched synchronously by the host when a path under
// exploration reaches its end.
type TerminalEvent struct {
	Cost    int
	History HistoryHandle
}

// Observer is the capability interface the host invokes. It is a plain
// pair of methods rather than an inheritance hierarchy, per the host's own
// design notes on callback dispatch.
type Observer interface {
	// OnBranch is called at every branch site. The observer may call
	// Restrict on the returned Decider to prune which of
	// BranchEvent.AvailableChoices the host will actually explore; calling
	// nothing leaves all choices open.
	OnBranch(event BranchEvent, decider Decider)
	// OnTerminal is called once a path completes.
	OnTerminal(event TerminalEvent)
}

// Decider is the host's side of branch pruning, handed to the observer
// alongside each BranchEvent. It is intentionally write-only from the
// observer's perspective: the observer can narrow the exploration, never
// inspect the host's internal worklist.
type Decider interface {
	// Restrict limits the host to exploring only the given choices out of
	// the ones offered in the triggering BranchEvent. Calling Restrict with
	// an empty slice is a caller error — that is what "no opinion" means,
	// expressed instead by not calling Restrict at all.
	Restrict(choices []int)
}

// Host is the exploration engine the Driver invokes once per phase. Run
// drives the program under test from scratch at the given input size,
// dispatching BranchEvent/TerminalEvent to obs until every reachable path
// has been explored (phase 1, exhaustive) or the host's own exploration
// order decides to stop (phase 2, heuristic — bounded by the observer's
// pruning).
type Host interface {
	Run(inputSize int, obs Observer) error
}
