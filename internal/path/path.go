// Package path implements Path: an ordered, immutable sequence of Decisions
// forming a (possibly context-restricted) local execution history.
package path

import (
	"strings"

	"github.com/KnoooW/spf-wca/internal/decision"
)

// Path is a finite, ordered sequence d0, d1, ..., d(k-1), indexed from 0
// (oldest) to k-1 (most recent). A Path is immutable once constructed — the
// PolicyTrie relies on this to use Paths as stable keys.
type Path struct {
	decisions []decision.Decision
}

// Of builds a Path from decisions in chronological order (oldest first).
func Of(decisions ...decision.Decision) Path {
	cp := make([]decision.Decision, len(decisions))
	copy(cp, decisions)
	return Path{decisions: cp}
}

// Len returns the number of decisions in the path.
func (p Path) Len() int {
	return len(p.decisions)
}

// At returns the i-th decision, 0 being the oldest.
func (p Path) At(i int) decision.Decision {
	return p.decisions[i]
}

// Last returns the most recently made decision, if any.
func (p Path) Last() (decision.Decision, bool) {
	if len(p.decisions) == 0 {
		return decision.Decision{}, false
	}
	return p.decisions[len(p.decisions)-1], true
}

func (p Path) String() string {
	parts := make([]string, len(p.decisions))
	for i, d := range p.decisions {
		parts[i] = d.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FromHistory builds a Path out of the full chronological decision history
// leading up to (but not including) the current branch, keeping only the
// most recent maxSize decisions (maxSize <= 0 means unbounded).
//
// When ctxPreserving is true, traversal walks backward from the end of
// history and stops at the first decision made in a different activation
// than the most recent one. If history is empty, the anchor context is
// irrelevant and an empty Path is returned.
func FromHistory(history []decision.Decision, ctxPreserving bool, maxSize int) Path {
	if len(history) == 0 {
		return Path{}
	}

	anchor := history[len(history)-1]
	var kept []decision.Decision
	for i := len(history) - 1; i >= 0; i-- {
		if maxSize > 0 && len(kept) >= maxSize {
			break
		}
		d := history[i]
		if ctxPreserving && !d.SameContext(anchor) {
			break
		}
		kept = append(kept, d)
	}
	reverse(kept)
	return Path{decisions: kept}
}

// CtxPreservingSuffixBefore returns the longest contiguous sub-sequence of p
// ending at fromIdx-1 whose decisions all share p.At(fromIdx)'s context, up
// to maxSize decisions. PolicyGenerator uses this to build a key that
// precedes a decision on the heaviest path.
func (p Path) CtxPreservingSuffixBefore(fromIdx, maxSize int) Path {
	if fromIdx <= 0 || fromIdx >= len(p.decisions) {
		return Path{}
	}
	anchor := p.decisions[fromIdx]
	var kept []decision.Decision
	for i := fromIdx - 1; i >= 0; i-- {
		if maxSize > 0 && len(kept) >= maxSize {
			break
		}
		d := p.decisions[i]
		if !d.SameContext(anchor) {
			break
		}
		kept = append(kept, d)
	}
	reverse(kept)
	return Path{decisions: kept}
}

func reverse(ds []decision.Decision) {
	for i, j := 0, len(ds)-1; i < j; i, j = i+1, j-1 {
		ds[i], ds[j] = ds[j], ds[i]
	}
}
