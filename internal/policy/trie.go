// Package policy implements the branch policy: a PolicyTrie learned during
// an exhaustive exploration (PolicyGenerator) and consulted during a
// policy-guided heuristic exploration (HeuristicSearch).
package policy

import (
	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/path"
)

// nodeID indexes into Trie.nodes. The root is always nodeID 0. Nodes are
// arena-allocated rather than linked by pointer so that the trie is a plain
// value with no cycles — parent is an index, not a pointer — which makes
// both serialization and staying a pure value once Builder yields it
// trivial to satisfy.
type nodeID int32

const rootID nodeID = 0

type trieNode struct {
	// choices is non-empty iff this node is a terminal.
	choices map[int]struct{}
	// edges maps a Decision key to the child reached by taking that edge.
	edges map[decision.Key]nodeID
	// parent is the index of this node's parent; rootID has no parent and
	// parent is left at its zero value but never consulted because we only
	// ever walk nodeID != rootID upward.
	parent nodeID
	// label is this node's incoming edge, i.e. the Decision key the parent
	// used to reach it. Undefined for the root.
	label decision.Key
}

// Trie is the immutable, persistable policy: a trie from reverse
// decision-sequences to sets of recommended choices. Construct one with
// Builder.
type Trie struct {
	nodes []trieNode
	// endIndex enumerates, for each Decision key, every terminal node whose
	// incoming edge carries that key — the index that makes
	// ChoicesForLongestSuffix a lookup instead of a tree walk.
	endIndex map[decision.Key][]nodeID
	// emptyKeyEnds holds the (at most one, but modeled as a slice so Put can
	// stay uniform) terminal reached by an empty key — conventionally the
	// root itself.
	emptyKeyEnds []nodeID
	// choiceCounts tallies, over every Builder.Put call, how many times each
	// choice value was inserted — a raw frequency, not a distinct-terminal
	// count.
	choiceCounts map[int]int
}

func newTrie() *Trie {
	return &Trie{
		nodes:        []trieNode{{choices: map[int]struct{}{}, edges: map[decision.Key]nodeID{}}},
		endIndex:     map[decision.Key][]nodeID{},
		emptyKeyEnds: nil,
		choiceCounts: map[int]int{},
	}
}

// CountForChoice returns how many times choice was inserted across every
// Builder.Put call, or 0 if it was never inserted.
func (t *Trie) CountForChoice(choice int) int {
	return t.choiceCounts[choice]
}

// ChoicesForLongestSuffix is the central policy lookup: among every
// terminal whose incoming edge matches history's last decision, find those
// matching the longest contiguous suffix of history (walking upward through
// parents) and return the union of their recommended choices. Returns an
// empty set if history is empty-but-no-empty-key-was-ever-inserted, or if
// no terminal's incoming edge matches history's last decision at all.
func (t *Trie) ChoicesForLongestSuffix(history path.Path) map[int]struct{} {
	var ends []nodeID
	if history.Len() == 0 {
		ends = t.emptyKeyEnds
	} else {
		last, _ := history.Last()
		ends = t.endIndex[last.Key]
	}

	best := -1
	var bestEnds []nodeID
	for _, end := range ends {
		length := t.matchLength(end, history)
		switch {
		case length > best:
			best = length
			bestEnds = []nodeID{end}
		case length == best:
			bestEnds = append(bestEnds, end)
		}
	}

	result := map[int]struct{}{}
	for _, end := range bestEnds {
		for c := range t.nodes[end].choices {
			result[c] = struct{}{}
		}
	}
	return result
}

// matchLength walks upward from end through parent links, pairing each
// ancestor's incoming edge with history's decisions from most to least
// recent, and returns the number of edges that matched before either a
// mismatch or the history ran out. A short history is never a fatal
// error — it simply bounds how far the match can extend.
func (t *Trie) matchLength(end nodeID, history path.Path) int {
	cur := end
	hLen := history.Len()
	length := 0
	for cur != rootID {
		idx := hLen - 1 - length
		if idx < 0 {
			break
		}
		n := &t.nodes[cur]
		if n.label != history.At(idx).Key {
			break
		}
		length++
		cur = n.parent
	}
	return length
}
