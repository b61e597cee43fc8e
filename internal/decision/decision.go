// Package decision defines the identity of a single branch choice: the
// atomic unit that Paths are built from and that the PolicyTrie is keyed by.
package decision

import "fmt"

// ContextID identifies the enclosing procedure activation (stack frame) a
// Decision was made in. It is an opaque handle supplied by the host and
// compared by reference identity — two activations are equal only when they
// denote the same frame. A nil ContextID is a valid "no context" value.
type ContextID interface{}

// Key is the part of a Decision that participates in trie keying: value
// equality and hashing over the branch site and the chosen edge only. It is
// deliberately a separate, comparable type so that map[Key]... and
// map[Key][]T give "equality ignores context" semantics without a custom
// Equal/Hash pair.
type Key struct {
	BranchID    string
	ChoiceIndex int
}

func (k Key) String() string {
	return fmt.Sprintf("%s#%d", k.BranchID, k.ChoiceIndex)
}

// Decision is the triple (branchId, choiceIndex, contextId): one concrete
// choice taken at one branch site, in one procedure activation. Key carries
// the branchId/choiceIndex pair used for equality; Context is
// metadata used only by context-preserving history extraction.
type Decision struct {
	Key
	Context ContextID
}

// New builds a Decision from a branch site identifier, the taken edge index
// and the enclosing activation.
func New(branchID string, choiceIndex int, ctx ContextID) Decision {
	return Decision{Key: Key{BranchID: branchID, ChoiceIndex: choiceIndex}, Context: ctx}
}

// SameContext reports whether d and other were made in the same procedure
// activation. Contexts are compared by reference identity (Go's == over the
// interface value): two activations compare equal only when they denote the
// same frame.
func (d Decision) SameContext(other Decision) bool {
	return d.Context == other.Context
}

func (d Decision) String() string {
	return fmt.Sprintf("%s@%v", d.Key, d.Context)
}

// BranchInstruction identifies a branch site — a conditional instruction —
// independent of which edge was taken or which activation reached it. The
// host constructs one per branch it can offer choices at.
type BranchInstruction struct {
	Site string
}

func (b BranchInstruction) String() string {
	return b.Site
}

// FromBranch builds the Decision recording that choiceIndex was taken at
// instr while running in ctx.
func FromBranch(instr BranchInstruction, choiceIndex int, ctx ContextID) Decision {
	return New(instr.Site, choiceIndex, ctx)
}
